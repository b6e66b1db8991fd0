package database

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (kind, status, date, address, client_id, table_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	InsertOrderLineSQL = `
		INSERT INTO order_products (order_id, product_id, count)
		VALUES ($1, $2, $3)
		RETURNING id`

	GetOrderSQL = `
		SELECT id, kind, status, date, address, client_id, table_id, courier_id, created_at
		FROM orders WHERE id = $1`

	GetOrderLinesSQL = `
		SELECT op.id, op.order_id, op.product_id, p.name, p.price, op.count
		FROM order_products op
		JOIN products p ON p.id = op.product_id
		WHERE op.order_id = ANY($1)
		ORDER BY op.id`

	UpdateOrderStatusSQL = `
		UPDATE orders SET status = $1 WHERE id = $2`

	GetUserBookingSQL = `
		SELECT id, kind, status, date, address, client_id, table_id, courier_id, created_at
		FROM orders
		WHERE kind = 'booking' AND status <> 'Cancelled' AND client_id = $1 AND date >= $2
		ORDER BY date
		LIMIT 1`

	GetAllBookingsSQL = `
		SELECT id, kind, status, date, address, client_id, table_id, courier_id, created_at
		FROM orders
		WHERE kind = 'booking'
		ORDER BY date DESC`

	GetDeliveryOrdersSQL = `
		SELECT id, kind, status, date, address, client_id, table_id, courier_id, created_at
		FROM orders
		WHERE kind = 'order' AND status = 'HandedToDelivery' AND courier_id IS NOT NULL
		ORDER BY date DESC`

	GetUnassignedDeliveryOrdersSQL = `
		SELECT id, kind, status, date, address, client_id, table_id, courier_id, created_at
		FROM orders
		WHERE kind = 'order' AND address IS NOT NULL AND courier_id IS NULL AND status <> 'Cancelled'
		ORDER BY date DESC`

	CountTableBookingsSQL = `
		SELECT COUNT(*)
		FROM orders
		WHERE kind = 'booking' AND status <> 'Cancelled' AND table_id = $1 AND date::date = $2::date`

	HasClientBookingSQL = `
		SELECT EXISTS(
			SELECT 1 FROM orders
			WHERE kind = 'booking' AND status <> 'Cancelled' AND client_id = $1 AND date >= $2
		)`

	SalesByProductSQL = `
		SELECT p.id, p.name, p.price::text, SUM(op.count) AS quantity
		FROM order_products op
		JOIN orders o ON o.id = op.order_id
		JOIN products p ON p.id = op.product_id
		WHERE o.date::date BETWEEN $1::date AND $2::date
		GROUP BY p.id, p.name, p.price
		ORDER BY quantity DESC`
)

// Table queries
const (
	GetTablesSQL = `
		SELECT id, client_id, waiter_id FROM tables ORDER BY id`

	GetTableSQL = `
		SELECT id, client_id, waiter_id FROM tables WHERE id = $1`

	LockTableSQL = `
		SELECT id, client_id, waiter_id FROM tables WHERE id = $1 FOR UPDATE`

	SetTableClientSQL = `
		UPDATE tables SET client_id = $1 WHERE id = $2`

	SetTableWaiterSQL = `
		UPDATE tables SET waiter_id = $1 WHERE id = $2`

	BookedTableIDsSQL = `
		SELECT DISTINCT table_id
		FROM orders
		WHERE kind = 'booking' AND status <> 'Cancelled' AND table_id IS NOT NULL AND date::date = $1::date`

	TablesByWaiterSQL = `
		SELECT id FROM tables WHERE waiter_id = $1 ORDER BY id`
)

// Ingredient and product queries
const (
	GetAllIngredientsSQL = `
		SELECT id, name, stock FROM ingredients ORDER BY name`

	GetAvailableIngredientsSQL = `
		SELECT id, name, stock FROM ingredients WHERE stock > 0 ORDER BY name`

	IngredientForUpdateSQL = `
		SELECT id, name, stock FROM ingredients WHERE id = $1 FOR UPDATE`

	SetIngredientStockSQL = `
		UPDATE ingredients SET stock = $1 WHERE id = $2`

	ReplenishIngredientSQL = `
		INSERT INTO ingredients (name, stock)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET stock = ingredients.stock + EXCLUDED.stock`

	IngredientExistsSQL = `
		SELECT EXISTS(SELECT 1 FROM ingredients WHERE id = $1)`

	GetAllProductsSQL = `
		SELECT id, name, price FROM products ORDER BY id`

	GetProductSQL = `
		SELECT id, name, price FROM products WHERE id = $1`

	GetProductRecipeSQL = `
		SELECT pi.ingredient_id, i.name, pi.count
		FROM product_ingredients pi
		JOIN ingredients i ON i.id = pi.ingredient_id
		WHERE pi.product_id = $1
		ORDER BY pi.id`

	InsertProductSQL = `
		INSERT INTO products (name, price) VALUES ($1, $2) RETURNING id`

	UpdateProductSQL = `
		UPDATE products SET name = $1, price = $2 WHERE id = $3`

	DeleteProductSQL = `
		DELETE FROM products WHERE id = $1`

	DeleteProductRecipeSQL = `
		DELETE FROM product_ingredients WHERE product_id = $1`

	InsertProductIngredientSQL = `
		INSERT INTO product_ingredients (product_id, ingredient_id, count)
		VALUES ($1, $2, $3)`
)

// User, role and shift queries
const (
	InsertUserSQL = `
		INSERT INTO users (login, password_hash, first_name, last_name, phone_number, role_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	GetUserByIDSQL = `
		SELECT u.id, u.login, u.password_hash, u.first_name, u.last_name, u.phone_number,
		       COALESCE(u.role_id, 0), COALESCE(r.name, '')
		FROM users u
		LEFT JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1`

	GetUserByLoginSQL = `
		SELECT u.id, u.login, u.password_hash, u.first_name, u.last_name, u.phone_number,
		       COALESCE(u.role_id, 0), COALESCE(r.name, '')
		FROM users u
		LEFT JOIN roles r ON r.id = u.role_id
		WHERE u.login = $1`

	LoginExistsSQL = `
		SELECT EXISTS(SELECT 1 FROM users WHERE login = $1)`

	PhoneExistsSQL = `
		SELECT EXISTS(SELECT 1 FROM users WHERE phone_number = $1)`

	GetEmployeesSQL = `
		SELECT u.id, u.login, u.password_hash, u.first_name, u.last_name, u.phone_number,
		       COALESCE(u.role_id, 0), COALESCE(r.name, '')
		FROM users u
		LEFT JOIN roles r ON r.id = u.role_id
		WHERE r.name IS NOT NULL AND r.name <> 'Client'
		ORDER BY u.id`

	GetRoleByIDSQL = `
		SELECT id, name FROM roles WHERE id = $1`

	GetRoleByNameSQL = `
		SELECT id, name FROM roles WHERE name = $1`

	GetEmployeeRolesSQL = `
		SELECT id, name FROM roles WHERE name <> 'Client' ORDER BY id`

	EnsureShiftSQL = `
		INSERT INTO shifts (date)
		VALUES ($1)
		ON CONFLICT (date) DO UPDATE SET date = EXCLUDED.date
		RETURNING id`

	AddUserToShiftSQL = `
		INSERT INTO user_shifts (user_id, shift_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	GetShiftsSQL = `
		SELECT s.date, u.id, u.login, u.password_hash, u.first_name, u.last_name, u.phone_number,
		       COALESCE(u.role_id, 0), COALESCE(r.name, '')
		FROM shifts s
		JOIN user_shifts us ON us.shift_id = s.id
		JOIN users u ON u.id = us.user_id
		LEFT JOIN roles r ON r.id = u.role_id
		ORDER BY s.date, u.id`

	UserShiftDatesSQL = `
		SELECT s.date
		FROM shifts s
		JOIN user_shifts us ON us.shift_id = s.id
		WHERE us.user_id = $1
		ORDER BY s.date`

	SetOrderCourierSQL = `
		UPDATE orders SET courier_id = $1 WHERE id = $2`
)

// Promo queries
const (
	InsertPromoSQL = `
		INSERT INTO promos (text, content) VALUES ($1, $2) RETURNING id`

	GetAllPromosSQL = `
		SELECT id, text, content FROM promos ORDER BY id DESC`

	GetLastPromoSQL = `
		SELECT id, text, content FROM promos ORDER BY id DESC LIMIT 1`

	GetPromoSQL = `
		SELECT id, text, content FROM promos WHERE id = $1`

	UpdatePromoSQL = `
		UPDATE promos SET text = $1, content = $2 WHERE id = $3`

	DeletePromoSQL = `
		DELETE FROM promos WHERE id = $1`
)

// Report queries
const (
	WaiterDayTotalsSQL = `
		SELECT COUNT(DISTINCT o.id), COALESCE(SUM(p.price * op.count), 0)::text
		FROM orders o
		JOIN tables t ON t.id = o.table_id
		LEFT JOIN order_products op ON op.order_id = o.id
		LEFT JOIN products p ON p.id = op.product_id
		WHERE t.waiter_id = $1 AND o.kind = 'order' AND o.date::date = $2::date`

	CourierDayTotalsSQL = `
		SELECT COUNT(DISTINCT o.id), COALESCE(SUM(p.price * op.count), 0)::text
		FROM orders o
		LEFT JOIN order_products op ON op.order_id = o.id
		LEFT JOIN products p ON p.id = op.product_id
		WHERE o.courier_id = $1 AND o.kind = 'order' AND o.date::date = $2::date`

	WaiterRangeTotalsSQL = `
		SELECT u.id, u.first_name, u.last_name, r.name,
		       COUNT(DISTINCT o.id), COALESCE(SUM(p.price * op.count), 0)::text
		FROM users u
		JOIN roles r ON r.id = u.role_id AND r.name = 'Waiter'
		LEFT JOIN tables t ON t.waiter_id = u.id
		LEFT JOIN orders o ON o.table_id = t.id AND o.kind = 'order'
			AND o.date::date BETWEEN $1::date AND $2::date
		LEFT JOIN order_products op ON op.order_id = o.id
		LEFT JOIN products p ON p.id = op.product_id
		GROUP BY u.id, u.first_name, u.last_name, r.name`

	CourierRangeTotalsSQL = `
		SELECT u.id, u.first_name, u.last_name, r.name,
		       COUNT(DISTINCT o.id), COALESCE(SUM(p.price * op.count), 0)::text
		FROM users u
		JOIN roles r ON r.id = u.role_id AND r.name = 'Courier'
		LEFT JOIN orders o ON o.courier_id = u.id AND o.kind = 'order'
			AND o.date::date BETWEEN $1::date AND $2::date
		LEFT JOIN order_products op ON op.order_id = o.id
		LEFT JOIN products p ON p.id = op.product_id
		GROUP BY u.id, u.first_name, u.last_name, r.name`
)
