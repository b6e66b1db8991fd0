package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/database"
	"restaurant-backend/internal/models"
)

// PgStore implements Store over PostgreSQL
type PgStore struct {
	db *database.DB
}

// NewPgStore creates a PostgreSQL-backed order store
func NewPgStore(db *database.DB) *PgStore {
	return &PgStore{db: db}
}

// rowQuerier is satisfied by both the pool wrapper and pgx.Tx
type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// WithinTx runs fn inside one transaction; fn errors roll everything back
func (s *PgStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	pgtx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer pgtx.Rollback(ctx)

	if err := fn(&pgTx{tx: pgtx}); err != nil {
		return err
	}

	if err := pgtx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *PgStore) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	o, err := scanOrder(s.db.QueryRow(ctx, database.GetOrderSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("order", id)
		}
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	if err := loadOrderLines(ctx, s.db, []*models.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *PgStore) GetOrders(ctx context.Context, status *models.OrderStatus, tableIDs []int) ([]*models.Order, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, kind, status, date, address, client_id, table_id, courier_id, created_at
		FROM orders
		WHERE kind = 'order'`)

	args := []interface{}{}
	if status != nil {
		args = append(args, string(*status))
		fmt.Fprintf(&sb, " AND status = $%d", len(args))
	}
	if len(tableIDs) > 0 {
		args = append(args, tableIDs)
		fmt.Fprintf(&sb, " AND table_id = ANY($%d)", len(args))
	}
	sb.WriteString(" ORDER BY date DESC")

	return s.queryOrders(ctx, sb.String(), args...)
}

func (s *PgStore) GetOrdersByClient(ctx context.Context, clientID int) ([]*models.Order, error) {
	return s.queryOrders(ctx, `
		SELECT id, kind, status, date, address, client_id, table_id, courier_id, created_at
		FROM orders
		WHERE kind = 'order' AND client_id = $1
		ORDER BY date DESC`, clientID)
}

func (s *PgStore) GetUserBooking(ctx context.Context, clientID int, from time.Time) (*models.Order, error) {
	o, err := scanOrder(s.db.QueryRow(ctx, database.GetUserBookingSQL, clientID, from))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query booking: %w", err)
	}
	return o, nil
}

func (s *PgStore) GetAllBookings(ctx context.Context) ([]*models.Order, error) {
	return s.queryOrders(ctx, database.GetAllBookingsSQL)
}

func (s *PgStore) GetDeliveryOrders(ctx context.Context) ([]*models.Order, error) {
	return s.queryOrders(ctx, database.GetDeliveryOrdersSQL)
}

func (s *PgStore) GetUnassignedDeliveryOrders(ctx context.Context) ([]*models.Order, error) {
	return s.queryOrders(ctx, database.GetUnassignedDeliveryOrdersSQL)
}

func (s *PgStore) UpdateOrderStatus(ctx context.Context, id int, status models.OrderStatus) error {
	if err := s.db.Exec(ctx, database.UpdateOrderStatusSQL, string(status), id); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}

func (s *PgStore) GetTables(ctx context.Context) ([]models.Table, error) {
	rows, err := s.db.Query(ctx, database.GetTablesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []models.Table
	for rows.Next() {
		var t models.Table
		if err := rows.Scan(&t.ID, &t.ClientID, &t.WaiterID); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (s *PgStore) BookedTableIDs(ctx context.Context, day time.Time) (map[int]bool, error) {
	rows, err := s.db.Query(ctx, database.BookedTableIDsSQL, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query booked tables: %w", err)
	}
	defer rows.Close()

	booked := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan booked table id: %w", err)
		}
		booked[id] = true
	}
	return booked, rows.Err()
}

func (s *PgStore) SetTableClient(ctx context.Context, tableID int, clientID *int) error {
	if err := s.db.Exec(ctx, database.SetTableClientSQL, clientID, tableID); err != nil {
		return fmt.Errorf("failed to update table occupant: %w", err)
	}
	return nil
}

func (s *PgStore) SalesByProduct(ctx context.Context, from, to time.Time) ([]models.ProductSales, error) {
	rows, err := s.db.Query(ctx, database.SalesByProductSQL, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []models.ProductSales
	for rows.Next() {
		var (
			row   models.ProductSales
			price string
		)
		if err := rows.Scan(&row.ProductID, &row.Name, &price, &row.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan sales row: %w", err)
		}
		row.Price = price
		sales = append(sales, row)
	}
	return sales, rows.Err()
}

func (s *PgStore) queryOrders(ctx context.Context, sql string, args ...interface{}) ([]*models.Order, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := loadOrderLines(ctx, s.db, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID,
		&o.Kind,
		&o.Status,
		&o.Date,
		&o.Address,
		&o.ClientID,
		&o.TableID,
		&o.CourierID,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// loadOrderLines attaches line items to the given orders in one query
func loadOrderLines(ctx context.Context, q rowQuerier, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int, 0, len(orders))
	byID := make(map[int]*models.Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		byID[o.ID] = o
	}

	rows, err := q.Query(ctx, database.GetOrderLinesSQL, ids)
	if err != nil {
		return fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line models.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.ProductName, &line.Price, &line.Count); err != nil {
			return fmt.Errorf("failed to scan order line: %w", err)
		}
		if o, ok := byID[line.OrderID]; ok {
			o.Items = append(o.Items, line)
		}
	}
	return rows.Err()
}

// pgTx implements Tx over a pgx transaction
type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) InsertOrder(ctx context.Context, o *models.Order) (int, error) {
	var id int
	err := t.tx.QueryRow(ctx, database.InsertOrderSQL,
		string(o.Kind), string(o.Status), o.Date, o.Address, o.ClientID, o.TableID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (t *pgTx) InsertOrderLine(ctx context.Context, line *models.OrderLine) error {
	return t.tx.QueryRow(ctx, database.InsertOrderLineSQL,
		line.OrderID, line.ProductID, line.Count,
	).Scan(&line.ID)
}

func (t *pgTx) ProductByID(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	err := t.tx.QueryRow(ctx, database.GetProductSQL, id).Scan(&p.ID, &p.Name, &p.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("product", id)
		}
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	rows, err := t.tx.Query(ctx, database.GetProductRecipeSQL, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.RecipeItem
		if err := rows.Scan(&item.IngredientID, &item.IngredientName, &item.Count); err != nil {
			return nil, fmt.Errorf("failed to scan recipe item: %w", err)
		}
		p.Recipe = append(p.Recipe, item)
	}
	return &p, rows.Err()
}

func (t *pgTx) IngredientForUpdate(ctx context.Context, id int) (*models.Ingredient, error) {
	var ing models.Ingredient
	err := t.tx.QueryRow(ctx, database.IngredientForUpdateSQL, id).Scan(&ing.ID, &ing.Name, &ing.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("ingredient", id)
		}
		return nil, fmt.Errorf("failed to lock ingredient: %w", err)
	}
	return &ing, nil
}

func (t *pgTx) SetIngredientStock(ctx context.Context, id, stock int) error {
	_, err := t.tx.Exec(ctx, database.SetIngredientStockSQL, stock, id)
	return err
}

func (t *pgTx) LockTable(ctx context.Context, tableID int) (*models.Table, error) {
	var tbl models.Table
	err := t.tx.QueryRow(ctx, database.LockTableSQL, tableID).Scan(&tbl.ID, &tbl.ClientID, &tbl.WaiterID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("table", tableID)
		}
		return nil, fmt.Errorf("failed to lock table: %w", err)
	}
	return &tbl, nil
}

func (t *pgTx) SetTableClient(ctx context.Context, tableID int, clientID *int) error {
	_, err := t.tx.Exec(ctx, database.SetTableClientSQL, clientID, tableID)
	return err
}

func (t *pgTx) CountTableBookings(ctx context.Context, tableID int, day time.Time) (int, error) {
	var count int
	err := t.tx.QueryRow(ctx, database.CountTableBookingsSQL, tableID, day).Scan(&count)
	return count, err
}

func (t *pgTx) HasClientBooking(ctx context.Context, clientID int, from time.Time) (bool, error) {
	var held bool
	err := t.tx.QueryRow(ctx, database.HasClientBookingSQL, clientID, from).Scan(&held)
	return held, err
}
