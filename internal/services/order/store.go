package order

import (
	"context"
	"time"

	"restaurant-backend/internal/models"
)

// Store provides persistent state for the order service. Multi-step
// invariant-bearing sequences run through WithinTx; everything else is a
// single statement and needs no coordination.
type Store interface {
	// WithinTx runs fn inside a single transaction. Any error from fn
	// rolls the whole transaction back.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error

	GetOrder(ctx context.Context, id int) (*models.Order, error)
	GetOrders(ctx context.Context, status *models.OrderStatus, tableIDs []int) ([]*models.Order, error)
	GetOrdersByClient(ctx context.Context, clientID int) ([]*models.Order, error)
	GetUserBooking(ctx context.Context, clientID int, from time.Time) (*models.Order, error)
	GetAllBookings(ctx context.Context) ([]*models.Order, error)
	GetDeliveryOrders(ctx context.Context) ([]*models.Order, error)
	GetUnassignedDeliveryOrders(ctx context.Context) ([]*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status models.OrderStatus) error

	GetTables(ctx context.Context) ([]models.Table, error)
	BookedTableIDs(ctx context.Context, day time.Time) (map[int]bool, error)
	SetTableClient(ctx context.Context, tableID int, clientID *int) error

	SalesByProduct(ctx context.Context, from, to time.Time) ([]models.ProductSales, error)
}

// Tx is the transactional surface for order creation and booking.
// Ingredient and table reads through it take row locks, so concurrent
// orders on the same stock and concurrent bookings on the same table
// serialize instead of racing the check-then-write sequences.
type Tx interface {
	InsertOrder(ctx context.Context, o *models.Order) (int, error)
	InsertOrderLine(ctx context.Context, line *models.OrderLine) error

	ProductByID(ctx context.Context, id int) (*models.Product, error)
	IngredientForUpdate(ctx context.Context, id int) (*models.Ingredient, error)
	SetIngredientStock(ctx context.Context, id, stock int) error

	LockTable(ctx context.Context, tableID int) (*models.Table, error)
	SetTableClient(ctx context.Context, tableID int, clientID *int) error

	CountTableBookings(ctx context.Context, tableID int, day time.Time) (int, error)
	HasClientBooking(ctx context.Context, clientID int, from time.Time) (bool, error)
}
