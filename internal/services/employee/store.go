package employee

import (
	"context"
	"time"

	"restaurant-backend/internal/models"
)

// ShiftEntry is one (work date, employee) membership row
type ShiftEntry struct {
	Date time.Time
	User models.User
}

// Store provides staff, shift and appointment persistence
type Store interface {
	GetEmployees(ctx context.Context) ([]models.User, error)
	UserByID(ctx context.Context, id int) (*models.User, error)
	GetRoles(ctx context.Context) ([]models.Role, error)

	EnsureShift(ctx context.Context, date time.Time) (int, error)
	AddUserToShift(ctx context.Context, userID, shiftID int) error
	UserShiftDates(ctx context.Context, userID int) ([]time.Time, error)
	GetShifts(ctx context.Context) ([]ShiftEntry, error)

	TablesByWaiter(ctx context.Context, waiterID int) ([]int, error)
	GetTable(ctx context.Context, id int) (*models.Table, error)
	SetTableWaiter(ctx context.Context, tableID int, waiterID int) error

	OrderByID(ctx context.Context, id int) (*models.Order, error)
	SetOrderCourier(ctx context.Context, orderID, courierID int) error
}
