package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"restaurant-backend/internal/models"
)

// DayTotals is one day of an employee's personal report
type DayTotals struct {
	Date    string `json:"date"`
	Orders  int    `json:"orders"`
	Revenue string `json:"revenue"`
}

// EmployeeTotals is one employee's aggregate over a report period
type EmployeeTotals struct {
	UserID    int
	FirstName string
	LastName  string
	Role      string
	Orders    int
	Revenue   decimal.Decimal
}

// Store provides the aggregate queries behind the reports
type Store interface {
	WaiterDayTotals(ctx context.Context, waiterID int, day time.Time) (int, decimal.Decimal, error)
	CourierDayTotals(ctx context.Context, courierID int, day time.Time) (int, decimal.Decimal, error)
	WaiterRangeTotals(ctx context.Context, from, to time.Time) ([]EmployeeTotals, error)
	CourierRangeTotals(ctx context.Context, from, to time.Time) ([]EmployeeTotals, error)
	SalesByProduct(ctx context.Context, from, to time.Time) ([]models.ProductSales, error)
}
