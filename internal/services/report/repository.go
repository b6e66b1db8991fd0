package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"restaurant-backend/internal/database"
	"restaurant-backend/internal/models"
)

// PgStore implements Store over PostgreSQL
type PgStore struct {
	db *database.DB
}

// NewPgStore creates a PostgreSQL-backed report store
func NewPgStore(db *database.DB) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) WaiterDayTotals(ctx context.Context, waiterID int, day time.Time) (int, decimal.Decimal, error) {
	return s.dayTotals(ctx, database.WaiterDayTotalsSQL, waiterID, day)
}

func (s *PgStore) CourierDayTotals(ctx context.Context, courierID int, day time.Time) (int, decimal.Decimal, error) {
	return s.dayTotals(ctx, database.CourierDayTotalsSQL, courierID, day)
}

func (s *PgStore) dayTotals(ctx context.Context, sql string, userID int, day time.Time) (int, decimal.Decimal, error) {
	var (
		orders  int
		revenue string
	)
	err := s.db.QueryRow(ctx, sql, userID, day).Scan(&orders, &revenue)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("failed to query day totals: %w", err)
	}

	amount, err := decimal.NewFromString(revenue)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("failed to parse revenue: %w", err)
	}
	return orders, amount, nil
}

func (s *PgStore) WaiterRangeTotals(ctx context.Context, from, to time.Time) ([]EmployeeTotals, error) {
	return s.rangeTotals(ctx, database.WaiterRangeTotalsSQL, from, to)
}

func (s *PgStore) CourierRangeTotals(ctx context.Context, from, to time.Time) ([]EmployeeTotals, error) {
	return s.rangeTotals(ctx, database.CourierRangeTotalsSQL, from, to)
}

func (s *PgStore) rangeTotals(ctx context.Context, sql string, from, to time.Time) ([]EmployeeTotals, error) {
	rows, err := s.db.Query(ctx, sql, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query range totals: %w", err)
	}
	defer rows.Close()

	var result []EmployeeTotals
	for rows.Next() {
		var (
			row     EmployeeTotals
			revenue string
		)
		if err := rows.Scan(&row.UserID, &row.FirstName, &row.LastName, &row.Role, &row.Orders, &revenue); err != nil {
			return nil, fmt.Errorf("failed to scan range totals: %w", err)
		}
		if row.Revenue, err = decimal.NewFromString(revenue); err != nil {
			return nil, fmt.Errorf("failed to parse revenue: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (s *PgStore) SalesByProduct(ctx context.Context, from, to time.Time) ([]models.ProductSales, error) {
	rows, err := s.db.Query(ctx, database.SalesByProductSQL, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []models.ProductSales
	for rows.Next() {
		var row models.ProductSales
		if err := rows.Scan(&row.ProductID, &row.Name, &row.Price, &row.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan sales row: %w", err)
		}
		sales = append(sales, row)
	}
	return sales, rows.Err()
}
