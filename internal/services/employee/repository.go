package employee

import (
	"context"
	"errors"
	"fmt"
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

// NewPgStore creates a PostgreSQL-backed employee store
func NewPgStore(db *database.DB) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) GetEmployees(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.Query(ctx, database.GetEmployeesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []models.User
	for rows.Next() {
		var u models.User
		if err := scanUserFields(rows, &u); err != nil {
			return nil, err
		}
		employees = append(employees, u)
	}
	return employees, rows.Err()
}

func (s *PgStore) UserByID(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	err := scanUserFields(s.db.QueryRow(ctx, database.GetUserByIDSQL, id), &u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user", id)
		}
		return nil, err
	}
	return &u, nil
}

func (s *PgStore) GetRoles(ctx context.Context) ([]models.Role, error) {
	rows, err := s.db.Query(ctx, database.GetEmployeeRolesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (s *PgStore) EnsureShift(ctx context.Context, date time.Time) (int, error) {
	var id int
	if err := s.db.QueryRow(ctx, database.EnsureShiftSQL, date).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to ensure shift: %w", err)
	}
	return id, nil
}

func (s *PgStore) AddUserToShift(ctx context.Context, userID, shiftID int) error {
	if err := s.db.Exec(ctx, database.AddUserToShiftSQL, userID, shiftID); err != nil {
		return fmt.Errorf("failed to add user to shift: %w", err)
	}
	return nil
}

func (s *PgStore) UserShiftDates(ctx context.Context, userID int) ([]time.Time, error) {
	rows, err := s.db.Query(ctx, database.UserShiftDatesSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan shift date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (s *PgStore) GetShifts(ctx context.Context) ([]ShiftEntry, error) {
	rows, err := s.db.Query(ctx, database.GetShiftsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var entries []ShiftEntry
	for rows.Next() {
		var entry ShiftEntry
		err := rows.Scan(
			&entry.Date,
			&entry.User.ID,
			&entry.User.Login,
			&entry.User.PasswordHash,
			&entry.User.FirstName,
			&entry.User.LastName,
			&entry.User.PhoneNumber,
			&entry.User.RoleID,
			&entry.User.RoleName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *PgStore) TablesByWaiter(ctx context.Context, waiterID int) ([]int, error) {
	rows, err := s.db.Query(ctx, database.TablesByWaiterSQL, waiterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query waiter tables: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan table id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PgStore) GetTable(ctx context.Context, id int) (*models.Table, error) {
	var t models.Table
	err := s.db.QueryRow(ctx, database.GetTableSQL, id).Scan(&t.ID, &t.ClientID, &t.WaiterID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("table", id)
		}
		return nil, fmt.Errorf("failed to query table: %w", err)
	}
	return &t, nil
}

func (s *PgStore) SetTableWaiter(ctx context.Context, tableID int, waiterID int) error {
	if err := s.db.Exec(ctx, database.SetTableWaiterSQL, waiterID, tableID); err != nil {
		return fmt.Errorf("failed to set table waiter: %w", err)
	}
	return nil
}

func (s *PgStore) OrderByID(ctx context.Context, id int) (*models.Order, error) {
	var o models.Order
	err := s.db.QueryRow(ctx, database.GetOrderSQL, id).Scan(
		&o.ID, &o.Kind, &o.Status, &o.Date, &o.Address,
		&o.ClientID, &o.TableID, &o.CourierID, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("order", id)
		}
		return nil, fmt.Errorf("failed to query order: %w", err)
	}
	return &o, nil
}

func (s *PgStore) SetOrderCourier(ctx context.Context, orderID, courierID int) error {
	if err := s.db.Exec(ctx, database.SetOrderCourierSQL, courierID, orderID); err != nil {
		return fmt.Errorf("failed to set order courier: %w", err)
	}
	return nil
}

// scanUserFields scans the common user column set
func scanUserFields(row pgx.Row, u *models.User) error {
	err := row.Scan(
		&u.ID,
		&u.Login,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.PhoneNumber,
		&u.RoleID,
		&u.RoleName,
	)
	if err != nil {
		return err
	}
	return nil
}
