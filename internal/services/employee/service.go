package employee

import (
	"context"
	"time"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/logger"
	"restaurant-backend/internal/models"
)

// Service implements staff management: the employee roster, shift
// appointments and courier/waiter assignments.
type Service struct {
	store  Store
	logger *logger.Logger
}

// NewService creates a new employee service
func NewService(store Store, log *logger.Logger) *Service {
	return &Service{store: store, logger: log}
}

// GetAllEmployees returns every employee with their shift dates and, for
// waiters, the tables they serve
func (s *Service) GetAllEmployees(ctx context.Context) ([]models.EmployeeResponse, error) {
	employees, err := s.store.GetEmployees(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]models.EmployeeResponse, 0, len(employees))
	for i := range employees {
		emp := &employees[i]

		dates, err := s.store.UserShiftDates(ctx, emp.ID)
		if err != nil {
			return nil, err
		}
		shifts := make([]string, 0, len(dates))
		for _, d := range dates {
			shifts = append(shifts, models.FormatDate(d))
		}

		var tables []int
		if emp.RoleName == models.RoleWaiter {
			tables, err = s.store.TablesByWaiter(ctx, emp.ID)
			if err != nil {
				return nil, err
			}
		}

		result = append(result, models.EmployeeResponse{
			Employee: models.UserToResponse(emp),
			Shifts:   shifts,
			Tables:   tables,
		})
	}
	return result, nil
}

// AppointEmployeeToShift puts an employee on the shift for the given date,
// creating the shift on demand. Re-appointing is a no-op.
func (s *Service) AppointEmployeeToShift(ctx context.Context, employeeID int, date time.Time, requestID string) error {
	user, err := s.store.UserByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if !user.IsEmployee() {
		return &apperr.RoleError{Role: user.RoleName, Action: "work a shift"}
	}

	shiftID, err := s.store.EnsureShift(ctx, date)
	if err != nil {
		return err
	}
	if err := s.store.AddUserToShift(ctx, employeeID, shiftID); err != nil {
		return err
	}

	s.logger.Info("shift_appointed", requestID, "Employee appointed to shift",
		"employee_id", employeeID, "date", models.FormatDate(date))

	return nil
}

// AppointCourierToOrder assigns a courier to an unassigned delivery order
func (s *Service) AppointCourierToOrder(ctx context.Context, orderID, courierID int, requestID string) error {
	courier, err := s.store.UserByID(ctx, courierID)
	if err != nil {
		return err
	}
	if courier.RoleName != models.RoleCourier {
		return &apperr.RoleError{Role: courier.RoleName, Action: "deliver orders"}
	}

	order, err := s.store.OrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Address == nil {
		return apperr.Validation("order %d is not a delivery order", orderID)
	}
	if order.CourierID != nil {
		return apperr.Validation("order %d already has a courier", orderID)
	}

	if err := s.store.SetOrderCourier(ctx, orderID, courierID); err != nil {
		return err
	}

	s.logger.Info("courier_appointed", requestID, "Courier appointed to order",
		"order_id", orderID, "courier_id", courierID)

	return nil
}

// AppointWaiterToTable assigns a waiter to a table, replacing any previous
// assignment
func (s *Service) AppointWaiterToTable(ctx context.Context, tableID, waiterID int, requestID string) error {
	waiter, err := s.store.UserByID(ctx, waiterID)
	if err != nil {
		return err
	}
	if waiter.RoleName != models.RoleWaiter {
		return &apperr.RoleError{Role: waiter.RoleName, Action: "serve tables"}
	}

	if _, err := s.store.GetTable(ctx, tableID); err != nil {
		return err
	}
	if err := s.store.SetTableWaiter(ctx, tableID, waiterID); err != nil {
		return err
	}

	s.logger.Info("waiter_appointed", requestID, "Waiter appointed to table",
		"table_id", tableID, "waiter_id", waiterID)

	return nil
}

// GetShifts returns the shift calendar: formatted date to employees on duty
func (s *Service) GetShifts(ctx context.Context) (map[string][]models.UserResponse, error) {
	entries, err := s.store.GetShifts(ctx)
	if err != nil {
		return nil, err
	}

	calendar := make(map[string][]models.UserResponse)
	for _, entry := range entries {
		day := models.FormatDate(entry.Date)
		calendar[day] = append(calendar[day], models.UserToResponse(&entry.User))
	}
	return calendar, nil
}

// GetEmployeeShifts returns the dates the employee is appointed to
func (s *Service) GetEmployeeShifts(ctx context.Context, employeeID int) ([]string, error) {
	dates, err := s.store.UserShiftDates(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	shifts := make([]string, 0, len(dates))
	for _, d := range dates {
		shifts = append(shifts, models.FormatDate(d))
	}
	return shifts, nil
}

// GetWaiterAppointments returns the table ids served by the waiter
func (s *Service) GetWaiterAppointments(ctx context.Context, waiterID int) ([]int, error) {
	return s.store.TablesByWaiter(ctx, waiterID)
}

// GetRoles returns the employee roles available for hiring
func (s *Service) GetRoles(ctx context.Context) ([]models.Role, error) {
	return s.store.GetRoles(ctx)
}
