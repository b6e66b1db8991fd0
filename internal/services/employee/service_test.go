package employee

import (
	"context"
	"testing"
	"time"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/logger"
	"restaurant-backend/internal/models"
)

type fakeStore struct {
	users       map[int]*models.User
	orders      map[int]*models.Order
	tables      map[int]*models.Table
	shifts      map[string]int
	memberships map[int][]int
	nextShiftID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[int]*models.User),
		orders:      make(map[int]*models.Order),
		tables:      make(map[int]*models.Table),
		shifts:      make(map[string]int),
		memberships: make(map[int][]int),
		nextShiftID: 1,
	}
}

func (f *fakeStore) GetEmployees(ctx context.Context) ([]models.User, error) {
	var result []models.User
	for _, u := range f.users {
		if u.IsEmployee() {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (f *fakeStore) UserByID(ctx context.Context, id int) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("user", id)
	}
	return u, nil
}

func (f *fakeStore) GetRoles(ctx context.Context) ([]models.Role, error) {
	return []models.Role{{ID: 2, Name: models.RoleWaiter}, {ID: 3, Name: models.RoleCourier}}, nil
}

func (f *fakeStore) EnsureShift(ctx context.Context, date time.Time) (int, error) {
	key := models.FormatDate(date)
	if id, ok := f.shifts[key]; ok {
		return id, nil
	}
	id := f.nextShiftID
	f.nextShiftID++
	f.shifts[key] = id
	return id, nil
}

func (f *fakeStore) AddUserToShift(ctx context.Context, userID, shiftID int) error {
	for _, existing := range f.memberships[userID] {
		if existing == shiftID {
			return nil
		}
	}
	f.memberships[userID] = append(f.memberships[userID], shiftID)
	return nil
}

func (f *fakeStore) UserShiftDates(ctx context.Context, userID int) ([]time.Time, error) {
	var dates []time.Time
	for key, id := range f.shifts {
		for _, member := range f.memberships[userID] {
			if member == id {
				d, _ := models.ParseDate(key)
				dates = append(dates, d)
			}
		}
	}
	return dates, nil
}

func (f *fakeStore) GetShifts(ctx context.Context) ([]ShiftEntry, error) {
	var entries []ShiftEntry
	for key, id := range f.shifts {
		d, _ := models.ParseDate(key)
		for userID, shiftIDs := range f.memberships {
			for _, shiftID := range shiftIDs {
				if shiftID == id {
					entries = append(entries, ShiftEntry{Date: d, User: *f.users[userID]})
				}
			}
		}
	}
	return entries, nil
}

func (f *fakeStore) TablesByWaiter(ctx context.Context, waiterID int) ([]int, error) {
	var ids []int
	for _, t := range f.tables {
		if t.WaiterID != nil && *t.WaiterID == waiterID {
			ids = append(ids, t.ID)
		}
	}
	return ids, nil
}

func (f *fakeStore) GetTable(ctx context.Context, id int) (*models.Table, error) {
	t, ok := f.tables[id]
	if !ok {
		return nil, apperr.NotFound("table", id)
	}
	return t, nil
}

func (f *fakeStore) SetTableWaiter(ctx context.Context, tableID int, waiterID int) error {
	t, ok := f.tables[tableID]
	if !ok {
		return apperr.NotFound("table", tableID)
	}
	t.WaiterID = &waiterID
	return nil
}

func (f *fakeStore) OrderByID(ctx context.Context, id int) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, apperr.NotFound("order", id)
	}
	return o, nil
}

func (f *fakeStore) SetOrderCourier(ctx context.Context, orderID, courierID int) error {
	o, ok := f.orders[orderID]
	if !ok {
		return apperr.NotFound("order", orderID)
	}
	o.CourierID = &courierID
	return nil
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func seedStaff(store *fakeStore) {
	store.users[1] = &models.User{ID: 1, Login: "anna", RoleID: 2, RoleName: models.RoleWaiter}
	store.users[2] = &models.User{ID: 2, Login: "boris", RoleID: 3, RoleName: models.RoleCourier}
	store.users[3] = &models.User{ID: 3, Login: "carol", RoleID: 1, RoleName: models.RoleClient}
	store.tables[1] = &models.Table{ID: 1}
}

func newTestService(store Store) *Service {
	return NewService(store, logger.New("employee-test"))
}

func TestAppointEmployeeToShift(t *testing.T) {
	store := newFakeStore()
	seedStaff(store)
	svc := newTestService(store)

	date := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	if err := svc.AppointEmployeeToShift(context.Background(), 1, date, "test"); err != nil {
		t.Fatalf("AppointEmployeeToShift() error = %v", err)
	}

	// re-appointing the same date is a no-op
	if err := svc.AppointEmployeeToShift(context.Background(), 1, date, "test"); err != nil {
		t.Fatalf("second appointment error = %v", err)
	}

	shifts, err := svc.GetEmployeeShifts(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetEmployeeShifts() error = %v", err)
	}
	if len(shifts) != 1 || shifts[0] != "12.03.2025" {
		t.Errorf("shifts = %v, want [12.03.2025]", shifts)
	}
}

func TestAppointClientToShiftRejected(t *testing.T) {
	store := newFakeStore()
	seedStaff(store)
	svc := newTestService(store)

	err := svc.AppointEmployeeToShift(context.Background(), 3, time.Now(), "test")
	if !apperr.IsRole(err) {
		t.Errorf("AppointEmployeeToShift() error = %v, want role error", err)
	}
}

func TestAppointCourierToOrder(t *testing.T) {
	store := newFakeStore()
	seedStaff(store)
	store.orders[10] = &models.Order{ID: 10, Kind: models.KindOrder, Address: strPtr("Baker St 221b")}
	svc := newTestService(store)

	if err := svc.AppointCourierToOrder(context.Background(), 10, 2, "test"); err != nil {
		t.Fatalf("AppointCourierToOrder() error = %v", err)
	}
	if store.orders[10].CourierID == nil || *store.orders[10].CourierID != 2 {
		t.Error("expected courier 2 assigned to order 10")
	}

	// already assigned
	err := svc.AppointCourierToOrder(context.Background(), 10, 2, "test")
	if !apperr.IsValidation(err) {
		t.Errorf("reassignment error = %v, want validation error", err)
	}
}

func TestAppointCourierRejections(t *testing.T) {
	store := newFakeStore()
	seedStaff(store)
	store.orders[10] = &models.Order{ID: 10, Kind: models.KindOrder, TableID: intPtr(1)}
	svc := newTestService(store)

	// waiter is not a courier
	err := svc.AppointCourierToOrder(context.Background(), 10, 1, "test")
	if !apperr.IsRole(err) {
		t.Errorf("wrong role error = %v, want role error", err)
	}

	// dine-in order has no address
	err = svc.AppointCourierToOrder(context.Background(), 10, 2, "test")
	if !apperr.IsValidation(err) {
		t.Errorf("dine-in error = %v, want validation error", err)
	}
}

func TestAppointWaiterToTable(t *testing.T) {
	store := newFakeStore()
	seedStaff(store)
	store.users[4] = &models.User{ID: 4, Login: "dina", RoleID: 2, RoleName: models.RoleWaiter}
	svc := newTestService(store)

	if err := svc.AppointWaiterToTable(context.Background(), 1, 1, "test"); err != nil {
		t.Fatalf("AppointWaiterToTable() error = %v", err)
	}
	if *store.tables[1].WaiterID != 1 {
		t.Error("expected waiter 1 on table 1")
	}

	// reassignment overwrites without complaint
	if err := svc.AppointWaiterToTable(context.Background(), 1, 4, "test"); err != nil {
		t.Fatalf("reassignment error = %v", err)
	}
	if *store.tables[1].WaiterID != 4 {
		t.Error("expected waiter 4 after reassignment")
	}

	// courier cannot serve tables
	err := svc.AppointWaiterToTable(context.Background(), 1, 2, "test")
	if !apperr.IsRole(err) {
		t.Errorf("courier as waiter error = %v, want role error", err)
	}
}

func TestGetAllEmployees(t *testing.T) {
	store := newFakeStore()
	seedStaff(store)
	store.tables[1].WaiterID = intPtr(1)
	svc := newTestService(store)

	date := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	if err := svc.AppointEmployeeToShift(context.Background(), 1, date, "test"); err != nil {
		t.Fatalf("AppointEmployeeToShift() error = %v", err)
	}

	employees, err := svc.GetAllEmployees(context.Background())
	if err != nil {
		t.Fatalf("GetAllEmployees() error = %v", err)
	}
	if len(employees) != 2 {
		t.Fatalf("employees = %d, want 2 (client excluded)", len(employees))
	}

	for _, emp := range employees {
		if emp.Employee.ID == 1 {
			if len(emp.Shifts) != 1 || emp.Shifts[0] != "12.03.2025" {
				t.Errorf("waiter shifts = %v, want [12.03.2025]", emp.Shifts)
			}
			if len(emp.Tables) != 1 || emp.Tables[0] != 1 {
				t.Errorf("waiter tables = %v, want [1]", emp.Tables)
			}
		}
	}
}
