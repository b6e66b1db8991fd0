package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/logger"
	"restaurant-backend/internal/models"
)

// memStore is an in-memory Store whose WithinTx copies state, runs fn on
// the copy and swaps it in only on success, mirroring rollback semantics.
type memStore struct {
	orders      map[int]*models.Order
	tables      map[int]*models.Table
	ingredients map[int]*models.Ingredient
	products    map[int]*models.Product
	nextID      int
}

func newMemStore() *memStore {
	return &memStore{
		orders:      make(map[int]*models.Order),
		tables:      make(map[int]*models.Table),
		ingredients: make(map[int]*models.Ingredient),
		products:    make(map[int]*models.Product),
		nextID:      1,
	}
}

func (m *memStore) snapshot() *memStore {
	c := newMemStore()
	c.nextID = m.nextID
	for id, o := range m.orders {
		cp := *o
		cp.Items = append([]models.OrderLine(nil), o.Items...)
		c.orders[id] = &cp
	}
	for id, t := range m.tables {
		cp := *t
		c.tables[id] = &cp
	}
	for id, ing := range m.ingredients {
		cp := *ing
		c.ingredients[id] = &cp
	}
	for id, p := range m.products {
		c.products[id] = p
	}
	return c
}

func (m *memStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	work := m.snapshot()
	if err := fn(&memTx{s: work}); err != nil {
		return err
	}
	*m = *work
	return nil
}

func (m *memStore) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, apperr.NotFound("order", id)
	}
	cp := *o
	return &cp, nil
}

func (m *memStore) GetOrders(ctx context.Context, status *models.OrderStatus, tableIDs []int) ([]*models.Order, error) {
	var result []*models.Order
	for _, o := range m.orders {
		if o.Kind != models.KindOrder {
			continue
		}
		if status != nil && o.Status != *status {
			continue
		}
		if len(tableIDs) > 0 {
			match := false
			for _, id := range tableIDs {
				if o.TableID != nil && *o.TableID == id {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		result = append(result, o)
	}
	return result, nil
}

func (m *memStore) GetOrdersByClient(ctx context.Context, clientID int) ([]*models.Order, error) {
	var result []*models.Order
	for _, o := range m.orders {
		if o.Kind == models.KindOrder && o.ClientID != nil && *o.ClientID == clientID {
			result = append(result, o)
		}
	}
	return result, nil
}

func (m *memStore) GetUserBooking(ctx context.Context, clientID int, from time.Time) (*models.Order, error) {
	for _, o := range m.orders {
		if o.Kind == models.KindBooking && o.Status != models.StatusCancelled &&
			o.ClientID != nil && *o.ClientID == clientID && !o.Date.Before(from) {
			return o, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetAllBookings(ctx context.Context) ([]*models.Order, error) {
	var result []*models.Order
	for _, o := range m.orders {
		if o.Kind == models.KindBooking {
			result = append(result, o)
		}
	}
	return result, nil
}

func (m *memStore) GetDeliveryOrders(ctx context.Context) ([]*models.Order, error) {
	return nil, nil
}

func (m *memStore) GetUnassignedDeliveryOrders(ctx context.Context) ([]*models.Order, error) {
	return nil, nil
}

func (m *memStore) UpdateOrderStatus(ctx context.Context, id int, status models.OrderStatus) error {
	o, ok := m.orders[id]
	if !ok {
		return apperr.NotFound("order", id)
	}
	o.Status = status
	return nil
}

func (m *memStore) GetTables(ctx context.Context) ([]models.Table, error) {
	var result []models.Table
	for _, t := range m.tables {
		result = append(result, *t)
	}
	return result, nil
}

func (m *memStore) BookedTableIDs(ctx context.Context, day time.Time) (map[int]bool, error) {
	booked := make(map[int]bool)
	for _, o := range m.orders {
		if o.Kind == models.KindBooking && o.Status != models.StatusCancelled &&
			o.TableID != nil && models.SameDay(o.Date, day) {
			booked[*o.TableID] = true
		}
	}
	return booked, nil
}

func (m *memStore) SetTableClient(ctx context.Context, tableID int, clientID *int) error {
	t, ok := m.tables[tableID]
	if !ok {
		return apperr.NotFound("table", tableID)
	}
	t.ClientID = clientID
	return nil
}

func (m *memStore) SalesByProduct(ctx context.Context, from, to time.Time) ([]models.ProductSales, error) {
	totals := make(map[int]*models.ProductSales)
	var order []int
	for _, o := range m.orders {
		if o.Kind != models.KindOrder || o.Date.Before(from) || o.Date.After(to.AddDate(0, 0, 1)) {
			continue
		}
		for _, line := range o.Items {
			row, ok := totals[line.ProductID]
			if !ok {
				row = &models.ProductSales{
					ProductID: line.ProductID,
					Name:      line.ProductName,
					Price:     line.Price.StringFixed(2),
				}
				totals[line.ProductID] = row
				order = append(order, line.ProductID)
			}
			row.Quantity += line.Count
		}
	}
	var result []models.ProductSales
	for _, id := range order {
		result = append(result, *totals[id])
	}
	return result, nil
}

// memTx mutates the working snapshot held by WithinTx
type memTx struct {
	s *memStore
}

func (t *memTx) InsertOrder(ctx context.Context, o *models.Order) (int, error) {
	id := t.s.nextID
	t.s.nextID++
	cp := *o
	cp.ID = id
	t.s.orders[id] = &cp
	return id, nil
}

func (t *memTx) InsertOrderLine(ctx context.Context, line *models.OrderLine) error {
	o, ok := t.s.orders[line.OrderID]
	if !ok {
		return apperr.NotFound("order", line.OrderID)
	}
	o.Items = append(o.Items, *line)
	return nil
}

func (t *memTx) ProductByID(ctx context.Context, id int) (*models.Product, error) {
	p, ok := t.s.products[id]
	if !ok {
		return nil, apperr.NotFound("product", id)
	}
	return p, nil
}

func (t *memTx) IngredientForUpdate(ctx context.Context, id int) (*models.Ingredient, error) {
	ing, ok := t.s.ingredients[id]
	if !ok {
		return nil, apperr.NotFound("ingredient", id)
	}
	cp := *ing
	return &cp, nil
}

func (t *memTx) SetIngredientStock(ctx context.Context, id, stock int) error {
	ing, ok := t.s.ingredients[id]
	if !ok {
		return apperr.NotFound("ingredient", id)
	}
	ing.Stock = stock
	return nil
}

func (t *memTx) LockTable(ctx context.Context, tableID int) (*models.Table, error) {
	tbl, ok := t.s.tables[tableID]
	if !ok {
		return nil, apperr.NotFound("table", tableID)
	}
	cp := *tbl
	return &cp, nil
}

func (t *memTx) SetTableClient(ctx context.Context, tableID int, clientID *int) error {
	return t.s.SetTableClient(ctx, tableID, clientID)
}

func (t *memTx) CountTableBookings(ctx context.Context, tableID int, day time.Time) (int, error) {
	count := 0
	for _, o := range t.s.orders {
		if o.Kind == models.KindBooking && o.Status != models.StatusCancelled &&
			o.TableID != nil && *o.TableID == tableID && models.SameDay(o.Date, day) {
			count++
		}
	}
	return count, nil
}

func (t *memTx) HasClientBooking(ctx context.Context, clientID int, from time.Time) (bool, error) {
	b, err := t.s.GetUserBooking(ctx, clientID, from)
	return b != nil, err
}

type capturedEvent struct {
	event      *models.OrderEvent
	routingKey string
}

type fakePublisher struct {
	events []capturedEvent
	fail   bool
}

func (p *fakePublisher) PublishOrderEvent(ctx context.Context, event *models.OrderEvent, routingKey string) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.events = append(p.events, capturedEvent{event: event, routingKey: routingKey})
	return nil
}

func fixedNow() time.Time {
	return time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
}

func newTestService(store Store, publisher EventPublisher) *Service {
	svc := NewService(store, publisher, logger.New("order-test"))
	svc.now = fixedNow
	return svc
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seedPizza sets up the cheese-and-dough menu used across order tests
func seedPizza(store *memStore) {
	store.ingredients[1] = &models.Ingredient{ID: 1, Name: "Cheese", Stock: 10}
	store.ingredients[2] = &models.Ingredient{ID: 2, Name: "Dough", Stock: 4}
	store.products[1] = &models.Product{
		ID: 1, Name: "Pizza", Price: price("12.50"),
		Recipe: []models.RecipeItem{
			{IngredientID: 1, IngredientName: "Cheese", Count: 2},
			{IngredientID: 2, IngredientName: "Dough", Count: 1},
		},
	}
	store.tables[1] = &models.Table{ID: 1, WaiterID: intPtr(7)}
	store.tables[2] = &models.Table{ID: 2, WaiterID: intPtr(7)}
}

func TestCreateOrderConsumesRecipe(t *testing.T) {
	store := newMemStore()
	seedPizza(store)
	pub := &fakePublisher{}
	svc := newTestService(store, pub)

	order, err := svc.CreateOrder(context.Background(), 42, &models.CreateOrderRequest{
		TableID: intPtr(1),
		Items:   []models.OrderItemRequest{{ProductID: 1, Count: 3}},
	}, "test")
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	// 3 pizzas at 2 cheese + 1 dough each
	if got := store.ingredients[1].Stock; got != 4 {
		t.Errorf("cheese stock = %d, want 4", got)
	}
	if got := store.ingredients[2].Stock; got != 1 {
		t.Errorf("dough stock = %d, want 1", got)
	}

	if order.Status != models.StatusAccepted {
		t.Errorf("status = %s, want Accepted", order.Status)
	}
	if order.Kind != models.KindOrder {
		t.Errorf("kind = %s, want order", order.Kind)
	}
	if len(order.Items) != 1 || order.Items[0].Count != 3 {
		t.Errorf("items = %+v, want single line of 3", order.Items)
	}

	if store.tables[1].ClientID == nil || *store.tables[1].ClientID != 42 {
		t.Error("expected table 1 occupied by client 42")
	}

	if len(pub.events) != 1 || pub.events[0].routingKey != "order.created" {
		t.Errorf("events = %+v, want one order.created", pub.events)
	}
}

func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	store := newMemStore()
	seedPizza(store)
	svc := newTestService(store, &fakePublisher{})

	// 5 pizzas need 5 dough, only 4 on hand
	_, err := svc.CreateOrder(context.Background(), 42, &models.CreateOrderRequest{
		TableID: intPtr(1),
		Items:   []models.OrderItemRequest{{ProductID: 1, Count: 5}},
	}, "test")
	if !apperr.IsInsufficientStock(err) {
		t.Fatalf("CreateOrder() error = %v, want insufficient stock", err)
	}

	// cheese was checked first; rollback must restore it too
	if got := store.ingredients[1].Stock; got != 10 {
		t.Errorf("cheese stock = %d, want 10 after rollback", got)
	}
	if got := store.ingredients[2].Stock; got != 4 {
		t.Errorf("dough stock = %d, want 4 after rollback", got)
	}
	if len(store.orders) != 0 {
		t.Errorf("orders = %d, want none after rollback", len(store.orders))
	}
	if store.tables[1].ClientID != nil {
		t.Error("expected table left unoccupied after rollback")
	}
}

func TestCreateOrderValidation(t *testing.T) {
	store := newMemStore()
	seedPizza(store)
	svc := newTestService(store, &fakePublisher{})

	tests := []struct {
		name string
		req  *models.CreateOrderRequest
	}{
		{"neither table nor address", &models.CreateOrderRequest{
			Items: []models.OrderItemRequest{{ProductID: 1, Count: 1}},
		}},
		{"both table and address", &models.CreateOrderRequest{
			TableID: intPtr(1), Address: strPtr("Baker St 221b"),
			Items: []models.OrderItemRequest{{ProductID: 1, Count: 1}},
		}},
		{"no items", &models.CreateOrderRequest{TableID: intPtr(1)}},
		{"zero count", &models.CreateOrderRequest{
			TableID: intPtr(1),
			Items:   []models.OrderItemRequest{{ProductID: 1, Count: 0}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateOrder(context.Background(), 42, tt.req, "test")
			if !apperr.IsValidation(err) {
				t.Errorf("CreateOrder() error = %v, want validation error", err)
			}
		})
	}
}

func TestCreateOrderUnservedTable(t *testing.T) {
	store := newMemStore()
	seedPizza(store)
	store.tables[3] = &models.Table{ID: 3}
	svc := newTestService(store, &fakePublisher{})

	_, err := svc.CreateOrder(context.Background(), 42, &models.CreateOrderRequest{
		TableID: intPtr(3),
		Items:   []models.OrderItemRequest{{ProductID: 1, Count: 1}},
	}, "test")
	if !apperr.IsValidation(err) {
		t.Fatalf("CreateOrder() error = %v, want validation error", err)
	}
	if got := store.ingredients[1].Stock; got != 10 {
		t.Errorf("cheese stock = %d, want untouched 10", got)
	}
}

func TestCreateDeliveryOrder(t *testing.T) {
	store := newMemStore()
	seedPizza(store)
	svc := newTestService(store, &fakePublisher{})

	order, err := svc.CreateOrder(context.Background(), 42, &models.CreateOrderRequest{
		Address: strPtr("Baker St 221b"),
		Items:   []models.OrderItemRequest{{ProductID: 1, Count: 1}},
	}, "test")
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if order.Address == nil || *order.Address != "Baker St 221b" {
		t.Errorf("address = %v, want Baker St 221b", order.Address)
	}
	if order.TableID != nil {
		t.Error("delivery order must not hold a table")
	}
}

func TestBookTable(t *testing.T) {
	store := newMemStore()
	seedPizza(store)
	svc := newTestService(store, &fakePublisher{})

	at := time.Date(2025, 3, 12, 19, 0, 0, 0, time.UTC)
	booking, err := svc.BookTable(context.Background(), 42, at, 1, "test")
	if err != nil {
		t.Fatalf("BookTable() error = %v", err)
	}
	if booking.Kind != models.KindBooking {
		t.Errorf("kind = %s, want booking", booking.Kind)
	}
	if booking.TableID == nil || *booking.TableID != 1 {
		t.Errorf("table = %v, want 1", booking.TableID)
	}
}

func TestBookTableConflicts(t *testing.T) {
	store := newMemStore()
	seedPizza(store)
	svc := newTestService(store, &fakePublisher{})

	at := time.Date(2025, 3, 12, 19, 0, 0, 0, time.UTC)
	if _, err := svc.BookTable(context.Background(), 42, at, 1, "test"); err != nil {
		t.Fatalf("BookTable() error = %v", err)
	}

	// same table, same date, different client and hour
	_, err := svc.BookTable(context.Background(), 43, at.Add(2*time.Hour), 1, "test")
	if !errors.Is(err, apperr.ErrAlreadyBooked) {
		t.Errorf("second booking error = %v, want ErrAlreadyBooked", err)
	}

	// same client, different table
	_, err = svc.BookTable(context.Background(), 42, at, 2, "test")
	if !errors.Is(err, apperr.ErrAlreadyBooked) {
		t.Errorf("client double booking error = %v, want ErrAlreadyBooked", err)
	}

	// cancelled booking frees both the table and the client
	booking, err := store.GetUserBooking(context.Background(), 42, fixedNow())
	if err != nil || booking == nil {
		t.Fatalf("GetUserBooking() = %v, %v", booking, err)
	}
	if err := svc.CancelOrder(context.Background(), booking.ID, "test"); err != nil {
		t.Fatalf("CancelOrder() error = %v", err)
	}
	if _, err := svc.BookTable(context.Background(), 43, at, 1, "test"); err != nil {
		t.Errorf("booking after cancellation error = %v", err)
	}
}

func TestGetAvailableTables(t *testing.T) {
	store := newMemStore()
	seedPizza(store)
	store.tables[3] = &models.Table{ID: 3, WaiterID: intPtr(7), ClientID: intPtr(99)}
	svc := newTestService(store, &fakePublisher{})

	// table 1 booked for today
	today := fixedNow().Add(3 * time.Hour)
	if _, err := svc.BookTable(context.Background(), 42, today, 1, "test"); err != nil {
		t.Fatalf("BookTable() error = %v", err)
	}

	tables, err := svc.GetAvailableTables(context.Background(), today)
	if err != nil {
		t.Fatalf("GetAvailableTables() error = %v", err)
	}
	// table 1 is booked, table 3 occupied right now
	if len(tables) != 1 || tables[0].ID != 2 {
		t.Errorf("available = %+v, want only table 2", tables)
	}

	// tomorrow the occupied table counts as free again
	tables, err = svc.GetAvailableTables(context.Background(), today.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("GetAvailableTables() error = %v", err)
	}
	if len(tables) != 3 {
		t.Errorf("available tomorrow = %d tables, want 3", len(tables))
	}
}

func TestChangeOrderStatusReleasesTable(t *testing.T) {
	store := newMemStore()
	seedPizza(store)
	pub := &fakePublisher{}
	svc := newTestService(store, pub)

	order, err := svc.CreateOrder(context.Background(), 42, &models.CreateOrderRequest{
		TableID: intPtr(1),
		Items:   []models.OrderItemRequest{{ProductID: 1, Count: 1}},
	}, "test")
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	steps := []models.OrderStatus{models.StatusPreparing, models.StatusServed}
	for _, status := range steps {
		if err := svc.ChangeOrderStatus(context.Background(), order.ID, status, "test"); err != nil {
			t.Fatalf("ChangeOrderStatus(%s) error = %v", status, err)
		}
	}
	if store.tables[1].ClientID == nil {
		t.Fatal("table must stay occupied while Served")
	}

	if err := svc.ChangeOrderStatus(context.Background(), order.ID, models.StatusCancelled, "test"); err != nil {
		t.Fatalf("ChangeOrderStatus(Cancelled) error = %v", err)
	}
	if store.tables[1].ClientID != nil {
		t.Error("leaving Served must release the table")
	}

	// reoccupy and make sure the terminal order does not release it again
	store.tables[1].ClientID = intPtr(77)
	err = svc.ChangeOrderStatus(context.Background(), order.ID, models.StatusPreparing, "test")
	if !apperr.IsValidation(err) {
		t.Errorf("transition out of Cancelled error = %v, want validation error", err)
	}
	if store.tables[1].ClientID == nil || *store.tables[1].ClientID != 77 {
		t.Error("terminal order must not touch the table again")
	}
}

func TestChangeOrderStatusRejectsUnknown(t *testing.T) {
	store := newMemStore()
	seedPizza(store)
	svc := newTestService(store, &fakePublisher{})

	order, err := svc.CreateOrder(context.Background(), 42, &models.CreateOrderRequest{
		TableID: intPtr(1),
		Items:   []models.OrderItemRequest{{ProductID: 1, Count: 1}},
	}, "test")
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	err = svc.ChangeOrderStatus(context.Background(), order.ID, models.OrderStatus("Burnt"), "test")
	if !apperr.IsValidation(err) {
		t.Errorf("ChangeOrderStatus() error = %v, want validation error", err)
	}
}

func TestCancelOrderKeepsConsumedStock(t *testing.T) {
	store := newMemStore()
	seedPizza(store)
	svc := newTestService(store, &fakePublisher{})

	order, err := svc.CreateOrder(context.Background(), 42, &models.CreateOrderRequest{
		TableID: intPtr(1),
		Items:   []models.OrderItemRequest{{ProductID: 1, Count: 2}},
	}, "test")
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	if err := svc.CancelOrder(context.Background(), order.ID, "test"); err != nil {
		t.Fatalf("CancelOrder() error = %v", err)
	}

	got, err := svc.GetOrder(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("GetOrder() error = %v", err)
	}
	if got.Status != models.StatusCancelled {
		t.Errorf("status = %s, want Cancelled", got.Status)
	}
	if store.ingredients[1].Stock != 6 || store.ingredients[2].Stock != 2 {
		t.Errorf("stock = %d/%d, cancellation must not restock",
			store.ingredients[1].Stock, store.ingredients[2].Stock)
	}
}

func TestAnalyzeSales(t *testing.T) {
	store := newMemStore()
	seedPizza(store)
	store.ingredients[1].Stock = 100
	store.ingredients[2].Stock = 100
	svc := newTestService(store, &fakePublisher{})

	for _, count := range []int{3, 5} {
		_, err := svc.CreateOrder(context.Background(), 42, &models.CreateOrderRequest{
			TableID: intPtr(1),
			Items:   []models.OrderItemRequest{{ProductID: 1, Count: count}},
		}, "test")
		if err != nil {
			t.Fatalf("CreateOrder() error = %v", err)
		}
	}

	day := fixedNow()
	sales, err := svc.AnalyzeSales(context.Background(), day, day)
	if err != nil {
		t.Fatalf("AnalyzeSales() error = %v", err)
	}
	if len(sales) != 1 {
		t.Fatalf("sales rows = %d, want 1", len(sales))
	}
	if sales[0].Name != "Pizza" || sales[0].Quantity != 8 {
		t.Errorf("sales[0] = %+v, want Pizza x8", sales[0])
	}

	_, err = svc.AnalyzeSales(context.Background(), day, day.AddDate(0, 0, -1))
	if !apperr.IsValidation(err) {
		t.Errorf("inverted range error = %v, want validation error", err)
	}
}

func TestPublishFailureDoesNotFailOrder(t *testing.T) {
	store := newMemStore()
	seedPizza(store)
	svc := newTestService(store, &fakePublisher{fail: true})

	order, err := svc.CreateOrder(context.Background(), 42, &models.CreateOrderRequest{
		TableID: intPtr(1),
		Items:   []models.OrderItemRequest{{ProductID: 1, Count: 1}},
	}, "test")
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if order.ID == 0 {
		t.Error("expected committed order despite publish failure")
	}
}
