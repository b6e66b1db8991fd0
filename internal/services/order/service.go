package order

import (
	"context"
	"fmt"
	"time"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/logger"
	"restaurant-backend/internal/models"
)

// EventPublisher publishes order lifecycle events to the message broker
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event *models.OrderEvent, routingKey string) error
}

// Service implements the order lifecycle: order creation with inventory
// consumption, table bookings, status transitions and sales analysis.
type Service struct {
	store     Store
	publisher EventPublisher
	logger    *logger.Logger
	now       func() time.Time
}

// NewService creates a new order service
func NewService(store Store, publisher EventPublisher, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

// CreateOrder places a dine-in or delivery order. The order row, its line
// items and the ingredient decrements commit as one transaction: a stock
// shortage on any line leaves no trace of the order.
func (s *Service) CreateOrder(ctx context.Context, clientID int, req *models.CreateOrderRequest, requestID string) (*models.Order, error) {
	if (req.TableID == nil) == (req.Address == nil) {
		return nil, apperr.Validation("order must specify exactly one of table or address")
	}
	if len(req.Items) == 0 {
		return nil, apperr.Validation("order must contain at least one product")
	}
	for _, item := range req.Items {
		if item.Count < 1 {
			return nil, apperr.Validation("product %d: count must be at least 1", item.ProductID)
		}
	}

	var created *models.Order

	err := s.store.WithinTx(ctx, func(tx Tx) error {
		if req.TableID != nil {
			table, err := tx.LockTable(ctx, *req.TableID)
			if err != nil {
				return err
			}
			if table.WaiterID == nil {
				return apperr.Validation("table %d is not served by any waiter", table.ID)
			}
			if err := tx.SetTableClient(ctx, table.ID, &clientID); err != nil {
				return err
			}
		}

		order := &models.Order{
			Kind:     models.KindOrder,
			Status:   models.StatusAccepted,
			Date:     s.now(),
			ClientID: &clientID,
			TableID:  req.TableID,
			Address:  req.Address,
		}
		orderID, err := tx.InsertOrder(ctx, order)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}
		order.ID = orderID

		for _, item := range req.Items {
			product, err := tx.ProductByID(ctx, item.ProductID)
			if err != nil {
				return err
			}

			if err := consumeRecipe(ctx, tx, product, item.Count); err != nil {
				return err
			}

			line := models.OrderLine{
				OrderID:     orderID,
				ProductID:   product.ID,
				ProductName: product.Name,
				Price:       product.Price,
				Count:       item.Count,
			}
			if err := tx.InsertOrderLine(ctx, &line); err != nil {
				return fmt.Errorf("failed to insert order line: %w", err)
			}
			order.Items = append(order.Items, line)
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order_created", requestID, "Order created",
		"order_id", created.ID, "client_id", clientID, "items", len(created.Items))

	s.publishEvent(ctx, created, "order.created", "", requestID)

	return created, nil
}

// consumeRecipe decrements stock for every ingredient of count units of
// product. Caller must hold the surrounding transaction; ingredient rows
// are locked before the check so the decrement cannot go negative.
func consumeRecipe(ctx context.Context, tx Tx, product *models.Product, count int) error {
	for _, entry := range product.Recipe {
		ingredient, err := tx.IngredientForUpdate(ctx, entry.IngredientID)
		if err != nil {
			return err
		}

		required := entry.Count * count
		if ingredient.Stock < required {
			return &apperr.InsufficientStockError{
				Product:    product.Name,
				Ingredient: ingredient.Name,
			}
		}

		if err := tx.SetIngredientStock(ctx, ingredient.ID, ingredient.Stock-required); err != nil {
			return fmt.Errorf("failed to update stock of %q: %w", ingredient.Name, err)
		}
	}
	return nil
}

// BookTable reserves a table for a client at the given time. A table holds
// at most one active booking per calendar date, and a client holds at most
// one active booking at a time.
func (s *Service) BookTable(ctx context.Context, clientID int, at time.Time, tableID int, requestID string) (*models.Order, error) {
	var booking *models.Order

	err := s.store.WithinTx(ctx, func(tx Tx) error {
		if _, err := tx.LockTable(ctx, tableID); err != nil {
			return err
		}

		existing, err := tx.CountTableBookings(ctx, tableID, at)
		if err != nil {
			return err
		}
		if existing > 0 {
			return apperr.ErrAlreadyBooked
		}

		held, err := tx.HasClientBooking(ctx, clientID, startOfDay(s.now()))
		if err != nil {
			return err
		}
		if held {
			return apperr.ErrAlreadyBooked
		}

		booking = &models.Order{
			Kind:     models.KindBooking,
			Status:   models.StatusAccepted,
			Date:     at,
			ClientID: &clientID,
			TableID:  &tableID,
		}
		id, err := tx.InsertOrder(ctx, booking)
		if err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}
		booking.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("table_booked", requestID, "Table booked",
		"booking_id", booking.ID, "table_id", tableID, "client_id", clientID)

	return booking, nil
}

// GetUserBooking returns the client's active (today or later, not
// cancelled) booking, or nil if none exists
func (s *Service) GetUserBooking(ctx context.Context, clientID int) (*models.Order, error) {
	return s.store.GetUserBooking(ctx, clientID, startOfDay(s.now()))
}

// GetAllBookings returns every booking, for the floor staff overview
func (s *Service) GetAllBookings(ctx context.Context) ([]*models.Order, error) {
	return s.store.GetAllBookings(ctx)
}

// GetAvailableTables returns tables free for booking on the given date.
// For today it also excludes currently occupied tables.
func (s *Service) GetAvailableTables(ctx context.Context, day time.Time) ([]models.Table, error) {
	tables, err := s.store.GetTables(ctx)
	if err != nil {
		return nil, err
	}

	booked, err := s.store.BookedTableIDs(ctx, day)
	if err != nil {
		return nil, err
	}

	today := models.SameDay(day, s.now())

	available := make([]models.Table, 0, len(tables))
	for _, table := range tables {
		if booked[table.ID] {
			continue
		}
		if today && table.ClientID != nil {
			continue
		}
		available = append(available, table)
	}
	return available, nil
}

// ChangeOrderStatus overwrites the order status. Unknown labels and
// transitions out of a terminal state are rejected; leaving Served
// releases the table occupant.
func (s *Service) ChangeOrderStatus(ctx context.Context, orderID int, newStatus models.OrderStatus, requestID string) error {
	if !newStatus.Valid() {
		return apperr.Validation("unknown order status %q", string(newStatus))
	}

	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if order.Status.Terminal() {
		return apperr.Validation("order %d is already %s", order.ID, order.Status)
	}

	if order.Status == models.StatusServed && newStatus != models.StatusServed && order.TableID != nil {
		if err := s.store.SetTableClient(ctx, *order.TableID, nil); err != nil {
			return fmt.Errorf("failed to release table: %w", err)
		}
	}

	if err := s.store.UpdateOrderStatus(ctx, orderID, newStatus); err != nil {
		return err
	}

	s.logger.Info("order_status_changed", requestID, "Order status changed",
		"order_id", orderID, "old_status", string(order.Status), "new_status", string(newStatus))

	oldStatus := order.Status
	order.Status = newStatus
	s.publishEvent(ctx, order, "order.status_changed", oldStatus, requestID)

	return nil
}

// CancelOrder marks the order or booking cancelled. The row is kept and
// consumed stock is not restored.
func (s *Service) CancelOrder(ctx context.Context, orderID int, requestID string) error {
	return s.ChangeOrderStatus(ctx, orderID, models.StatusCancelled, requestID)
}

// GetOrder returns a single order with its line items
func (s *Service) GetOrder(ctx context.Context, orderID int) (*models.Order, error) {
	return s.store.GetOrder(ctx, orderID)
}

// GetOrders returns placed orders (never bookings), newest first,
// optionally filtered by status and table ids
func (s *Service) GetOrders(ctx context.Context, status *models.OrderStatus, tableIDs []int) ([]*models.Order, error) {
	if status != nil && !status.Valid() {
		return nil, apperr.Validation("unknown order status %q", string(*status))
	}
	return s.store.GetOrders(ctx, status, tableIDs)
}

// GetUserOrders returns the client's placed orders, newest first
func (s *Service) GetUserOrders(ctx context.Context, clientID int) ([]*models.Order, error) {
	return s.store.GetOrdersByClient(ctx, clientID)
}

// GetDeliveryOrders returns orders handed to a courier
func (s *Service) GetDeliveryOrders(ctx context.Context) ([]*models.Order, error) {
	return s.store.GetDeliveryOrders(ctx)
}

// GetUnfinishedDeliveryOrders returns delivery orders still waiting for a
// courier appointment
func (s *Service) GetUnfinishedDeliveryOrders(ctx context.Context) ([]*models.Order, error) {
	return s.store.GetUnassignedDeliveryOrders(ctx)
}

// AnalyzeSales sums sold quantities per product over the inclusive date range
func (s *Service) AnalyzeSales(ctx context.Context, from, to time.Time) ([]models.ProductSales, error) {
	if to.Before(from) {
		return nil, apperr.Validation("report period end precedes its start")
	}
	return s.store.SalesByProduct(ctx, from, to)
}

// publishEvent publishes an order event; delivery failures are logged, not
// surfaced, since the order itself is already committed
func (s *Service) publishEvent(ctx context.Context, order *models.Order, routingKey string, oldStatus models.OrderStatus, requestID string) {
	if s.publisher == nil {
		return
	}

	event := &models.OrderEvent{
		Event:     routingKey,
		OrderID:   order.ID,
		Kind:      order.Kind,
		Status:    order.Status,
		OldStatus: oldStatus,
		Date:      models.FormatDateTime(order.Date),
		TableID:   order.TableID,
		Address:   order.Address,
	}
	for _, line := range order.Items {
		event.Items = append(event.Items, models.OrderEventItem{Name: line.ProductName, Count: line.Count})
	}

	if err := s.publisher.PublishOrderEvent(ctx, event, routingKey); err != nil {
		s.logger.Error("event_publish_failed", requestID, "Failed to publish order event", err,
			"order_id", order.ID, "routing_key", routingKey)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
