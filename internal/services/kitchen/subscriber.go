// Package kitchen consumes order events and surfaces them to the kitchen
// staff console.
package kitchen

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"restaurant-backend/internal/logger"
	"restaurant-backend/internal/messaging"
	"restaurant-backend/internal/models"
)

// Subscriber consumes the kitchen queue and prints kitchen-facing lines
type Subscriber struct {
	consumer *messaging.Consumer
	logger   *logger.Logger

	shutdown chan os.Signal
	done     chan bool
}

// NewSubscriber creates a new kitchen subscriber
func NewSubscriber(consumer *messaging.Consumer, log *logger.Logger) *Subscriber {
	return &Subscriber{
		consumer: consumer,
		logger:   log,
		shutdown: make(chan os.Signal, 1),
		done:     make(chan bool, 1),
	}
}

// Start runs the subscriber until a shutdown signal arrives
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)

	s.logger.Info("service_started", requestID, "Kitchen subscriber started")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := s.consumer.StartConsuming(ctx, s.handleEvent); err != nil && ctx.Err() == nil {
			s.logger.Error("consumer_failed", requestID, "Kitchen consumer failed", err)
		}
		s.done <- true
	}()

	select {
	case <-s.shutdown:
		s.logger.Info("graceful_shutdown", requestID, "Received shutdown signal")
		cancel()
		<-s.done
		return s.consumer.Close()
	case <-s.done:
		return nil
	}
}

// handleEvent processes one order event from the queue
func (s *Subscriber) handleEvent(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var event models.OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.logger.Error("message_parsing_failed", requestID, "Failed to parse order event", err)
		return fmt.Errorf("failed to parse order event: %w", err)
	}

	// bookings carry no work for the kitchen
	if event.Kind == models.KindBooking {
		return nil
	}

	fmt.Println(formatEvent(&event))

	s.logger.Info("order_event_displayed", requestID, "Order event displayed",
		"order_id", event.OrderID, "event", event.Event, "status", string(event.Status))

	return nil
}

// formatEvent builds the kitchen console line for an event
func formatEvent(event *models.OrderEvent) string {
	where := "dine-in"
	if event.Address != nil {
		where = "delivery to " + *event.Address
	} else if event.TableID != nil {
		where = fmt.Sprintf("table %d", *event.TableID)
	}

	switch event.Event {
	case messaging.RoutingOrderCreated:
		items := make([]string, 0, len(event.Items))
		for _, item := range event.Items {
			items = append(items, fmt.Sprintf("%dx %s", item.Count, item.Name))
		}
		return fmt.Sprintf("[%s] NEW order #%d (%s): %s",
			event.Date, event.OrderID, where, strings.Join(items, ", "))
	case messaging.RoutingOrderStatusChanged:
		return fmt.Sprintf("[%s] Order #%d (%s): %s -> %s",
			event.Date, event.OrderID, where, string(event.OldStatus), string(event.Status))
	default:
		return fmt.Sprintf("[%s] Order #%d: %s", event.Date, event.OrderID, event.Event)
	}
}
