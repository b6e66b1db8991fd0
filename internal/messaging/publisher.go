package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"restaurant-backend/internal/logger"
	"restaurant-backend/internal/models"
)

// Publisher publishes order events to the orders exchange
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

// NewPublisher creates a new order event publisher
func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// PublishOrderEvent publishes an order event with the given routing key
func (p *Publisher) PublishOrderEvent(ctx context.Context, event *models.OrderEvent, routingKey string) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.conn.Channel().PublishWithContext(
		ctx,
		OrdersExchange,
		routingKey,
		false, // mandatory
		false, // immediate
		publishing,
	)
	if err != nil {
		p.logger.Error("event_publish_failed", "",
			fmt.Sprintf("Failed to publish to exchange %s", OrdersExchange), err,
			"routing_key", routingKey, "order_id", event.OrderID)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("event_published", "", "Published order event",
		"routing_key", routingKey, "order_id", event.OrderID, "size", len(body))

	return nil
}

// Close closes the publisher connection
func (p *Publisher) Close() error {
	return p.conn.Close()
}
