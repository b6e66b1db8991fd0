package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"restaurant-backend/internal/logger"
)

// MessageHandler processes one delivery body
type MessageHandler func(ctx context.Context, body []byte) error

// Consumer consumes messages from a queue with manual acknowledgement
type Consumer struct {
	conn        *Connection
	logger      *logger.Logger
	queueName   string
	consumerTag string
	prefetch    int
}

// NewConsumer creates a new message consumer
func NewConsumer(conn *Connection, log *logger.Logger, queueName, consumerTag string, prefetch int) *Consumer {
	return &Consumer{
		conn:        conn,
		logger:      log,
		queueName:   queueName,
		consumerTag: consumerTag,
		prefetch:    prefetch,
	}
}

// StartConsuming consumes messages until ctx is cancelled. Handler failures
// nack with requeue; successes ack.
func (c *Consumer) StartConsuming(ctx context.Context, handler MessageHandler) error {
	if c.conn.IsClosed() {
		if err := c.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	if err := c.conn.Channel().Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := c.conn.Channel().Consume(
		c.queueName,
		c.consumerTag,
		false, // auto-ack off, we ack manually
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("consumer_started", "",
		fmt.Sprintf("Started consuming from %s", c.queueName),
		"queue", c.queueName, "consumer", c.consumerTag, "prefetch", c.prefetch)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer_stopped", "", "Consumer stopped by context")
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				c.logger.Error("consumer_channel_closed", "",
					"Message channel closed, attempting to reconnect", nil)
				if err := c.conn.Reconnect(); err != nil {
					return fmt.Errorf("failed to reconnect after channel closed: %w", err)
				}
				return c.StartConsuming(ctx, handler)
			}
			c.processMessage(ctx, d, handler)
		}
	}
}

// processMessage handles a single delivery
func (c *Consumer) processMessage(ctx context.Context, delivery amqp091.Delivery, handler MessageHandler) {
	start := time.Now()

	processingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	err := handler(processingCtx, delivery.Body)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error("message_processing_failed", "", "Failed to process message", err,
			"queue", c.queueName, "routing_key", delivery.RoutingKey,
			"duration_ms", duration.Milliseconds())

		if nackErr := delivery.Nack(false, true); nackErr != nil {
			c.logger.Error("message_nack_failed", "", "Failed to nack message", nackErr)
		}
		return
	}

	c.logger.Debug("message_processed", "", "Processed message",
		"queue", c.queueName, "routing_key", delivery.RoutingKey,
		"duration_ms", duration.Milliseconds())

	if ackErr := delivery.Ack(false); ackErr != nil {
		c.logger.Error("message_ack_failed", "", "Failed to ack message", ackErr)
	}
}

// ParseMessage parses a JSON message body into v
func ParseMessage(body []byte, v interface{}) error {
	return json.Unmarshal(body, v)
}

// Close cancels the consumer and shuts the connection down
func (c *Consumer) Close() error {
	if c.conn != nil && !c.conn.IsClosed() {
		if err := c.conn.Channel().Cancel(c.consumerTag, false); err != nil {
			c.logger.Error("consumer_cancel_failed", "", "Failed to cancel consumer", err)
		}
		return c.conn.Close()
	}
	return nil
}
