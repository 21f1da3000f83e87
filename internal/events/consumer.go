package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/urbanthreads/storefront-service/internal/clients"
	"github.com/urbanthreads/storefront-service/internal/config"
	"github.com/urbanthreads/storefront-service/internal/logging"
	"github.com/urbanthreads/storefront-service/internal/models"
)

// NotificationSender delivers buyer-facing emails.
type NotificationSender interface {
	Send(ctx context.Context, req *clients.SendEmailRequest) error
}

// KafkaConsumer reads order events and turns payment and delivery
// confirmations into buyer emails. Keeping email off the request path means a
// slow or failing mail service can never delay a state transition.
type KafkaConsumer struct {
	reader   *kafka.Reader
	notifier NotificationSender
	logger   *logging.Logger
	stopCh   chan struct{}
}

// NewKafkaConsumer creates a new Kafka-based event consumer.
func NewKafkaConsumer(cfg config.KafkaConfig, notifier NotificationSender, logger *logging.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.OrdersTopic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})

	return &KafkaConsumer{
		reader:   reader,
		notifier: notifier,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start begins consuming events. It blocks until the context is cancelled or
// Stop is called.
func (c *KafkaConsumer) Start(ctx context.Context) error {
	c.logger.Info("Starting order event consumer")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopCh:
			c.logger.Info("Order event consumer stopped")
			return nil
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.logger.Error("Failed to read message", logging.Fields{"error": err.Error()})
				continue
			}

			c.handleMessage(ctx, msg)
		}
	}
}

// Stop stops the consumer.
func (c *KafkaConsumer) Stop() {
	close(c.stopCh)
	c.reader.Close()
}

func (c *KafkaConsumer) handleMessage(ctx context.Context, msg kafka.Message) {
	var event OrderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Error("Failed to unmarshal event", logging.Fields{"error": err.Error()})
		return
	}

	switch event.Type {
	case EventTypeOrderPaid:
		c.notify(ctx, &event, "Order Marked as Paid",
			"Your order %s has been marked as paid.")
	case EventTypeOrderDelivered:
		c.notify(ctx, &event, "Order Delivered",
			"Your order %s has been delivered.")
	default:
		// Creation events exist for downstream consumers; nothing to email.
	}
}

func (c *KafkaConsumer) notify(ctx context.Context, event *OrderEvent, subject, bodyFormat string) {
	var order models.Order
	if err := json.Unmarshal(event.Data, &order); err != nil {
		c.logger.Error("Failed to unmarshal order payload", logging.Fields{
			"event_id": event.ID,
			"error":    err.Error(),
		})
		return
	}

	// Recipient is the buyer's user id; the notification service resolves
	// it to an address.
	req := &clients.SendEmailRequest{
		Recipient: order.UserID,
		Subject:   subject,
		Body:      fmt.Sprintf(bodyFormat, order.ID),
	}

	if err := c.notifier.Send(ctx, req); err != nil {
		// Email failure never rolls back the transition it follows.
		c.logger.Error("Failed to send notification", logging.Fields{
			"order_id": event.OrderID,
			"error":    err.Error(),
		})
	}
}
