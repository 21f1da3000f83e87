package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/urbanthreads/storefront-service/internal/config"
	"github.com/urbanthreads/storefront-service/internal/logging"
	"github.com/urbanthreads/storefront-service/internal/models"
)

// EventType identifies an order lifecycle event.
type EventType string

const (
	EventTypeOrderCreated   EventType = "order.created"
	EventTypeOrderPaid      EventType = "order.paid"
	EventTypeOrderDelivered EventType = "order.delivered"
)

// OrderEvent is the envelope published for every order lifecycle change.
type OrderEvent struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	OrderID   string          `json:"order_id"`
	UserID    string          `json:"user_id"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Publisher publishes order lifecycle events.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, order *models.Order) error
	PublishOrderPaid(ctx context.Context, order *models.Order) error
	PublishOrderDelivered(ctx context.Context, order *models.Order) error
	Close() error
}

// KafkaPublisher publishes order events to Kafka, keyed by order id so
// per-order ordering is preserved.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *logging.Logger
}

var _ Publisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a new Kafka-based event publisher.
func NewKafkaPublisher(cfg config.KafkaConfig, logger *logging.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.OrdersTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaPublisher{
		writer: writer,
		logger: logger,
	}
}

// PublishOrderCreated publishes an order.created event.
func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	return p.publishOrder(ctx, EventTypeOrderCreated, order)
}

// PublishOrderPaid publishes an order.paid event.
func (p *KafkaPublisher) PublishOrderPaid(ctx context.Context, order *models.Order) error {
	return p.publishOrder(ctx, EventTypeOrderPaid, order)
}

// PublishOrderDelivered publishes an order.delivered event.
func (p *KafkaPublisher) PublishOrderDelivered(ctx context.Context, order *models.Order) error {
	return p.publishOrder(ctx, EventTypeOrderDelivered, order)
}

func (p *KafkaPublisher) publishOrder(ctx context.Context, eventType EventType, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}

	event := &OrderEvent{
		ID:        "evt_" + uuid.NewString(),
		Type:      eventType,
		OrderID:   order.ID,
		UserID:    order.UserID,
		Data:      data,
		Timestamp: time.Now(),
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: eventData,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event", logging.Fields{
			"event_id":   event.ID,
			"event_type": event.Type,
			"order_id":   event.OrderID,
			"error":      err.Error(),
		})
		return err
	}

	p.logger.Info("Event published", logging.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
		"order_id":   event.OrderID,
	})
	return nil
}

// Close closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher discards events. Used when order events are disabled and in
// tests.
type NoopPublisher struct{}

var _ Publisher = (*NoopPublisher)(nil)

func (NoopPublisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	return nil
}

func (NoopPublisher) PublishOrderPaid(ctx context.Context, order *models.Order) error {
	return nil
}

func (NoopPublisher) PublishOrderDelivered(ctx context.Context, order *models.Order) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
