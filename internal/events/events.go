// Package events publishes order lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"rental-marketplace-backend/internal/domain"
	"rental-marketplace-backend/internal/logger"
)

const (
	TypeOrderCreated       = "order.created"
	TypeOrderRepriced      = "order.repriced"
	TypeOrderStatusUpdated = "order.status_updated"
)

// OrderEvent is the payload written for every order change.
type OrderEvent struct {
	Type          string               `json:"type"`
	OrderID       uuid.UUID            `json:"orderId"`
	UserID        uuid.UUID            `json:"userId"`
	Status        domain.OrderStatus   `json:"status"`
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
	FinalAmount   decimal.Decimal      `json:"finalAmount"`
	OccurredAt    time.Time            `json:"occurredAt"`
}

func NewOrderEvent(eventType string, o *domain.Order) OrderEvent {
	return OrderEvent{
		Type:          eventType,
		OrderID:       o.ID,
		UserID:        o.UserID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		FinalAmount:   o.FinalAmount,
		OccurredAt:    time.Now().UTC(),
	}
}

type Publisher interface {
	PublishOrder(ctx context.Context, event OrderEvent) error
	Close() error
}

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer messageWriter
}

// NewKafkaWriter creates a writer that waits for the partition leader only.
// Messages are partitioned by key hash.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

// NewKafkaPublisher returns a publisher writing to topic, or a no-op one
// when no brokers are configured.
func NewKafkaPublisher(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return Noop{}
	}
	return &kafkaPublisher{writer: NewKafkaWriter(brokers, topic)}
}

// PublishOrder keys messages by order id so one order's events stay ordered.
func (p *kafkaPublisher) PublishOrder(ctx context.Context, event OrderEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	logger.ExternalServiceCall("kafka", "publish", "type", event.Type, "order_id", event.OrderID)
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: value,
		Time:  event.OccurredAt,
	})
	logger.ExternalServiceResult("kafka", "publish", err)
	return err
}

func (p *kafkaPublisher) Close() error { return p.writer.Close() }

type Noop struct{}

func (Noop) PublishOrder(context.Context, OrderEvent) error { return nil }
func (Noop) Close() error                                   { return nil }
