// Package events publishes storefront activity (orders placed, admin
// actions, contact messages) for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const (
	CartItemAdded      = "cart_item_added"
	OrderPlaced        = "order_placed"
	OrderMarkedPaid    = "order_marked_paid"
	OrderStatusChanged = "order_status_changed"
	PaymentConfirmed   = "payment_confirmed"
	ProductSaved       = "product_saved"
	ProductDeleted     = "product_deleted"
	UserRoleChanged    = "user_role_changed"
	UserDeleted        = "user_deleted"
	BankCreated        = "bank_created"
	BankDeleted        = "bank_deleted"
	ContactSent        = "contact_sent"
	MessageRead        = "message_read"
)

type Event struct {
	Type       string            `json:"type"`
	Key        string            `json:"key,omitempty"`
	ActorID    int64             `json:"actor_id,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
	Attrs      map[string]string `json:"attrs,omitempty"`
}

// New stamps an event of the given type keyed by key.
func New(eventType, key string) Event {
	return Event{Type: eventType, Key: key, OccurredAt: time.Now().UTC()}
}

// With adds an attribute.
func (e Event) With(k, v string) Event {
	if e.Attrs == nil {
		e.Attrs = map[string]string{}
	}
	e.Attrs[k] = v
	return e
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes each event as one JSON message keyed by Event.Key.
type KafkaPublisher struct {
	w      messageWriter
	logger zerolog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.CRC32Balancer{},
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				logger.Warn().Err(err).Int("messages", len(msgs)).Msg("kafka delivery failed")
			}
		},
	}
	return &KafkaPublisher{w: w, logger: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", e.Type, err)
	}
	msg := kafka.Message{
		Key:   []byte(e.Key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(e.Type)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s event: %w", e.Type, err)
	}
	p.logger.Debug().Str("type", e.Type).Str("key", e.Key).Msg("event published")
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

type nopPublisher struct{}

// Nop discards every event. Used when no brokers are configured.
func Nop() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, Event) error { return nil }
func (nopPublisher) Close() error                         { return nil }

// FromConfig picks the Kafka publisher when brokers are set.
func FromConfig(brokers []string, topic string, logger zerolog.Logger) Publisher {
	if len(brokers) == 0 {
		return Nop()
	}
	return NewKafkaPublisher(brokers, topic, logger)
}
