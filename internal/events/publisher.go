package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/logger"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/metrics"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/subscription"
)

const writeTimeout = 15 * time.Second

// Event is the JSON body written for every subscription change.
type Event struct {
	ID           string                     `json:"id"`
	Kind         subscription.EventKind     `json:"kind"`
	OccurredAt   time.Time                  `json:"occurred_at"`
	Subscription *subscription.Subscription `json:"subscription"`
}

// Publisher delivers subscription lifecycle events.
type Publisher interface {
	subscription.EventPublisher
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	now    func() time.Time
}

// New returns a Kafka publisher, or a no-op one when no brokers are configured.
func New(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		logger.Info("Kafka brokers not configured, subscription events disabled")
		return NopPublisher{}
	}
	return NewKafkaPublisher(brokers, topic)
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	logger.Info("Kafka publisher initialized", "brokers", brokers, "topic", topic)
	return &KafkaPublisher{writer: writer, now: time.Now}
}

// Publish writes one event keyed by subscription id, so changes to one
// subscription stay ordered within a partition.
func (p *KafkaPublisher) Publish(ctx context.Context, kind subscription.EventKind, sub *subscription.Subscription) error {
	event := Event{
		ID:           uuid.NewString(),
		Kind:         kind,
		OccurredAt:   p.now().UTC(),
		Subscription: sub,
	}

	value, err := json.Marshal(event)
	if err != nil {
		metrics.RecordEvent(string(kind), "failed")
		return fmt.Errorf("events: marshal %s: %w", kind, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(sub.ID, 10)),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(kind)},
		},
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		metrics.RecordEvent(string(kind), "failed")
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("events: write timeout: %w", err)
		}
		return fmt.Errorf("events: write %s: %w", kind, err)
	}

	metrics.RecordEvent(string(kind), "ok")
	logger.Debug("Subscription event published", "kind", kind, "subscription_id", sub.ID, "event_id", event.ID)
	return nil
}

func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("events: close writer: %w", err)
	}
	return nil
}

// NopPublisher drops events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, subscription.EventKind, *subscription.Subscription) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
