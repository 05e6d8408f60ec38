package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event is a domain event published after a state change has been committed.
type Event interface {
	Type() string
	// Key groups related events on one partition.
	Key() string
}

type Dispatcher interface {
	Dispatch(ctx context.Context, event Event) error
}

// Envelope is the wire shape written to the broker.
type Envelope struct {
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// KafkaDispatcher publishes events as JSON envelopes to a single topic.
type KafkaDispatcher struct {
	writer *kafka.Writer
}

func NewKafkaDispatcher(brokers []string, topic string) *KafkaDispatcher {
	return &KafkaDispatcher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
			MaxAttempts:  3,
			WriteTimeout: 2 * time.Second,
		},
	}
}

func (d *KafkaDispatcher) Dispatch(ctx context.Context, event Event) error {
	msg, err := Encode(event, time.Now())
	if err != nil {
		return err
	}
	if err := d.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type(), err)
	}
	return nil
}

func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}

// Encode wraps an event into a broker message.
func Encode(event Event, at time.Time) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode %s: %w", event.Type(), err)
	}
	value, err := json.Marshal(Envelope{EventType: event.Type(), Payload: payload, Timestamp: at.UTC()})
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(event.Key()),
		Value: value,
		Time:  at,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type())},
		},
	}, nil
}

// NopDispatcher drops every event. Used when no broker is configured.
type NopDispatcher struct{}

func (NopDispatcher) Dispatch(context.Context, Event) error { return nil }
