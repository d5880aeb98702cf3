package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/akylbek/payment-system/payment-tracker/internal/models"
	"github.com/akylbek/payment-system/payment-tracker/internal/telemetry"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a single topic keyed by payment id. The
// writer hashes the key, so every event for one payment lands on the same
// partition.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event models.PaymentEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	key := event.PaymentID
	if key == "" {
		key = event.Type
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(event.Type)}},
	})
	telemetry.EventsPublished.WithLabelValues("kafka", result(err)).Inc()
	return err
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
