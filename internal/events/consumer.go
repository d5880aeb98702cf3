package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/nats-io/nats.go"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-tracker/internal/models"
	"github.com/akylbek/payment-system/payment-tracker/internal/telemetry"
)

// Handler receives decoded events.
type Handler func(ctx context.Context, event models.PaymentEvent) error

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
}

// ConsumeKafka reads until ctx is cancelled or the reader is closed, and
// returns any other read error. Undecodable messages and handler failures
// are logged and skipped.
func ConsumeKafka(ctx context.Context, reader messageReader, handle Handler) error {
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			telemetry.Logger.Error("Error reading message from Kafka", zap.Error(err))
			return err
		}
		dispatch(ctx, msg.Value, handle)
	}
}

// SubscribeNATS delivers every event published under subject.
func SubscribeNATS(nc *nats.Conn, subject string, handle Handler) (*nats.Subscription, error) {
	return nc.Subscribe(subscriptionSubject(subject), func(msg *nats.Msg) {
		dispatch(context.Background(), msg.Data, handle)
	})
}

func dispatch(ctx context.Context, data []byte, handle Handler) {
	var event models.PaymentEvent
	if err := json.Unmarshal(data, &event); err != nil {
		telemetry.Logger.Error("Error unmarshaling event", zap.Error(err))
		return
	}
	if err := handle(ctx, event); err != nil {
		telemetry.Logger.Error("Error handling event",
			zap.String("type", event.Type),
			zap.String("payment_id", event.PaymentID),
			zap.Error(err),
		)
	}
}
