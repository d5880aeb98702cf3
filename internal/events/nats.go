package events

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-tracker/internal/models"
	"github.com/akylbek/payment-system/payment-tracker/internal/telemetry"
)

// NATSPublisher publishes each event on "<subject>.<event type>".
type NATSPublisher struct {
	nc      *nats.Conn
	subject string
}

func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("payment-tracker"))
	if err != nil {
		return nil, err
	}
	telemetry.Logger.Info("Connected to NATS", zap.String("url", nc.ConnectedUrl()))
	return &NATSPublisher{nc: nc, subject: subject}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, event models.PaymentEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	err = p.nc.Publish(eventSubject(p.subject, event.Type), data)
	telemetry.EventsPublished.WithLabelValues("nats", result(err)).Inc()
	return err
}

func (p *NATSPublisher) Close() error {
	return p.nc.Drain()
}

func eventSubject(subject, eventType string) string {
	return subject + "." + eventType
}

// subscriptionSubject matches every event subject under subject, including
// event types that contain dots themselves.
func subscriptionSubject(subject string) string {
	return subject + ".>"
}
