package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/akylbek/payment-system/payment-tracker/internal/config"
	"github.com/akylbek/payment-system/payment-tracker/internal/events"
	"github.com/akylbek/payment-system/payment-tracker/internal/models"
)

const watchGroupID = "payment-tracker-watch"

var errNoTransport = errors.New("no event transport configured: set KAFKA_BROKERS or NATS_URL")

func newWatchCmd() *cobra.Command {
	var (
		transport string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print payment events as they are published",
		Long: `watch follows the payment event stream on Kafka (KAFKA_BROKERS, KAFKA_TOPIC)
or NATS (NATS_URL, NATS_SUBJECT) and prints one line per event until
interrupted. With --transport auto, Kafka is used when brokers are configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			handle := eventPrinter(cmd.OutOrStdout(), asJSON)
			switch pickTransport(transport, cfg) {
			case "kafka":
				reader := events.NewKafkaReader(cfg.KafkaBrokers, cfg.KafkaTopic, watchGroupID)
				defer reader.Close()
				return events.ConsumeKafka(ctx, reader, handle)
			case "nats":
				return watchNATS(ctx, cfg, handle)
			}
			return errNoTransport
		},
	}
	cmd.Flags().StringVar(&transport, "transport", "auto", "Event transport: auto, kafka or nats")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print each event as a JSON line")
	return cmd
}

func pickTransport(requested string, cfg *config.Config) string {
	switch requested {
	case "kafka":
		if len(cfg.KafkaBrokers) > 0 {
			return "kafka"
		}
	case "nats":
		if cfg.NATSURL != "" {
			return "nats"
		}
	case "auto", "":
		if len(cfg.KafkaBrokers) > 0 {
			return "kafka"
		}
		if cfg.NATSURL != "" {
			return "nats"
		}
	}
	return ""
}

func watchNATS(ctx context.Context, cfg *config.Config, handle events.Handler) error {
	nc, err := nats.Connect(cfg.NATSURL, nats.Name("paymentctl"))
	if err != nil {
		return err
	}
	defer nc.Close()

	sub, err := events.SubscribeNATS(nc, cfg.NATSSubject, handle)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	<-ctx.Done()
	return nil
}

func eventPrinter(w io.Writer, asJSON bool) events.Handler {
	return func(ctx context.Context, event models.PaymentEvent) error {
		if asJSON {
			return json.NewEncoder(w).Encode(event)
		}
		_, err := fmt.Fprintln(w, formatEvent(event))
		return err
	}
}

func formatEvent(event models.PaymentEvent) string {
	line := event.OccurredAt.UTC().Format(time.RFC3339) + " " + event.Type
	switch {
	case event.PaymentID != "":
		line += " " + event.PaymentID
	case event.Type == models.EventPaymentsImported:
		line += fmt.Sprintf(" count=%d", event.Count)
	}
	if event.Payment != nil && event.Payment.PayeePaymentStatus != "" {
		line += " status=" + string(event.Payment.PayeePaymentStatus)
	}
	return line
}
