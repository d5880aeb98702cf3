// Package app assembles the payment service from configuration. Both the
// HTTP server and paymentctl build their dependencies through it.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-tracker/internal/cache"
	"github.com/akylbek/payment-system/payment-tracker/internal/config"
	"github.com/akylbek/payment-system/payment-tracker/internal/events"
	"github.com/akylbek/payment-system/payment-tracker/internal/evidence"
	"github.com/akylbek/payment-system/payment-tracker/internal/interfaces"
	"github.com/akylbek/payment-system/payment-tracker/internal/repository"
	"github.com/akylbek/payment-system/payment-tracker/internal/service"
	"github.com/akylbek/payment-system/payment-tracker/internal/telemetry"
)

type App struct {
	Service *service.PaymentService

	closers []func() error
}

// New connects the store and, when configured, the Redis cache and the event
// transports. Cache and broker failures are logged and the app runs without
// them; a store failure is fatal.
func New(ctx context.Context, cfg *config.Config, opts ...service.Option) (*App, error) {
	a := &App{}

	repo, err := a.openStore(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			telemetry.Logger.Warn("Redis unavailable, running without cache", zap.Error(err))
		} else {
			a.closers = append(a.closers, rc.Close)
			repo = repository.NewCachedPaymentRepository(repo, rc, cfg.CacheTTL)
		}
	}

	store, err := evidence.NewFileStore(cfg.EvidenceDir)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("evidence store: %w", err)
	}

	opts = append([]service.Option{service.WithPublisher(a.publisher(cfg))}, opts...)
	a.Service = service.NewPaymentService(repo, store, opts...)
	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config) (interfaces.PaymentRepository, error) {
	if cfg.UsesMemoryStore() {
		telemetry.Logger.Warn("Using in-memory payment store; data is lost on exit")
		return repository.NewMemoryPaymentRepository(), nil
	}

	dialect, err := repository.ParseDialect(cfg.DBDriver)
	if err != nil {
		return nil, err
	}
	db, err := repository.Open(ctx, dialect, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", dialect, err)
	}
	a.closers = append(a.closers, db.Close)

	repo := repository.NewPaymentRepository(db, dialect)
	if err := repo.InitDB(); err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	telemetry.Logger.Info("Connected to database", zap.String("driver", dialect.String()))
	return repo, nil
}

func (a *App) publisher(cfg *config.Config) interfaces.EventPublisher {
	var multi events.MultiPublisher

	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		a.closers = append(a.closers, kp.Close)
		multi = append(multi, kp)
	}
	if cfg.NATSURL != "" {
		np, err := events.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			telemetry.Logger.Warn("NATS unavailable, events will not be published there", zap.Error(err))
		} else {
			a.closers = append(a.closers, np.Close)
			multi = append(multi, np)
		}
	}

	if len(multi) == 0 {
		return events.NopPublisher{}
	}
	return multi
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			telemetry.Logger.Warn("Error during shutdown", zap.Error(err))
		}
	}
	a.closers = nil
}
