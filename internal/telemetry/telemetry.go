package telemetry

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide structured logger. It discards output until
// InitTelemetry runs, which keeps tests quiet.
var Logger = zap.NewNop()

var (
	serviceName    = "payment-tracker"
	tracerProvider *sdktrace.TracerProvider
)

// InitTelemetry configures the global logger and, when tracingEndpoint is
// set, an OTLP/HTTP trace exporter. logLevel is a zap level name; empty means info.
func InitTelemetry(service, tracingEndpoint, logLevel string) error {
	serviceName = service

	cfg := zap.NewProductionConfig()
	if logLevel != "" {
		level, err := zapcore.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}
	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	Logger = logger.With(zap.String("service", service))

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if tracingEndpoint == "" {
		return nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(trimScheme(tracingEndpoint))}
	if !strings.HasPrefix(tracingEndpoint, "https://") {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return err
	}

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", service))),
	)
	otel.SetTracerProvider(tracerProvider)

	Logger.Info("Tracing enabled", zap.String("endpoint", tracingEndpoint))
	return nil
}

// Shutdown flushes pending spans and log entries.
func Shutdown(ctx context.Context) {
	if tracerProvider != nil {
		if err := tracerProvider.Shutdown(ctx); err != nil {
			Logger.Error("Failed to shut down tracer provider", zap.Error(err))
		}
	}
	_ = Logger.Sync()
}

func trimScheme(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")
	return strings.TrimSuffix(endpoint, "/")
}
