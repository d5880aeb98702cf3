package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-tracker/internal/api"
	"github.com/akylbek/payment-system/payment-tracker/internal/app"
	"github.com/akylbek/payment-system/payment-tracker/internal/config"
	"github.com/akylbek/payment-system/payment-tracker/internal/handlers"
	"github.com/akylbek/payment-system/payment-tracker/internal/telemetry"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	if err := telemetry.InitTelemetry("payment-tracker", cfg.JaegerEndpoint, cfg.LogLevel); err != nil {
		panic(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}
	defer telemetry.Shutdown(context.Background())

	if err := cfg.Validate(); err != nil {
		telemetry.Logger.Fatal("Invalid configuration", zap.Error(err))
	}

	telemetry.Logger.Info("Starting payment tracker")

	application, err := app.New(context.Background(), cfg)
	if err != nil {
		telemetry.Logger.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer application.Close()

	gin.SetMode(gin.ReleaseMode)
	handler := handlers.NewPaymentHandler(application.Service, cfg.MaxUploadBytes)
	r := api.NewRouter(handler, api.RouterConfig{AllowedOrigins: cfg.AllowedOrigins})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		telemetry.Logger.Info("Payment tracker listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			telemetry.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	telemetry.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		telemetry.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	telemetry.Logger.Info("Server exited")
}
