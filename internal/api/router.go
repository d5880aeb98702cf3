package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akylbek/payment-system/payment-tracker/internal/handlers"
	"github.com/akylbek/payment-system/payment-tracker/internal/middleware"
	"github.com/akylbek/payment-system/payment-tracker/internal/telemetry"
)

const serviceName = "payment-tracker"

type RouterConfig struct {
	AllowedOrigins []string
}

// NewRouter wires the REST routes and the legacy dashboard aliases onto one engine.
func NewRouter(h *handlers.PaymentHandler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(telemetry.TracingMiddleware())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": serviceName})
	})

	payments := r.Group("/payments")
	{
		payments.GET("", h.ListPayments)
		payments.POST("", h.CreatePayment)
		payments.POST("/import", h.ImportPayments)
		payments.GET("/:id", h.GetPayment)
		payments.PUT("/:id", h.UpdatePayment)
		payments.DELETE("/:id", h.DeletePayment)
		payments.POST("/:id/evidence", h.UploadEvidence)
		payments.GET("/:id/evidence", h.DownloadEvidence)
	}

	r.GET("/get_payments", h.ListPayments)
	r.POST("/create_payment", h.LegacyCreatePayment)
	r.PUT("/update_payment", h.LegacyUpdatePayment)
	r.DELETE("/delete_payment/:id", h.DeletePayment)
	r.POST("/upload_evidence", h.LegacyUploadEvidence)
	r.GET("/download_evidence", h.LegacyDownloadEvidence)
	r.POST("/upload_csv", h.ImportPayments)

	return r
}
