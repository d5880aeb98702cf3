package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/akylbek/payment-system/payment-tracker/internal/evidence"
	"github.com/akylbek/payment-system/payment-tracker/internal/handlers"
	"github.com/akylbek/payment-system/payment-tracker/internal/repository"
	"github.com/akylbek/payment-system/payment-tracker/internal/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, err := evidence.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	svc := service.NewPaymentService(repository.NewMemoryPaymentRepository(), store)
	return NewRouter(handlers.NewPaymentHandler(svc, 0), RouterConfig{AllowedOrigins: []string{"*"}})
}

func TestRouter_Routes(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/payments", http.StatusOK},
		{http.MethodGet, "/get_payments", http.StatusOK},
		{http.MethodGet, "/payments/not-a-uuid", http.StatusBadRequest},
		{http.MethodDelete, "/delete_payment/not-a-uuid", http.StatusBadRequest},
		{http.MethodGet, "/download_evidence?payment_id=1b4e28ba-2fa1-11d2-883f-0016d3cca427", http.StatusNotFound},
		{http.MethodGet, "/nowhere", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if !strings.Contains(w.Body.String(), `"service":"payment-tracker"`) {
		t.Errorf("unexpected health body %s", w.Body.String())
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/payments", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
}
