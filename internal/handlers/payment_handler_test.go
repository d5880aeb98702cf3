package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akylbek/payment-system/payment-tracker/internal/evidence"
	"github.com/akylbek/payment-system/payment-tracker/internal/repository"
	"github.com/akylbek/payment-system/payment-tracker/internal/service"
)

const createBody = `{
	"payee_first_name": "Grace",
	"payee_last_name": "Hopper",
	"payee_address_line_1": "1 Navy Way",
	"payee_city": "Arlington",
	"payee_country": "US",
	"payee_postal_code": "22202",
	"payee_phone_number": "+17035550100",
	"payee_email": "grace@example.com",
	"currency": "USD",
	"due_amount": 200,
	"discount_percent": 20,
	"tax_percent": 10,
	"payee_due_date": "2024-03-20"
}`

const importCSV = `payee_address_line_1,payee_city,payee_country,payee_postal_code,payee_phone_number,payee_email,currency,due_amount
1 Main St,Springfield,US,12345,+14155552671,a@example.com,USD,100
2 Main St,Springfield,US,12345,+14155552672,b@example.com,USD,
3 Main St,Springfield,US,12345,+14155552673,c@example.com,USD,40
`

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := evidence.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	now := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)
	svc := service.NewPaymentService(repository.NewMemoryPaymentRepository(), store,
		service.WithClock(func() time.Time { return now }),
	)
	h := NewPaymentHandler(svc, 1<<20)

	r := gin.New()
	r.GET("/payments", h.ListPayments)
	r.POST("/payments", h.CreatePayment)
	r.POST("/payments/import", h.ImportPayments)
	r.GET("/payments/:id", h.GetPayment)
	r.PUT("/payments/:id", h.UpdatePayment)
	r.DELETE("/payments/:id", h.DeletePayment)
	r.POST("/payments/:id/evidence", h.UploadEvidence)
	r.GET("/payments/:id/evidence", h.DownloadEvidence)
	r.POST("/create_payment", h.LegacyCreatePayment)
	r.PUT("/update_payment", h.LegacyUpdatePayment)
	r.POST("/upload_evidence", h.LegacyUploadEvidence)
	r.GET("/download_evidence", h.LegacyDownloadEvidence)
	return r
}

func do(r *gin.Engine, method, path, contentType string, body *bytes.Buffer) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	return do(r, method, path, "application/json", bytes.NewBufferString(body))
}

func multipartBody(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return body, mw.FormDataContentType()
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func createPayment(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/payments", createBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return decode(t, w)["id"].(string)
}

func TestCreatePayment(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/payments", createBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	got := decode(t, w)
	if got["total_due"] != float64(176) {
		t.Errorf("expected total_due 176, got %v", got["total_due"])
	}
	if got["payee_payment_status"] != "pending" {
		t.Errorf("expected pending, got %v", got["payee_payment_status"])
	}
}

func TestCreatePayment_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantKey    string
	}{
		{
			name:       "invalid phone",
			body:       strings.Replace(createBody, "+17035550100", "12345", 1),
			wantStatus: http.StatusBadRequest,
			wantKey:    "errors",
		},
		{
			name:       "not json",
			body:       "{",
			wantStatus: http.StatusBadRequest,
			wantKey:    "error",
		},
		{
			name:       "json array",
			body:       "[]",
			wantStatus: http.StatusBadRequest,
			wantKey:    "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(t)
			w := doJSON(r, http.MethodPost, "/payments", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if _, ok := decode(t, w)[tt.wantKey]; !ok {
				t.Errorf("expected %q in %s", tt.wantKey, w.Body.String())
			}
		})
	}
}

func TestCreatePayment_ReportsPhoneViolation(t *testing.T) {
	r := setupRouter(t)
	w := doJSON(r, http.MethodPost, "/payments", strings.Replace(createBody, "+17035550100", "12345", 1))

	violations, _ := decode(t, w)["errors"].([]interface{})
	if len(violations) != 1 || violations[0] != "payee_phone_number must be in E.164 format" {
		t.Errorf("unexpected violations %v", violations)
	}
}

func TestGetPayment(t *testing.T) {
	r := setupRouter(t)
	id := createPayment(t, r)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"existing", "/payments/" + id, http.StatusOK},
		{"unknown", "/payments/1b4e28ba-2fa1-11d2-883f-0016d3cca427", http.StatusNotFound},
		{"invalid id", "/payments/not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.path, "", nil)
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestListPayments_Paging(t *testing.T) {
	r := setupRouter(t)
	for i := 0; i < 3; i++ {
		createPayment(t, r)
	}

	w := do(r, http.MethodGet, "/payments?page=1&page_size=2", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("X-Total-Count"); got != "3" {
		t.Errorf("expected X-Total-Count 3, got %q", got)
	}
	var page []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("expected 2 payments on the first page, got %d", len(page))
	}

	if w := do(r, http.MethodGet, "/payments?page_size=-1", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for negative page size, got %d", w.Code)
	}
}

func TestUpdatePayment(t *testing.T) {
	r := setupRouter(t)
	id := createPayment(t, r)

	w := doJSON(r, http.MethodPut, "/payments/"+id, `{"due_amount": 100, "payee_city": "Ignored"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	got := decode(t, w)
	if got["total_due"] != float64(88) {
		t.Errorf("expected total_due 88, got %v", got["total_due"])
	}
	if got["payee_city"] != "Arlington" {
		t.Errorf("expected city unchanged, got %v", got["payee_city"])
	}

	w = doJSON(r, http.MethodPut, "/payments/"+id, `{"payee_payment_status": "completed"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for completion without evidence, got %d", w.Code)
	}
}

func TestLegacyRoutes(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/create_payment", createBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", w.Code)
	}
	id := decode(t, w)["id"].(string)

	w = doJSON(r, http.MethodPut, "/update_payment", `{"id": "`+id+`", "due_amount": 50}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if msg := decode(t, w)["message"]; msg != "Payment updated successfully" {
		t.Errorf("unexpected message %v", msg)
	}

	w = doJSON(r, http.MethodPut, "/update_payment", `{"due_amount": 50}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("update without id: expected 400, got %d", w.Code)
	}

	body, ct := multipartBody(t, "invoice.pdf", "%PDF-1.4", map[string]string{"payment_id": id})
	w = do(r, http.MethodPost, "/upload_evidence", ct, body)
	if w.Code != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if url, _ := decode(t, w)["file_url"].(string); !strings.HasSuffix(url, id+"_invoice.pdf") {
		t.Errorf("unexpected file_url %q", url)
	}

	w = do(r, http.MethodGet, "/download_evidence?payment_id="+id, "", nil)
	if w.Code != http.StatusOK || w.Body.String() != "%PDF-1.4" {
		t.Errorf("download: got %d %q", w.Code, w.Body.String())
	}
}

func TestEvidenceRoundTrip(t *testing.T) {
	r := setupRouter(t)
	id := createPayment(t, r)

	w := do(r, http.MethodGet, "/payments/"+id+"/evidence", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before upload, got %d", w.Code)
	}

	body, ct := multipartBody(t, "receipt.png", "png-bytes", nil)
	w = do(r, http.MethodPost, "/payments/"+id+"/evidence", ct, body)
	if w.Code != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if status := decode(t, w)["payee_payment_status"]; status != "completed" {
		t.Errorf("expected completed, got %v", status)
	}

	w = do(r, http.MethodGet, "/payments/"+id+"/evidence", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("download: expected 200, got %d", w.Code)
	}
	if w.Body.String() != "png-bytes" {
		t.Errorf("unexpected content %q", w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") || !strings.Contains(cd, "receipt.png") {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}
}

func TestUploadEvidence_Rejects(t *testing.T) {
	r := setupRouter(t)
	id := createPayment(t, r)

	body, ct := multipartBody(t, "notes.txt", "hello", nil)
	if w := do(r, http.MethodPost, "/payments/"+id+"/evidence", ct, body); w.Code != http.StatusBadRequest {
		t.Errorf("bad extension: expected 400, got %d", w.Code)
	}

	if w := doJSON(r, http.MethodPost, "/payments/"+id+"/evidence", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing file part: expected 400, got %d", w.Code)
	}

	body, ct = multipartBody(t, "receipt.png", "png", nil)
	if w := do(r, http.MethodPost, "/payments/1b4e28ba-2fa1-11d2-883f-0016d3cca427/evidence", ct, body); w.Code != http.StatusNotFound {
		t.Errorf("unknown payment: expected 404, got %d", w.Code)
	}
}

func TestUploadEvidence_TooLarge(t *testing.T) {
	r := setupRouter(t)
	id := createPayment(t, r)

	body, ct := multipartBody(t, "receipt.png", strings.Repeat("x", 2<<20), nil)
	w := do(r, http.MethodPost, "/payments/"+id+"/evidence", ct, body)
	if w.Code != http.StatusRequestEntityTooLarge && w.Code != http.StatusBadRequest {
		t.Errorf("expected the oversized upload to be refused, got %d", w.Code)
	}
}

func TestImportPayments(t *testing.T) {
	r := setupRouter(t)

	body, ct := multipartBody(t, "batch.csv", importCSV, nil)
	w := do(r, http.MethodPost, "/payments/import", ct, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	got := decode(t, w)
	if got["inserted"] != float64(2) {
		t.Errorf("expected 2 inserted, got %v", got["inserted"])
	}

	w = do(r, http.MethodGet, "/payments", "", nil)
	if w.Header().Get("X-Total-Count") != "2" {
		t.Errorf("expected 2 stored payments, got %q", w.Header().Get("X-Total-Count"))
	}
}

func TestImportPayments_Errors(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		content    string
		wantStatus int
	}{
		{"unsupported extension", "batch.txt", importCSV, http.StatusBadRequest},
		{"non-numeric amount", "batch.csv", strings.Replace(importCSV, "USD,40", "USD,forty", 1), http.StatusInternalServerError},
		{"missing column", "batch.csv", "payee_city\nSpringfield\n", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(t)
			body, ct := multipartBody(t, tt.filename, tt.content, nil)
			w := do(r, http.MethodPost, "/payments/import", ct, body)
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestDeletePayment(t *testing.T) {
	r := setupRouter(t)
	id := createPayment(t, r)

	w := do(r, http.MethodDelete, "/payments/"+id, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/payments/"+id, "", nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", w.Code)
	}
}
