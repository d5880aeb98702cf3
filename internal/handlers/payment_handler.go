package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-tracker/internal/models"
	"github.com/akylbek/payment-system/payment-tracker/internal/payments"
	"github.com/akylbek/payment-system/payment-tracker/internal/service"
	"github.com/akylbek/payment-system/payment-tracker/internal/telemetry"
)

const defaultMaxUploadBytes = 10 << 20

type PaymentHandler struct {
	svc            *service.PaymentService
	maxUploadBytes int64
}

func NewPaymentHandler(svc *service.PaymentService, maxUploadBytes int64) *PaymentHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &PaymentHandler{svc: svc, maxUploadBytes: maxUploadBytes}
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	page, err := queryInt(c, "page")
	if err != nil {
		writeError(c, err)
		return
	}
	pageSize, err := queryInt(c, "page_size")
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.svc.ListPayments(c.Request.Context(), service.ListOptions{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("X-Total-Count", strconv.Itoa(result.Total))
	c.JSON(http.StatusOK, result.Payments)
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, err := h.svc.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	payload, err := payments.DecodePayload(c.Request.Body)
	if err != nil {
		writeError(c, err)
		return
	}
	payment, err := h.svc.CreatePayment(c.Request.Context(), payload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	payload, err := payments.DecodePayload(c.Request.Body)
	if err != nil {
		writeError(c, err)
		return
	}
	payment, err := h.svc.UpdatePayment(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	if err := h.svc.DeletePayment(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment deleted successfully"})
}

func (h *PaymentHandler) UploadEvidence(c *gin.Context) {
	h.uploadEvidence(c, pathID, func(c *gin.Context, payment *models.Payment) {
		c.JSON(http.StatusOK, payment)
	})
}

func (h *PaymentHandler) DownloadEvidence(c *gin.Context) {
	h.downloadEvidence(c, c.Param("id"))
}

func (h *PaymentHandler) ImportPayments(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		writeError(c, uploadError(err))
		return
	}
	defer file.Close()

	result, err := h.svc.ImportBatch(c.Request.Context(), header.Filename, file)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// uploadEvidence resolves the payment id after the multipart form is parsed,
// so form-field ids are read under the same body limit as the file.
func (h *PaymentHandler) uploadEvidence(c *gin.Context, paymentID func(*gin.Context) string, respond func(*gin.Context, *models.Payment)) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		writeError(c, uploadError(err))
		return
	}
	defer file.Close()

	payment, err := h.svc.AttachEvidence(c.Request.Context(), paymentID(c), header.Filename, file)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, payment)
}

func (h *PaymentHandler) downloadEvidence(c *gin.Context, id string) {
	path, name, err := h.svc.OpenEvidence(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.FileAttachment(path, name)
}

func pathID(c *gin.Context) string {
	return c.Param("id")
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, payments.Malformed("%s must be a non-negative integer", key)
	}
	return n, nil
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return payments.Malformed("multipart form with a 'file' part is required")
}

// writeError maps service errors onto HTTP responses.
func writeError(c *gin.Context, err error) {
	var (
		validationErr *payments.ValidationError
		malformedErr  *payments.MalformedInputError
		tooLarge      *http.MaxBytesError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": validationErr.Violations})
	case errors.As(err, &malformedErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": malformedErr.Reason})
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload exceeds the size limit"})
	case errors.Is(err, payments.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
	case errors.Is(err, payments.ErrEvidenceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Evidence file not found"})
	default:
		telemetry.Logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
