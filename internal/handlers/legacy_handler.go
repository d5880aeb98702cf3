package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akylbek/payment-system/payment-tracker/internal/models"
	"github.com/akylbek/payment-system/payment-tracker/internal/payments"
)

// The handlers below keep the request and response shapes of the routes the
// existing dashboard calls (/get_payments, /update_payment, ...).

func (h *PaymentHandler) LegacyCreatePayment(c *gin.Context) {
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
	c.JSON(http.StatusCreated, gin.H{"id": payment.ID})
}

// LegacyUpdatePayment reads the payment id from the JSON body.
func (h *PaymentHandler) LegacyUpdatePayment(c *gin.Context) {
	payload, err := payments.DecodePayload(c.Request.Body)
	if err != nil {
		writeError(c, err)
		return
	}
	id, _ := payload.Text(payments.FieldID)
	if _, err := h.svc.UpdatePayment(c.Request.Context(), id, payload.Without(payments.FieldID)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment updated successfully"})
}

func (h *PaymentHandler) LegacyUploadEvidence(c *gin.Context) {
	h.uploadEvidence(c, formPaymentID, func(c *gin.Context, payment *models.Payment) {
		c.JSON(http.StatusOK, gin.H{"message": "File uploaded successfully", "file_url": payment.EvidenceFile})
	})
}

func (h *PaymentHandler) LegacyDownloadEvidence(c *gin.Context) {
	h.downloadEvidence(c, c.Query("payment_id"))
}

func formPaymentID(c *gin.Context) string {
	return c.PostForm("payment_id")
}
