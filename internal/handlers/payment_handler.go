package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sifworld/retreat-booking-backend/internal/database"
	"github.com/sifworld/retreat-booking-backend/internal/models"
	"github.com/sifworld/retreat-booking-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// WebhookSignatureHeader carries the gateway's HMAC over the raw webhook body
const WebhookSignatureHeader = "X-Razorpay-Signature"

// PaymentHandler handles the two payment confirmation triggers: the browser
// checkout callback and the gateway webhook. Both authenticate independently
// and funnel into the same verification service.
type PaymentHandler struct {
	verification *services.VerificationService
	razorpay     *services.RazorpayService
	audits       *database.PaymentAuditRepository
	logger       *logrus.Logger
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(
	verification *services.VerificationService,
	razorpay *services.RazorpayService,
	audits *database.PaymentAuditRepository,
	logger *logrus.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		verification: verification,
		razorpay:     razorpay,
		audits:       audits,
		logger:       logger,
	}
}

// VerifyCallback authenticates the checkout callback signature and confirms
// the payment.
// POST /api/v1/payments/verify
func (h *PaymentHandler) VerifyCallback(c *gin.Context) {
	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request: " + err.Error(),
			"code":  "VALIDATION_ERROR",
		})
		return
	}

	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" || req.BookingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "razorpay_order_id, razorpay_payment_id, razorpay_signature and booking_id are required",
			"code":  "VALIDATION_ERROR",
		})
		return
	}

	if !h.razorpay.VerifyPaymentSignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		h.logger.WithFields(logrus.Fields{
			"booking_id": req.BookingID,
			"order_id":   req.RazorpayOrderID,
			"ip":         c.ClientIP(),
		}).Warn("Callback signature verification failed")
		recordAudit(h.audits, h.logger, &models.PaymentAudit{
			BookingID:      &req.BookingID,
			EventType:      models.PaymentEventCallbackRejected,
			EventSource:    models.PaymentSourceClientCallback,
			OrderID:        &req.RazorpayOrderID,
			PaymentID:      &req.RazorpayPaymentID,
			SignatureValid: boolPtr(false),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "payment signature verification failed",
			"code":  "INVALID_SIGNATURE",
		})
		return
	}

	confirmation, err := h.verification.ConfirmPayment(req.BookingID, req.RazorpayPaymentID, models.PaymentSourceClientCallback)
	if err != nil {
		if errors.Is(err, database.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "booking not found",
				"code":  "BOOKING_NOT_FOUND",
			})
			return
		}
		h.logger.WithError(err).WithField("booking_id", req.BookingID).Error("Failed to confirm payment from callback")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to confirm payment"})
		return
	}

	recordAudit(h.audits, h.logger, &models.PaymentAudit{
		BookingID:      &req.BookingID,
		EventType:      models.PaymentEventCallbackVerified,
		EventSource:    models.PaymentSourceClientCallback,
		OrderID:        &req.RazorpayOrderID,
		PaymentID:      &req.RazorpayPaymentID,
		SignatureValid: boolPtr(true),
	})

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"bookingId": confirmation.Booking.ID,
		"status":    confirmation.Booking.Status,
	})
}

// Webhook authenticates a gateway webhook delivery against the raw request
// body and confirms captured payments. Deliveries the service chooses not to
// act on are still acknowledged with 200 so the gateway stops retrying them.
// POST /api/v1/payments/webhook
func (h *PaymentHandler) Webhook(c *gin.Context) {
	rawBody, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "failed to read request body",
			"code":  "VALIDATION_ERROR",
		})
		return
	}

	signature := c.GetHeader(WebhookSignatureHeader)
	if signature == "" || !h.razorpay.VerifyWebhookSignature(rawBody, signature) {
		h.logger.WithField("ip", c.ClientIP()).Warn("Webhook signature verification failed")
		recordAudit(h.audits, h.logger, &models.PaymentAudit{
			EventType:      models.PaymentEventWebhookRejected,
			EventSource:    models.PaymentSourceRazorpayWebhook,
			SignatureValid: boolPtr(false),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "webhook signature verification failed",
			"code":  "INVALID_SIGNATURE",
		})
		return
	}

	event, err := services.ParseWebhookEvent(rawBody)
	if err != nil {
		h.logger.WithError(err).Warn("Webhook body is not a valid event")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid webhook payload",
			"code":  "VALIDATION_ERROR",
		})
		return
	}

	if event.Event != services.WebhookEventPaymentCaptured {
		recordAudit(h.audits, h.logger, &models.PaymentAudit{
			EventType:      models.PaymentEventWebhookIgnored,
			EventSource:    models.PaymentSourceRazorpayWebhook,
			SignatureValid: boolPtr(true),
			Detail:         strPtr("event " + event.Event),
		})
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	payment := event.Payload.Payment.Entity
	bookingID := payment.Notes["booking_id"]
	if bookingID == "" {
		// Authentic capture for an order this service did not create; there
		// is nothing to transition and a retry would not help
		h.logger.WithField("payment_id", payment.ID).Warn("Captured payment carries no booking_id note")
		recordAudit(h.audits, h.logger, &models.PaymentAudit{
			EventType:      models.PaymentEventWebhookIgnored,
			EventSource:    models.PaymentSourceRazorpayWebhook,
			PaymentID:      strPtr(payment.ID),
			OrderID:        strPtr(payment.OrderID),
			SignatureValid: boolPtr(true),
			Detail:         strPtr("missing booking_id note"),
		})
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	confirmation, err := h.verification.ConfirmPayment(bookingID, payment.ID, models.PaymentSourceRazorpayWebhook)
	if err != nil {
		if errors.Is(err, database.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "booking not found",
				"code":  "BOOKING_NOT_FOUND",
			})
			return
		}
		h.logger.WithError(err).WithField("booking_id", bookingID).Error("Failed to confirm payment from webhook")
		// A 5xx makes the gateway redeliver, which the idempotent transition
		// absorbs safely
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to confirm payment"})
		return
	}

	recordAudit(h.audits, h.logger, &models.PaymentAudit{
		BookingID:      &bookingID,
		EventType:      models.PaymentEventWebhookVerified,
		EventSource:    models.PaymentSourceRazorpayWebhook,
		OrderID:        strPtr(payment.OrderID),
		PaymentID:      strPtr(payment.ID),
		SignatureValid: boolPtr(true),
	})

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"bookingId": confirmation.Booking.ID,
	})
}
