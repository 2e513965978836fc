package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sifworld/retreat-booking-backend/internal/database"
	"github.com/sifworld/retreat-booking-backend/internal/models"
	"github.com/sifworld/retreat-booking-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// AdminHandler serves the price table and the administrative booking views
type AdminHandler struct {
	bookings *database.BookingRepository
	prices   *database.PriceRepository
	audits   *database.PaymentAuditRepository
	receipts *services.ReceiptService
	logger   *logrus.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	bookings *database.BookingRepository,
	prices *database.PriceRepository,
	audits *database.PaymentAuditRepository,
	receipts *services.ReceiptService,
	logger *logrus.Logger,
) *AdminHandler {
	return &AdminHandler{
		bookings: bookings,
		prices:   prices,
		audits:   audits,
		receipts: receipts,
		logger:   logger,
	}
}

// GetPrices returns the current room price table. This endpoint is public so
// the booking page always renders live prices; responses are marked
// uncacheable so a price update takes effect immediately.
// GET /api/v1/prices
func (h *AdminHandler) GetPrices(c *gin.Context) {
	prices, err := h.prices.GetAll()
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch price table")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch prices"})
		return
	}

	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.JSON(http.StatusOK, gin.H{"prices": prices})
}

// UpdatePrice upserts the price for a room type.
// PUT /api/v1/admin/prices
func (h *AdminHandler) UpdatePrice(c *gin.Context) {
	var req models.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request: " + err.Error(),
			"code":  "VALIDATION_ERROR",
		})
		return
	}

	if req.RoomType == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "roomType is required",
			"code":  "VALIDATION_ERROR",
		})
		return
	}
	if req.NewPrice == nil || *req.NewPrice <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "newPrice must be a positive amount",
			"code":  "VALIDATION_ERROR",
		})
		return
	}

	if err := h.prices.Upsert(req.RoomType, *req.NewPrice); err != nil {
		h.logger.WithError(err).WithField("room_type", req.RoomType).Error("Failed to update price")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update price"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"room_type": req.RoomType,
		"new_price": *req.NewPrice,
	}).Info("Room price updated")

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"roomType": req.RoomType,
		"newPrice": *req.NewPrice,
	})
}

// ListBookings returns all bookings, newest first.
// GET /api/v1/admin/bookings
func (h *AdminHandler) ListBookings(c *gin.Context) {
	bookings, err := h.bookings.List()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list bookings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// GetBookingAudits returns the payment event trail for one booking, oldest
// first. Useful when reconciling a payment dispute or a stuck PENDING row.
// GET /api/v1/admin/bookings/:id/audits
func (h *AdminHandler) GetBookingAudits(c *gin.Context) {
	bookingID := c.Param("id")

	if _, err := h.bookings.GetByID(bookingID); err != nil {
		if errors.Is(err, database.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "booking not found",
				"code":  "BOOKING_NOT_FOUND",
			})
			return
		}
		h.logger.WithError(err).WithField("booking_id", bookingID).Error("Failed to load booking for audit trail")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch booking"})
		return
	}

	audits, err := h.audits.ListByBooking(bookingID)
	if err != nil {
		h.logger.WithError(err).WithField("booking_id", bookingID).Error("Failed to fetch payment audits")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch payment audits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookingId": bookingID,
		"events":    audits,
	})
}

// DownloadReceipt regenerates the receipt PDF for a paid booking so an
// operator can re-issue it when the original email never arrived.
// GET /api/v1/admin/bookings/:id/receipt
func (h *AdminHandler) DownloadReceipt(c *gin.Context) {
	bookingID := c.Param("id")

	booking, err := h.bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, database.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "booking not found",
				"code":  "BOOKING_NOT_FOUND",
			})
			return
		}
		h.logger.WithError(err).WithField("booking_id", bookingID).Error("Failed to load booking for receipt")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch booking"})
		return
	}

	if !booking.IsPaid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "receipt is only available for paid bookings",
			"code":  "BOOKING_NOT_PAID",
		})
		return
	}

	paymentID := ""
	if booking.PaymentID != nil {
		paymentID = *booking.PaymentID
	}

	data := h.receipts.Build(booking, paymentID, time.Now())
	pdfBytes, err := h.receipts.Generate(data)
	if err != nil {
		h.logger.WithError(err).WithField("booking_id", bookingID).Error("Failed to generate receipt")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate receipt"})
		return
	}

	filename := fmt.Sprintf("Receipt_%s.pdf", strings.ReplaceAll(booking.Name, " ", "_"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
