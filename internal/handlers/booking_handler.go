package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sifworld/retreat-booking-backend/internal/database"
	"github.com/sifworld/retreat-booking-backend/internal/models"
	"github.com/sifworld/retreat-booking-backend/internal/services"
	"github.com/sifworld/retreat-booking-backend/pkg/validator"
	"github.com/sirupsen/logrus"
)

// BookingHandler handles booking creation
type BookingHandler struct {
	bookings       *database.BookingRepository
	prices         *database.PriceRepository
	audits         *database.PaymentAuditRepository
	razorpay       *services.RazorpayService
	guestValidator *validator.GuestValidator
	logger         *logrus.Logger
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(
	bookings *database.BookingRepository,
	prices *database.PriceRepository,
	audits *database.PaymentAuditRepository,
	razorpay *services.RazorpayService,
	guestValidator *validator.GuestValidator,
	logger *logrus.Logger,
) *BookingHandler {
	return &BookingHandler{
		bookings:       bookings,
		prices:         prices,
		audits:         audits,
		razorpay:       razorpay,
		guestValidator: guestValidator,
		logger:         logger,
	}
}

// CreateOrder creates a PENDING booking priced from the trusted price table
// and opens a gateway order for it.
// POST /api/v1/bookings
func (h *BookingHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request: " + err.Error(),
			"code":  "VALIDATION_ERROR",
		})
		return
	}

	if err := h.guestValidator.Validate(req.Name, req.Age, req.Mobile, req.Email, req.RoomType); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"code":  "VALIDATION_ERROR",
		})
		return
	}

	mobile, err := h.guestValidator.ValidateMobile(req.Mobile)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"code":  "VALIDATION_ERROR",
		})
		return
	}

	// The client-claimed amount is advisory only; the price table decides
	trustedPrice, err := h.prices.GetPrice(req.RoomType)
	if err != nil {
		if errors.Is(err, database.ErrRoomTypeNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "unknown room type: " + req.RoomType,
				"code":  "UNKNOWN_ROOM_TYPE",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to fetch room price")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	// A mismatch means the client tampered with the amount or is holding a
	// stale price; it is never silently corrected
	if req.Amount != trustedPrice {
		h.logger.WithFields(logrus.Fields{
			"room_type": req.RoomType,
			"expected":  trustedPrice,
			"got":       req.Amount,
		}).Warn("Price mismatch on order creation")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "price mismatch: submitted amount does not match the current price",
			"code":  "PRICE_MISMATCH",
		})
		return
	}

	booking := &models.Booking{
		Name:     req.Name,
		Age:      req.Age,
		Mobile:   mobile,
		RoomType: req.RoomType,
		Amount:   trustedPrice,
		Status:   models.BookingStatusPending,
	}
	if req.Email != "" {
		booking.Email = &req.Email
	}

	if err := h.bookings.Create(booking); err != nil {
		h.logger.WithError(err).Error("Failed to create booking")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create booking"})
		return
	}

	order, err := h.razorpay.CreateOrder(trustedPrice, "booking_"+booking.ID, map[string]string{
		"booking_id":    booking.ID,
		"room_type":     booking.RoomType,
		"customer_name": booking.Name,
	})
	if err != nil {
		if errors.Is(err, services.ErrGatewayAuth) {
			h.logger.WithError(err).Error("Razorpay authentication failed - check gateway credentials")
		} else {
			h.logger.WithError(err).WithField("booking_id", booking.ID).Error("Failed to create gateway order")
		}
		// The PENDING row persists for reconciliation; hand its id back so
		// the failure is traceable from the caller's side too
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "failed to create payment order",
			"bookingId": booking.ID,
		})
		return
	}

	if err := h.bookings.SetGatewayOrder(booking.ID, order.ID); err != nil {
		// The order notes still carry the booking id, so correlation survives
		h.logger.WithError(err).WithFields(logrus.Fields{
			"booking_id": booking.ID,
			"order_id":   order.ID,
		}).Error("Failed to record gateway order id on booking")
	}

	recordAudit(h.audits, h.logger, &models.PaymentAudit{
		BookingID:   &booking.ID,
		EventType:   models.PaymentEventOrderCreated,
		EventSource: models.PaymentSourceBackend,
		OrderID:     &order.ID,
	})

	h.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"order_id":   order.ID,
		"amount":     order.Amount,
	}).Info("Booking created with gateway order")

	c.JSON(http.StatusOK, models.CreateOrderResponse{
		BookingID: booking.ID,
		OrderID:   order.ID,
		Amount:    order.Amount,
		Currency:  order.Currency,
		KeyID:     h.razorpay.KeyID(),
	})
}
