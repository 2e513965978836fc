package models

import (
	"time"
)

// BookingStatus represents the payment lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusPending BookingStatus = "PENDING"
	BookingStatusPaid    BookingStatus = "PAID"
)

// Booking represents a guest's retreat room reservation and its payment
// state. The bookings row is the single source of truth for payment state;
// gateway callbacks and webhooks only propose transitions against it.
type Booking struct {
	ID              string        `json:"id" db:"id"`
	Name            string        `json:"name" db:"name"`
	Age             int           `json:"age" db:"age"`
	Mobile          string        `json:"mobile" db:"mobile"`
	Email           *string       `json:"email,omitempty" db:"email"`
	RoomType        string        `json:"room_type" db:"room_type"`
	Amount          int64         `json:"amount" db:"amount"`
	Status          BookingStatus `json:"status" db:"status"`
	PaymentID       *string       `json:"payment_id,omitempty" db:"payment_id"`
	RazorpayOrderID *string       `json:"razorpay_order_id,omitempty" db:"razorpay_order_id"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}

// CreateOrderRequest represents the request to create a booking and open a
// gateway order. Amount is advisory only; the trusted price table decides.
type CreateOrderRequest struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Mobile   string `json:"mobile"`
	Email    string `json:"email,omitempty"`
	RoomType string `json:"roomType"`
	Amount   int64  `json:"amount"`
}

// CreateOrderResponse is returned to the client so it can open the gateway
// checkout page. Amount is in paise, matching the gateway order.
type CreateOrderResponse struct {
	BookingID string `json:"bookingId"`
	OrderID   string `json:"orderId"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	KeyID     string `json:"keyId"`
}

// VerifyPaymentRequest represents the client callback fired directly after
// checkout. The signature covers "razorpay_order_id|razorpay_payment_id".
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	BookingID         string `json:"booking_id"`
}

// IsPaid checks if the booking has completed payment
func (b *Booking) IsPaid() bool {
	return b.Status == BookingStatusPaid
}

// RecipientEmail returns the address receipts are sent to, falling back to
// the mobile-derived placeholder when the guest gave no email
func (b *Booking) RecipientEmail() string {
	if b.Email != nil && *b.Email != "" {
		return *b.Email
	}
	return b.Mobile + "@example.com"
}
