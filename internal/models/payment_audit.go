package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentEventType represents the type of payment event
type PaymentEventType string

const (
	PaymentEventOrderCreated     PaymentEventType = "order_created"
	PaymentEventCallbackVerified PaymentEventType = "callback_verified"
	PaymentEventCallbackRejected PaymentEventType = "callback_rejected"
	PaymentEventWebhookVerified  PaymentEventType = "webhook_verified"
	PaymentEventWebhookRejected  PaymentEventType = "webhook_rejected"
	PaymentEventWebhookIgnored   PaymentEventType = "webhook_ignored"
)

// PaymentEventSource identifies where the event originated
type PaymentEventSource string

const (
	PaymentSourceBackend         PaymentEventSource = "backend"
	PaymentSourceClientCallback  PaymentEventSource = "client_callback"
	PaymentSourceRazorpayWebhook PaymentEventSource = "razorpay_webhook"
)

// PaymentAudit represents an immutable audit log entry for payment events.
// Verification attempts are recorded whether they succeed or not so that
// tampering attempts and gateway redeliveries stay traceable.
type PaymentAudit struct {
	ID             uuid.UUID          `json:"id" db:"id"`
	BookingID      *string            `json:"booking_id,omitempty" db:"booking_id"`
	EventType      PaymentEventType   `json:"event_type" db:"event_type"`
	EventSource    PaymentEventSource `json:"event_source" db:"event_source"`
	OrderID        *string            `json:"order_id,omitempty" db:"order_id"`
	PaymentID      *string            `json:"payment_id,omitempty" db:"payment_id"`
	SignatureValid *bool              `json:"signature_valid,omitempty" db:"signature_valid"`
	Detail         *string            `json:"detail,omitempty" db:"detail"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
}
