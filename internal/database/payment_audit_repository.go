package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sifworld/retreat-booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// PaymentAuditRepository handles payment audit operations. Every gateway
// order and verification attempt lands here so that tampering attempts and
// webhook redeliveries stay traceable after the fact.
type PaymentAuditRepository struct {
	db     DB
	logger *logrus.Logger
}

// NewPaymentAuditRepository creates a new payment audit repository
func NewPaymentAuditRepository(db DB, logger *logrus.Logger) *PaymentAuditRepository {
	return &PaymentAuditRepository{
		db:     db,
		logger: logger,
	}
}

// Log creates a new payment audit entry
func (r *PaymentAuditRepository) Log(audit *models.PaymentAudit) error {
	if audit == nil {
		return fmt.Errorf("audit entry cannot be nil")
	}

	// Ensure ID and timestamp are set
	if audit.ID == uuid.Nil {
		audit.ID = uuid.New()
	}
	if audit.CreatedAt.IsZero() {
		audit.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO payment_audits (
			id, booking_id, event_type, event_source,
			order_id, payment_id, signature_valid, detail, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	_, err := r.db.Exec(
		query,
		audit.ID, audit.BookingID, audit.EventType, audit.EventSource,
		audit.OrderID, audit.PaymentID, audit.SignatureValid, audit.Detail,
		audit.CreatedAt,
	)

	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"event_type":   audit.EventType,
			"event_source": audit.EventSource,
		}).Error("Failed to write payment audit entry")
		return fmt.Errorf("failed to write payment audit entry: %w", err)
	}

	return nil
}

// ListByBooking returns the audit trail for one booking, oldest first
func (r *PaymentAuditRepository) ListByBooking(bookingID string) ([]models.PaymentAudit, error) {
	query := `
		SELECT id, booking_id, event_type, event_source,
			   order_id, payment_id, signature_valid, detail, created_at
		FROM payment_audits
		WHERE booking_id = $1
		ORDER BY created_at
	`

	var audits []models.PaymentAudit
	if err := r.db.Select(&audits, query, bookingID); err != nil {
		return nil, fmt.Errorf("failed to fetch payment audits: %w", err)
	}

	return audits, nil
}
