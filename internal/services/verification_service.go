package services

import (
	"fmt"

	"github.com/sifworld/retreat-booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// BookingStore is the slice of the booking repository the verification core
// needs: a read and the conditional PENDING->PAID write
type BookingStore interface {
	GetByID(bookingID string) (*models.Booking, error)
	MarkPaid(bookingID, paymentID string) (bool, error)
}

// PaymentConfirmation is the outcome of a verification attempt. Transitioned
// reports whether this invocation's write flipped the booking to PAID; a
// false value with a PAID booking means another trigger got there first.
type PaymentConfirmation struct {
	Booking      *models.Booking
	Transitioned bool
}

// VerificationService applies the authenticated payment transition shared by
// the client callback and the gateway webhook. Both triggers race toward the
// same booking row; the conditional write in the store decides the winner,
// and only the winner sends the receipt.
type VerificationService struct {
	bookings BookingStore
	notifier ReceiptSender
	logger   *logrus.Logger
}

// NewVerificationService creates a new verification service
func NewVerificationService(bookings BookingStore, notifier ReceiptSender, logger *logrus.Logger) *VerificationService {
	return &VerificationService{
		bookings: bookings,
		notifier: notifier,
		logger:   logger,
	}
}

// ConfirmPayment applies the idempotent PENDING->PAID transition for an
// already-authenticated payment event. Re-invoking it with the same event is
// a successful no-op, which is what makes gateway webhook redelivery and the
// callback/webhook race safe. Receipt delivery is best-effort and never
// fails the confirmation.
func (s *VerificationService) ConfirmPayment(bookingID, paymentID string, source models.PaymentEventSource) (*PaymentConfirmation, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	// Whichever trigger arrives second observes PAID and stops here
	if booking.IsPaid() {
		s.logger.WithFields(logrus.Fields{
			"booking_id": bookingID,
			"source":     source,
		}).Info("Booking already marked PAID, skipping update and email")
		return &PaymentConfirmation{Booking: booking, Transitioned: false}, nil
	}

	// The status guard makes this the single authoritative transition even
	// when both triggers passed the read above before either wrote
	transitioned, err := s.bookings.MarkPaid(bookingID, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	if !transitioned {
		// A concurrent trigger won the race between our read and write
		booking, err = s.bookings.GetByID(bookingID)
		if err != nil {
			return nil, err
		}
		s.logger.WithFields(logrus.Fields{
			"booking_id": bookingID,
			"source":     source,
		}).Info("Concurrent trigger completed the transition first")
		return &PaymentConfirmation{Booking: booking, Transitioned: false}, nil
	}

	booking.Status = models.BookingStatusPaid
	booking.PaymentID = &paymentID

	s.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"payment_id": paymentID,
		"source":     source,
	}).Info("Booking transitioned to PAID")

	// Payment is confirmed at this point; a notification failure is logged
	// and swallowed, never surfaced as a verification failure
	if s.notifier != nil {
		if err := s.notifier.SendReceipt(booking, paymentID); err != nil {
			s.logger.WithError(err).WithField("booking_id", bookingID).Error("Receipt delivery failed (non-critical)")
		}
	}

	return &PaymentConfirmation{Booking: booking, Transitioned: true}, nil
}
