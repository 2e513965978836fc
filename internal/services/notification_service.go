package services

import (
	"fmt"
	"time"

	"github.com/sifworld/retreat-booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// ReceiptSender delivers a receipt for a booking whose payment has just been
// confirmed. Delivery is best-effort: implementations may fail, and callers
// must never let that failure reach the payment flow.
type ReceiptSender interface {
	SendReceipt(booking *models.Booking, paymentID string) error
}

// ReceiptNotificationService renders the PDF receipt and emails it to the
// guest through the Resend mailer
type ReceiptNotificationService struct {
	receipts *ReceiptService
	mailer   *ResendMailer
	logger   *logrus.Logger
}

// NewReceiptNotificationService creates a new receipt notification service
func NewReceiptNotificationService(receipts *ReceiptService, mailer *ResendMailer, logger *logrus.Logger) *ReceiptNotificationService {
	return &ReceiptNotificationService{
		receipts: receipts,
		mailer:   mailer,
		logger:   logger,
	}
}

// SendReceipt generates the receipt PDF for a paid booking and emails it
func (s *ReceiptNotificationService) SendReceipt(booking *models.Booking, paymentID string) error {
	if !s.mailer.IsConfigured() {
		s.logger.WithField("booking_id", booking.ID).Warn("Mailer not configured, skipping receipt email")
		return nil
	}

	data := s.receipts.Build(booking, paymentID, time.Now())

	pdfBytes, err := s.receipts.Generate(data)
	if err != nil {
		return fmt.Errorf("failed to generate receipt: %w", err)
	}

	filename := fmt.Sprintf("Sunyatee-Receipt-%s.pdf", data.SerialNumber)
	if err := s.mailer.Send(booking.RecipientEmail(), receiptEmailSubject, receiptEmailHTML(data), filename, pdfBytes); err != nil {
		return fmt.Errorf("failed to send receipt email: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"serial":     data.SerialNumber,
	}).Info("Receipt email sent")

	return nil
}
