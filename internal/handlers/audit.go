package handlers

import (
	"github.com/sifworld/retreat-booking-backend/internal/database"
	"github.com/sifworld/retreat-booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// recordAudit writes a payment audit entry without ever failing the request.
// A nil repository disables auditing entirely.
func recordAudit(audits *database.PaymentAuditRepository, logger *logrus.Logger, audit *models.PaymentAudit) {
	if audits == nil {
		return
	}
	if err := audits.Log(audit); err != nil {
		logger.WithError(err).Warn("Payment audit write failed")
	}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}
