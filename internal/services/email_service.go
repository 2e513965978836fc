package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sifworld/retreat-booking-backend/internal/config"
	"github.com/sirupsen/logrus"
)

// ResendMailer sends transactional email via the Resend HTTP API
type ResendMailer struct {
	apiURL string
	apiKey string
	sender string
	logger *logrus.Logger
	client *http.Client
}

// sendEmailRequest represents the Resend send request structure
type sendEmailRequest struct {
	From        string            `json:"from"`
	To          []string          `json:"to"`
	Subject     string            `json:"subject"`
	HTML        string            `json:"html"`
	Attachments []emailAttachment `json:"attachments,omitempty"`
}

// emailAttachment carries a base64-encoded file
type emailAttachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// sendEmailResponse represents the Resend send response structure
type sendEmailResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// NewResendMailer creates a new Resend mail client
func NewResendMailer(cfg *config.EmailConfig, logger *logrus.Logger) *ResendMailer {
	return &ResendMailer{
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		sender: cfg.SenderEmail,
		logger: logger,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Send sends an HTML email with an optional PDF attachment
func (m *ResendMailer) Send(to, subject, html, attachmentName string, attachment []byte) error {
	if !m.IsConfigured() {
		return fmt.Errorf("mailer not configured: missing API key")
	}

	request := sendEmailRequest{
		From:    m.sender,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	}
	if len(attachment) > 0 {
		request.Attachments = []emailAttachment{
			{
				Filename: attachmentName,
				Content:  base64.StdEncoding.EncodeToString(attachment),
			},
		}
	}

	jsonBody, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	url := fmt.Sprintf("%s/emails", m.apiURL)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", m.apiKey))

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read email response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("email sending failed with status %d: %s", resp.StatusCode, string(body))
	}

	var emailResp sendEmailResponse
	if err := json.Unmarshal(body, &emailResp); err != nil {
		return fmt.Errorf("failed to parse email response: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"email_id": emailResp.ID,
		"to":       to,
	}).Info("Email sent")

	return nil
}

// IsConfigured returns true if the mailer has an API key
func (m *ResendMailer) IsConfigured() bool {
	return m.apiKey != ""
}
