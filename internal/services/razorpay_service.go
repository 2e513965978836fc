package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sifworld/retreat-booking-backend/internal/config"
	"github.com/sirupsen/logrus"
)

var (
	// ErrGatewayAuth indicates the gateway rejected our credentials. This is
	// operator-facing misconfiguration, not a user error, and is surfaced
	// distinctly so it can be flagged for attention.
	ErrGatewayAuth = errors.New("payment gateway authentication failed")
)

// WebhookEventPaymentCaptured is the only webhook event type acted upon;
// everything else is acknowledged and ignored.
const WebhookEventPaymentCaptured = "payment.captured"

// RazorpayService handles payment gateway integration with the Razorpay
// Orders API and verifies the signatures Razorpay attaches to callbacks
// and webhooks.
type RazorpayService struct {
	config *config.RazorpayConfig
	logger *logrus.Logger
	client *http.Client
}

// RazorpayOrderRequest represents the order creation request sent to Razorpay.
// Amount is in the currency's minor unit (paise for INR).
type RazorpayOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// RazorpayOrder represents an order created on the gateway
type RazorpayOrder struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Status   string            `json:"status"`
	Notes    map[string]string `json:"notes"`
}

// razorpayErrorResponse represents the gateway's error envelope
type razorpayErrorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// WebhookEvent represents the envelope Razorpay delivers to the webhook
// endpoint. Only the payment entity is of interest here.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity WebhookPaymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// WebhookPaymentEntity carries the captured payment and the order notes the
// booking id was tagged with at order creation.
type WebhookPaymentEntity struct {
	ID      string            `json:"id"`
	OrderID string            `json:"order_id"`
	Amount  int64             `json:"amount"`
	Status  string            `json:"status"`
	Notes   map[string]string `json:"notes"`
}

// NewRazorpayService creates a new Razorpay payment service
func NewRazorpayService(cfg *config.RazorpayConfig, logger *logrus.Logger) *RazorpayService {
	return &RazorpayService{
		config: cfg,
		logger: logger,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateOrder opens a gateway order for the given amount in rupees, tagged
// with the booking id in the order notes for webhook correlation
func (s *RazorpayService) CreateOrder(amountRupees int64, receipt string, notes map[string]string) (*RazorpayOrder, error) {
	if !s.IsConfigured() {
		return nil, fmt.Errorf("payment gateway not configured: missing key credentials")
	}

	request := &RazorpayOrderRequest{
		Amount:   amountRupees * 100, // Convert to paise
		Currency: s.config.Currency,
		Receipt:  receipt,
		Notes:    notes,
	}

	jsonBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	url := fmt.Sprintf("%s/orders", s.config.APIURL)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(s.config.KeyID, s.config.KeySecret)

	s.logger.WithFields(logrus.Fields{
		"receipt":  receipt,
		"amount":   request.Amount,
		"currency": request.Currency,
	}).Info("Creating Razorpay order")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.WithError(err).Error("Failed to call Razorpay orders endpoint")
		return nil, fmt.Errorf("failed to call payment gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read order response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		s.logger.Error("Razorpay rejected credentials - check RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET")
		return nil, fmt.Errorf("%w: gateway returned status 401", ErrGatewayAuth)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp razorpayErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Description != "" {
			return nil, fmt.Errorf("order creation failed: %s (code: %s)", errResp.Error.Description, errResp.Error.Code)
		}
		return nil, fmt.Errorf("payment gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	var order RazorpayOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("failed to parse order response: %w", err)
	}

	if order.ID == "" {
		return nil, fmt.Errorf("order creation failed: no order id returned")
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"receipt":  order.Receipt,
	}).Info("Razorpay order created")

	return &order, nil
}

// VerifyPaymentSignature verifies a client callback signature. Razorpay
// signs "orderID|paymentID" with the key secret; the comparison is
// constant-time so the check leaks no timing information.
func (s *RazorpayService) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	expected := signHex([]byte(orderID+"|"+paymentID), s.config.KeySecret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature verifies the signature Razorpay computes over the
// untouched raw request body with the webhook secret. Verification must run
// on the exact bytes received; a re-serialized copy would not match.
func (s *RazorpayService) VerifyWebhookSignature(rawBody []byte, signature string) bool {
	expected := signHex(rawBody, s.config.WebhookSecret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ParseWebhookEvent parses a webhook envelope after its signature has been
// verified
func ParseWebhookEvent(rawBody []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return nil, fmt.Errorf("invalid webhook payload: %w", err)
	}
	if event.Event == "" {
		return nil, fmt.Errorf("webhook payload missing event type")
	}
	return &event, nil
}

// KeyID returns the public key id the checkout page needs
func (s *RazorpayService) KeyID() string {
	return s.config.KeyID
}

// Currency returns the configured order currency
func (s *RazorpayService) Currency() string {
	return s.config.Currency
}

// IsConfigured returns true if the gateway credentials are set
func (s *RazorpayService) IsConfigured() bool {
	return s.config.KeyID != "" && s.config.KeySecret != ""
}

// signHex computes the hex-encoded HMAC-SHA256 of data under secret
func signHex(data []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}
