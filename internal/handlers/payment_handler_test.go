package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sifworld/retreat-booking-backend/internal/config"
	"github.com/sifworld/retreat-booking-backend/internal/database"
	"github.com/sifworld/retreat-booking-backend/internal/models"
	"github.com/sifworld/retreat-booking-backend/internal/services"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookingColumns = []string{
	"id", "name", "age", "mobile", "email", "room_type", "amount",
	"status", "payment_id", "razorpay_order_id", "created_at", "updated_at",
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func signTest(data []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

func newPaymentTestRouter(t *testing.T, razorpayCfg *config.RazorpayConfig) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mockDB := &mockDatabase{db: db}
	bookingRepo := database.NewBookingRepository(mockDB)

	logger := testLogger()
	razorpaySvc := services.NewRazorpayService(razorpayCfg, logger)
	verificationSvc := services.NewVerificationService(bookingRepo, nil, logger)
	handler := NewPaymentHandler(verificationSvc, razorpaySvc, nil, logger)

	router := gin.New()
	router.POST("/api/v1/payments/verify", handler.VerifyCallback)
	router.POST("/api/v1/payments/webhook", handler.Webhook)
	return router, mock
}

func TestVerifyCallback(t *testing.T) {
	cfg := &config.RazorpayConfig{
		KeyID:         "rzp_test_key",
		KeySecret:     "key_secret",
		WebhookSecret: "webhook_secret",
		Currency:      "INR",
	}

	bookingID := uuid.New().String()
	orderID := "order_XYZ789"
	paymentID := "pay_ABC123"

	callbackBody := func(signature string) []byte {
		body, _ := json.Marshal(models.VerifyPaymentRequest{
			RazorpayOrderID:   orderID,
			RazorpayPaymentID: paymentID,
			RazorpaySignature: signature,
			BookingID:         bookingID,
		})
		return body
	}

	t.Run("Valid Signature Transitions Booking", func(t *testing.T) {
		router, mock := newPaymentTestRouter(t, cfg)
		now := time.Now()

		mock.ExpectQuery(`(?s)SELECT (.+)\s+FROM bookings\s+WHERE id`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(
				bookingID, "Anita Desai", 34, "9876543210", nil,
				"Deluxe Room", int64(15000), models.BookingStatusPending,
				nil, orderID, now, now,
			))
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(bookingID, models.BookingStatusPaid, paymentID, models.BookingStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		signature := signTest([]byte(orderID+"|"+paymentID), "key_secret")
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/verify", bytes.NewReader(callbackBody(signature)))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["success"])
		assert.Equal(t, string(models.BookingStatusPaid), resp["status"])

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Invalid Signature Rejected Before Any Write", func(t *testing.T) {
		router, mock := newPaymentTestRouter(t, cfg)

		signature := signTest([]byte(orderID+"|"+paymentID), "attacker_secret")
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/verify", bytes.NewReader(callbackBody(signature)))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_SIGNATURE")

		// No database expectations were registered, so none may have run
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Paid Booking Returns Success", func(t *testing.T) {
		router, mock := newPaymentTestRouter(t, cfg)
		now := time.Now()

		mock.ExpectQuery(`(?s)SELECT (.+)\s+FROM bookings\s+WHERE id`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(
				bookingID, "Anita Desai", 34, "9876543210", nil,
				"Deluxe Room", int64(15000), models.BookingStatusPaid,
				paymentID, orderID, now, now,
			))

		signature := signTest([]byte(orderID+"|"+paymentID), "key_secret")
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/verify", bytes.NewReader(callbackBody(signature)))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Booking", func(t *testing.T) {
		router, mock := newPaymentTestRouter(t, cfg)

		mock.ExpectQuery(`(?s)SELECT (.+)\s+FROM bookings\s+WHERE id`).
			WithArgs(bookingID).
			WillReturnError(sql.ErrNoRows)

		signature := signTest([]byte(orderID+"|"+paymentID), "key_secret")
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/verify", bytes.NewReader(callbackBody(signature)))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "BOOKING_NOT_FOUND")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Fields", func(t *testing.T) {
		router, _ := newPaymentTestRouter(t, cfg)

		body, _ := json.Marshal(models.VerifyPaymentRequest{
			RazorpayOrderID: orderID,
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/verify", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})
}

func TestWebhook(t *testing.T) {
	cfg := &config.RazorpayConfig{
		KeyID:         "rzp_test_key",
		KeySecret:     "key_secret",
		WebhookSecret: "webhook_secret",
		Currency:      "INR",
	}

	bookingID := uuid.New().String()

	capturedBody := func(notes map[string]string) []byte {
		event := map[string]interface{}{
			"event": "payment.captured",
			"payload": map[string]interface{}{
				"payment": map[string]interface{}{
					"entity": map[string]interface{}{
						"id":       "pay_ABC123",
						"order_id": "order_XYZ789",
						"amount":   1500000,
						"status":   "captured",
						"notes":    notes,
					},
				},
			},
		}
		body, _ := json.Marshal(event)
		return body
	}

	post := func(router *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if signature != "" {
			req.Header.Set(WebhookSignatureHeader, signature)
		}
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Captured Payment Transitions Booking", func(t *testing.T) {
		router, mock := newPaymentTestRouter(t, cfg)
		now := time.Now()

		mock.ExpectQuery(`(?s)SELECT (.+)\s+FROM bookings\s+WHERE id`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(
				bookingID, "Anita Desai", 34, "9876543210", nil,
				"Deluxe Room", int64(15000), models.BookingStatusPending,
				nil, "order_XYZ789", now, now,
			))
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(bookingID, models.BookingStatusPaid, "pay_ABC123", models.BookingStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		body := capturedBody(map[string]string{"booking_id": bookingID})
		w := post(router, body, signTest(body, "webhook_secret"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), bookingID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Redelivery Of Paid Booking Acknowledged", func(t *testing.T) {
		router, mock := newPaymentTestRouter(t, cfg)
		now := time.Now()

		mock.ExpectQuery(`(?s)SELECT (.+)\s+FROM bookings\s+WHERE id`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(
				bookingID, "Anita Desai", 34, "9876543210", nil,
				"Deluxe Room", int64(15000), models.BookingStatusPaid,
				"pay_ABC123", "order_XYZ789", now, now,
			))

		body := capturedBody(map[string]string{"booking_id": bookingID})
		w := post(router, body, signTest(body, "webhook_secret"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Invalid Signature Rejected", func(t *testing.T) {
		router, mock := newPaymentTestRouter(t, cfg)

		body := capturedBody(map[string]string{"booking_id": bookingID})
		w := post(router, body, signTest(body, "other_secret"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_SIGNATURE")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Signature Header Rejected", func(t *testing.T) {
		router, _ := newPaymentTestRouter(t, cfg)

		body := capturedBody(map[string]string{"booking_id": bookingID})
		w := post(router, body, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Other Event Types Acknowledged And Ignored", func(t *testing.T) {
		router, mock := newPaymentTestRouter(t, cfg)

		body := []byte(`{"event":"payment.failed","payload":{}}`)
		w := post(router, body, signTest(body, "webhook_secret"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ignored")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Booking Note Acknowledged And Ignored", func(t *testing.T) {
		router, mock := newPaymentTestRouter(t, cfg)

		body := capturedBody(map[string]string{"room_type": "Deluxe Room"})
		w := post(router, body, signTest(body, "webhook_secret"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ignored")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Store Failure Returns Server Error For Retry", func(t *testing.T) {
		router, mock := newPaymentTestRouter(t, cfg)

		mock.ExpectQuery(`(?s)SELECT (.+)\s+FROM bookings\s+WHERE id`).
			WithArgs(bookingID).
			WillReturnError(fmt.Errorf("connection reset"))

		body := capturedBody(map[string]string{"booking_id": bookingID})
		w := post(router, body, signTest(body, "webhook_secret"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// mockDatabase wraps *sql.DB to satisfy the database.DB interface in tests
type mockDatabase struct {
	db *sql.DB
}

func (m *mockDatabase) Get(dest interface{}, query string, args ...interface{}) error {
	return fmt.Errorf("Get not implemented in mock")
}

func (m *mockDatabase) Select(dest interface{}, query string, args ...interface{}) error {
	return fmt.Errorf("Select not implemented in mock")
}

func (m *mockDatabase) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return m.db.Query(query, args...)
}

func (m *mockDatabase) QueryRow(query string, args ...interface{}) *sql.Row {
	return m.db.QueryRow(query, args...)
}

func (m *mockDatabase) Exec(query string, args ...interface{}) (sql.Result, error) {
	return m.db.Exec(query, args...)
}

func (m *mockDatabase) Close() error {
	return m.db.Close()
}

func (m *mockDatabase) Ping() error {
	return m.db.Ping()
}
