package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sifworld/retreat-booking-backend/internal/database"
	"github.com/sifworld/retreat-booking-backend/internal/models"
	"github.com/sifworld/retreat-booking-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mockDB := &mockDatabase{db: db}
	handler := NewAdminHandler(
		database.NewBookingRepository(mockDB),
		database.NewPriceRepository(mockDB),
		database.NewPaymentAuditRepository(mockDB, testLogger()),
		services.NewReceiptService(),
		testLogger(),
	)

	router := gin.New()
	router.GET("/api/v1/prices", handler.GetPrices)
	router.PUT("/api/v1/admin/prices", handler.UpdatePrice)
	router.GET("/api/v1/admin/bookings", handler.ListBookings)
	router.GET("/api/v1/admin/bookings/:id/receipt", handler.DownloadReceipt)
	return router, mock
}

func TestGetPrices(t *testing.T) {
	router, mock := newAdminTestRouter(t)

	mock.ExpectQuery(`SELECT room_type, price\s+FROM room_prices`).
		WillReturnRows(sqlmock.NewRows([]string{"room_type", "price"}).
			AddRow("Standard Room", int64(8000)).
			AddRow("Deluxe Room", int64(15000)))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/prices", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")

	var resp struct {
		Prices map[string]int64 `json:"prices"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(15000), resp.Prices["Deluxe Room"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePrice(t *testing.T) {
	put := func(router *gin.Engine, body interface{}) *httptest.ResponseRecorder {
		jsonBody, _ := json.Marshal(body)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/prices", bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Success", func(t *testing.T) {
		router, mock := newAdminTestRouter(t)

		mock.ExpectExec(`INSERT INTO room_prices`).
			WithArgs("Deluxe Room", int64(16500)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		price := int64(16500)
		w := put(router, models.UpdatePriceRequest{RoomType: "Deluxe Room", NewPrice: &price})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Room Type", func(t *testing.T) {
		router, _ := newAdminTestRouter(t)

		price := int64(16500)
		w := put(router, models.UpdatePriceRequest{NewPrice: &price})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing Price", func(t *testing.T) {
		router, _ := newAdminTestRouter(t)

		w := put(router, models.UpdatePriceRequest{RoomType: "Deluxe Room"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Non-Positive Price", func(t *testing.T) {
		router, _ := newAdminTestRouter(t)

		price := int64(0)
		w := put(router, models.UpdatePriceRequest{RoomType: "Deluxe Room", NewPrice: &price})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListBookingsHandler(t *testing.T) {
	router, mock := newAdminTestRouter(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)SELECT (.+)\s+FROM bookings\s+ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow(uuid.New().String(), "Anita Desai", 34, "9876543210", nil,
				"Deluxe Room", int64(15000), models.BookingStatusPaid, "pay_ABC123", "order_XYZ789", now, now))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Bookings []models.Booking `json:"bookings"`
		Count    int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "Anita Desai", resp.Bookings[0].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDownloadReceipt(t *testing.T) {
	bookingID := uuid.New().String()

	t.Run("Paid Booking Returns PDF", func(t *testing.T) {
		router, mock := newAdminTestRouter(t)
		now := time.Now()

		mock.ExpectQuery(`(?s)SELECT (.+)\s+FROM bookings\s+WHERE id`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(
				bookingID, "Anita Desai", 34, "9876543210", nil,
				"Deluxe Room", int64(15000), models.BookingStatusPaid,
				"pay_ABC123", "order_XYZ789", now, now,
			))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings/"+bookingID+"/receipt", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "Receipt_Anita_Desai.pdf")
		assert.Equal(t, "%PDF", w.Body.String()[:4])

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Pending Booking Has No Receipt", func(t *testing.T) {
		router, mock := newAdminTestRouter(t)
		now := time.Now()

		mock.ExpectQuery(`(?s)SELECT (.+)\s+FROM bookings\s+WHERE id`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(
				bookingID, "Anita Desai", 34, "9876543210", nil,
				"Deluxe Room", int64(15000), models.BookingStatusPending,
				nil, nil, now, now,
			))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings/"+bookingID+"/receipt", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "BOOKING_NOT_PAID")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Booking", func(t *testing.T) {
		router, mock := newAdminTestRouter(t)

		mock.ExpectQuery(`(?s)SELECT (.+)\s+FROM bookings\s+WHERE id`).
			WithArgs(bookingID).
			WillReturnError(sql.ErrNoRows)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings/"+bookingID+"/receipt", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
