package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sifworld/retreat-booking-backend/internal/models"
)

var (
	// ErrBookingNotFound indicates the booking id does not exist
	ErrBookingNotFound = errors.New("booking not found")
)

// scanner abstracts *sql.Row and *sql.Rows for shared scanning
type scanner interface {
	Scan(dest ...interface{}) error
}

// BookingRepository handles database operations for the bookings table
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a new booking in status PENDING
func (r *BookingRepository) Create(booking *models.Booking) error {
	query := `
		INSERT INTO bookings (
			id, name, age, mobile, email, room_type, amount, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		RETURNING created_at, updated_at
	`

	// Generate ID if not provided
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	if booking.Status == "" {
		booking.Status = models.BookingStatusPending
	}

	err := r.db.QueryRow(
		query,
		booking.ID, booking.Name, booking.Age, booking.Mobile,
		booking.Email, booking.RoomType, booking.Amount, booking.Status,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(bookingID string) (*models.Booking, error) {
	query := `
		SELECT id, name, age, mobile, email, room_type, amount,
			   status, payment_id, razorpay_order_id,
			   created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	booking, err := r.scanBooking(r.db.QueryRow(query, bookingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return booking, nil
}

// List retrieves all bookings, newest first
func (r *BookingRepository) List() ([]models.Booking, error) {
	query := `
		SELECT id, name, age, mobile, email, room_type, amount,
			   status, payment_id, razorpay_order_id,
			   created_at, updated_at
		FROM bookings
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}

	return bookings, rows.Err()
}

// SetGatewayOrder records the gateway order id opened for a booking
func (r *BookingRepository) SetGatewayOrder(bookingID, orderID string) error {
	query := `
		UPDATE bookings
		SET razorpay_order_id = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, bookingID, orderID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// MarkPaid atomically transitions a booking from PENDING to PAID and records
// the payment id. The status guard makes the write conditional: when two
// verification triggers race, only one caller observes transitioned=true and
// may run the paid side effects. Returns false without error when the row was
// already PAID.
func (r *BookingRepository) MarkPaid(bookingID, paymentID string) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $2, payment_id = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4
	`

	result, err := r.db.Exec(query, bookingID, models.BookingStatusPaid, paymentID, models.BookingStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to mark booking paid: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// scanBooking scans a single booking
func (r *BookingRepository) scanBooking(row scanner) (*models.Booking, error) {
	booking := &models.Booking{}
	var email sql.NullString
	var paymentID sql.NullString
	var razorpayOrderID sql.NullString

	err := row.Scan(
		&booking.ID, &booking.Name, &booking.Age, &booking.Mobile,
		&email, &booking.RoomType, &booking.Amount,
		&booking.Status, &paymentID, &razorpayOrderID,
		&booking.CreatedAt, &booking.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	// Convert sql.Null* types
	if email.Valid {
		booking.Email = &email.String
	}
	if paymentID.Valid {
		booking.PaymentID = &paymentID.String
	}
	if razorpayOrderID.Valid {
		booking.RazorpayOrderID = &razorpayOrderID.String
	}

	return booking, nil
}
