package database

import (
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrRoomTypeNotFound indicates the room type has no price entry
	ErrRoomTypeNotFound = errors.New("unknown room type")
)

// PriceRepository handles database operations for the room_prices table.
// Lookups are exact-key only; the price table is the trust anchor for
// booking amounts, so there is no fuzzy matching of labels.
type PriceRepository struct {
	db DB
}

// NewPriceRepository creates a new PriceRepository
func NewPriceRepository(db DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// GetPrice returns the trusted amount for a room type
func (r *PriceRepository) GetPrice(roomType string) (int64, error) {
	query := `
		SELECT price
		FROM room_prices
		WHERE room_type = $1
	`

	var price int64
	err := r.db.QueryRow(query, roomType).Scan(&price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrRoomTypeNotFound
		}
		return 0, fmt.Errorf("failed to fetch price: %w", err)
	}

	return price, nil
}

// GetAll returns the full price table as a room-type to price map
func (r *PriceRepository) GetAll() (map[string]int64, error) {
	query := `
		SELECT room_type, price
		FROM room_prices
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}
	defer rows.Close()

	prices := map[string]int64{}
	for rows.Next() {
		var roomType string
		var price int64
		if err := rows.Scan(&roomType, &price); err != nil {
			return nil, err
		}
		prices[roomType] = price
	}

	return prices, rows.Err()
}

// Upsert inserts or updates the price for a room type
func (r *PriceRepository) Upsert(roomType string, price int64) error {
	query := `
		INSERT INTO room_prices (room_type, price, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (room_type)
		DO UPDATE SET price = EXCLUDED.price, updated_at = NOW()
	`

	if _, err := r.db.Exec(query, roomType, price); err != nil {
		return fmt.Errorf("failed to upsert price: %w", err)
	}

	return nil
}
