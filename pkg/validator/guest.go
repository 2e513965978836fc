package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrMissingName indicates the guest name is empty
	ErrMissingName = errors.New("name is required")

	// ErrInvalidAge indicates the age is outside the accepted range
	ErrInvalidAge = errors.New("age must be between 18 and 100")

	// ErrInvalidMobile indicates the mobile number is not exactly 10 digits
	ErrInvalidMobile = errors.New("mobile number must be exactly 10 digits")

	// ErrInvalidEmail indicates the email address is malformed
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrMissingRoomType indicates the room type label is empty
	ErrMissingRoomType = errors.New("room type is required")
)

const (
	minAge = 18
	maxAge = 100
)

// mobileRegex matches exactly 10 digits
var mobileRegex = regexp.MustCompile(`^\d{10}$`)

// emailRegex matches local@domain.tld without whitespace
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// GuestValidator validates guest details submitted with a booking
type GuestValidator struct{}

// NewGuestValidator creates a new guest validator instance
func NewGuestValidator() *GuestValidator {
	return &GuestValidator{}
}

// Validate checks all guest fields and returns the first violation found.
// Email is optional; every other field is required.
func (v *GuestValidator) Validate(name string, age int, mobile, email, roomType string) error {
	if strings.TrimSpace(name) == "" {
		return ErrMissingName
	}

	if age < minAge || age > maxAge {
		return ErrInvalidAge
	}

	if _, err := v.ValidateMobile(mobile); err != nil {
		return err
	}

	if email != "" {
		if err := v.ValidateEmail(email); err != nil {
			return err
		}
	}

	if strings.TrimSpace(roomType) == "" {
		return ErrMissingRoomType
	}

	return nil
}

// ValidateMobile validates a 10-digit mobile number.
// Accepts common separators (077 123 4567, 077-123-4567) and returns the
// sanitized digits-only form.
func (v *GuestValidator) ValidateMobile(mobile string) (string, error) {
	sanitized := v.Sanitize(mobile)

	if !mobileRegex.MatchString(sanitized) {
		return "", ErrInvalidMobile
	}

	return sanitized, nil
}

// ValidateEmail validates an email address of the form local@domain.tld
func (v *GuestValidator) ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// Sanitize removes common separator characters from a mobile number
func (v *GuestValidator) Sanitize(mobile string) string {
	mobile = strings.ReplaceAll(mobile, " ", "")
	mobile = strings.ReplaceAll(mobile, "-", "")
	mobile = strings.ReplaceAll(mobile, "(", "")
	mobile = strings.ReplaceAll(mobile, ")", "")
	mobile = strings.ReplaceAll(mobile, ".", "")

	return mobile
}
