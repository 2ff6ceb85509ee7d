package domain

import (
	"errors"
	"fmt"
)

var (
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrRecordNotFound   = errors.New("vaccine record not found")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrReviewNotFound   = errors.New("review not found")

	ErrCampaignNotBookable = errors.New("campaign is not open for booking")
	ErrPastDate            = errors.New("cannot book a date in the past")

	ErrNoAvailableSlots  = errors.New("no available slots")
	ErrDuplicateBooking  = errors.New("patient already booked this campaign")
	ErrDuplicateSchedule = errors.New("campaign already has a schedule on this date")
	ErrDuplicateReview   = errors.New("patient already reviewed this campaign")
	ErrNotBooked         = errors.New("campaign must be booked before reviewing")
	ErrPaymentFinalized  = errors.New("payment already finalized")

	ErrForbidden = errors.New("operation not permitted")

	// ErrInvalidInput marks client-correctable validation failures so the
	// API layer can report them distinctly from conflicts and store errors.
	ErrInvalidInput = errors.New("invalid input")
)

// InvalidInput wraps a validation message with ErrInvalidInput.
func InvalidInput(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInvalidInput)
}
