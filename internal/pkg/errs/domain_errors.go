package errs

import "errors"

// Sentinel errors shared across usecase layers
var (
	// Booking errors
	ErrBookingNotFound   = errors.New("booking not found")
	ErrSlotConflict      = errors.New("slot already booked")
	ErrInvalidTransition = errors.New("transition not allowed from current status")
	ErrInvalidSlot       = errors.New("invalid slot")
	ErrReasonRequired    = errors.New("reason is required")

	// Authorization errors
	ErrForbidden = errors.New("caller is not a party to this booking")

	// Payment errors
	ErrPaymentVerificationFailed = errors.New("payment signature verification failed")
	ErrPaymentOrderNotFound      = errors.New("payment order not found")
	ErrInvalidAmount             = errors.New("amount must be positive")

	// Availability errors
	ErrTeacherNotFound = errors.New("teacher availability not found")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
	ErrGatewayUnavailable      = errors.New("payment gateway unavailable")
)
