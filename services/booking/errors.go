package booking

import (
	"errors"
	"fmt"
)

// Error is a booking-engine error with a stable machine-readable code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	// ErrSlotConflict is a terminal business rejection: the requested
	// interval is already held by an active booking. Callers must not retry
	// with the same interval.
	ErrSlotConflict = &Error{Code: "slotConflict", Message: "this time is no longer available, choose another"}

	// ErrInvalidTransition is terminal: the requested status change is not
	// legal from the booking's current state.
	ErrInvalidTransition = &Error{Code: "invalidTransition", Message: "status change not allowed from the current state"}

	// ErrPermissionDenied is terminal: the actor's role does not authorize
	// the operation.
	ErrPermissionDenied = &Error{Code: "permissionDenied", Message: "actor is not allowed to perform this operation"}

	// ErrInvalidInterval is terminal: the requested interval is malformed.
	ErrInvalidInterval = &Error{Code: "invalidInterval", Message: "startTime must be before endTime"}

	// ErrBookingNotFound indicates the referenced booking does not exist.
	ErrBookingNotFound = &Error{Code: "bookingNotFound", Message: "booking not found"}

	// ErrStoreUnavailable is a transient infrastructure failure; callers may
	// retry with backoff.
	ErrStoreUnavailable = &Error{Code: "storeUnavailable", Message: "booking store is unavailable"}

	// ErrTransactionAborted is a transient transaction failure; callers may
	// retry with backoff.
	ErrTransactionAborted = &Error{Code: "transactionAborted", Message: "booking transaction aborted"}
)

// IsRetryable reports whether the error is a transient infrastructure
// failure that is safe to retry with backoff. Business rejections are never
// retryable.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrTransactionAborted)
}
