package bookingRepo

import (
	"context"
	"errors"
	"time"

	"servebook/models"
)

// Sentinel errors surfaced by the repository. The booking service maps them
// onto its own error taxonomy.
var (
	// ErrNotFound indicates the booking document does not exist.
	ErrNotFound = errors.New("booking not found")
	// ErrSlotTaken indicates an active booking already holds the interval.
	ErrSlotTaken = errors.New("slot already held by an active booking")
	// ErrStatusChanged indicates a conditional status update lost a race:
	// the booking's status no longer matches the expected value.
	ErrStatusChanged = errors.New("booking status changed concurrently")
)

// Subscription is a live, push-based view over a booking query. Every time
// the underlying result set changes, a fresh full snapshot is delivered on
// Updates. A failed stream reports once on Errs and stops.
type Subscription struct {
	Updates <-chan []models.Booking
	Errs    <-chan error
	cancel  context.CancelFunc
}

// Close stops delivery. It does not affect stored state.
func (s *Subscription) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Repository is the persistence boundary for booking documents.
type Repository interface {
	// GetByID fetches a single booking.
	GetByID(ctx context.Context, id string) (*models.Booking, error)

	// ListByProviderAndDates fetches all bookings for a provider whose date
	// key is in the given set, regardless of status.
	ListByProviderAndDates(ctx context.Context, providerID string, dateKeys []string) ([]models.Booking, error)

	// ListByConsumer and ListByProvider fetch all bookings for one side of
	// the marketplace, newest first.
	ListByConsumer(ctx context.Context, consumerID string) ([]models.Booking, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.Booking, error)

	// CreateIfSlotFree inserts the booking atomically with a re-check that
	// no active booking for the same provider overlaps its interval. The
	// check and insert run in one transaction; a conflicting commit by
	// another caller surfaces as ErrSlotTaken. On success CreatedAt and
	// UpdatedAt are set to the commit time.
	CreateIfSlotFree(ctx context.Context, booking *models.Booking, dateKeys []string) error

	// UpdateStatusIf sets the booking's status to "to" only if it is still
	// "from", updating UpdatedAt. A stale expectation surfaces as
	// ErrStatusChanged. Returns the updated document.
	UpdateStatusIf(ctx context.Context, id string, from, to models.BookingStatus, at time.Time) (*models.Booking, error)

	// WatchConsumer and WatchProvider open independent live subscriptions
	// over one side's bookings.
	WatchConsumer(ctx context.Context, consumerID string) (*Subscription, error)
	WatchProvider(ctx context.Context, providerID string) (*Subscription, error)
}
