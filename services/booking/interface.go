package booking

import (
	"context"
	"time"

	"servebook/models"
)

// BookingService is the engine surface exposed to the rest of the
// application: availability pre-checks, the atomic create, the status
// lifecycle, and the merged live feed.
type BookingService interface {
	// CheckAvailability reports whether the interval is free for the
	// provider. Advisory only; CreateBooking re-checks transactionally.
	CheckAvailability(ctx context.Context, providerID string, start, end time.Time) (bool, error)

	// CreateBooking atomically reserves the interval. At most one booking
	// can be committed for any overlapping interval on the same provider,
	// even under concurrent callers.
	CreateBooking(ctx context.Context, input models.CreateBookingInput) (*models.Booking, error)

	// Transition applies a status change on behalf of the given actor.
	Transition(ctx context.Context, bookingID string, target models.BookingStatus, actor models.Actor) (*models.Booking, error)

	// GetBooking fetches a single booking.
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)

	// ListProviderDay lists a provider's bookings on one calendar day.
	ListProviderDay(ctx context.Context, providerID, dateKey string) ([]models.Booking, error)

	// SubscribeBookings opens a live merged feed of the user's outgoing and
	// incoming bookings. Closing the feed stops delivery only.
	SubscribeBookings(ctx context.Context, userID string) (*Feed, error)
}
