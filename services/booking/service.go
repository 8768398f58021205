package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	bookingRepo "servebook/database/repository/booking"
	"servebook/models"
	"servebook/services/notification"
	"servebook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBookingService is the production implementation of BookingService.
type DefaultBookingService struct {
	Repo            bookingRepo.Repository
	Detector        *ConflictDetector
	NotificationSvc notification.Service
	// Location is the reference timezone used to derive day keys.
	Location *time.Location
}

func (s *DefaultBookingService) loc() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.Local
}

// CheckAvailability answers the booking-intent pre-check.
func (s *DefaultBookingService) CheckAvailability(ctx context.Context, providerID string, start, end time.Time) (bool, error) {
	return s.Detector.CheckAvailability(ctx, providerID, start, end)
}

// CreateBooking reserves the interval for the consumer. The conflict check
// and insert run inside one store transaction, so concurrent requests for
// overlapping intervals on the same provider cannot both commit; the loser
// gets ErrSlotConflict.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, input models.CreateBookingInput) (*models.Booking, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	dateKey := utils.DateKey(input.StartTime, s.loc())
	booking := &models.Booking{
		ID:            uuid.NewString(),
		ServiceID:     input.ServiceID,
		ConsumerID:    input.ConsumerID,
		ProviderID:    input.ProviderID,
		CategoryID:    input.CategoryID,
		CategoryName:  input.CategoryName,
		CategoryPrice: input.CategoryPrice,
		CategoryIDs:   input.CategoryIDs,
		CategoryNames: input.CategoryNames,
		TotalPrice:    input.TotalPrice,
		Date:          dateKey,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		Status:        models.StatusPending,
	}

	if err := s.Repo.CreateIfSlotFree(ctx, booking, utils.AdjacentDateKeys(dateKey)); err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return nil, ErrSlotConflict
		}
		if bookingRepo.IsTransient(err) {
			return nil, fmt.Errorf("%w: %v", ErrTransactionAborted, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	zap.L().Info("booking created",
		zap.String("bookingId", booking.ID),
		zap.String("providerId", booking.ProviderID),
		zap.String("date", booking.Date),
	)

	// Best-effort: tell the provider a request is waiting. A failure here
	// must never undo the committed booking.
	if err := s.NotificationSvc.Enqueue(ctx, booking.ProviderID, models.NotificationBookingRequest, map[string]string{
		"bookingId": booking.ID,
		"date":      booking.Date,
	}); err != nil {
		zap.L().Warn("booking request notification failed",
			zap.String("bookingId", booking.ID),
			zap.Error(err),
		)
	}

	return booking, nil
}

// GetBooking fetches a single booking by ID.
func (s *DefaultBookingService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return b, nil
}

// ListProviderDay lists all bookings for a provider on one calendar day,
// regardless of status. Used by availability UIs.
func (s *DefaultBookingService) ListProviderDay(ctx context.Context, providerID, dateKey string) ([]models.Booking, error) {
	bookings, err := s.Repo.ListByProviderAndDates(ctx, providerID, []string{dateKey})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return bookings, nil
}

func validateInput(input models.CreateBookingInput) error {
	if input.ProviderID == "" || input.ConsumerID == "" || input.ServiceID == "" {
		return &Error{Code: "missingReference", Message: "serviceId, providerId and consumerId are required"}
	}
	if !input.StartTime.Before(input.EndTime) {
		return ErrInvalidInterval
	}
	if input.TotalPrice < 0 {
		return &Error{Code: "invalidPrice", Message: "totalPrice must not be negative: " + strconv.FormatFloat(input.TotalPrice, 'f', -1, 64)}
	}
	return nil
}
