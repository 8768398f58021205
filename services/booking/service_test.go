package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"servebook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(hour, min int) time.Time {
	return time.Date(2024, 6, 1, hour, min, 0, 0, time.UTC)
}

func TestCreateBooking(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	created, err := svc.CreateBooking(context.Background(), validInput(day(14, 0), day(16, 0)))
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, "2024-06-01", created.Date)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	stored, ok := repo.get(created.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusPending, stored.Status)

	// The provider is told a request is waiting.
	calls := notifier.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "provider-1", calls[0].userID)
	assert.Equal(t, models.NotificationBookingRequest, calls[0].templateType)
	assert.Equal(t, created.ID, calls[0].data["bookingId"])
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	_, err := svc.CreateBooking(context.Background(), validInput(day(14, 0), day(16, 0)))
	require.NoError(t, err)

	// 15:00-17:00 overlaps the committed 14:00-16:00 booking.
	_, err = svc.CreateBooking(context.Background(), validInput(day(15, 0), day(17, 0)))
	require.ErrorIs(t, err, ErrSlotConflict)
	assert.False(t, IsRetryable(err))

	// Only the first creation notified.
	assert.Len(t, notifier.recorded(), 1)
}

func TestCreateBookingAllowsAbuttingIntervals(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeNotifier{})

	_, err := svc.CreateBooking(context.Background(), validInput(day(14, 0), day(16, 0)))
	require.NoError(t, err)

	// 16:00-18:00 shares only the boundary instant, which belongs to the
	// later interval.
	_, err = svc.CreateBooking(context.Background(), validInput(day(16, 0), day(18, 0)))
	assert.NoError(t, err)
}

func TestCreateBookingIgnoresResolvedBookings(t *testing.T) {
	for _, status := range []models.BookingStatus{models.StatusRejected, models.StatusCancelled, models.StatusCompleted} {
		t.Run(string(status), func(t *testing.T) {
			repo := newFakeRepo()
			svc := newTestService(repo, &fakeNotifier{})

			repo.seed(models.Booking{
				ID:         "resolved-1",
				ProviderID: "provider-1",
				ConsumerID: "consumer-2",
				ServiceID:  "svc-1",
				Date:       "2024-06-01",
				StartTime:  day(14, 0),
				EndTime:    day(16, 0),
				Status:     status,
			})

			_, err := svc.CreateBooking(context.Background(), validInput(day(15, 0), day(17, 0)))
			assert.NoError(t, err)
		})
	}
}

func TestCreateBookingValidation(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeNotifier{})

	t.Run("missing references", func(t *testing.T) {
		input := validInput(day(14, 0), day(16, 0))
		input.ProviderID = ""
		_, err := svc.CreateBooking(context.Background(), input)
		require.Error(t, err)
		var engineErr *Error
		require.ErrorAs(t, err, &engineErr)
		assert.Equal(t, "missingReference", engineErr.Code)
	})

	t.Run("inverted interval", func(t *testing.T) {
		_, err := svc.CreateBooking(context.Background(), validInput(day(16, 0), day(14, 0)))
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})

	t.Run("zero-length interval", func(t *testing.T) {
		_, err := svc.CreateBooking(context.Background(), validInput(day(14, 0), day(14, 0)))
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})

	t.Run("negative price", func(t *testing.T) {
		input := validInput(day(14, 0), day(16, 0))
		input.TotalPrice = -1
		_, err := svc.CreateBooking(context.Background(), input)
		require.Error(t, err)
		var engineErr *Error
		require.ErrorAs(t, err, &engineErr)
		assert.Equal(t, "invalidPrice", engineErr.Code)
	})
}

func TestCreateBookingStoreFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = errors.New("connection reset")
	svc := newTestService(repo, &fakeNotifier{})

	_, err := svc.CreateBooking(context.Background(), validInput(day(14, 0), day(16, 0)))
	require.ErrorIs(t, err, ErrStoreUnavailable)
	assert.True(t, IsRetryable(err))
}

func TestCreateBookingNotificationFailureIsSwallowed(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{err: errors.New("queue down")}
	svc := newTestService(repo, notifier)

	created, err := svc.CreateBooking(context.Background(), validInput(day(14, 0), day(16, 0)))
	require.NoError(t, err)

	// The booking committed despite the enqueue failure.
	_, ok := repo.get(created.ID)
	assert.True(t, ok)
}

func TestCreateBookingConcurrentRequestsAdmitOneWinner(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeNotifier{})

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateBooking(context.Background(), validInput(day(14, 0), day(16, 0)))
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, ErrSlotConflict)
		}
	}
	assert.Equal(t, 1, won)
}

func TestCheckAvailability(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeNotifier{})

	available, err := svc.CheckAvailability(context.Background(), "provider-1", day(14, 0), day(16, 0))
	require.NoError(t, err)
	assert.True(t, available)

	_, err = svc.CreateBooking(context.Background(), validInput(day(14, 0), day(16, 0)))
	require.NoError(t, err)

	available, err = svc.CheckAvailability(context.Background(), "provider-1", day(15, 0), day(17, 0))
	require.NoError(t, err)
	assert.False(t, available)

	// Abutting interval stays available.
	available, err = svc.CheckAvailability(context.Background(), "provider-1", day(16, 0), day(18, 0))
	require.NoError(t, err)
	assert.True(t, available)

	// Other providers are unaffected.
	available, err = svc.CheckAvailability(context.Background(), "provider-2", day(15, 0), day(17, 0))
	require.NoError(t, err)
	assert.True(t, available)
}

func TestCheckAvailabilityInvalidInterval(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeNotifier{})

	_, err := svc.CheckAvailability(context.Background(), "provider-1", day(16, 0), day(14, 0))
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestCheckAvailabilityStoreFailureIsNotFree(t *testing.T) {
	repo := newFakeRepo()
	repo.listErr = errors.New("primary stepped down")
	svc := newTestService(repo, &fakeNotifier{})

	_, err := svc.CheckAvailability(context.Background(), "provider-1", day(14, 0), day(16, 0))
	require.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestConflictDetectionAcrossMidnight(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeNotifier{})

	// A booking keyed on June 1st that runs past local midnight.
	repo.seed(models.Booking{
		ID:         "late-1",
		ProviderID: "provider-1",
		ConsumerID: "consumer-2",
		ServiceID:  "svc-1",
		Date:       "2024-06-01",
		StartTime:  time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2024, 6, 2, 1, 0, 0, 0, time.UTC),
		Status:     models.StatusAccepted,
	})

	// A candidate early on June 2nd collides even though its own day key
	// differs from the stored one.
	available, err := svc.CheckAvailability(context.Background(), "provider-1",
		time.Date(2024, 6, 2, 0, 30, 0, 0, time.UTC),
		time.Date(2024, 6, 2, 1, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, available)
}

func TestGetBooking(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeNotifier{})

	created, err := svc.CreateBooking(context.Background(), validInput(day(14, 0), day(16, 0)))
	require.NoError(t, err)

	fetched, err := svc.GetBooking(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)

	_, err = svc.GetBooking(context.Background(), "no-such-booking")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestListProviderDay(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeNotifier{})

	_, err := svc.CreateBooking(context.Background(), validInput(day(9, 0), day(10, 0)))
	require.NoError(t, err)
	_, err = svc.CreateBooking(context.Background(), validInput(day(14, 0), day(16, 0)))
	require.NoError(t, err)

	bookings, err := svc.ListProviderDay(context.Background(), "provider-1", "2024-06-01")
	require.NoError(t, err)
	assert.Len(t, bookings, 2)

	bookings, err = svc.ListProviderDay(context.Background(), "provider-1", "2024-06-02")
	require.NoError(t, err)
	assert.Empty(t, bookings)
}
