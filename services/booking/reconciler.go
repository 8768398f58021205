package booking

import (
	"context"
	"fmt"
	"sort"

	bookingRepo "servebook/database/repository/booking"
	"servebook/models"

	"go.uber.org/zap"
)

// Feed is a live merged view of one user's bookings across both directions:
// outgoing (user is the consumer) and incoming (user is the provider).
type Feed struct {
	Updates <-chan models.FeedUpdate
	cancel  context.CancelFunc
}

// Close stops delivery. Stored bookings are unaffected.
func (f *Feed) Close() {
	if f.cancel != nil {
		f.cancel()
	}
}

// SubscribeBookings opens the two independent live subscriptions — the store
// cannot answer "consumer OR provider equals user" as one equality query —
// and reconciles them into a single de-duplicated, createdAt-descending feed
// with derived stats.
func (s *DefaultBookingService) SubscribeBookings(ctx context.Context, userID string) (*Feed, error) {
	fctx, cancel := context.WithCancel(ctx)

	consumerSub, err := s.Repo.WatchConsumer(fctx, userID)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	providerSub, err := s.Repo.WatchProvider(fctx, userID)
	if err != nil {
		consumerSub.Close()
		cancel()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	out := make(chan models.FeedUpdate, 1)
	go reconcile(fctx, userID, consumerSub, providerSub, out)

	return &Feed{
		Updates: out,
		cancel: func() {
			consumerSub.Close()
			providerSub.Close()
			cancel()
		},
	}, nil
}

// reconcile merges the two streams. Each delivery replaces only that
// stream's half of the union, so applying updates in either arrival order
// yields the same final list. Nothing is emitted until both streams have
// reported once (ready), to avoid flashing a direction-biased partial list.
// A failed stream degrades to an empty half instead of blocking the other.
func reconcile(ctx context.Context, userID string, consumerSub, providerSub *bookingRepo.Subscription, out chan models.FeedUpdate) {
	defer close(out)

	var outgoing, incoming []models.Booking
	consumerReady, providerReady := false, false

	consumerUpdates, consumerErrs := consumerSub.Updates, consumerSub.Errs
	providerUpdates, providerErrs := providerSub.Updates, providerSub.Errs

	emit := func() {
		if !consumerReady || !providerReady {
			return
		}
		update := mergeFeed(outgoing, incoming)
		// Latest snapshot wins; a slow reader only ever misses superseded
		// intermediate states.
		for {
			select {
			case out <- update:
				return
			case <-ctx.Done():
				return
			default:
			}
			select {
			case <-out:
			default:
			}
		}
	}

	for consumerUpdates != nil || providerUpdates != nil {
		select {
		case <-ctx.Done():
			return

		case snap, ok := <-consumerUpdates:
			if !ok {
				consumerUpdates = nil
				continue
			}
			outgoing = snap
			consumerReady = true
			emit()

		case err := <-consumerErrs:
			zap.L().Warn("consumer booking stream degraded",
				zap.String("userId", userID), zap.Error(err))
			outgoing = nil
			consumerReady = true
			consumerErrs = nil
			consumerUpdates = nil
			emit()

		case snap, ok := <-providerUpdates:
			if !ok {
				providerUpdates = nil
				continue
			}
			incoming = snap
			providerReady = true
			emit()

		case err := <-providerErrs:
			zap.L().Warn("provider booking stream degraded",
				zap.String("userId", userID), zap.Error(err))
			incoming = nil
			providerReady = true
			providerErrs = nil
			providerUpdates = nil
			emit()
		}
	}
}

// mergeFeed unions the two halves, tags direction, de-duplicates by booking
// ID (outgoing wins, deterministically), sorts by createdAt descending with
// ID as tie-breaker, and derives the stats.
func mergeFeed(outgoing, incoming []models.Booking) models.FeedUpdate {
	merged := make([]models.FeedBooking, 0, len(outgoing)+len(incoming))
	seen := make(map[string]struct{}, len(outgoing))

	for _, b := range outgoing {
		if _, dup := seen[b.ID]; dup {
			continue
		}
		seen[b.ID] = struct{}{}
		merged = append(merged, models.FeedBooking{Booking: b, IsIncoming: false})
	}
	for _, b := range incoming {
		if _, dup := seen[b.ID]; dup {
			continue
		}
		seen[b.ID] = struct{}{}
		merged = append(merged, models.FeedBooking{Booking: b, IsIncoming: true})
	}

	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].CreatedAt.Equal(merged[j].CreatedAt) {
			return merged[i].CreatedAt.After(merged[j].CreatedAt)
		}
		return merged[i].ID < merged[j].ID
	})

	var stats models.FeedStats
	stats.Total = len(merged)
	for _, b := range merged {
		switch b.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusAccepted:
			stats.Upcoming++
		case models.StatusCompleted:
			stats.Completed++
		}
	}

	return models.FeedUpdate{Bookings: merged, Stats: stats}
}
