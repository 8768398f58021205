package booking

import (
	"context"
	"fmt"
	"time"

	bookingRepo "servebook/database/repository/booking"
	"servebook/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const availabilityCacheTTL = 10 * time.Second

// ConflictDetector decides whether a candidate interval collides with any
// active booking already on record for a provider.
type ConflictDetector struct {
	Repo bookingRepo.Repository
	// Cache, when set, memoizes advisory lookups for a few seconds. It is
	// never consulted by the transactional create path.
	Cache    *redis.Client
	Location *time.Location
}

func (d *ConflictDetector) loc() *time.Location {
	if d.Location != nil {
		return d.Location
	}
	return time.Local
}

// HasConflict fetches the provider's bookings around the candidate's day key
// and tests each active one for interval overlap. The day window is widened
// by one day on each side so an interval spanning local midnight is still
// caught. A store read failure propagates; it is never treated as "free".
func (d *ConflictDetector) HasConflict(ctx context.Context, providerID string, start, end time.Time) (bool, error) {
	dateKeys := utils.AdjacentDateKeys(utils.DateKey(start, d.loc()))

	bookings, err := d.Repo.ListByProviderAndDates(ctx, providerID, dateKeys)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	for _, b := range bookings {
		if !b.Status.HoldsSlot() {
			continue
		}
		if utils.Overlaps(b.StartTime, b.EndTime, start, end) {
			return true, nil
		}
	}
	return false, nil
}

// CheckAvailability is the cached advisory wrapper used by booking-intent
// UIs to pre-validate before committing. Cache misses and cache failures
// both fall through to a live check.
func (d *ConflictDetector) CheckAvailability(ctx context.Context, providerID string, start, end time.Time) (bool, error) {
	if !start.Before(end) {
		return false, ErrInvalidInterval
	}

	key := fmt.Sprintf("avail:%s:%d:%d", providerID, start.Unix(), end.Unix())
	if d.Cache != nil {
		if cached, err := d.Cache.Get(ctx, key).Result(); err == nil {
			return cached == "1", nil
		}
	}

	conflict, err := d.HasConflict(ctx, providerID, start, end)
	if err != nil {
		return false, err
	}
	available := !conflict

	if d.Cache != nil {
		val := "0"
		if available {
			val = "1"
		}
		if err := d.Cache.Set(ctx, key, val, availabilityCacheTTL).Err(); err != nil {
			zap.L().Debug("availability cache write failed", zap.Error(err))
		}
	}
	return available, nil
}
