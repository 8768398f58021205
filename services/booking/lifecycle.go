package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "servebook/database/repository/booking"
	"servebook/models"

	"go.uber.org/zap"
)

type transitionKey struct {
	from, to models.BookingStatus
}

// transitionRules maps each legal status edge to the role allowed to take
// it. Every pair not listed here is invalid.
var transitionRules = map[transitionKey]models.ActorRole{
	{models.StatusPending, models.StatusAccepted}:   models.RoleProvider,
	{models.StatusPending, models.StatusRejected}:   models.RoleProvider,
	{models.StatusAccepted, models.StatusCompleted}: models.RoleProvider,
	{models.StatusPending, models.StatusCancelled}:  models.RoleConsumer,
}

// Transition validates and applies a status change. The underlying write is
// conditional on the status observed here, so two concurrent transitions on
// the same booking cannot both apply; the loser gets ErrInvalidTransition.
// The conflict detector is deliberately not re-run: a pending booking keeps
// holding its slot until it resolves.
func (s *DefaultBookingService) Transition(ctx context.Context, bookingID string, target models.BookingStatus, actor models.Actor) (*models.Booking, error) {
	current, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	role, legal := transitionRules[transitionKey{current.Status, target}]
	if !legal {
		return nil, ErrInvalidTransition
	}
	if err := authorize(current, role, actor); err != nil {
		return nil, err
	}

	updated, err := s.Repo.UpdateStatusIf(ctx, bookingID, current.Status, target, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrStatusChanged):
			// Another transition resolved the booking first.
			return nil, ErrInvalidTransition
		case errors.Is(err, bookingRepo.ErrNotFound):
			return nil, ErrBookingNotFound
		default:
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	zap.L().Info("booking status changed",
		zap.String("bookingId", updated.ID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(updated.Status)),
		zap.String("actorRole", string(actor.Role)),
	)

	s.notifyStatusChange(ctx, updated)
	return updated, nil
}

// authorize checks that the actor is the booking party the rule names.
func authorize(b *models.Booking, required models.ActorRole, actor models.Actor) error {
	if actor.Role != required {
		return ErrPermissionDenied
	}
	switch required {
	case models.RoleProvider:
		if actor.ID != b.ProviderID {
			return ErrPermissionDenied
		}
	case models.RoleConsumer:
		if actor.ID != b.ConsumerID {
			return ErrPermissionDenied
		}
	}
	return nil
}

// notifyStatusChange enqueues a push for the party that did not initiate
// the change. The enqueue is best-effort: a failure is logged and swallowed,
// never surfaced, so a committed status change is never blocked or reversed
// by the side channel.
func (s *DefaultBookingService) notifyStatusChange(ctx context.Context, b *models.Booking) {
	recipient := b.ConsumerID
	if b.Status == models.StatusCancelled {
		recipient = b.ProviderID
	}

	err := s.NotificationSvc.Enqueue(ctx, recipient, models.NotificationBookingUpdate, map[string]string{
		"bookingId": b.ID,
		"status":    string(b.Status),
	})
	if err != nil {
		zap.L().Warn("status change notification failed",
			zap.String("bookingId", b.ID),
			zap.String("status", string(b.Status)),
			zap.Error(err),
		)
	}
}
