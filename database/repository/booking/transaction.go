package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servebook/models"
	"servebook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateIfSlotFree runs the conflict re-check and the insert as a single
// transaction. The same-day bookings are re-read inside the session, so a
// conflicting booking committed after the caller's advisory check is seen
// here and aborts the create. Transient aborts from concurrent commits are
// retried by the driver's WithTransaction callback.
func (repo *MongoBookingRepo) CreateIfSlotFree(ctx context.Context, booking *models.Booking, dateKeys []string) error {
	client := repo.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) (interface{}, error) {
		filter := bson.M{
			"provider_id": booking.ProviderID,
			"date":        bson.M{"$in": dateKeys},
		}
		cursor, err := repo.bookingColl.Find(sc, filter)
		if err != nil {
			return nil, fmt.Errorf("conflict re-check query failed: %w", err)
		}
		defer cursor.Close(sc)

		for cursor.Next(sc) {
			var existing models.Booking
			if err := cursor.Decode(&existing); err != nil {
				return nil, fmt.Errorf("error decoding booking during re-check: %w", err)
			}
			if !existing.Status.HoldsSlot() {
				continue
			}
			if utils.Overlaps(existing.StartTime, existing.EndTime, booking.StartTime, booking.EndTime) {
				return nil, ErrSlotTaken
			}
		}
		if err := cursor.Err(); err != nil {
			return nil, fmt.Errorf("cursor error during re-check: %w", err)
		}

		now := time.Now().UTC()
		booking.CreatedAt = now
		booking.UpdatedAt = now
		if _, err := repo.bookingColl.InsertOne(sc, booking); err != nil {
			return nil, fmt.Errorf("insert booking failed: %w", err)
		}
		return nil, nil
	}

	if _, err := sess.WithTransaction(ctx, txnFn); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			return ErrSlotTaken
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}
	return nil
}

// IsTransient reports whether a transaction error is safe to retry with
// backoff, per the driver's error labels.
func IsTransient(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.HasErrorLabel("TransientTransactionError") || cmdErr.HasErrorLabel("UnknownTransactionCommitResult")
	}
	return mongo.IsTimeout(err) || mongo.IsNetworkError(err)
}
