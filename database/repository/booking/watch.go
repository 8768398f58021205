package bookingRepo

import (
	"context"

	"servebook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WatchConsumer opens a live subscription over a consumer's bookings.
func (repo *MongoBookingRepo) WatchConsumer(ctx context.Context, consumerID string) (*Subscription, error) {
	return repo.watch(ctx, "consumer_id", consumerID)
}

// WatchProvider opens a live subscription over a provider's bookings.
func (repo *MongoBookingRepo) WatchProvider(ctx context.Context, providerID string) (*Subscription, error) {
	return repo.watch(ctx, "provider_id", providerID)
}

// watch tails the bookings change stream filtered to documents where the
// given field matches, and re-runs the equality query on every relevant
// event. Each delivery is a full snapshot of the query result, mirroring a
// snapshot-listener store so consumers can replace rather than patch state.
func (repo *MongoBookingRepo) watch(ctx context.Context, field, id string) (*Subscription, error) {
	cctx, cancel := context.WithCancel(ctx)

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"fullDocument." + field: id,
		}}},
	}
	streamOpts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := repo.bookingColl.Watch(cctx, pipeline, streamOpts)
	if err != nil {
		cancel()
		return nil, err
	}

	updates := make(chan []models.Booking, 1)
	errs := make(chan error, 1)

	go func() {
		defer close(updates)
		defer stream.Close(context.Background())

		snapshot := func() ([]models.Booking, error) {
			opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
			return repo.list(cctx, bson.M{field: id}, opts)
		}

		// Initial snapshot before any change event, so subscribers start
		// from the current result set.
		snap, err := snapshot()
		if err != nil {
			errs <- err
			return
		}
		select {
		case updates <- snap:
		case <-cctx.Done():
			return
		}

		for stream.Next(cctx) {
			snap, err := snapshot()
			if err != nil {
				errs <- err
				return
			}
			select {
			case updates <- snap:
			case <-cctx.Done():
				return
			}
		}
		if err := stream.Err(); err != nil && cctx.Err() == nil {
			errs <- err
		}
	}()

	return &Subscription{Updates: updates, Errs: errs, cancel: cancel}, nil
}
