package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"servebook/config"
	"servebook/database"
	"servebook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements Repository using MongoDB.
type MongoBookingRepo struct {
	bookingColl *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo() Repository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &MongoBookingRepo{
		bookingColl: db.Collection("bookings"),
	}
}

// GetByID retrieves a booking document by ID.
func (repo *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	filter := bson.M{"id": id}
	if err := repo.bookingColl.FindOne(ctx, filter).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching booking with id %s: %w", id, err)
	}
	return &booking, nil
}

// ListByProviderAndDates retrieves all bookings for a provider on the given
// day keys. Interval filtering happens in application logic; the store only
// answers the cheap equality query.
func (repo *MongoBookingRepo) ListByProviderAndDates(ctx context.Context, providerID string, dateKeys []string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"provider_id": providerID,
		"date":        bson.M{"$in": dateKeys},
	}
	return repo.list(ctx, filter, nil)
}

// ListByConsumer retrieves a consumer's bookings, newest first.
func (repo *MongoBookingRepo) ListByConsumer(ctx context.Context, consumerID string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return repo.list(ctx, bson.M{"consumer_id": consumerID}, opts)
}

// ListByProvider retrieves a provider's incoming bookings, newest first.
func (repo *MongoBookingRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return repo.list(ctx, bson.M{"provider_id": providerID}, opts)
}

func (repo *MongoBookingRepo) list(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Booking, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = repo.bookingColl.Find(ctx, filter, opts)
	} else {
		cursor, err = repo.bookingColl.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("error finding bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("error decoding booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return bookings, nil
}

// UpdateStatusIf conditionally moves a booking from one status to another.
// The filter pins the expected current status, so a transition that raced
// against another writer matches nothing and surfaces as ErrStatusChanged.
func (repo *MongoBookingRepo) UpdateStatusIf(ctx context.Context, id string, from, to models.BookingStatus, at time.Time) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": from}
	update := bson.M{"$set": bson.M{
		"status":     to,
		"updated_at": at,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Booking
	err := repo.bookingColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("error updating booking %s status: %w", id, err)
	}

	// Distinguish a missing booking from a lost race.
	if _, getErr := repo.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrStatusChanged
}
