package notificationRepo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"servebook/config"
	"servebook/database"
	"servebook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoNotificationRepo struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepo returns a new NotificationRepository instance using MongoDB.
func NewMongoNotificationRepo() NotificationRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &mongoNotificationRepo{
		coll: db.Collection("notifications"),
	}
}

// Create inserts a new notification document.
func (repo *mongoNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, notification); err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

// GetByUserID retrieves all notifications for a user, newest first. Sorting
// happens in memory so the query stays a single-field equality lookup.
func (repo *mongoNotificationRepo) GetByUserID(ctx context.Context, userID string) ([]models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("error fetching notifications for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	for cursor.Next(ctx) {
		var n models.Notification
		if err := cursor.Decode(&n); err != nil {
			return nil, fmt.Errorf("error decoding notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

// MarkRead flags a single notification as read.
func (repo *mongoNotificationRepo) MarkRead(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{"read": true, "read_at": now}}
	res, err := repo.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("error marking notification %s read: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("notification %s not found", id)
	}
	return nil
}

// MarkAllRead flags every unread notification for a user as read.
func (repo *mongoNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{"user_id": userID, "read": false}
	update := bson.M{"$set": bson.M{"read": true, "read_at": now}}
	if _, err := repo.coll.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("error marking notifications read for user %s: %w", userID, err)
	}
	return nil
}
