package models

import "time"

// NotificationType labels what a notification is about.
const (
	NotificationBookingRequest = "booking_request"
	NotificationBookingUpdate  = "booking_update"
)

// Notification is the persisted in-app notification document.
type Notification struct {
	ID        string            `bson:"id" json:"id"`
	UserID    string            `bson:"user_id" json:"userId"`
	Type      string            `bson:"type" json:"type"`
	Title     string            `bson:"title" json:"title"`
	Body      string            `bson:"body" json:"body"`
	Data      map[string]string `bson:"data,omitempty" json:"data,omitempty"`
	Read      bool              `bson:"read" json:"read"`
	ReadAt    *time.Time        `bson:"read_at,omitempty" json:"readAt,omitempty"`
	CreatedAt time.Time         `bson:"created_at" json:"createdAt"`
}

// PushPayload is the asynq task payload for a queued push delivery.
type PushPayload struct {
	UserID string            `json:"userId"`
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}
