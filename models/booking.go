package models

import "time"

// BookingStatus enumerates the lifecycle states of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusAccepted  BookingStatus = "accepted"
	StatusRejected  BookingStatus = "rejected"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are possible.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCompleted || s == StatusCancelled
}

// HoldsSlot reports whether a booking in this status still occupies its
// time interval for conflict purposes.
func (s BookingStatus) HoldsSlot() bool {
	return s == StatusPending || s == StatusAccepted
}

// Booking represents a reserved time interval with a provider.
// Category fields are snapshotted at creation time so later catalog edits
// never change historical bookings.
type Booking struct {
	ID         string `bson:"id" json:"id"`
	ServiceID  string `bson:"service_id" json:"serviceId"`
	ConsumerID string `bson:"consumer_id" json:"consumerId"`
	ProviderID string `bson:"provider_id" json:"providerId"`

	// Primary category snapshot.
	CategoryID    string  `bson:"category_id" json:"categoryId"`
	CategoryName  string  `bson:"category_name" json:"categoryName"`
	CategoryPrice float64 `bson:"category_price" json:"categoryPrice"`

	// All selected categories.
	CategoryIDs   []string `bson:"category_ids" json:"categoryIds"`
	CategoryNames []string `bson:"category_names" json:"categoryNames"`
	TotalPrice    float64  `bson:"total_price" json:"totalPrice"`

	Date      string    `bson:"date" json:"date"` // "YYYY-MM-DD", derived from StartTime
	StartTime time.Time `bson:"start_time" json:"startTime"`
	EndTime   time.Time `bson:"end_time" json:"endTime"` // half-open: [StartTime, EndTime)

	Status    BookingStatus `bson:"status" json:"status"`
	CreatedAt time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updatedAt"`
}

// CreateBookingInput carries everything needed to reserve a slot.
type CreateBookingInput struct {
	ServiceID     string    `json:"serviceId" binding:"required"`
	ConsumerID    string    `json:"consumerId"`
	ProviderID    string    `json:"providerId" binding:"required"`
	CategoryID    string    `json:"categoryId" binding:"required"`
	CategoryName  string    `json:"categoryName"`
	CategoryPrice float64   `json:"categoryPrice"`
	CategoryIDs   []string  `json:"categoryIds"`
	CategoryNames []string  `json:"categoryNames"`
	TotalPrice    float64   `json:"totalPrice"`
	StartTime     time.Time `json:"startTime" binding:"required"`
	EndTime       time.Time `json:"endTime" binding:"required"`
}

// ActorRole identifies which side of a booking the caller is on.
type ActorRole string

const (
	RoleConsumer ActorRole = "consumer"
	RoleProvider ActorRole = "provider"
)

// Actor is the already-authenticated caller of a booking operation.
type Actor struct {
	ID   string
	Role ActorRole
}
