package models

// FeedBooking is a booking annotated with its direction relative to the
// subscribing user: incoming when the user is the provider, outgoing when
// the user is the consumer.
type FeedBooking struct {
	Booking
	IsIncoming bool `json:"isIncoming"`
}

// FeedStats are the aggregate counts derived from the merged feed.
type FeedStats struct {
	Pending   int `json:"pending"`
	Upcoming  int `json:"upcoming"` // accepted
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// FeedUpdate is one emission of the merged booking feed.
type FeedUpdate struct {
	Bookings []FeedBooking `json:"bookings"`
	Stats    FeedStats     `json:"stats"`
}
