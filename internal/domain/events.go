package domain

import "time"

const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
	EventBookingStatus    = "booking.status_changed"
	EventReviewCreated    = "review.created"
)

// Event is the payload written to the domain events topic.
type Event struct {
	Type      string        `json:"type"`
	BookingID string        `json:"booking_id"`
	ChefID    string        `json:"chef_id"`
	UserID    string        `json:"user_id,omitempty"`
	Status    BookingStatus `json:"status,omitempty"`
	Dishes    []LineItem    `json:"dishes,omitempty"`
	Rating    int           `json:"rating,omitempty"`
	Actor     Actor         `json:"actor,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}
