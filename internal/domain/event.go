package domain

import "time"

// Event is a community gathering users can sign up for.
type Event struct {
	ID          int64
	CreatorID   int64
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	Capacity    int // 0 means unlimited
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	SignupCount int
	SignedUp    bool
}

// EventSignup records a user's enrollment in an event.
type EventSignup struct {
	ID        int64
	EventID   int64
	UserID    int64
	CreatedAt time.Time
}
