package repository

import (
	"context"
	"time"

	"pawclub/internal/domain"
)

// EventRepository defines persistence operations for community events.
type EventRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, event *domain.Event) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	ListUpcoming(ctx context.Context, from time.Time) ([]domain.Event, error)
	ListByCreator(ctx context.Context, creatorID int64) ([]domain.Event, error)
	Delete(ctx context.Context, id int64) error
}

// SignupRepository defines persistence operations for event enrollments.
type SignupRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, signup *domain.EventSignup) (int64, error)
	Delete(ctx context.Context, eventID, userID int64) error
	Exists(ctx context.Context, eventID, userID int64) (bool, error)
	CountByEvent(ctx context.Context, eventID int64) (int, error)
	ListEventsByUser(ctx context.Context, userID int64) ([]domain.Event, error)
}
