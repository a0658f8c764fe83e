package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"pawclub/internal/domain"
	"pawclub/internal/repository"
)

var (
	// ErrAlreadySignedUp is returned when a user signs up for the same event twice.
	ErrAlreadySignedUp = errors.New("already signed up for this event")
	// ErrNotSignedUp is returned when cancelling an enrollment that does not exist.
	ErrNotSignedUp = errors.New("not signed up for this event")
	// ErrEventFull is returned when an event has reached its capacity.
	ErrEventFull = errors.New("event is full")
)

// EventService coordinates events and their sign-ups.
type EventService interface {
	CreateEvent(ctx context.Context, creatorID int64, in CreateEventInput) (*domain.Event, error)
	GetEvent(ctx context.Context, id, viewerID int64) (*domain.Event, error)
	ListUpcoming(ctx context.Context, viewerID int64) ([]domain.Event, error)
	SignUp(ctx context.Context, eventID, userID int64) error
	CancelSignup(ctx context.Context, eventID, userID int64) error
}

// CreateEventInput carries the fields accepted when creating an event.
type CreateEventInput struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	Capacity    int
	ImageURL    string
}

type eventService struct {
	events  repository.EventRepository
	signups repository.SignupRepository
}

func NewEventService(events repository.EventRepository, signups repository.SignupRepository) EventService {
	return &eventService{
		events:  events,
		signups: signups,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, creatorID int64, in CreateEventInput) (*domain.Event, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, errors.New("title is required")
	}
	if in.StartsAt.IsZero() {
		return nil, errors.New("start time is required")
	}
	if in.Capacity < 0 {
		return nil, errors.New("capacity cannot be negative")
	}

	event := &domain.Event{
		CreatorID:   creatorID,
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		StartsAt:    in.StartsAt,
		Capacity:    in.Capacity,
		ImageURL:    strings.TrimSpace(in.ImageURL),
	}
	if _, err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id, viewerID int64) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.fillSignupInfo(ctx, event, viewerID); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) ListUpcoming(ctx context.Context, viewerID int64) ([]domain.Event, error) {
	events, err := s.events.ListUpcoming(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	for i := range events {
		if err := s.fillSignupInfo(ctx, &events[i], viewerID); err != nil {
			return nil, err
		}
	}
	return events, nil
}

func (s *eventService) SignUp(ctx context.Context, eventID, userID int64) error {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}

	if event.Capacity > 0 {
		count, err := s.signups.CountByEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if count >= event.Capacity {
			return ErrEventFull
		}
	}

	if _, err := s.signups.Create(ctx, &domain.EventSignup{EventID: eventID, UserID: userID}); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadySignedUp
		}
		return err
	}
	return nil
}

func (s *eventService) CancelSignup(ctx context.Context, eventID, userID int64) error {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return err
	}
	if err := s.signups.Delete(ctx, eventID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotSignedUp
		}
		return err
	}
	return nil
}

func (s *eventService) fillSignupInfo(ctx context.Context, event *domain.Event, viewerID int64) error {
	count, err := s.signups.CountByEvent(ctx, event.ID)
	if err != nil {
		return err
	}
	event.SignupCount = count

	if viewerID > 0 {
		signedUp, err := s.signups.Exists(ctx, event.ID, viewerID)
		if err != nil {
			return err
		}
		event.SignedUp = signedUp
	}
	return nil
}
