package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"pawclub/internal/domain"
	"pawclub/internal/repository"
	"pawclub/internal/storage"
)

// Profile aggregates everything shown on a user's profile page.
type Profile struct {
	User           *domain.User
	PostsCreated   []domain.Post
	PostsLiked     []domain.Post
	PostsFavorited []domain.Post
	EventsCreated  []domain.Event
	EventsJoined   []domain.Event
	Stats          ProfileStats
}

type ProfileStats struct {
	TotalPosts  int
	TotalLikes  int
	TotalEvents int
}

// ProfileService serves the profile aggregate and profile mutations.
type ProfileService interface {
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	UpdateName(ctx context.Context, userID int64, name string) error
	UpdateAvatar(ctx context.Context, userID int64, image io.Reader) (string, error)
}

type profileService struct {
	users     repository.UserRepository
	posts     repository.PostRepository
	events    repository.EventRepository
	signups   repository.SignupRepository
	storage   storage.Service
	bucket    string
	keyPrefix string
}

func NewProfileService(
	users repository.UserRepository,
	posts repository.PostRepository,
	events repository.EventRepository,
	signups repository.SignupRepository,
	store storage.Service,
	bucket, keyPrefix string,
) ProfileService {
	return &profileService{
		users:     users,
		posts:     posts,
		events:    events,
		signups:   signups,
		storage:   store,
		bucket:    bucket,
		keyPrefix: strings.Trim(keyPrefix, "/"),
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""

	profile := &Profile{User: user}

	if profile.PostsCreated, err = s.posts.ListByAuthor(ctx, userID); err != nil {
		return nil, err
	}
	if profile.PostsLiked, err = s.posts.ListByReaction(ctx, userID, repository.ReactionLike); err != nil {
		return nil, err
	}
	if profile.PostsFavorited, err = s.posts.ListByReaction(ctx, userID, repository.ReactionFavorite); err != nil {
		return nil, err
	}
	if profile.EventsCreated, err = s.events.ListByCreator(ctx, userID); err != nil {
		return nil, err
	}
	if profile.EventsJoined, err = s.signups.ListEventsByUser(ctx, userID); err != nil {
		return nil, err
	}

	profile.Stats = ProfileStats{
		TotalPosts:  len(profile.PostsCreated),
		TotalLikes:  len(profile.PostsLiked),
		TotalEvents: len(profile.EventsJoined),
	}
	return profile, nil
}

func (s *profileService) UpdateName(ctx context.Context, userID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("name cannot be empty")
	}
	return s.users.UpdateName(ctx, userID, name)
}

// UpdateAvatar resizes the uploaded image to 300x300, stores it and persists
// the resulting location on the user row.
func (s *profileService) UpdateAvatar(ctx context.Context, userID int64, image io.Reader) (string, error) {
	if s.storage == nil || s.bucket == "" {
		return "", ErrStorageDisabled
	}

	resized, err := storage.ResizeJPEG(image, 300, 300)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/avatars/%d-%s.jpg", s.keyPrefix, userID, uuid.NewString())
	storedKey, err := s.storage.UploadObject(ctx, s.bucket, key, "image/jpeg", resized)
	if err != nil {
		return "", err
	}

	url := imagePath(storedKey)
	if err := s.users.UpdateAvatar(ctx, userID, url); err != nil {
		return "", err
	}
	return url, nil
}
