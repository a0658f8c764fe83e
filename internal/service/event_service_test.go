package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawclub/internal/domain"
	"pawclub/internal/repository"
	"pawclub/internal/repository/sqlite"
)

type eventEnv struct {
	svc    EventService
	users  repository.UserRepository
	userID int64
}

func newEventEnv(t *testing.T) *eventEnv {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := sqlite.NewUserRepository(db)
	events := sqlite.NewEventRepository(db)
	signups := sqlite.NewSignupRepository(db)
	require.NoError(t, users.Init(ctx))
	require.NoError(t, events.Init(ctx))
	require.NoError(t, signups.Init(ctx))

	userID, err := users.Create(ctx, &domain.User{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleUser,
	})
	require.NoError(t, err)

	return &eventEnv{
		svc:    NewEventService(events, signups),
		users:  users,
		userID: userID,
	}
}

func (e *eventEnv) addUser(t *testing.T, email string) int64 {
	t.Helper()
	id, err := e.users.Create(context.Background(), &domain.User{
		Name:         "Guest",
		Email:        email,
		PasswordHash: "hash",
		Role:         domain.RoleUser,
	})
	require.NoError(t, err)
	return id
}

func (e *eventEnv) createEvent(t *testing.T, capacity int) *domain.Event {
	t.Helper()
	event, err := e.svc.CreateEvent(context.Background(), e.userID, CreateEventInput{
		Title:    "adoption day",
		StartsAt: time.Now().Add(48 * time.Hour),
		Capacity: capacity,
	})
	require.NoError(t, err)
	return event
}

func TestEventService_CreateEvent_Validation(t *testing.T) {
	ctx := context.Background()
	env := newEventEnv(t)

	tests := []struct {
		name  string
		input CreateEventInput
	}{
		{"missing title", CreateEventInput{StartsAt: time.Now().Add(time.Hour)}},
		{"missing start time", CreateEventInput{Title: "x"}},
		{"negative capacity", CreateEventInput{Title: "x", StartsAt: time.Now().Add(time.Hour), Capacity: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.CreateEvent(ctx, env.userID, tt.input)
			assert.Error(t, err)
		})
	}
}

func TestEventService_SignUp(t *testing.T) {
	ctx := context.Background()
	env := newEventEnv(t)
	event := env.createEvent(t, 0)

	require.NoError(t, env.svc.SignUp(ctx, event.ID, env.userID))

	err := env.svc.SignUp(ctx, event.ID, env.userID)
	assert.ErrorIs(t, err, ErrAlreadySignedUp)

	got, err := env.svc.GetEvent(ctx, event.ID, env.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SignupCount)
	assert.True(t, got.SignedUp)
}

func TestEventService_SignUp_EventFull(t *testing.T) {
	ctx := context.Background()
	env := newEventEnv(t)
	event := env.createEvent(t, 1)

	require.NoError(t, env.svc.SignUp(ctx, event.ID, env.userID))

	other := env.addUser(t, "bob@example.com")
	err := env.svc.SignUp(ctx, event.ID, other)
	assert.ErrorIs(t, err, ErrEventFull)
}

func TestEventService_CancelSignup(t *testing.T) {
	ctx := context.Background()
	env := newEventEnv(t)
	event := env.createEvent(t, 0)

	assert.ErrorIs(t, env.svc.CancelSignup(ctx, event.ID, env.userID), ErrNotSignedUp)

	require.NoError(t, env.svc.SignUp(ctx, event.ID, env.userID))
	require.NoError(t, env.svc.CancelSignup(ctx, event.ID, env.userID))

	got, err := env.svc.GetEvent(ctx, event.ID, env.userID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.SignupCount)
	assert.False(t, got.SignedUp)
}

func TestEventService_SignUp_UnknownEvent(t *testing.T) {
	ctx := context.Background()
	env := newEventEnv(t)

	err := env.svc.SignUp(ctx, 999, env.userID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
