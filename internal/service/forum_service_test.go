package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawclub/internal/auth"
	"pawclub/internal/domain"
	"pawclub/internal/repository"
	"pawclub/internal/repository/sqlite"
	"pawclub/internal/storage"
)

type forumEnv struct {
	svc    ForumService
	userID int64
	catID  int64
}

func newForumEnv(t *testing.T) *forumEnv {
	return newForumEnvStore(t, nil, "")
}

func newForumEnvStore(t *testing.T, store storage.Service, bucket string) *forumEnv {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := sqlite.NewUserRepository(db)
	categories := sqlite.NewCategoryRepository(db)
	posts := sqlite.NewPostRepository(db)
	replies := sqlite.NewReplyRepository(db)
	require.NoError(t, users.Init(ctx))
	require.NoError(t, categories.Init(ctx))
	require.NoError(t, posts.Init(ctx))
	require.NoError(t, replies.Init(ctx))

	userID, err := users.Create(ctx, &domain.User{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleUser,
	})
	require.NoError(t, err)

	cats, err := categories.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, cats)

	return &forumEnv{
		svc:    NewForumService(categories, posts, replies, store, bucket, "uploads"),
		userID: userID,
		catID:  cats[0].ID,
	}
}

func (e *forumEnv) createPost(t *testing.T) *domain.Post {
	t.Helper()
	post, err := e.svc.CreatePost(context.Background(), e.userID, CreatePostInput{
		CategoryID: e.catID,
		Title:      "lost collar",
		Content:    "seen near the park",
	})
	require.NoError(t, err)
	return post
}

func (e *forumEnv) principal(role domain.Role, userID int64) *auth.Principal {
	return &auth.Principal{UserID: userID, Role: role}
}

func TestForumService_CreateAndGetPost(t *testing.T) {
	ctx := context.Background()
	env := newForumEnv(t)

	post := env.createPost(t)
	assert.Equal(t, "Alice", post.AuthorName)

	got, err := env.svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "lost collar", got.Title)
	assert.Zero(t, got.Likes)
	assert.Empty(t, got.Replies)
}

func TestForumService_CreatePost_UnknownCategory(t *testing.T) {
	ctx := context.Background()
	env := newForumEnv(t)

	_, err := env.svc.CreatePost(ctx, env.userID, CreatePostInput{
		CategoryID: 999,
		Title:      "x",
		Content:    "y",
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestForumService_ToggleReaction(t *testing.T) {
	ctx := context.Background()
	env := newForumEnv(t)
	post := env.createPost(t)

	set, err := env.svc.ToggleReaction(ctx, env.userID, post.ID, repository.ReactionLike)
	require.NoError(t, err)
	assert.True(t, set)

	got, err := env.svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)

	// Toggling again clears it.
	set, err = env.svc.ToggleReaction(ctx, env.userID, post.ID, repository.ReactionLike)
	require.NoError(t, err)
	assert.False(t, set)

	got, err = env.svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Likes)
}

func TestForumService_LikeDislikeExclusive(t *testing.T) {
	ctx := context.Background()
	env := newForumEnv(t)
	post := env.createPost(t)

	_, err := env.svc.ToggleReaction(ctx, env.userID, post.ID, repository.ReactionLike)
	require.NoError(t, err)

	set, err := env.svc.ToggleReaction(ctx, env.userID, post.ID, repository.ReactionDislike)
	require.NoError(t, err)
	assert.True(t, set)

	got, err := env.svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Likes)
	assert.Equal(t, 1, got.Dislikes)
}

func TestForumService_FavoriteIndependent(t *testing.T) {
	ctx := context.Background()
	env := newForumEnv(t)
	post := env.createPost(t)

	_, err := env.svc.ToggleReaction(ctx, env.userID, post.ID, repository.ReactionLike)
	require.NoError(t, err)
	_, err = env.svc.ToggleReaction(ctx, env.userID, post.ID, repository.ReactionFavorite)
	require.NoError(t, err)

	got, err := env.svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)
	assert.Equal(t, 1, got.Favorites)
}

func TestForumService_DeletePost_Ownership(t *testing.T) {
	ctx := context.Background()
	env := newForumEnv(t)
	post := env.createPost(t)

	stranger := env.principal(domain.RoleUser, env.userID+1)
	assert.ErrorIs(t, env.svc.DeletePost(ctx, stranger, post.ID), ErrForbidden)

	admin := env.principal(domain.RoleAdmin, env.userID+1)
	require.NoError(t, env.svc.DeletePost(ctx, admin, post.ID))

	_, err := env.svc.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestForumService_Replies(t *testing.T) {
	ctx := context.Background()
	env := newForumEnv(t)
	post := env.createPost(t)

	reply, err := env.svc.CreateReply(ctx, env.userID, post.ID, "try the shelter")
	require.NoError(t, err)
	assert.Equal(t, "Alice", reply.AuthorName)

	got, err := env.svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Replies, 1)

	stranger := env.principal(domain.RoleUser, env.userID+1)
	assert.ErrorIs(t, env.svc.DeleteReply(ctx, stranger, reply.ID), ErrForbidden)

	owner := env.principal(domain.RoleUser, env.userID)
	require.NoError(t, env.svc.DeleteReply(ctx, owner, reply.ID))
}

func TestForumService_CreatePost_StoresImagePath(t *testing.T) {
	ctx := context.Background()
	store := newFakeStorage()
	env := newForumEnvStore(t, store, "pets-media")

	post, err := env.svc.CreatePost(ctx, env.userID, CreatePostInput{
		CategoryID: env.catID,
		Title:      "found a kitten",
		Content:    "pictures attached",
		Image:      testJPEG(t),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(post.ImageURL, "/api/images/uploads/posts/"), "got %q", post.ImageURL)
	assert.True(t, strings.HasSuffix(post.ImageURL, ".jpg"), "got %q", post.ImageURL)

	key := strings.TrimPrefix(post.ImageURL, "/api/images/")
	assert.Contains(t, store.uploads, key)
	assert.NotEmpty(t, store.uploads[key])
}

func TestForumService_CreatePost_ImageWithoutStorage(t *testing.T) {
	ctx := context.Background()
	env := newForumEnv(t)

	_, err := env.svc.CreatePost(ctx, env.userID, CreatePostInput{
		CategoryID: env.catID,
		Title:      "x",
		Content:    "y",
		Image:      &failingReader{},
	})
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

type failingReader struct{}

func (*failingReader) Read([]byte) (int, error) { return 0, assert.AnError }
