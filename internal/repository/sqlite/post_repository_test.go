package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawclub/internal/domain"
	"pawclub/internal/repository"
)

type forumFixture struct {
	users   repository.UserRepository
	posts   repository.PostRepository
	replies repository.ReplyRepository
	userID  int64
	catID   int64
}

func newForumFixture(t *testing.T) *forumFixture {
	t.Helper()
	ctx := context.Background()
	db := openTestDB(t)

	f := &forumFixture{
		users:   NewUserRepository(db),
		posts:   NewPostRepository(db),
		replies: NewReplyRepository(db),
	}
	categories := NewCategoryRepository(db)

	require.NoError(t, f.users.Init(ctx))
	require.NoError(t, categories.Init(ctx))
	require.NoError(t, f.posts.Init(ctx))
	require.NoError(t, f.replies.Init(ctx))

	var err error
	f.userID, err = f.users.Create(ctx, testUser("author@example.com"))
	require.NoError(t, err)

	cats, err := categories.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, cats, "Init should seed default categories")
	f.catID = cats[0].ID
	return f
}

func (f *forumFixture) createPost(t *testing.T, title string) int64 {
	t.Helper()
	id, err := f.posts.Create(context.Background(), &domain.Post{
		CategoryID: f.catID,
		AuthorID:   f.userID,
		Title:      title,
		Content:    "some content",
	})
	require.NoError(t, err)
	return id
}

func TestPostRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	f := newForumFixture(t)

	id := f.createPost(t, "hello")

	post, err := f.posts.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "hello", post.Title)
	assert.Equal(t, f.userID, post.AuthorID)
	assert.Equal(t, "Alice", post.AuthorName)

	byCategory, err := f.posts.ListByCategory(ctx, f.catID)
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	byAuthor, err := f.posts.ListByAuthor(ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, byAuthor, 1)
}

func TestPostRepository_Reactions(t *testing.T) {
	ctx := context.Background()
	f := newForumFixture(t)
	id := f.createPost(t, "hello")

	require.NoError(t, f.posts.SetReaction(ctx, id, f.userID, repository.ReactionLike))
	// Setting twice stays a single reaction.
	require.NoError(t, f.posts.SetReaction(ctx, id, f.userID, repository.ReactionLike))

	has, err := f.posts.HasReaction(ctx, id, f.userID, repository.ReactionLike)
	require.NoError(t, err)
	assert.True(t, has)

	count, err := f.posts.CountReactions(ctx, id, repository.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	liked, err := f.posts.ListByReaction(ctx, f.userID, repository.ReactionLike)
	require.NoError(t, err)
	assert.Len(t, liked, 1)

	require.NoError(t, f.posts.ClearReaction(ctx, id, f.userID, repository.ReactionLike))
	count, err = f.posts.CountReactions(ctx, id, repository.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestPostRepository_DeleteCascadesReactions(t *testing.T) {
	ctx := context.Background()
	f := newForumFixture(t)
	id := f.createPost(t, "hello")

	require.NoError(t, f.posts.SetReaction(ctx, id, f.userID, repository.ReactionFavorite))
	require.NoError(t, f.posts.Delete(ctx, id))

	_, err := f.posts.GetByID(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	count, err := f.posts.CountReactions(ctx, id, repository.ReactionFavorite)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	assert.ErrorIs(t, f.posts.Delete(ctx, id), repository.ErrNotFound)
}

func TestReplyRepository(t *testing.T) {
	ctx := context.Background()
	f := newForumFixture(t)
	postID := f.createPost(t, "hello")

	reply := &domain.Reply{PostID: postID, AuthorID: f.userID, Content: "nice post"}
	id, err := f.replies.Create(ctx, reply)
	require.NoError(t, err)

	got, err := f.replies.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "nice post", got.Content)
	assert.Equal(t, "Alice", got.AuthorName)

	list, err := f.replies.ListByPost(ctx, postID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.replies.Delete(ctx, id))
	assert.ErrorIs(t, f.replies.Delete(ctx, id), repository.ErrNotFound)
}
