package repository

import (
	"context"

	"pawclub/internal/domain"
)

// CategoryRepository defines persistence operations for forum categories.
type CategoryRepository interface {
	Init(ctx context.Context) error
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
}

// Reaction names a per-user mark on a post.
type Reaction string

const (
	ReactionLike     Reaction = "like"
	ReactionDislike  Reaction = "dislike"
	ReactionFavorite Reaction = "favorite"
)

// PostRepository defines persistence operations for forum posts and the
// per-user reaction tables attached to them.
type PostRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, post *domain.Post) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]domain.Post, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]domain.Post, error)
	Delete(ctx context.Context, id int64) error

	SetReaction(ctx context.Context, postID, userID int64, reaction Reaction) error
	ClearReaction(ctx context.Context, postID, userID int64, reaction Reaction) error
	HasReaction(ctx context.Context, postID, userID int64, reaction Reaction) (bool, error)
	CountReactions(ctx context.Context, postID int64, reaction Reaction) (int, error)
	ListByReaction(ctx context.Context, userID int64, reaction Reaction) ([]domain.Post, error)
}

// ReplyRepository defines persistence operations for post replies.
type ReplyRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, reply *domain.Reply) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Reply, error)
	ListByPost(ctx context.Context, postID int64) ([]domain.Reply, error)
	Delete(ctx context.Context, id int64) error
}
