package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"pawclub/internal/auth"
	"pawclub/internal/domain"
	"pawclub/internal/repository"
	"pawclub/internal/storage"
)

var (
	// ErrForbidden is returned when a user acts on content they do not own.
	ErrForbidden = errors.New("not allowed")
	// ErrStorageDisabled is returned when an image operation runs without object storage configured.
	ErrStorageDisabled = errors.New("storage service not configured")
)

// ForumService coordinates categories, posts, reactions and replies.
type ForumService interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreatePost(ctx context.Context, authorID int64, in CreatePostInput) (*domain.Post, error)
	GetPost(ctx context.Context, id int64) (*domain.Post, error)
	ListPostsByCategory(ctx context.Context, categoryID int64) ([]domain.Post, error)
	DeletePost(ctx context.Context, principal *auth.Principal, id int64) error
	ToggleReaction(ctx context.Context, userID, postID int64, reaction repository.Reaction) (bool, error)
	CreateReply(ctx context.Context, authorID, postID int64, content string) (*domain.Reply, error)
	ListReplies(ctx context.Context, postID int64) ([]domain.Reply, error)
	DeleteReply(ctx context.Context, principal *auth.Principal, id int64) error
}

// CreatePostInput carries the fields accepted when creating a post. Image is
// optional; when set it is resized and stored before the post row is written.
type CreatePostInput struct {
	CategoryID int64
	Title      string
	Content    string
	Image      io.Reader
}

type forumService struct {
	categories repository.CategoryRepository
	posts      repository.PostRepository
	replies    repository.ReplyRepository
	storage    storage.Service
	bucket     string
	keyPrefix  string
}

func NewForumService(
	categories repository.CategoryRepository,
	posts repository.PostRepository,
	replies repository.ReplyRepository,
	store storage.Service,
	bucket, keyPrefix string,
) ForumService {
	return &forumService{
		categories: categories,
		posts:      posts,
		replies:    replies,
		storage:    store,
		bucket:     bucket,
		keyPrefix:  strings.Trim(keyPrefix, "/"),
	}
}

func (s *forumService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *forumService) CreatePost(ctx context.Context, authorID int64, in CreatePostInput) (*domain.Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)

	if in.Title == "" {
		return nil, errors.New("title is required")
	}
	if in.Content == "" {
		return nil, errors.New("content is required")
	}
	if _, err := s.categories.GetByID(ctx, in.CategoryID); err != nil {
		return nil, fmt.Errorf("category lookup: %w", err)
	}

	var imageURL string
	if in.Image != nil {
		if s.storage == nil || s.bucket == "" {
			return nil, ErrStorageDisabled
		}
		resized, err := storage.ResizeJPEG(in.Image, 1280, 1280)
		if err != nil {
			return nil, err
		}
		key := fmt.Sprintf("%s/posts/%s.jpg", s.keyPrefix, uuid.NewString())
		storedKey, err := s.storage.UploadObject(ctx, s.bucket, key, "image/jpeg", resized)
		if err != nil {
			return nil, err
		}
		imageURL = imagePath(storedKey)
	}

	post := &domain.Post{
		CategoryID: in.CategoryID,
		AuthorID:   authorID,
		Title:      in.Title,
		Content:    in.Content,
		ImageURL:   imageURL,
	}
	if _, err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, post.ID)
}

func (s *forumService) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.fillAggregates(ctx, post); err != nil {
		return nil, err
	}
	replies, err := s.replies.ListByPost(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Replies = replies
	return post, nil
}

func (s *forumService) ListPostsByCategory(ctx context.Context, categoryID int64) ([]domain.Post, error) {
	posts, err := s.posts.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if err := s.fillAggregates(ctx, &posts[i]); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (s *forumService) DeletePost(ctx context.Context, principal *auth.Principal, id int64) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != principal.UserID && !principal.IsAdmin() {
		return ErrForbidden
	}
	return s.posts.Delete(ctx, id)
}

// ToggleReaction flips the given reaction for the user and reports whether it
// is now set. Likes and dislikes are mutually exclusive; setting one clears
// the other.
func (s *forumService) ToggleReaction(ctx context.Context, userID, postID int64, reaction repository.Reaction) (bool, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return false, err
	}

	has, err := s.posts.HasReaction(ctx, postID, userID, reaction)
	if err != nil {
		return false, err
	}
	if has {
		return false, s.posts.ClearReaction(ctx, postID, userID, reaction)
	}

	switch reaction {
	case repository.ReactionLike:
		if err := s.posts.ClearReaction(ctx, postID, userID, repository.ReactionDislike); err != nil {
			return false, err
		}
	case repository.ReactionDislike:
		if err := s.posts.ClearReaction(ctx, postID, userID, repository.ReactionLike); err != nil {
			return false, err
		}
	}

	if err := s.posts.SetReaction(ctx, postID, userID, reaction); err != nil {
		return false, err
	}
	return true, nil
}

func (s *forumService) CreateReply(ctx context.Context, authorID, postID int64, content string) (*domain.Reply, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("content is required")
	}
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, fmt.Errorf("post lookup: %w", err)
	}

	reply := &domain.Reply{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}
	if _, err := s.replies.Create(ctx, reply); err != nil {
		return nil, err
	}
	return s.replies.GetByID(ctx, reply.ID)
}

func (s *forumService) ListReplies(ctx context.Context, postID int64) ([]domain.Reply, error) {
	return s.replies.ListByPost(ctx, postID)
}

func (s *forumService) DeleteReply(ctx context.Context, principal *auth.Principal, id int64) error {
	reply, err := s.replies.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if reply.AuthorID != principal.UserID && !principal.IsAdmin() {
		return ErrForbidden
	}
	return s.replies.Delete(ctx, id)
}

// imagePath turns a stored object key into the public route that redirects to
// a presigned URL for it. Stored rows carry this path, never the raw key or a
// bucket URI.
func imagePath(key string) string {
	return "/api/images/" + strings.TrimPrefix(key, "/")
}

func (s *forumService) fillAggregates(ctx context.Context, post *domain.Post) error {
	var err error
	if post.Likes, err = s.posts.CountReactions(ctx, post.ID, repository.ReactionLike); err != nil {
		return err
	}
	if post.Dislikes, err = s.posts.CountReactions(ctx, post.ID, repository.ReactionDislike); err != nil {
		return err
	}
	if post.Favorites, err = s.posts.CountReactions(ctx, post.ID, repository.ReactionFavorite); err != nil {
		return err
	}
	return nil
}
