package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pawclub/internal/domain"
	"pawclub/internal/repository"
)

const createPostsTable = `
CREATE TABLE IF NOT EXISTS posts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	category_id INTEGER NOT NULL REFERENCES categories(id),
	author_id INTEGER NOT NULL REFERENCES users(id),
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	image_url TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const createPostReactionsTable = `
CREATE TABLE IF NOT EXISTS post_reactions (
	post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
	user_id INTEGER NOT NULL REFERENCES users(id),
	reaction TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	PRIMARY KEY (post_id, user_id, reaction)
);
`

const selectPostColumns = `
SELECT p.id, p.category_id, p.author_id, p.title, p.content, p.image_url, p.created_at, p.updated_at, u.name
FROM posts p
JOIN users u ON u.id = p.author_id
`

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) repository.PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPostsTable); err != nil {
		return fmt.Errorf("create posts table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createPostReactionsTable); err != nil {
		return fmt.Errorf("create post reactions table: %w", err)
	}
	return nil
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (int64, error) {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO posts (category_id, author_id, title, content, image_url, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		post.CategoryID,
		post.AuthorID,
		post.Title,
		post.Content,
		post.ImageURL,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("post last insert id: %w", err)
	}
	post.ID = id
	return id, nil
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	row := r.db.QueryRowContext(ctx, selectPostColumns+`WHERE p.id = ?`, id)
	post, err := scanPost(row)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *PostRepository) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Post, error) {
	return r.list(ctx, selectPostColumns+`WHERE p.category_id = ? ORDER BY p.created_at DESC`, categoryID)
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID int64) ([]domain.Post, error) {
	return r.list(ctx, selectPostColumns+`WHERE p.author_id = ? ORDER BY p.created_at DESC`, authorID)
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostRepository) SetReaction(ctx context.Context, postID, userID int64, reaction repository.Reaction) error {
	_, err := r.db.ExecContext(ctx, `
INSERT OR IGNORE INTO post_reactions (post_id, user_id, reaction, created_at)
VALUES (?, ?, ?, ?)`,
		postID, userID, string(reaction), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set reaction: %w", err)
	}
	return nil
}

func (r *PostRepository) ClearReaction(ctx context.Context, postID, userID int64, reaction repository.Reaction) error {
	_, err := r.db.ExecContext(ctx, `
DELETE FROM post_reactions WHERE post_id = ? AND user_id = ? AND reaction = ?`,
		postID, userID, string(reaction),
	)
	if err != nil {
		return fmt.Errorf("clear reaction: %w", err)
	}
	return nil
}

func (r *PostRepository) HasReaction(ctx context.Context, postID, userID int64, reaction repository.Reaction) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM post_reactions WHERE post_id = ? AND user_id = ? AND reaction = ?`,
		postID, userID, string(reaction),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("has reaction: %w", err)
	}
	return count > 0, nil
}

func (r *PostRepository) CountReactions(ctx context.Context, postID int64, reaction repository.Reaction) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM post_reactions WHERE post_id = ? AND reaction = ?`,
		postID, string(reaction),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count reactions: %w", err)
	}
	return count, nil
}

func (r *PostRepository) ListByReaction(ctx context.Context, userID int64, reaction repository.Reaction) ([]domain.Post, error) {
	return r.list(ctx, selectPostColumns+`
JOIN post_reactions pr ON pr.post_id = p.id
WHERE pr.user_id = ? AND pr.reaction = ?
ORDER BY pr.created_at DESC`, userID, string(reaction))
}

func (r *PostRepository) list(ctx context.Context, query string, args ...any) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func scanPost(row interface {
	Scan(dest ...any) error
}) (*domain.Post, error) {
	var post domain.Post
	if err := row.Scan(
		&post.ID,
		&post.CategoryID,
		&post.AuthorID,
		&post.Title,
		&post.Content,
		&post.ImageURL,
		&post.CreatedAt,
		&post.UpdatedAt,
		&post.AuthorName,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	return &post, nil
}
