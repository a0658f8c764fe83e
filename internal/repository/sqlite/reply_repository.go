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

const createRepliesTable = `
CREATE TABLE IF NOT EXISTS replies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
	author_id INTEGER NOT NULL REFERENCES users(id),
	content TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
`

const selectReplyColumns = `
SELECT r.id, r.post_id, r.author_id, r.content, r.created_at, u.name
FROM replies r
JOIN users u ON u.id = r.author_id
`

type ReplyRepository struct {
	db *sql.DB
}

func NewReplyRepository(db *sql.DB) repository.ReplyRepository {
	return &ReplyRepository{db: db}
}

func (r *ReplyRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createRepliesTable); err != nil {
		return fmt.Errorf("create replies table: %w", err)
	}
	return nil
}

func (r *ReplyRepository) Create(ctx context.Context, reply *domain.Reply) (int64, error) {
	reply.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO replies (post_id, author_id, content, created_at)
VALUES (?, ?, ?, ?)`,
		reply.PostID,
		reply.AuthorID,
		reply.Content,
		reply.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert reply: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reply last insert id: %w", err)
	}
	reply.ID = id
	return id, nil
}

func (r *ReplyRepository) GetByID(ctx context.Context, id int64) (*domain.Reply, error) {
	row := r.db.QueryRowContext(ctx, selectReplyColumns+`WHERE r.id = ?`, id)
	return scanReply(row)
}

func (r *ReplyRepository) ListByPost(ctx context.Context, postID int64) ([]domain.Reply, error) {
	rows, err := r.db.QueryContext(ctx, selectReplyColumns+`WHERE r.post_id = ? ORDER BY r.created_at`, postID)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	defer rows.Close()

	var replies []domain.Reply
	for rows.Next() {
		reply, err := scanReply(rows)
		if err != nil {
			return nil, err
		}
		replies = append(replies, *reply)
	}
	return replies, rows.Err()
}

func (r *ReplyRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM replies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reply: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete reply affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanReply(row interface {
	Scan(dest ...any) error
}) (*domain.Reply, error) {
	var reply domain.Reply
	if err := row.Scan(
		&reply.ID,
		&reply.PostID,
		&reply.AuthorID,
		&reply.Content,
		&reply.CreatedAt,
		&reply.AuthorName,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan reply: %w", err)
	}
	return &reply, nil
}
