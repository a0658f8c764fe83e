package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pawclub/internal/domain"
	"pawclub/internal/repository"
)

const createSignupsTable = `
CREATE TABLE IF NOT EXISTS event_signups (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	user_id INTEGER NOT NULL REFERENCES users(id),
	created_at DATETIME NOT NULL,
	UNIQUE (event_id, user_id)
);
`

type SignupRepository struct {
	db *sql.DB
}

func NewSignupRepository(db *sql.DB) repository.SignupRepository {
	return &SignupRepository{db: db}
}

func (r *SignupRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSignupsTable); err != nil {
		return fmt.Errorf("create event signups table: %w", err)
	}
	return nil
}

func (r *SignupRepository) Create(ctx context.Context, signup *domain.EventSignup) (int64, error) {
	signup.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO event_signups (event_id, user_id, created_at)
VALUES (?, ?, ?)`,
		signup.EventID,
		signup.UserID,
		signup.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicate
		}
		return 0, fmt.Errorf("insert signup: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("signup last insert id: %w", err)
	}
	signup.ID = id
	return id, nil
}

func (r *SignupRepository) Delete(ctx context.Context, eventID, userID int64) error {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM event_signups WHERE event_id = ? AND user_id = ?`,
		eventID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete signup: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete signup affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *SignupRepository) Exists(ctx context.Context, eventID, userID int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM event_signups WHERE event_id = ? AND user_id = ?`,
		eventID, userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("signup exists: %w", err)
	}
	return count > 0, nil
}

func (r *SignupRepository) CountByEvent(ctx context.Context, eventID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM event_signups WHERE event_id = ?`, eventID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count signups: %w", err)
	}
	return count, nil
}

func (r *SignupRepository) ListEventsByUser(ctx context.Context, userID int64) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT e.id, e.creator_id, e.title, e.description, e.location, e.starts_at, e.capacity, e.image_url, e.created_at, e.updated_at
FROM events e
JOIN event_signups s ON s.event_id = e.id
WHERE s.user_id = ?
ORDER BY e.starts_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list signed up events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}
