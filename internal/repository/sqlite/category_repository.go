package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pawclub/internal/domain"
	"pawclub/internal/repository"
)

const createCategoriesTable = `
CREATE TABLE IF NOT EXISTS categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT ''
);
`

// defaultCategories seeds the forum on first start so the board is never empty.
var defaultCategories = []domain.Category{
	{Name: "General", Description: "Anything goes"},
	{Name: "Advice", Description: "Ask the community"},
	{Name: "Health", Description: "Vet visits, nutrition, wellbeing"},
	{Name: "Events", Description: "Meetups and activities"},
}

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) repository.CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createCategoriesTable); err != nil {
		return fmt.Errorf("create categories table: %w", err)
	}
	for _, cat := range defaultCategories {
		if _, err := r.db.ExecContext(ctx, `
INSERT OR IGNORE INTO categories (name, description) VALUES (?, ?)`,
			cat.Name, cat.Description,
		); err != nil {
			return fmt.Errorf("seed category %s: %w", cat.Name, err)
		}
	}
	return nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, description FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var cat domain.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	var cat domain.Category
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, description FROM categories WHERE id = ?`, id).
		Scan(&cat.ID, &cat.Name, &cat.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}
	return &cat, nil
}
