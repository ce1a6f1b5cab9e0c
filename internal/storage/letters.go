package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/heardapp/letter-importer/internal/domain"
)

// ErrNothingInserted signals an insert that affected no rows, which the
// pipeline counts as a persistence failure without raising.
var ErrNothingInserted = errors.New("no rows inserted")

// GetCategories returns all categories. The pipeline treats an empty result
// as a run precondition failure.
func (db *DB) GetCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, COALESCE(description, '')
		FROM categories
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category

	for rows.Next() {
		var cat domain.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}

		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}

	return categories, nil
}

// GetUserIDs returns the pool of user ids letters may be attributed to.
func (db *DB) GetUserIDs(ctx context.Context) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `SELECT id FROM user_profiles`)
	if err != nil {
		return nil, fmt.Errorf("query user profiles: %w", err)
	}
	defer rows.Close()

	var ids []string

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id row: %w", err)
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user id rows: %w", err)
	}

	return ids, nil
}

// SaveLetter inserts a single letter and verifies a row came back.
func (db *DB) SaveLetter(ctx context.Context, letter *domain.Letter) error {
	var insertedID string

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO letters (id, author_id, display_name, title, content, category_id, mood_tag, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`,
		letter.ID,
		letter.AuthorID,
		letter.DisplayName,
		letter.Title,
		letter.Content,
		letter.CategoryID,
		letter.MoodTag,
		letter.CreatedAt,
		letter.UpdatedAt,
	).Scan(&insertedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNothingInserted
		}

		return fmt.Errorf("insert letter: %w", err)
	}

	if insertedID == "" {
		return ErrNothingInserted
	}

	return nil
}
