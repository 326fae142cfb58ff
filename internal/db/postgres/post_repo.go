package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"Aurora/internal/core/storage"
)

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) storage.Repository {
	return &postgresPostRepo{db: db}
}

// List returns all posts, most recent first.
func (r *postgresPostRepo) List(ctx context.Context) ([]storage.Record, error) {
	query := `
		SELECT id, title, content, image_url, created_at
		FROM posts
		ORDER BY created_at DESC, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var records []storage.Record
	for rows.Next() {
		var rec storage.Record
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Content, &rec.ImageURL, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return records, nil
}

// Get retrieves one post by id.
func (r *postgresPostRepo) Get(ctx context.Context, id string) (storage.Record, error) {
	query := `
		SELECT id, title, content, image_url, created_at
		FROM posts
		WHERE id = $1
	`

	var rec storage.Record
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.Title, &rec.Content, &rec.ImageURL, &rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Record{}, storage.ErrRecordNotFound
	}
	if err != nil {
		return storage.Record{}, fmt.Errorf("failed to get post: %w", err)
	}

	return rec, nil
}

// Create inserts a new post.
func (r *postgresPostRepo) Create(ctx context.Context, rec storage.Record) error {
	query := `
		INSERT INTO posts (id, title, content, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query, rec.ID, rec.Title, rec.Content, rec.ImageURL, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// Update rewrites title and content, and the image URL when one is given.
func (r *postgresPostRepo) Update(ctx context.Context, rec storage.Record) error {
	query := `
		UPDATE posts
		SET title = $2,
		    content = $3,
		    image_url = CASE WHEN $4 <> '' THEN $4 ELSE image_url END
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, rec.ID, rec.Title, rec.Content, rec.ImageURL)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return storage.ErrRecordNotFound
	}

	return nil
}

// Delete removes a post by id.
func (r *postgresPostRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrRecordNotFound
	}

	return nil
}
