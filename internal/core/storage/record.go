// Package storage defines the dev backend's post storage domain: the
// stored record shape and the repository interface the HTTP handlers
// consume. The production deployment is an external service; this domain
// exists so the client can be exercised against a local backend.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrRecordNotFound is returned when no stored post matches the id.
var ErrRecordNotFound = errors.New("post record not found")

// Record is a stored post.
type Record struct {
	ID        string
	Title     string
	Content   string
	ImageURL  string
	CreatedAt time.Time
}

// Repository defines the data access interface for stored posts.
type Repository interface {
	// List returns all records, most recent first.
	List(ctx context.Context) ([]Record, error)

	// Get retrieves one record by id.
	Get(ctx context.Context, id string) (Record, error)

	// Create inserts a new record.
	Create(ctx context.Context, rec Record) error

	// Update rewrites title, content, and (when non-empty) image URL.
	Update(ctx context.Context, rec Record) error

	// Delete removes a record by id.
	Delete(ctx context.Context, id string) error
}
