// Package store persists drawings: their metadata and the paint file bytes.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("drawing not found")
	ErrExists   = errors.New("drawing already exists")
)

// Drawing is the metadata kept next to a paint file.
type Drawing struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	OwnerID     string    `json:"ownerId"`
	ObjectCount int       `json:"objectCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Store is implemented by FileStore and PGStore. Implementations are safe
// for concurrent use.
type Store interface {
	// List returns the drawings owned by ownerID, most recently updated first.
	List(ctx context.Context, ownerID string) ([]Drawing, error)
	Get(ctx context.Context, id string) (*Drawing, error)
	// Content returns the paint file bytes of a drawing.
	Content(ctx context.Context, id string) ([]byte, error)
	Create(ctx context.Context, d Drawing, content []byte) error
	// Save replaces the content and object count and bumps UpdatedAt.
	Save(ctx context.Context, id string, content []byte, objectCount int) error
	Delete(ctx context.Context, id string) error
}
