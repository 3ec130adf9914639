package store

import (
	"context"
	"errors"

	"github.com/user/video-manager-go/internal/model"
)

var (
	// ErrWrite is returned when the underlying storage rejects a write
	ErrWrite = errors.New("storage rejected write")
	// ErrNotFound is returned when an operation that requires an existing record targets a missing id
	ErrNotFound = errors.New("video not found")
	// ErrQuery is returned when a lookup fails
	ErrQuery = errors.New("query failed")
)

// Store defines the interface for video record persistence.
// Update and Delete report the affected-row count; zero means no record had the id.
type Store interface {
	Initialize(ctx context.Context) error
	ListAll(ctx context.Context) ([]*model.Video, error)
	Search(ctx context.Context, query string) ([]*model.Video, error)
	Get(ctx context.Context, id uint) (*model.Video, error)
	Add(ctx context.Context, in model.VideoInput) (uint, error)
	Update(ctx context.Context, id uint, in model.VideoInput) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
	IncrementViewAndFetchURL(ctx context.Context, id uint) (string, error)
	Count(ctx context.Context) (int64, error)

	// Health check
	Ping(ctx context.Context) error
	Close() error
}
