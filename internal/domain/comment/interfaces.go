package comment

import (
	"context"
	"time"

	"github.com/rpggio/cutroom/internal/domain/project"
	"github.com/rpggio/cutroom/internal/domain/version"
)

// Repository provides persistence for video comments.
type Repository interface {
	Create(ctx context.Context, c *Comment) error
	Get(ctx context.Context, id string) (*Comment, error)
	UpdateContent(ctx context.Context, id, content string, at time.Time) error
	SetResolved(ctx context.Context, id string, resolved bool, at time.Time) error
	Delete(ctx context.Context, id string) error
	// List returns comments of a version ordered by timestamp.
	List(ctx context.Context, versionID string, includeResolved bool) ([]Comment, error)
}

// Versions resolves the version a comment is attached to.
type Versions interface {
	Get(ctx context.Context, id string) (*version.Version, error)
}

// Projects resolves the project owning a version.
type Projects interface {
	Get(ctx context.Context, id string) (*project.Project, error)
}
