package version

import (
	"context"

	"github.com/rpggio/cutroom/internal/domain/activity"
	"github.com/rpggio/cutroom/internal/domain/project"
	"github.com/rpggio/cutroom/internal/realtime"
)

// Repository provides persistence for versions.
// Create assigns VersionNumber as the next number of the version's type.
type Repository interface {
	Create(ctx context.Context, v *Version) error
	Get(ctx context.Context, id string) (*Version, error)
	// List returns versions of a project, newest number first. An empty t lists every type.
	List(ctx context.Context, projectID string, t Type) ([]Version, error)
	Delete(ctx context.Context, id string) error
}

// Projects applies the project side of an upload.
type Projects interface {
	Get(ctx context.Context, id string) (*project.Project, error)
	CheckUploader(ctx context.Context, proj *project.Project, t project.Trigger, uploaderID string) error
	ApplyUpload(ctx context.Context, proj *project.Project, t project.Trigger, uploaderID string) (*project.Project, error)
}

// ActivityRepository logs version activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}

// Publisher pushes version events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, topic string, event realtime.Event) error
}
