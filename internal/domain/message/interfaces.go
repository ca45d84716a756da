package message

import (
	"context"

	"github.com/rpggio/cutroom/internal/domain/activity"
	"github.com/rpggio/cutroom/internal/domain/project"
)

// Repository provides persistence for messages.
type Repository interface {
	Create(ctx context.Context, msg *Message) error
	List(ctx context.Context, projectID string, opts ListOptions) ([]Message, error)
}

// Projects resolves participants and bumps unread counters.
type Projects interface {
	Get(ctx context.Context, id string) (*project.Project, error)
	IncrementUnread(ctx context.Context, projectID string, role project.Role) error
}

// ActivityRepository logs message activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
