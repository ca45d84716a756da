package project

import (
	"context"
	"time"

	"github.com/rpggio/cutroom/internal/domain/activity"
	"github.com/rpggio/cutroom/internal/domain/profile"
	"github.com/rpggio/cutroom/internal/realtime"
)

// Repository provides persistence for projects.
// Counter changes must be applied atomically by the store.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context, opts ListOptions) ([]Project, error)
	ApplyChange(ctx context.Context, change Change) error
	Touch(ctx context.Context, id string, at time.Time) error
	IncrementUnread(ctx context.Context, id string, role Role) error
	ResetUnread(ctx context.Context, id string, role Role) error
	SetRating(ctx context.Context, rating Rating) error
	SetVoiceBrief(ctx context.Context, id, url string, at time.Time) error
	SetTranscription(ctx context.Context, id string, t Transcription, at time.Time) error
}

// ProfileRepository resolves participants.
type ProfileRepository interface {
	Get(ctx context.Context, id string) (*profile.Profile, error)
}

// ActivityRepository logs project activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}

// Publisher pushes project events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, topic string, event realtime.Event) error
}
