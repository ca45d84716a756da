package brief

import (
	"context"

	"github.com/rpggio/cutroom/internal/domain/activity"
	"github.com/rpggio/cutroom/internal/domain/project"
)

// Transcriber turns a stored voice brief into text and instructions.
type Transcriber interface {
	Transcribe(ctx context.Context, projectID, audioURL string) (*Result, error)
}

// Projects stores brief results on the project.
type Projects interface {
	Get(ctx context.Context, id string) (*project.Project, error)
	AttachVoiceBrief(ctx context.Context, projectID, url string) error
	StoreTranscription(ctx context.Context, projectID string, t project.Transcription) error
}

// ActivityRepository logs brief activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
