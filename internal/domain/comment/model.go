package comment

import (
	"fmt"
	"math"
	"time"
)

// Comment is a timestamped annotation on a version
type Comment struct {
	ID               string    `json:"id"`
	VersionID        string    `json:"version_id"`
	ProjectID        string    `json:"project_id"`
	AuthorID         string    `json:"author_id"`
	TimestampSeconds float64   `json:"timestamp_seconds"`
	Content          string    `json:"content"`
	IsResolved       bool      `json:"is_resolved"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AddRequest defines comment creation inputs.
type AddRequest struct {
	VersionID        string
	AuthorID         string
	TimestampSeconds float64
	Content          string
}

// FormatTimestamp renders a playback position as M:SS.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	total := int(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
