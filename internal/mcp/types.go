package mcp

import (
	"github.com/rpggio/cutroom/internal/domain/activity"
	"github.com/rpggio/cutroom/internal/domain/project"
	"github.com/rpggio/cutroom/internal/domain/version"
)

type CreateProjectParams struct {
	Title       string `json:"title" jsonschema:"project title"`
	Description string `json:"description,omitempty" jsonschema:"what the video should become"`
	Platform    string `json:"platform" jsonschema:"instagram, youtube, tiktok or other"`
	EditorID    string `json:"editor_id,omitempty" jsonschema:"editor to start with; the project then begins in_edit"`
	Deadline    string `json:"deadline,omitempty" jsonschema:"RFC 3339 deadline"`
	Priority    string `json:"priority,omitempty" jsonschema:"low, normal, high or urgent (default normal)"`
}

type ProjectIDParams struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
}

type ListProjectsParams struct {
	Role     string           `json:"role,omitempty" jsonschema:"list projects you create (creator) or edit (editor); defaults to your profile role"`
	Statuses []project.Status `json:"statuses,omitempty" jsonschema:"only return projects in these statuses"`
	Limit    int              `json:"limit,omitempty" jsonschema:"maximum number of projects"`
	Offset   int              `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

type AssignEditorParams struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	EditorID  string `json:"editor_id" jsonschema:"editor profile ID"`
}

type RateProjectParams struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	Rating    int    `json:"rating" jsonschema:"1 to 5"`
	Feedback  string `json:"feedback,omitempty" jsonschema:"optional feedback for the editor"`
}

type UploadVersionParams struct {
	ProjectID     string `json:"project_id" jsonschema:"project ID"`
	Type          string `json:"type" jsonschema:"raw (source footage) or edited (a cut for review)"`
	FileName      string `json:"file_name" jsonschema:"original file name"`
	ContentType   string `json:"content_type,omitempty" jsonschema:"MIME type of the file"`
	ContentBase64 string `json:"content_base64" jsonschema:"file content, base64 encoded"`
	Comment       string `json:"comment,omitempty" jsonschema:"note attached to the version"`
}

type ListVersionsParams struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	Type      string `json:"type,omitempty" jsonschema:"raw or edited; omit for both"`
}

type VersionIDParams struct {
	VersionID string `json:"version_id" jsonschema:"version ID"`
}

type SendMessageParams struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	Content   string `json:"content" jsonschema:"message text"`
}

type ListMessagesParams struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of messages (default 100)"`
	Offset    int    `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

type AddCommentParams struct {
	VersionID        string  `json:"version_id" jsonschema:"version ID"`
	TimestampSeconds float64 `json:"timestamp_seconds" jsonschema:"playback position in seconds"`
	Content          string  `json:"content" jsonschema:"comment text"`
}

type EditCommentParams struct {
	CommentID string `json:"comment_id" jsonschema:"comment ID"`
	Content   string `json:"content" jsonschema:"new comment text"`
}

type CommentIDParams struct {
	CommentID string `json:"comment_id" jsonschema:"comment ID"`
}

type ResolveCommentParams struct {
	CommentID string `json:"comment_id" jsonschema:"comment ID"`
	Resolved  *bool  `json:"resolved,omitempty" jsonschema:"false reopens the comment (default true)"`
}

type ListCommentsParams struct {
	VersionID       string `json:"version_id" jsonschema:"version ID"`
	IncludeResolved bool   `json:"include_resolved,omitempty" jsonschema:"include resolved comments"`
}

type UploadVoiceBriefParams struct {
	ProjectID     string `json:"project_id" jsonschema:"project ID"`
	FileName      string `json:"file_name,omitempty" jsonschema:"recording file name (default brief.webm)"`
	ContentType   string `json:"content_type,omitempty" jsonschema:"MIME type (default audio/webm)"`
	ContentBase64 string `json:"content_base64" jsonschema:"recording, base64 encoded"`
}

type OnboardParams struct {
	ID        string `json:"id,omitempty" jsonschema:"profile ID; defaults to the acting user"`
	Name      string `json:"name" jsonschema:"display name"`
	Email     string `json:"email,omitempty" jsonschema:"contact email"`
	Role      string `json:"role" jsonschema:"creator or editor"`
	AvatarURL string `json:"avatar_url,omitempty" jsonschema:"avatar image URL"`
	Bio       string `json:"bio,omitempty" jsonschema:"short bio"`
}

type GetActivityParams struct {
	ProjectID string           `json:"project_id,omitempty" jsonschema:"project ID; omit for all of your projects"`
	Action    *activity.Action `json:"action,omitempty" jsonschema:"only return this action"`
	Limit     int              `json:"limit,omitempty" jsonschema:"maximum number of entries"`
	Offset    int              `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

type ProjectResponse struct {
	Project *project.Project `json:"project"`
	// Role is the acting user's side of the project.
	Role   project.Role `json:"role,omitempty"`
	Unread int          `json:"unread,omitempty"`
}

type VersionListResponse struct {
	Versions []version.Version `json:"versions"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
