package activity

import "time"

// Action represents the type of activity event
type Action string

const (
	ActionProjectCreated     Action = "project_created"
	ActionEditorAssigned     Action = "editor_assigned"
	ActionAssignmentAccepted Action = "assignment_accepted"
	ActionAssignmentRejected Action = "assignment_rejected"
	ActionVersionUploaded    Action = "version_uploaded"
	ActionVersionDeleted     Action = "version_deleted"
	ActionStatusChanged      Action = "status_changed"
	ActionMessageSent        Action = "message_sent"
	ActionProjectRated       Action = "project_rated"
	ActionVoiceBriefUploaded Action = "voice_brief_uploaded"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID        int64     `json:"id"`
	ProjectID string    `json:"project_id"`
	UserID    *string   `json:"user_id,omitempty"`
	Action    Action    `json:"action"`
	Details   string    `json:"details,omitempty"` // JSON string
	CreatedAt time.Time `json:"created_at"`
}
