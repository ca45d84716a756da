package project

import "time"

// Status represents the workflow state of a project
type Status string

const (
	StatusBriefing          Status = "briefing"
	StatusPendingAcceptance Status = "pending_acceptance"
	StatusInEdit            Status = "in_edit"
	StatusReview            Status = "review"
	StatusChangesRequested  Status = "changes_requested"
	StatusApproved          Status = "approved"
	StatusCompleted         Status = "completed"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{
	StatusBriefing,
	StatusPendingAcceptance,
	StatusInEdit,
	StatusReview,
	StatusChangesRequested,
	StatusApproved,
	StatusCompleted,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Platform is the publishing target of a project
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
	PlatformOther     Platform = "other"
)

func (p Platform) Valid() bool {
	switch p {
	case PlatformInstagram, PlatformYouTube, PlatformTikTok, PlatformOther:
		return true
	}
	return false
}

// Priority of a project
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Role is a participant's side of a project
type Role string

const (
	RoleCreator Role = "creator"
	RoleEditor  Role = "editor"
)

func (r Role) Valid() bool {
	return r == RoleCreator || r == RoleEditor
}

// Counterpart returns the other side of the conversation.
func (r Role) Counterpart() Role {
	if r == RoleCreator {
		return RoleEditor
	}
	return RoleCreator
}

// Project is the aggregate commissioned by a creator and worked on by an editor
type Project struct {
	ID                    string     `json:"id"`
	Title                 string     `json:"title"`
	Description           string     `json:"description,omitempty"`
	Platform              Platform   `json:"platform"`
	Status                Status     `json:"status"`
	Priority              Priority   `json:"priority"`
	Deadline              *time.Time `json:"deadline,omitempty"`
	CreatorID             string     `json:"creator_id"`
	EditorID              *string    `json:"editor_id,omitempty"`
	UnreadCreatorMessages int        `json:"unread_creator_messages"`
	UnreadEditorMessages  int        `json:"unread_editor_messages"`
	CreatorRating         *int       `json:"creator_rating,omitempty"`
	CreatorFeedback       *string    `json:"creator_feedback,omitempty"`
	RatedAt               *time.Time `json:"rated_at,omitempty"`
	VoiceBriefURL         *string    `json:"voice_brief_url,omitempty"`
	VoiceTranscript       *string    `json:"voice_transcript,omitempty"`
	BriefLanguage         *string    `json:"brief_language,omitempty"`
	ParsedInstructions    *string    `json:"parsed_instructions,omitempty"` // JSON string
	LastActivityAt        time.Time  `json:"last_activity_at"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// RoleOf returns the role userID plays on the project, or "" when the user is not a participant.
func (p *Project) RoleOf(userID string) Role {
	switch {
	case userID == "":
		return ""
	case p.CreatorID == userID:
		return RoleCreator
	case p.EditorID != nil && *p.EditorID == userID:
		return RoleEditor
	}
	return ""
}

// Unread returns the unread counter for a role.
func (p *Project) Unread(role Role) int {
	if role == RoleCreator {
		return p.UnreadCreatorMessages
	}
	return p.UnreadEditorMessages
}

// Change describes a conditional status update of a single project.
// The store applies it only while the project is still in From.
// An empty From applies the change whatever the current status.
type Change struct {
	ProjectID string
	From      Status
	To        Status
	// EditorID replaces the editor; FillEditorID sets it only when none is assigned.
	EditorID        *string
	FillEditorID    *string
	ClearEditor     bool
	IncrementUnread Role
	At              time.Time
}

// Rating is the creator's one-time verdict on a finished project.
type Rating struct {
	ProjectID string
	Rating    int
	Feedback  *string
	At        time.Time
}

// Transcription is the result of transcribing a voice brief.
// BriefURL names the brief that was transcribed.
type Transcription struct {
	BriefURL     string `json:"-"`
	Transcript   string `json:"transcript"`
	Language     string `json:"language"`
	Instructions string `json:"instructions"` // JSON string
}

// ListOptions provides filtering options for listing projects.
type ListOptions struct {
	CreatorID string
	EditorID  string
	Statuses  []Status
	Limit     int
	Offset    int
}
