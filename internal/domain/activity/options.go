package activity

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	ProjectID string
	// ParticipantID restricts entries to projects the user creates or edits.
	ParticipantID string
	Action        *Action
	Limit         int
	Offset        int
}
