package project

// Trigger is an action that may move a project between statuses
type Trigger string

const (
	TriggerAssignEditor   Trigger = "assign_editor"
	TriggerAccept         Trigger = "accept_assignment"
	TriggerReject         Trigger = "reject_assignment"
	TriggerUploadEdited   Trigger = "upload_edited_version"
	TriggerUploadRaw      Trigger = "upload_raw_version"
	TriggerApprove        Trigger = "approve"
	TriggerRequestChanges Trigger = "request_changes"
	TriggerComplete       Trigger = "complete"
	// TriggerRate never moves a project; it names refused ratings.
	TriggerRate Trigger = "rate"
)

// InitialStatus returns the status a new project starts in.
// A project created with an editor skips pending_acceptance.
func InitialStatus(hasEditor bool) Status {
	if hasEditor {
		return StatusInEdit
	}
	return StatusBriefing
}

// Next returns the status reached by applying trigger t to a project in status from.
func Next(from Status, t Trigger) (Status, error) {
	if !from.Valid() {
		return "", &TransitionError{From: from, Trigger: t}
	}

	to := Status("")
	switch t {
	case TriggerAssignEditor:
		if from == StatusBriefing {
			to = StatusPendingAcceptance
		}
	case TriggerAccept:
		if from == StatusPendingAcceptance {
			to = StatusInEdit
		}
	case TriggerReject:
		if from == StatusPendingAcceptance {
			to = StatusBriefing
		}
	case TriggerUploadEdited:
		// Every edited upload sends the project back to review.
		to = StatusReview
	case TriggerUploadRaw:
		if from != StatusApproved && from != StatusCompleted {
			to = from
		}
	case TriggerApprove:
		if from == StatusReview {
			to = StatusApproved
		}
	case TriggerRequestChanges:
		if from == StatusReview {
			to = StatusChangesRequested
		}
	case TriggerComplete:
		if from == StatusApproved {
			to = StatusCompleted
		}
	}

	if to == "" {
		return "", &TransitionError{From: from, Trigger: t}
	}
	return to, nil
}

// CanRate reports whether a project in status s may receive its rating.
func CanRate(s Status) bool {
	return s == StatusCompleted || s == StatusApproved
}

// CheckUpload reports whether uploaderID may add a version of kind t to p.
// An edited upload on a project without an editor makes the uploader its editor,
// so it is refused when the uploader is the creator.
func CheckUpload(p *Project, t Trigger, uploaderID string) error {
	if t != TriggerUploadRaw && t != TriggerUploadEdited {
		return &TransitionError{From: p.Status, Trigger: t}
	}
	if _, err := Next(p.Status, t); err != nil {
		return err
	}
	if t == TriggerUploadEdited && p.EditorID == nil && (uploaderID == "" || uploaderID == p.CreatorID) {
		return &TransitionError{From: p.Status, Trigger: t}
	}
	return nil
}
