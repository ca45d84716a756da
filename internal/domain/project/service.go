package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/cutroom/internal/domain/activity"
	"github.com/rpggio/cutroom/internal/domain/profile"
	"github.com/rpggio/cutroom/internal/metrics"
	"github.com/rpggio/cutroom/internal/realtime"
	"github.com/rpggio/cutroom/internal/repository"
)

// Service applies the project lifecycle: status transitions, unread counters and rating.
type Service struct {
	repo       Repository
	profiles   ProfileRepository
	activities ActivityRepository
	publisher  Publisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewService creates a new project service.
// profiles, activities, publisher and m may be nil.
func NewService(
	repo Repository,
	profiles ProfileRepository,
	activities ActivityRepository,
	publisher Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:       repo,
		profiles:   profiles,
		activities: activities,
		publisher:  publisher,
		metrics:    m,
		logger:     logger,
	}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Title       string
	Description string
	Platform    Platform
	CreatorID   string
	EditorID    *string
	Deadline    *time.Time
	Priority    Priority
}

// RateRequest defines the creator's rating of a finished project.
type RateRequest struct {
	ProjectID string
	RaterID   string
	Rating    int
	Feedback  *string
}

// Create creates a new project in briefing, or directly in in_edit when an editor is given.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, invalid("title", "is required")
	}
	if strings.TrimSpace(req.CreatorID) == "" {
		return nil, invalid("creator_id", "is required")
	}
	if !req.Platform.Valid() {
		return nil, invalid("platform", fmt.Sprintf("%q is not a known platform", req.Platform))
	}
	priority := req.Priority
	if priority == "" {
		priority = PriorityNormal
	}
	if !priority.Valid() {
		return nil, invalid("priority", fmt.Sprintf("%q is not a known priority", req.Priority))
	}
	editorID := req.EditorID
	if editorID != nil && strings.TrimSpace(*editorID) == "" {
		editorID = nil
	}

	if err := s.ensureRole(ctx, req.CreatorID, profile.RoleCreator, "creator_id"); err != nil {
		return nil, err
	}
	if editorID != nil {
		if err := s.ensureRole(ctx, *editorID, profile.RoleEditor, "editor_id"); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	proj := &Project{
		ID:             uuid.NewString(),
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		Platform:       req.Platform,
		Status:         InitialStatus(editorID != nil),
		Priority:       priority,
		Deadline:       req.Deadline,
		CreatorID:      req.CreatorID,
		EditorID:       editorID,
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, proj); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, &repository.StorageError{Op: "create project", ID: proj.ID, Err: err}
	}

	s.logActivity(ctx, proj.ID, &proj.CreatorID, activity.ActionProjectCreated, map[string]any{"title": proj.Title})
	if editorID != nil {
		s.logActivity(ctx, proj.ID, editorID, activity.ActionEditorAssigned, nil)
	}
	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, &repository.StorageError{Op: "get project", ID: id, Err: err}
	}
	return proj, nil
}

// List returns projects matching opts, most recently active first.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Project, error) {
	for _, st := range opts.Statuses {
		if !st.Valid() {
			return nil, invalid("status", fmt.Sprintf("%q is not a known status", st))
		}
	}
	projects, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, &repository.StorageError{Op: "list projects", Err: err}
	}
	return projects, nil
}

// AssignEditor offers a briefing project to an editor.
func (s *Service) AssignEditor(ctx context.Context, projectID, editorID string) (*Project, error) {
	if strings.TrimSpace(editorID) == "" {
		return nil, invalid("editor_id", "is required")
	}
	if err := s.ensureRole(ctx, editorID, profile.RoleEditor, "editor_id"); err != nil {
		return nil, err
	}
	return s.transition(ctx, projectID, TriggerAssignEditor, func(_ *Project, c *Change) {
		c.EditorID = &editorID
	})
}

// AcceptAssignment moves an offered project into editing.
func (s *Service) AcceptAssignment(ctx context.Context, projectID string) (*Project, error) {
	return s.transition(ctx, projectID, TriggerAccept, nil)
}

// RejectAssignment returns an offered project to briefing and clears the editor.
func (s *Service) RejectAssignment(ctx context.Context, projectID string) (*Project, error) {
	return s.transition(ctx, projectID, TriggerReject, func(_ *Project, c *Change) {
		c.ClearEditor = true
	})
}

// Approve accepts the version under review.
func (s *Service) Approve(ctx context.Context, projectID string) (*Project, error) {
	return s.transition(ctx, projectID, TriggerApprove, nil)
}

// RequestChanges sends the project back to the editor and bumps the editor's unread counter.
func (s *Service) RequestChanges(ctx context.Context, projectID string) (*Project, error) {
	return s.transition(ctx, projectID, TriggerRequestChanges, func(_ *Project, c *Change) {
		c.IncrementUnread = RoleEditor
	})
}

// Complete closes an approved project.
func (s *Service) Complete(ctx context.Context, projectID string) (*Project, error) {
	return s.transition(ctx, projectID, TriggerComplete, nil)
}

// ApplyUpload records the project side of a version upload that has already been stored.
// Edited uploads force review and bump the creator's unread counter; raw uploads only refresh activity.
func (s *Service) ApplyUpload(ctx context.Context, proj *Project, t Trigger, uploaderID string) (*Project, error) {
	if err := s.CheckUploader(ctx, proj, t, uploaderID); err != nil {
		return nil, err
	}

	now := time.Now()
	switch t {
	case TriggerUploadRaw:
		if err := s.repo.Touch(ctx, proj.ID, now); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				latest, gerr := s.Get(ctx, proj.ID)
				if gerr != nil {
					return nil, gerr
				}
				s.metrics.TransitionRejected(string(t))
				return nil, &TransitionError{From: latest.Status, Trigger: t}
			}
			return nil, s.storageErr("touch project", proj.ID, err)
		}
		return s.Get(ctx, proj.ID)
	case TriggerUploadEdited:
		change := Change{
			ProjectID:       proj.ID,
			To:              StatusReview,
			IncrementUnread: RoleCreator,
			At:              now,
		}
		if proj.EditorID == nil {
			change.FillEditorID = &uploaderID
		}
		if err := s.repo.ApplyChange(ctx, change); err != nil {
			return nil, s.storageErr("mark project for review", proj.ID, err)
		}
		updated, err := s.Get(ctx, proj.ID)
		if err != nil {
			return nil, err
		}
		s.metrics.Transition(string(proj.Status), string(updated.Status))
		if proj.Status != updated.Status {
			s.logActivity(ctx, proj.ID, &uploaderID, activity.ActionStatusChanged, map[string]any{
				"old_status": proj.Status,
				"new_status": updated.Status,
			})
		}
		s.publish(ctx, updated)
		return updated, nil
	}
	return nil, &TransitionError{From: proj.Status, Trigger: t}
}

// CheckUploader reports whether uploaderID may add a version of kind t to proj.
// An edited upload to a project without an editor makes the uploader its editor,
// so the uploader must hold the editor role.
func (s *Service) CheckUploader(ctx context.Context, proj *Project, t Trigger, uploaderID string) error {
	if err := CheckUpload(proj, t, uploaderID); err != nil {
		s.metrics.TransitionRejected(string(t))
		return err
	}
	if t == TriggerUploadEdited && proj.EditorID == nil {
		return s.ensureRole(ctx, uploaderID, profile.RoleEditor, "uploader_id")
	}
	return nil
}

// Rate stores the creator's one-time rating of a completed or approved project.
func (s *Service) Rate(ctx context.Context, req RateRequest) (*Project, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, invalid("rating", "must be between 1 and 5")
	}

	current, err := s.Get(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if current.CreatorID != req.RaterID {
		return nil, ErrForbidden
	}
	if current.CreatorRating != nil {
		return nil, ErrDuplicateRating
	}
	if !CanRate(current.Status) {
		return nil, &TransitionError{From: current.Status, Trigger: TriggerRate}
	}

	var feedback *string
	if req.Feedback != nil {
		if trimmed := strings.TrimSpace(*req.Feedback); trimmed != "" {
			feedback = &trimmed
		}
	}

	err = s.repo.SetRating(ctx, Rating{
		ProjectID: current.ID,
		Rating:    req.Rating,
		Feedback:  feedback,
		At:        time.Now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			latest, gerr := s.Get(ctx, current.ID)
			if gerr != nil {
				return nil, gerr
			}
			if latest.CreatorRating != nil {
				return nil, ErrDuplicateRating
			}
			return nil, &TransitionError{From: latest.Status, Trigger: TriggerRate}
		}
		return nil, s.storageErr("rate project", current.ID, err)
	}

	s.logActivity(ctx, current.ID, &current.CreatorID, activity.ActionProjectRated, map[string]any{
		"rating":       req.Rating,
		"has_feedback": feedback != nil,
	})
	return s.Get(ctx, current.ID)
}

// IncrementUnread adds one unread message for role.
func (s *Service) IncrementUnread(ctx context.Context, projectID string, role Role) error {
	if !role.Valid() {
		return invalid("role", fmt.Sprintf("%q is not a project role", role))
	}
	if err := s.repo.IncrementUnread(ctx, projectID, role); err != nil {
		return s.storageErr("increment unread", projectID, err)
	}
	return nil
}

// ResetUnread marks every message as read for role.
func (s *Service) ResetUnread(ctx context.Context, projectID string, role Role) error {
	if !role.Valid() {
		return invalid("role", fmt.Sprintf("%q is not a project role", role))
	}
	if err := s.repo.ResetUnread(ctx, projectID, role); err != nil {
		return s.storageErr("reset unread", projectID, err)
	}
	return nil
}

// AttachVoiceBrief records the location of the project's voice brief.
func (s *Service) AttachVoiceBrief(ctx context.Context, projectID, url string) error {
	if err := s.repo.SetVoiceBrief(ctx, projectID, url, time.Now()); err != nil {
		return s.storageErr("attach voice brief", projectID, err)
	}
	return nil
}

// StoreTranscription records the transcription of the project's voice brief.
// The write is dropped with ErrBriefReplaced when t.BriefURL is no longer the project's brief.
func (s *Service) StoreTranscription(ctx context.Context, projectID string, t Transcription) error {
	if err := s.repo.SetTranscription(ctx, projectID, t, time.Now()); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrBriefReplaced
		}
		return s.storageErr("store transcription", projectID, err)
	}
	return nil
}

// transition validates trigger t against the current status and writes the change
// conditionally on that status still holding.
func (s *Service) transition(ctx context.Context, projectID string, t Trigger, build func(*Project, *Change)) (*Project, error) {
	current, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	to, err := Next(current.Status, t)
	if err != nil {
		s.metrics.TransitionRejected(string(t))
		return nil, err
	}

	change := Change{
		ProjectID: projectID,
		From:      current.Status,
		To:        to,
		At:        time.Now(),
	}
	if build != nil {
		build(current, &change)
	}

	if err := s.repo.ApplyChange(ctx, change); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			latest, gerr := s.Get(ctx, projectID)
			if gerr != nil {
				return nil, gerr
			}
			s.metrics.TransitionRejected(string(t))
			return nil, &TransitionError{From: latest.Status, Trigger: t}
		}
		return nil, s.storageErr(string(t), projectID, err)
	}

	updated, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	s.metrics.Transition(string(current.Status), string(to))
	s.logTransition(ctx, current, updated, t)
	s.publish(ctx, updated)
	return updated, nil
}

func (s *Service) logTransition(ctx context.Context, before, after *Project, t Trigger) {
	switch t {
	case TriggerAssignEditor:
		s.logActivity(ctx, after.ID, after.EditorID, activity.ActionEditorAssigned, nil)
	case TriggerAccept:
		s.logActivity(ctx, after.ID, after.EditorID, activity.ActionAssignmentAccepted, nil)
	case TriggerReject:
		s.logActivity(ctx, after.ID, before.EditorID, activity.ActionAssignmentRejected, nil)
	default:
		s.logActivity(ctx, after.ID, &after.CreatorID, activity.ActionStatusChanged, map[string]any{
			"old_status": before.Status,
			"new_status": after.Status,
		})
	}
}

func (s *Service) ensureRole(ctx context.Context, userID string, role profile.Role, field string) error {
	if s.profiles == nil {
		return nil
	}
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return profile.ErrProfileNotFound
		}
		return &repository.StorageError{Op: "get profile", ID: userID, Err: err}
	}
	if p.Role != role {
		return invalid(field, fmt.Sprintf("user %s is not a %s", userID, role))
	}
	return nil
}

func (s *Service) storageErr(op, projectID string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProjectNotFound
	}
	return &repository.StorageError{Op: op, ID: projectID, Err: err}
}

func (s *Service) logActivity(ctx context.Context, projectID string, userID *string, action activity.Action, details any) {
	if s.activities == nil {
		return
	}
	entry := &activity.ActivityEntry{
		ProjectID: projectID,
		UserID:    userID,
		Action:    action,
		CreatedAt: time.Now(),
	}
	if details != nil {
		entry.Details = activity.Details(details)
	}
	if err := s.activities.Log(ctx, entry); err != nil {
		s.logger.Warn("failed to log activity", "project_id", projectID, "action", action, "error", err)
	}
}

func (s *Service) publish(ctx context.Context, proj *Project) {
	if s.publisher == nil {
		return
	}
	ev, err := realtime.NewEvent(realtime.EventProjectUpdated, proj.ID, proj)
	if err != nil {
		s.logger.Warn("failed to encode project event", "project_id", proj.ID, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, realtime.ProjectTopic(proj.ID), ev); err != nil {
		s.logger.Warn("failed to publish project event", "project_id", proj.ID, "error", err)
	}
}
