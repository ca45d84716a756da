package version

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/cutroom/internal/domain/activity"
	"github.com/rpggio/cutroom/internal/domain/project"
	"github.com/rpggio/cutroom/internal/metrics"
	"github.com/rpggio/cutroom/internal/realtime"
	"github.com/rpggio/cutroom/internal/repository"
	"github.com/rpggio/cutroom/internal/storage"
)

// Options tunes the version service.
type Options struct {
	URLTTL time.Duration
}

// Service manages project versions and their backing objects.
type Service struct {
	repo       Repository
	projects   Projects
	store      storage.ObjectStore
	activities ActivityRepository
	publisher  Publisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
	opts       Options
}

// NewService creates a new version service.
func NewService(
	repo Repository,
	projects Projects,
	store storage.ObjectStore,
	activities ActivityRepository,
	publisher Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
	opts Options,
) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts.URLTTL = storage.ClampTTL(opts.URLTTL)
	return &Service{
		repo:       repo,
		projects:   projects,
		store:      store,
		activities: activities,
		publisher:  publisher,
		metrics:    m,
		logger:     logger,
		opts:       opts,
	}
}

// Trigger returns the lifecycle trigger an upload of type t fires.
func (t Type) Trigger() project.Trigger {
	if t == TypeEdited {
		return project.TriggerUploadEdited
	}
	return project.TriggerUploadRaw
}

// Upload stores the file, appends a version numbered within its type and
// applies the upload to the project.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*Version, error) {
	if err := validateUpload(req); err != nil {
		return nil, err
	}

	proj, err := s.projects.Get(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := s.projects.CheckUploader(ctx, proj, req.Type.Trigger(), req.UploaderID); err != nil {
		return nil, err
	}

	fileName := cleanFileName(req.File.Name)
	key := fmt.Sprintf("projects/%s/%s/%s-%s", proj.ID, req.Type, uuid.NewString(), fileName)
	ref, err := s.store.Upload(ctx, storage.Object{
		Key:         key,
		ContentType: req.File.ContentType,
		Size:        req.File.Size,
		Body:        req.File.Body,
	})
	if err != nil {
		return nil, &repository.StorageError{Op: "upload version object", ID: proj.ID, Err: err}
	}

	fileURL, err := s.store.URL(ctx, ref, s.opts.URLTTL)
	if err != nil {
		s.removeObject(ctx, ref)
		return nil, &repository.StorageError{Op: "get version url", ID: proj.ID, Err: err}
	}

	var comment *string
	if req.Comment != nil {
		if trimmed := strings.TrimSpace(*req.Comment); trimmed != "" {
			comment = &trimmed
		}
	}

	v := &Version{
		ID:         uuid.NewString(),
		ProjectID:  proj.ID,
		UploadedBy: req.UploaderID,
		Type:       req.Type,
		FileURL:    fileURL,
		StorageKey: ref,
		FileName:   fileName,
		Comment:    comment,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.Create(ctx, v); err != nil {
		s.removeObject(ctx, ref)
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, project.ErrProjectNotFound
		}
		return nil, &repository.StorageError{Op: "create version", ID: proj.ID, Err: err}
	}

	if _, err := s.projects.ApplyUpload(ctx, proj, req.Type.Trigger(), req.UploaderID); err != nil {
		if derr := s.repo.Delete(ctx, v.ID); derr != nil {
			s.logger.Error("project update failed and version row was not removed",
				"project_id", proj.ID, "version_id", v.ID, "error", derr)
		}
		s.removeObject(ctx, ref)
		return nil, err
	}

	s.metrics.Upload(string(v.Type))
	s.logActivity(ctx, v.ProjectID, &v.UploadedBy, activity.ActionVersionUploaded, map[string]any{
		"version_id":     v.ID,
		"version_number": v.VersionNumber,
		"type":           v.Type,
	})
	s.publish(ctx, realtime.EventVersionCreated, v)
	return v, nil
}

// Get fetches a version by ID.
func (s *Service) Get(ctx context.Context, id string) (*Version, error) {
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, &repository.StorageError{Op: "get version", ID: id, Err: err}
	}
	return v, nil
}

// List returns the versions of a project, newest first. An empty t lists every type.
func (s *Service) List(ctx context.Context, projectID string, t Type) ([]Version, error) {
	if t != "" && !t.Valid() {
		return nil, fmt.Errorf("%w: unknown version type %q", ErrInvalidInput, t)
	}
	versions, err := s.repo.List(ctx, projectID, t)
	if err != nil {
		return nil, &repository.StorageError{Op: "list versions", ID: projectID, Err: err}
	}
	return versions, nil
}

// Delete removes the version row, then its backing object.
// A failed object removal is logged and does not fail the call.
func (s *Service) Delete(ctx context.Context, id string) error {
	v, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrVersionNotFound
		}
		return &repository.StorageError{Op: "delete version", ID: id, Err: err}
	}

	if v.StorageKey != "" {
		s.removeObject(ctx, v.StorageKey)
	}

	s.logActivity(ctx, v.ProjectID, nil, activity.ActionVersionDeleted, map[string]any{
		"version_id":     v.ID,
		"version_number": v.VersionNumber,
		"type":           v.Type,
	})
	s.publish(ctx, realtime.EventVersionDeleted, v)
	return nil
}

func (s *Service) removeObject(ctx context.Context, ref string) {
	if err := s.store.Delete(ctx, ref); err != nil {
		s.metrics.ObjectCleanupFailed()
		s.logger.Warn("failed to remove version object", "ref", ref, "error", err)
	}
}

func (s *Service) logActivity(ctx context.Context, projectID string, userID *string, action activity.Action, details any) {
	if s.activities == nil {
		return
	}
	entry := &activity.ActivityEntry{
		ProjectID: projectID,
		UserID:    userID,
		Action:    action,
		Details:   activity.Details(details),
		CreatedAt: time.Now(),
	}
	if err := s.activities.Log(ctx, entry); err != nil {
		s.logger.Warn("failed to log activity", "project_id", projectID, "action", action, "error", err)
	}
}

func (s *Service) publish(ctx context.Context, eventType string, v *Version) {
	if s.publisher == nil {
		return
	}
	ev, err := realtime.NewEvent(eventType, v.ProjectID, v)
	if err != nil {
		s.logger.Warn("failed to encode version event", "version_id", v.ID, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, realtime.ProjectTopic(v.ProjectID), ev); err != nil {
		s.logger.Warn("failed to publish version event", "version_id", v.ID, "error", err)
	}
}

func validateUpload(req UploadRequest) error {
	switch {
	case strings.TrimSpace(req.ProjectID) == "":
		return fmt.Errorf("%w: project_id is required", ErrInvalidInput)
	case strings.TrimSpace(req.UploaderID) == "":
		return fmt.Errorf("%w: uploader_id is required", ErrInvalidInput)
	case !req.Type.Valid():
		return fmt.Errorf("%w: unknown version type %q", ErrInvalidInput, req.Type)
	case strings.TrimSpace(req.File.Name) == "":
		return fmt.Errorf("%w: file name is required", ErrInvalidInput)
	case req.File.Body == nil:
		return fmt.Errorf("%w: file body is required", ErrInvalidInput)
	}
	return nil
}

func cleanFileName(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	base = strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r < 0x20 || r == '/' || r == '?' || r == '#':
			return -1
		}
		return r
	}, base)
	if base == "" || base == "." || base == ".." {
		return "file"
	}
	return base
}
