package comment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/cutroom/internal/domain/version"
	"github.com/rpggio/cutroom/internal/realtime"
	"github.com/rpggio/cutroom/internal/repository"
)

// Publisher pushes comment events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, topic string, event realtime.Event) error
}

// Service manages video comments.
type Service struct {
	repo      Repository
	versions  Versions
	projects  Projects
	publisher Publisher
	logger    *slog.Logger
}

// NewService creates a new comment service.
func NewService(repo Repository, versions Versions, projects Projects, publisher Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:      repo,
		versions:  versions,
		projects:  projects,
		publisher: publisher,
		logger:    logger,
	}
}

// Add attaches a comment to a version at a playback position.
// Only participants of the version's project may comment.
func (s *Service) Add(ctx context.Context, req AddRequest) (*Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if req.TimestampSeconds < 0 || math.IsNaN(req.TimestampSeconds) || math.IsInf(req.TimestampSeconds, 0) {
		return nil, fmt.Errorf("%w: timestamp must be a non-negative number of seconds", ErrInvalidInput)
	}

	v, err := s.versions.Get(ctx, req.VersionID)
	if err != nil {
		return nil, err
	}
	proj, err := s.projects.Get(ctx, v.ProjectID)
	if err != nil {
		return nil, err
	}
	if proj.RoleOf(req.AuthorID) == "" {
		return nil, ErrForbidden
	}

	now := time.Now()
	c := &Comment{
		ID:               uuid.NewString(),
		VersionID:        v.ID,
		ProjectID:        v.ProjectID,
		AuthorID:         req.AuthorID,
		TimestampSeconds: req.TimestampSeconds,
		Content:          content,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, version.ErrVersionNotFound
		}
		return nil, &repository.StorageError{Op: "create comment", ID: v.ID, Err: err}
	}

	s.publish(ctx, realtime.EventCommentCreated, c)
	return c, nil
}

// Get fetches a comment by ID.
func (s *Service) Get(ctx context.Context, id string) (*Comment, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, &repository.StorageError{Op: "get comment", ID: id, Err: err}
	}
	return c, nil
}

// Edit replaces the content of the author's own comment.
func (s *Service) Edit(ctx context.Context, id, userID, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.AuthorID != userID {
		return nil, ErrForbidden
	}
	if err := s.repo.UpdateContent(ctx, id, content, time.Now()); err != nil {
		return nil, s.storageErr("edit comment", id, err)
	}
	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, realtime.EventCommentUpdated, updated)
	return updated, nil
}

// Delete removes the author's own comment.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if c.AuthorID != userID {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.storageErr("delete comment", id, err)
	}
	s.publish(ctx, realtime.EventCommentDeleted, c)
	return nil
}

// SetResolved marks a comment resolved or open again.
// The project's creator and the comment's author may do so.
func (s *Service) SetResolved(ctx context.Context, id, userID string, resolved bool) (*Comment, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.AuthorID != userID {
		proj, err := s.projects.Get(ctx, c.ProjectID)
		if err != nil {
			return nil, err
		}
		if proj.CreatorID != userID {
			return nil, ErrForbidden
		}
	}
	if err := s.repo.SetResolved(ctx, id, resolved, time.Now()); err != nil {
		return nil, s.storageErr("resolve comment", id, err)
	}
	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, realtime.EventCommentUpdated, updated)
	return updated, nil
}

// List returns the comments of a version ordered by timestamp.
func (s *Service) List(ctx context.Context, versionID string, includeResolved bool) ([]Comment, error) {
	comments, err := s.repo.List(ctx, versionID, includeResolved)
	if err != nil {
		return nil, &repository.StorageError{Op: "list comments", ID: versionID, Err: err}
	}
	return comments, nil
}

func (s *Service) storageErr(op, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCommentNotFound
	}
	return &repository.StorageError{Op: op, ID: id, Err: err}
}

func (s *Service) publish(ctx context.Context, eventType string, c *Comment) {
	if s.publisher == nil {
		return
	}
	ev, err := realtime.NewEvent(eventType, c.ProjectID, c)
	if err != nil {
		s.logger.Warn("failed to encode comment event", "comment_id", c.ID, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, realtime.CommentsTopic(c.VersionID), ev); err != nil {
		s.logger.Warn("failed to publish comment event", "comment_id", c.ID, "error", err)
	}
}
