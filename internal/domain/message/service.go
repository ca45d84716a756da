package message

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rpggio/cutroom/internal/domain/activity"
	"github.com/rpggio/cutroom/internal/domain/project"
	"github.com/rpggio/cutroom/internal/metrics"
	"github.com/rpggio/cutroom/internal/realtime"
	"github.com/rpggio/cutroom/internal/repository"
)

// Service handles project chat.
type Service struct {
	repo       Repository
	projects   Projects
	activities ActivityRepository
	broker     realtime.Broker
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewService creates a new message service.
func NewService(
	repo Repository,
	projects Projects,
	activities ActivityRepository,
	broker realtime.Broker,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:       repo,
		projects:   projects,
		activities: activities,
		broker:     broker,
		metrics:    m,
		logger:     logger,
	}
}

// Send stores a message and bumps the unread counter of the other participant.
func (s *Service) Send(ctx context.Context, projectID, senderID, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, fmt.Errorf("%w: content exceeds %d characters", ErrInvalidInput, MaxContentLength)
	}

	proj, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	role := proj.RoleOf(senderID)
	if role == "" {
		return nil, ErrForbidden
	}

	msg := &Message{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, project.ErrProjectNotFound
		}
		return nil, &repository.StorageError{Op: "create message", ID: projectID, Err: err}
	}

	recipient := role.Counterpart()
	if err := s.projects.IncrementUnread(ctx, projectID, recipient); err != nil {
		s.logger.Error("message stored but unread counter not incremented",
			"project_id", projectID, "message_id", msg.ID, "role", recipient, "error", err)
		var se *repository.StorageError
		if errors.As(err, &se) || errors.Is(err, project.ErrProjectNotFound) {
			return nil, err
		}
		return nil, &repository.StorageError{Op: "increment unread", ID: projectID, Err: err}
	}

	s.metrics.MessageSent()
	if s.activities != nil {
		entry := &activity.ActivityEntry{
			ProjectID: projectID,
			UserID:    &msg.SenderID,
			Action:    activity.ActionMessageSent,
			Details:   activity.Details(map[string]any{"message_id": msg.ID}),
			CreatedAt: msg.CreatedAt,
		}
		if err := s.activities.Log(ctx, entry); err != nil {
			s.logger.Warn("failed to log activity", "project_id", projectID, "error", err)
		}
	}
	s.publish(ctx, msg)
	return msg, nil
}

// List returns a project's messages, oldest first.
func (s *Service) List(ctx context.Context, projectID string, opts ListOptions) ([]Message, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	msgs, err := s.repo.List(ctx, projectID, opts)
	if err != nil {
		return nil, &repository.StorageError{Op: "list messages", ID: projectID, Err: err}
	}
	return msgs, nil
}

// Subscribe delivers messages created on the project after the call returns.
func (s *Service) Subscribe(ctx context.Context, projectID string, handler func(Message)) (realtime.Subscription, error) {
	if s.broker == nil {
		return nil, fmt.Errorf("no realtime broker configured")
	}
	return s.broker.Subscribe(ctx, realtime.MessagesTopic(projectID), func(ev realtime.Event) {
		if ev.Type != realtime.EventMessageCreated {
			return
		}
		var msg Message
		if err := ev.Decode(&msg); err != nil {
			s.logger.Warn("failed to decode message event", "project_id", projectID, "error", err)
			return
		}
		handler(msg)
	})
}

func (s *Service) publish(ctx context.Context, msg *Message) {
	if s.broker == nil {
		return
	}
	ev, err := realtime.NewEvent(realtime.EventMessageCreated, msg.ProjectID, msg)
	if err != nil {
		s.logger.Warn("failed to encode message event", "message_id", msg.ID, "error", err)
		return
	}
	if err := s.broker.Publish(ctx, realtime.MessagesTopic(msg.ProjectID), ev); err != nil {
		s.logger.Warn("failed to publish message event", "message_id", msg.ID, "error", err)
	}
}
