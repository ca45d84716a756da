package mocks

import (
	"context"
	"time"

	"github.com/rpggio/cutroom/internal/domain/activity"
	"github.com/rpggio/cutroom/internal/domain/brief"
	"github.com/rpggio/cutroom/internal/domain/comment"
	"github.com/rpggio/cutroom/internal/domain/message"
	"github.com/rpggio/cutroom/internal/domain/profile"
	"github.com/rpggio/cutroom/internal/domain/project"
	"github.com/rpggio/cutroom/internal/domain/version"
	"github.com/rpggio/cutroom/internal/realtime"
	"github.com/rpggio/cutroom/internal/storage"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, opts project.ListOptions) ([]project.Project, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) ApplyChange(ctx context.Context, change project.Change) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}

func (m *ProjectRepository) Touch(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *ProjectRepository) IncrementUnread(ctx context.Context, id string, role project.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *ProjectRepository) ResetUnread(ctx context.Context, id string, role project.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *ProjectRepository) SetRating(ctx context.Context, rating project.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *ProjectRepository) SetVoiceBrief(ctx context.Context, id, url string, at time.Time) error {
	args := m.Called(ctx, id, url, at)
	return args.Error(0)
}

func (m *ProjectRepository) SetTranscription(ctx context.Context, id string, t project.Transcription, at time.Time) error {
	args := m.Called(ctx, id, t, at)
	return args.Error(0)
}

// ProjectService is a mock for the project operations other services depend on.
type ProjectService struct {
	mock.Mock
}

func (m *ProjectService) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectService) CheckUploader(ctx context.Context, proj *project.Project, t project.Trigger, uploaderID string) error {
	args := m.Called(ctx, proj, t, uploaderID)
	return args.Error(0)
}

func (m *ProjectService) ApplyUpload(ctx context.Context, proj *project.Project, t project.Trigger, uploaderID string) (*project.Project, error) {
	args := m.Called(ctx, proj, t, uploaderID)
	if updated, ok := args.Get(0).(*project.Project); ok {
		return updated, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectService) IncrementUnread(ctx context.Context, projectID string, role project.Role) error {
	args := m.Called(ctx, projectID, role)
	return args.Error(0)
}

func (m *ProjectService) AttachVoiceBrief(ctx context.Context, projectID, url string) error {
	args := m.Called(ctx, projectID, url)
	return args.Error(0)
}

func (m *ProjectService) StoreTranscription(ctx context.Context, projectID string, t project.Transcription) error {
	args := m.Called(ctx, projectID, t)
	return args.Error(0)
}

// VersionRepository is a mock for version.Repository.
type VersionRepository struct {
	mock.Mock
}

func (m *VersionRepository) Create(ctx context.Context, v *version.Version) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *VersionRepository) Get(ctx context.Context, id string) (*version.Version, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*version.Version); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *VersionRepository) List(ctx context.Context, projectID string, t version.Type) ([]version.Version, error) {
	args := m.Called(ctx, projectID, t)
	if list, ok := args.Get(0).([]version.Version); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *VersionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// VersionService is a mock for comment.Versions.
type VersionService struct {
	mock.Mock
}

func (m *VersionService) Get(ctx context.Context, id string) (*version.Version, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*version.Version); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

// MessageRepository is a mock for message.Repository.
type MessageRepository struct {
	mock.Mock
}

func (m *MessageRepository) Create(ctx context.Context, msg *message.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MessageRepository) List(ctx context.Context, projectID string, opts message.ListOptions) ([]message.Message, error) {
	args := m.Called(ctx, projectID, opts)
	if list, ok := args.Get(0).([]message.Message); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// CommentRepository is a mock for comment.Repository.
type CommentRepository struct {
	mock.Mock
}

func (m *CommentRepository) Create(ctx context.Context, c *comment.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CommentRepository) Get(ctx context.Context, id string) (*comment.Comment, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*comment.Comment); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CommentRepository) UpdateContent(ctx context.Context, id, content string, at time.Time) error {
	args := m.Called(ctx, id, content, at)
	return args.Error(0)
}

func (m *CommentRepository) SetResolved(ctx context.Context, id string, resolved bool, at time.Time) error {
	args := m.Called(ctx, id, resolved, at)
	return args.Error(0)
}

func (m *CommentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CommentRepository) List(ctx context.Context, versionID string, includeResolved bool) ([]comment.Comment, error) {
	args := m.Called(ctx, versionID, includeResolved)
	if list, ok := args.Get(0).([]comment.Comment); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ProfileRepository is a mock for profile.Repository.
type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProfileRepository) Get(ctx context.Context, id string) (*profile.Profile, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*profile.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProfileRepository) ListByRole(ctx context.Context, role profile.Role) ([]profile.Profile, error) {
	args := m.Called(ctx, role)
	if list, ok := args.Get(0).([]profile.Profile); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ObjectStore is a mock for storage.ObjectStore.
type ObjectStore struct {
	mock.Mock
}

func (m *ObjectStore) Upload(ctx context.Context, obj storage.Object) (string, error) {
	args := m.Called(ctx, obj)
	return args.String(0), args.Error(1)
}

func (m *ObjectStore) URL(ctx context.Context, ref string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, ref, ttl)
	return args.String(0), args.Error(1)
}

func (m *ObjectStore) Delete(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

// Publisher is a mock for the realtime publish side.
type Publisher struct {
	mock.Mock
}

func (m *Publisher) Publish(ctx context.Context, topic string, event realtime.Event) error {
	args := m.Called(ctx, topic, event)
	return args.Error(0)
}

// Transcriber is a mock for brief.Transcriber.
type Transcriber struct {
	mock.Mock
}

func (m *Transcriber) Transcribe(ctx context.Context, projectID, audioURL string) (*brief.Result, error) {
	args := m.Called(ctx, projectID, audioURL)
	if res, ok := args.Get(0).(*brief.Result); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}
