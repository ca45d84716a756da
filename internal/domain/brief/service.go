package brief

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/cutroom/internal/domain/activity"
	"github.com/rpggio/cutroom/internal/domain/project"
	"github.com/rpggio/cutroom/internal/metrics"
	"github.com/rpggio/cutroom/internal/repository"
	"github.com/rpggio/cutroom/internal/storage"
)

const defaultTranscriptionTimeout = 2 * time.Minute

// Service records voice briefs and dispatches their transcription.
type Service struct {
	projects    Projects
	store       storage.ObjectStore
	transcriber Transcriber
	activities  ActivityRepository
	metrics     *metrics.Metrics
	logger      *slog.Logger
	opts        Options

	wg sync.WaitGroup
}

// NewService creates a new brief service. A nil transcriber disables transcription.
func NewService(
	projects Projects,
	store storage.ObjectStore,
	transcriber Transcriber,
	activities ActivityRepository,
	m *metrics.Metrics,
	logger *slog.Logger,
	opts Options,
) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTranscriptionTimeout
	}
	opts.URLTTL = storage.ClampTTL(opts.URLTTL)
	return &Service{
		projects:    projects,
		store:       store,
		transcriber: transcriber,
		activities:  activities,
		metrics:     m,
		logger:      logger,
		opts:        opts,
	}
}

// Upload stores the audio, records its URL on the project and starts transcription
// in the background. The returned project reflects the stored URL only.
func (s *Service) Upload(ctx context.Context, projectID, uploaderID string, audio Audio) (*project.Project, error) {
	if audio.Body == nil {
		return nil, fmt.Errorf("%w: audio body is required", ErrInvalidInput)
	}

	proj, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if proj.CreatorID != uploaderID {
		return nil, ErrForbidden
	}

	name := path.Base(strings.TrimSpace(audio.Name))
	if name == "" || name == "." || name == "/" {
		name = "brief.webm"
	}
	contentType := audio.ContentType
	if contentType == "" {
		contentType = "audio/webm"
	}

	key := fmt.Sprintf("projects/%s/voice-brief/%s-%s", projectID, uuid.NewString(), name)
	ref, err := s.store.Upload(ctx, storage.Object{
		Key:         key,
		ContentType: contentType,
		Size:        audio.Size,
		Body:        audio.Body,
	})
	if err != nil {
		return nil, &repository.StorageError{Op: "upload voice brief", ID: projectID, Err: err}
	}
	url, err := s.store.URL(ctx, ref, s.opts.URLTTL)
	if err != nil {
		s.removeObject(ctx, ref)
		return nil, &repository.StorageError{Op: "get voice brief url", ID: projectID, Err: err}
	}
	if err := s.projects.AttachVoiceBrief(ctx, projectID, url); err != nil {
		s.removeObject(ctx, ref)
		return nil, err
	}

	if s.activities != nil {
		entry := &activity.ActivityEntry{
			ProjectID: projectID,
			UserID:    &uploaderID,
			Action:    activity.ActionVoiceBriefUploaded,
			CreatedAt: time.Now(),
		}
		if err := s.activities.Log(ctx, entry); err != nil {
			s.logger.Warn("failed to log activity", "project_id", projectID, "error", err)
		}
	}

	s.dispatch(projectID, url)
	return s.projects.Get(ctx, projectID)
}

// Wait blocks until every dispatched transcription has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// dispatch transcribes on a detached context. Failures are logged and counted only.
func (s *Service) dispatch(projectID, url string) {
	if s.transcriber == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.Timeout)
		defer cancel()

		err := s.transcribe(ctx, projectID, url)
		if errors.Is(err, project.ErrBriefReplaced) {
			s.metrics.Transcription("stale")
			s.logger.Info("voice brief replaced before transcription finished", "project_id", projectID)
			return
		}
		if err != nil {
			s.metrics.Transcription("error")
			s.logger.Warn("voice brief transcription failed", "project_id", projectID, "error", err)
			return
		}
		s.metrics.Transcription("ok")
		s.logger.Info("voice brief transcribed", "project_id", projectID)
	}()
}

func (s *Service) transcribe(ctx context.Context, projectID, url string) error {
	res, err := s.transcriber.Transcribe(ctx, projectID, url)
	if err != nil {
		return err
	}
	instructions, err := json.Marshal(res.Parsed)
	if err != nil {
		return fmt.Errorf("failed to encode instructions: %w", err)
	}
	language := res.Language
	if language == "" {
		language = "unknown"
	}
	return s.projects.StoreTranscription(ctx, projectID, project.Transcription{
		BriefURL:     url,
		Transcript:   res.Transcript,
		Language:     language,
		Instructions: string(instructions),
	})
}

func (s *Service) removeObject(ctx context.Context, ref string) {
	if err := s.store.Delete(ctx, ref); err != nil {
		s.logger.Warn("failed to remove voice brief object", "ref", ref, "error", err)
	}
}
