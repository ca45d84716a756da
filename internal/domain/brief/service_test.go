package brief_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rpggio/cutroom/internal/domain/brief"
	"github.com/rpggio/cutroom/internal/domain/project"
	"github.com/rpggio/cutroom/internal/repository"
	"github.com/rpggio/cutroom/internal/repository/mocks"
	"github.com/rpggio/cutroom/internal/storage"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAudio() brief.Audio {
	return brief.Audio{Name: "note.webm", ContentType: "audio/webm", Body: strings.NewReader("opus")}
}

func TestBriefService_UploadTranscribes(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore("")

	projects := &mocks.ProjectService{}
	projects.On("Get", ctx, "p1").Return(&project.Project{ID: "p1", CreatorID: "c1"}, nil)
	projects.On("AttachVoiceBrief", ctx, "p1", mock.AnythingOfType("string")).Return(nil)
	projects.On("StoreTranscription", mock.Anything, "p1", mock.MatchedBy(func(tr project.Transcription) bool {
		return strings.Contains(tr.BriefURL, "projects/p1/voice-brief/") &&
			tr.Transcript == "cut the intro" &&
			tr.Language == "unknown" &&
			strings.Contains(tr.Instructions, `"summary":"shorter intro"`)
	})).Return(nil)

	transcriber := &mocks.Transcriber{}
	transcriber.On("Transcribe", mock.Anything, "p1", mock.AnythingOfType("string")).Return(&brief.Result{
		Transcript: "cut the intro",
		Parsed:     brief.ParsedInstructions{Summary: "shorter intro"},
	}, nil)

	svc := brief.NewService(projects, store, transcriber, nil, nil, nil, brief.Options{})
	_, err := svc.Upload(ctx, "p1", "c1", newAudio())
	require.NoError(t, err)
	svc.Wait()

	require.Equal(t, 1, store.Len())
	projects.AssertExpectations(t)
	transcriber.AssertExpectations(t)
}

func TestBriefService_TranscriptionFailureIsSilent(t *testing.T) {
	ctx := context.Background()

	projects := &mocks.ProjectService{}
	projects.On("Get", ctx, "p1").Return(&project.Project{ID: "p1", CreatorID: "c1"}, nil)
	projects.On("AttachVoiceBrief", ctx, "p1", mock.Anything).Return(nil)

	transcriber := &mocks.Transcriber{}
	transcriber.On("Transcribe", mock.Anything, "p1", mock.Anything).Return((*brief.Result)(nil), errors.New("model unavailable"))

	svc := brief.NewService(projects, storage.NewMemoryStore(""), transcriber, nil, nil, nil, brief.Options{})
	_, err := svc.Upload(ctx, "p1", "c1", newAudio())
	require.NoError(t, err)
	svc.Wait()

	projects.AssertNotCalled(t, "StoreTranscription", mock.Anything, mock.Anything, mock.Anything)
}

func TestBriefService_CreatorOnly(t *testing.T) {
	ctx := context.Background()

	projects := &mocks.ProjectService{}
	projects.On("Get", ctx, "p1").Return(&project.Project{ID: "p1", CreatorID: "c1"}, nil)

	store := storage.NewMemoryStore("")
	svc := brief.NewService(projects, store, nil, nil, nil, nil, brief.Options{})
	_, err := svc.Upload(ctx, "p1", "e1", newAudio())
	require.ErrorIs(t, err, brief.ErrForbidden)
	require.Equal(t, 0, store.Len())

	_, err = svc.Upload(ctx, "p1", "c1", brief.Audio{})
	require.ErrorIs(t, err, brief.ErrInvalidInput)
}

func TestBriefService_AttachFailureRemovesObject(t *testing.T) {
	ctx := context.Background()

	projects := &mocks.ProjectService{}
	projects.On("Get", ctx, "p1").Return(&project.Project{ID: "p1", CreatorID: "c1"}, nil)
	projects.On("AttachVoiceBrief", ctx, "p1", mock.Anything).Return(project.ErrProjectNotFound)

	store := storage.NewMemoryStore("")
	svc := brief.NewService(projects, store, nil, nil, nil, nil, brief.Options{})
	_, err := svc.Upload(ctx, "p1", "c1", newAudio())
	require.ErrorIs(t, err, project.ErrProjectNotFound)
	require.Equal(t, 0, store.Len())
}

func TestBriefService_URLFailureRemovesObject(t *testing.T) {
	ctx := context.Background()

	projects := &mocks.ProjectService{}
	projects.On("Get", ctx, "p1").Return(&project.Project{ID: "p1", CreatorID: "c1"}, nil)

	store := &mocks.ObjectStore{}
	store.On("Upload", ctx, mock.Anything).Return("ref1", nil)
	store.On("URL", ctx, "ref1", mock.Anything).Return("", errors.New("signer offline"))
	store.On("Delete", ctx, "ref1").Return(nil)

	svc := brief.NewService(projects, store, nil, nil, nil, nil, brief.Options{})
	_, err := svc.Upload(ctx, "p1", "c1", newAudio())

	var se *repository.StorageError
	require.True(t, errors.As(err, &se))
	require.Equal(t, "get voice brief url", se.Op)
	store.AssertCalled(t, "Delete", ctx, "ref1")
	projects.AssertNotCalled(t, "AttachVoiceBrief", mock.Anything, mock.Anything, mock.Anything)
}

func TestBriefService_ReplacedBriefTranscriptionDropped(t *testing.T) {
	ctx := context.Background()

	projects := &mocks.ProjectService{}
	projects.On("Get", ctx, "p1").Return(&project.Project{ID: "p1", CreatorID: "c1"}, nil)
	projects.On("AttachVoiceBrief", ctx, "p1", mock.Anything).Return(nil)
	projects.On("StoreTranscription", mock.Anything, "p1", mock.Anything).Return(project.ErrBriefReplaced)

	transcriber := &mocks.Transcriber{}
	transcriber.On("Transcribe", mock.Anything, "p1", mock.Anything).Return(&brief.Result{Transcript: "old words"}, nil)

	svc := brief.NewService(projects, storage.NewMemoryStore(""), transcriber, nil, nil, nil, brief.Options{})
	_, err := svc.Upload(ctx, "p1", "c1", newAudio())
	require.NoError(t, err)
	svc.Wait()

	projects.AssertExpectations(t)
}
