package integration_test

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/rpggio/cutroom/internal/domain/activity"
	"github.com/rpggio/cutroom/internal/domain/message"
	"github.com/rpggio/cutroom/internal/domain/profile"
	"github.com/rpggio/cutroom/internal/domain/project"
	"github.com/rpggio/cutroom/internal/domain/version"
	"github.com/rpggio/cutroom/internal/realtime"
	"github.com/rpggio/cutroom/internal/testserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	creatorID = "creator-1"
	editorID  = "editor-1"
)

type testEnv struct {
	*testserver.TestServer
	ctx context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ts := testserver.New(t, nil)
	ts.Onboard(t, creatorID, profile.RoleCreator)
	ts.Onboard(t, editorID, profile.RoleEditor)
	return &testEnv{TestServer: ts, ctx: context.Background()}
}

func (e *testEnv) create(t *testing.T, withEditor bool) *project.Project {
	t.Helper()
	req := project.CreateRequest{Title: "Product launch", Platform: project.PlatformYouTube, CreatorID: creatorID}
	if withEditor {
		id := editorID
		req.EditorID = &id
	}
	proj, err := e.Projects.Create(e.ctx, req)
	require.NoError(t, err)
	return proj
}

func (e *testEnv) upload(t *testing.T, projectID, uploaderID string, typ version.Type) *version.Version {
	t.Helper()
	v, err := e.Versions.Upload(e.ctx, version.UploadRequest{
		ProjectID:  projectID,
		UploaderID: uploaderID,
		Type:       typ,
		File: version.File{
			Name:        "take.mp4",
			ContentType: "video/mp4",
			Size:        6,
			Body:        bytes.NewReader([]byte("frames")),
		},
	})
	require.NoError(t, err)
	return v
}

func (e *testEnv) status(t *testing.T, projectID string) project.Status {
	t.Helper()
	proj, err := e.Projects.Get(e.ctx, projectID)
	require.NoError(t, err)
	return proj.Status
}

func TestIntegration_BriefingToCompleted(t *testing.T) {
	env := newTestEnv(t)

	var mu sync.Mutex
	var events []string
	proj := env.create(t, false)
	sub, err := env.Broker.Subscribe(env.ctx, realtime.ProjectTopic(proj.ID), func(ev realtime.Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev.Type)
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sub.Unsubscribe() })

	assert.Equal(t, project.StatusBriefing, proj.Status)

	_, err = env.Projects.AssignEditor(env.ctx, proj.ID, editorID)
	require.NoError(t, err)
	assert.Equal(t, project.StatusPendingAcceptance, env.status(t, proj.ID))

	_, err = env.Projects.AcceptAssignment(env.ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, project.StatusInEdit, env.status(t, proj.ID))

	assert.Equal(t, 1, env.upload(t, proj.ID, editorID, version.TypeEdited).VersionNumber)
	assert.Equal(t, project.StatusReview, env.status(t, proj.ID))

	_, err = env.Projects.RequestChanges(env.ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, project.StatusChangesRequested, env.status(t, proj.ID))

	assert.Equal(t, 2, env.upload(t, proj.ID, editorID, version.TypeEdited).VersionNumber)
	assert.Equal(t, project.StatusReview, env.status(t, proj.ID))

	_, err = env.Projects.Approve(env.ctx, proj.ID)
	require.NoError(t, err)

	rated, err := env.Projects.Rate(env.ctx, project.RateRequest{ProjectID: proj.ID, RaterID: creatorID, Rating: 4})
	require.NoError(t, err)
	require.NotNil(t, rated.CreatorRating)
	assert.Equal(t, 4, *rated.CreatorRating)

	_, err = env.Projects.Rate(env.ctx, project.RateRequest{ProjectID: proj.ID, RaterID: creatorID, Rating: 5})
	require.ErrorIs(t, err, project.ErrDuplicateRating)

	done, err := env.Projects.Complete(env.ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, project.StatusCompleted, done.Status)
	require.NotNil(t, done.CreatorRating)
	assert.Equal(t, 4, *done.CreatorRating)

	// Each edited upload notifies the creator; the changes request notifies the editor.
	assert.Equal(t, 2, done.UnreadCreatorMessages)
	assert.Equal(t, 1, done.UnreadEditorMessages)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, events, realtime.EventProjectUpdated)

	entries, err := env.Activity.GetRecentActivity(env.ctx, activity.ListActivityOptions{ProjectID: proj.ID})
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestIntegration_ApproveOutsideReviewKeepsStatus(t *testing.T) {
	env := newTestEnv(t)
	proj := env.create(t, true)

	_, err := env.Projects.Approve(env.ctx, proj.ID)
	var transition *project.TransitionError
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, project.StatusInEdit, transition.From)
	require.ErrorIs(t, err, project.ErrInvalidTransition)
	assert.Equal(t, project.StatusInEdit, env.status(t, proj.ID))
}

func TestIntegration_RawUploadsNeverMoveStatus(t *testing.T) {
	env := newTestEnv(t)

	briefing := env.create(t, false)
	inEdit := env.create(t, true)

	for i, want := range []int{0, 1, 2} {
		assert.Equal(t, want, env.upload(t, briefing.ID, creatorID, version.TypeRaw).VersionNumber, "upload %d", i)
	}
	assert.Equal(t, project.StatusBriefing, env.status(t, briefing.ID))

	env.upload(t, inEdit.ID, creatorID, version.TypeRaw)
	assert.Equal(t, project.StatusInEdit, env.status(t, inEdit.ID))
}

func TestIntegration_RawAndEditedNumberIndependently(t *testing.T) {
	env := newTestEnv(t)
	proj := env.create(t, true)

	raw0 := env.upload(t, proj.ID, creatorID, version.TypeRaw)
	cut1 := env.upload(t, proj.ID, editorID, version.TypeEdited)
	raw1 := env.upload(t, proj.ID, editorID, version.TypeRaw)
	cut2 := env.upload(t, proj.ID, editorID, version.TypeEdited)

	assert.Equal(t, 0, raw0.VersionNumber)
	assert.Equal(t, 1, raw1.VersionNumber)
	assert.Equal(t, 1, cut1.VersionNumber)
	assert.Equal(t, 2, cut2.VersionNumber)

	edited, err := env.Versions.List(env.ctx, proj.ID, version.TypeEdited)
	require.NoError(t, err)
	require.Len(t, edited, 2)
	assert.Equal(t, cut2.ID, edited[0].ID)

	require.NoError(t, env.Versions.Delete(env.ctx, raw1.ID))
	all, err := env.Versions.List(env.ctx, proj.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, 3, env.Store.Len())
}

func TestIntegration_ConcurrentUnreadIncrements(t *testing.T) {
	env := newTestEnv(t)
	proj := env.create(t, true)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = env.Projects.IncrementUnread(env.ctx, proj.ID, project.RoleEditor)
		}()
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	got, err := env.Projects.Get(env.ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.UnreadEditorMessages)
	assert.Equal(t, 0, got.UnreadCreatorMessages)
}

func TestIntegration_ConcurrentAnswersApplyOnce(t *testing.T) {
	env := newTestEnv(t)
	proj := env.create(t, false)
	_, err := env.Projects.AssignEditor(env.ctx, proj.ID, editorID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	steps := []func(context.Context, string) (*project.Project, error){
		env.Projects.AcceptAssignment,
		env.Projects.RejectAssignment,
	}
	for i, step := range steps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = step(env.ctx, proj.ID)
		}()
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			require.ErrorIs(t, err, project.ErrInvalidTransition)
			failed++
		}
	}
	assert.Equal(t, 1, failed)
	assert.Contains(t, []project.Status{project.StatusInEdit, project.StatusBriefing}, env.status(t, proj.ID))
}

func TestIntegration_MessagesDriveUnread(t *testing.T) {
	env := newTestEnv(t)
	proj := env.create(t, true)

	_, err := env.Messages.Send(env.ctx, proj.ID, creatorID, "can you add captions?")
	require.NoError(t, err)
	_, err = env.Messages.Send(env.ctx, proj.ID, editorID, "sure")
	require.NoError(t, err)
	_, err = env.Messages.Send(env.ctx, proj.ID, editorID, "done")
	require.NoError(t, err)

	got, err := env.Projects.Get(env.ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.UnreadEditorMessages)
	assert.Equal(t, 2, got.UnreadCreatorMessages)

	require.NoError(t, env.Projects.ResetUnread(env.ctx, proj.ID, project.RoleCreator))
	got, err = env.Projects.Get(env.ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.UnreadCreatorMessages)
	assert.Equal(t, 1, got.UnreadEditorMessages)

	msgs, err := env.Messages.List(env.ctx, proj.ID, message.ListOptions{})
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "can you add captions?", msgs[0].Content)
}
