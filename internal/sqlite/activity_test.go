package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/cutroom/internal/domain/activity"
	"github.com/rpggio/cutroom/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedParticipants(t, db)
	insertProject(t, db, "p1", project.StatusBriefing, nil)

	repo := NewActivityRepository(db)
	entry1 := &activity.ActivityEntry{
		ProjectID: "p1",
		UserID:    strPtr("c1"),
		Action:    activity.ActionProjectCreated,
		Details:   `{"title":"Reel"}`,
	}
	entry2 := &activity.ActivityEntry{
		ProjectID: "p1",
		Action:    activity.ActionVersionDeleted,
	}

	require.NoError(t, repo.Log(ctx, entry1))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, repo.Log(ctx, entry2))
	require.NotZero(t, entry1.ID)
	require.False(t, entry1.CreatedAt.IsZero())

	entries, err := repo.List(ctx, activity.ListActivityOptions{ProjectID: "p1"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, activity.ActionVersionDeleted, entries[0].Action)
	require.Nil(t, entries[0].UserID)
	require.Equal(t, "c1", *entries[1].UserID)
	require.JSONEq(t, `{"title":"Reel"}`, entries[1].Details)

	action := activity.ActionProjectCreated
	filtered, err := repo.List(ctx, activity.ListActivityOptions{Action: &action})
	require.NoError(t, err)
	require.Len(t, filtered, 1)

	limited, err := repo.List(ctx, activity.ListActivityOptions{ProjectID: "p1", Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestActivityRepository_ByParticipant(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedParticipants(t, db)
	insertProject(t, db, "mine", project.StatusInEdit, strPtr("e1"))
	insertProject(t, db, "theirs", project.StatusInEdit, strPtr("e2"))

	repo := NewActivityRepository(db)
	require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{ProjectID: "mine", Action: activity.ActionMessageSent}))
	require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{ProjectID: "theirs", Action: activity.ActionMessageSent}))

	entries, err := repo.List(ctx, activity.ListActivityOptions{ParticipantID: "e1"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "mine", entries[0].ProjectID)

	creatorView, err := repo.List(ctx, activity.ListActivityOptions{ParticipantID: "c1"})
	require.NoError(t, err)
	require.Len(t, creatorView, 2)
}
