package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/cutroom/internal/domain/comment"
	"github.com/rpggio/cutroom/internal/domain/project"
	"github.com/rpggio/cutroom/internal/domain/version"
	"github.com/rpggio/cutroom/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_Lifecycle(t *testing.T) {
	db := NewTestDB(t)
	seedParticipants(t, db)
	insertProject(t, db, "p1", project.StatusReview, strPtr("e1"))
	require.NoError(t, NewVersionRepository(db).Create(context.Background(), newVersion("v1", "p1", version.TypeEdited)))
	repo := NewCommentRepository(db)
	ctx := context.Background()

	now := time.Now()
	late := &comment.Comment{ID: "k2", VersionID: "v1", ProjectID: "p1", AuthorID: "c1", TimestampSeconds: 75.5, Content: "music too loud", CreatedAt: now, UpdatedAt: now}
	early := &comment.Comment{ID: "k1", VersionID: "v1", ProjectID: "p1", AuthorID: "c1", TimestampSeconds: 3, Content: "cut intro", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, late))
	require.NoError(t, repo.Create(ctx, early))

	list, err := repo.List(ctx, "v1", true)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "k1", list[0].ID)
	require.Equal(t, 75.5, list[1].TimestampSeconds)

	require.NoError(t, repo.UpdateContent(ctx, "k1", "cut the intro", time.Now()))
	require.NoError(t, repo.SetResolved(ctx, "k1", true, time.Now()))

	got, err := repo.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, "cut the intro", got.Content)
	require.True(t, got.IsResolved)

	open, err := repo.List(ctx, "v1", false)
	require.NoError(t, err)
	require.Len(t, open, 1)
	require.Equal(t, "k2", open[0].ID)

	require.NoError(t, repo.Delete(ctx, "k2"))
	require.ErrorIs(t, repo.Delete(ctx, "k2"), repository.ErrNotFound)
	require.ErrorIs(t, repo.UpdateContent(ctx, "k2", "x", time.Now()), repository.ErrNotFound)
}

func TestCommentRepository_CascadeOnVersionDelete(t *testing.T) {
	db := NewTestDB(t)
	seedParticipants(t, db)
	insertProject(t, db, "p1", project.StatusReview, strPtr("e1"))
	versions := NewVersionRepository(db)
	ctx := context.Background()
	require.NoError(t, versions.Create(ctx, newVersion("v1", "p1", version.TypeEdited)))

	repo := NewCommentRepository(db)
	now := time.Now()
	require.NoError(t, repo.Create(ctx, &comment.Comment{ID: "k1", VersionID: "v1", ProjectID: "p1", AuthorID: "c1", Content: "x", CreatedAt: now, UpdatedAt: now}))

	require.NoError(t, versions.Delete(ctx, "v1"))
	_, err := repo.Get(ctx, "k1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
