package comment_test

import (
	"context"
	"math"
	"testing"

	"github.com/rpggio/cutroom/internal/domain/comment"
	"github.com/rpggio/cutroom/internal/domain/project"
	"github.com/rpggio/cutroom/internal/domain/version"
	"github.com/rpggio/cutroom/internal/repository"
	"github.com/rpggio/cutroom/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func setup(ctx context.Context) (*mocks.CommentRepository, *comment.Service) {
	versions := &mocks.VersionService{}
	versions.On("Get", ctx, "v1").Return(&version.Version{ID: "v1", ProjectID: "p1"}, nil)
	versions.On("Get", ctx, "missing").Return((*version.Version)(nil), version.ErrVersionNotFound)

	projects := &mocks.ProjectService{}
	projects.On("Get", ctx, "p1").Return(&project.Project{ID: "p1", CreatorID: "c1", EditorID: strPtr("e1")}, nil)

	repo := &mocks.CommentRepository{}
	return repo, comment.NewService(repo, versions, projects, nil, nil)
}

func TestFormatTimestamp(t *testing.T) {
	require.Equal(t, "0:00", comment.FormatTimestamp(0))
	require.Equal(t, "0:07", comment.FormatTimestamp(7.9))
	require.Equal(t, "1:05", comment.FormatTimestamp(65))
	require.Equal(t, "61:01", comment.FormatTimestamp(3661))
	require.Equal(t, "0:00", comment.FormatTimestamp(-3))
	require.Equal(t, "0:00", comment.FormatTimestamp(math.NaN()))
}

func TestCommentService_Add(t *testing.T) {
	ctx := context.Background()
	repo, svc := setup(ctx)
	repo.On("Create", ctx, mock.MatchedBy(func(c *comment.Comment) bool {
		return c.VersionID == "v1" && c.ProjectID == "p1" && c.TimestampSeconds == 12.5
	})).Return(nil)

	c, err := svc.Add(ctx, comment.AddRequest{VersionID: "v1", AuthorID: "c1", TimestampSeconds: 12.5, Content: " louder "})
	require.NoError(t, err)
	require.Equal(t, "louder", c.Content)
	require.False(t, c.IsResolved)
	repo.AssertExpectations(t)
}

func TestCommentService_AddRules(t *testing.T) {
	ctx := context.Background()
	_, svc := setup(ctx)

	_, err := svc.Add(ctx, comment.AddRequest{VersionID: "v1", AuthorID: "c1", Content: ""})
	require.ErrorIs(t, err, comment.ErrInvalidInput)

	_, err = svc.Add(ctx, comment.AddRequest{VersionID: "v1", AuthorID: "c1", TimestampSeconds: -1, Content: "x"})
	require.ErrorIs(t, err, comment.ErrInvalidInput)

	_, err = svc.Add(ctx, comment.AddRequest{VersionID: "v1", AuthorID: "stranger", Content: "x"})
	require.ErrorIs(t, err, comment.ErrForbidden)

	_, err = svc.Add(ctx, comment.AddRequest{VersionID: "missing", AuthorID: "c1", Content: "x"})
	require.ErrorIs(t, err, version.ErrVersionNotFound)
}

func TestCommentService_EditDeleteAuthorOnly(t *testing.T) {
	ctx := context.Background()
	repo, svc := setup(ctx)
	existing := &comment.Comment{ID: "k1", VersionID: "v1", ProjectID: "p1", AuthorID: "e1", Content: "old"}
	repo.On("Get", ctx, "k1").Return(existing, nil)
	repo.On("UpdateContent", ctx, "k1", "new", mock.Anything).Return(nil)
	repo.On("Delete", ctx, "k1").Return(nil)

	_, err := svc.Edit(ctx, "k1", "c1", "new")
	require.ErrorIs(t, err, comment.ErrForbidden)
	require.ErrorIs(t, svc.Delete(ctx, "k1", "c1"), comment.ErrForbidden)

	_, err = svc.Edit(ctx, "k1", "e1", "new")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "k1", "e1"))
	repo.AssertExpectations(t)
}

func TestCommentService_ResolveByCreatorOrAuthor(t *testing.T) {
	ctx := context.Background()
	repo, svc := setup(ctx)
	repo.On("Get", ctx, "k1").Return(&comment.Comment{ID: "k1", VersionID: "v1", ProjectID: "p1", AuthorID: "e1"}, nil)
	repo.On("SetResolved", ctx, "k1", true, mock.Anything).Return(nil)

	_, err := svc.SetResolved(ctx, "k1", "c1", true)
	require.NoError(t, err)
	_, err = svc.SetResolved(ctx, "k1", "e1", true)
	require.NoError(t, err)
	_, err = svc.SetResolved(ctx, "k1", "stranger", true)
	require.ErrorIs(t, err, comment.ErrForbidden)
}

func TestCommentService_GetNotFound(t *testing.T) {
	ctx := context.Background()
	repo, svc := setup(ctx)
	repo.On("Get", ctx, "gone").Return((*comment.Comment)(nil), repository.ErrNotFound)

	_, err := svc.Get(ctx, "gone")
	require.ErrorIs(t, err, comment.ErrCommentNotFound)
}
