package message_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rpggio/cutroom/internal/domain/message"
	"github.com/rpggio/cutroom/internal/domain/project"
	"github.com/rpggio/cutroom/internal/realtime"
	"github.com/rpggio/cutroom/internal/repository"
	"github.com/rpggio/cutroom/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMessageService_SendIncrementsRecipient(t *testing.T) {
	ctx := context.Background()

	projects := &mocks.ProjectService{}
	projects.On("Get", ctx, "p1").Return(&project.Project{ID: "p1", CreatorID: "c1", EditorID: strPtr("e1")}, nil)
	projects.On("IncrementUnread", ctx, "p1", project.RoleCreator).Return(nil)

	repo := &mocks.MessageRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := message.NewService(repo, projects, nil, nil, nil, nil)
	msg, err := svc.Send(ctx, "p1", "e1", "  first cut is up  ")
	require.NoError(t, err)
	require.Equal(t, "first cut is up", msg.Content)
	require.NotEmpty(t, msg.ID)

	projects.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestMessageService_SendFailsWhenUnreadNotIncremented(t *testing.T) {
	ctx := context.Background()

	ioErr := errors.New("disk I/O error")
	projects := &mocks.ProjectService{}
	projects.On("Get", ctx, "p1").Return(&project.Project{ID: "p1", CreatorID: "c1", EditorID: strPtr("e1")}, nil)
	projects.On("IncrementUnread", ctx, "p1", project.RoleCreator).Return(ioErr)

	repo := &mocks.MessageRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)

	broker := realtime.NewMemoryBroker()
	svc := message.NewService(repo, projects, nil, broker, nil, nil)

	var got []message.Message
	sub, err := svc.Subscribe(ctx, "p1", func(m message.Message) { got = append(got, m) })
	require.NoError(t, err)
	defer sub.Unsubscribe()

	msg, err := svc.Send(ctx, "p1", "e1", "cut is ready")
	require.Nil(t, msg)
	require.ErrorIs(t, err, ioErr)
	var se *repository.StorageError
	require.True(t, errors.As(err, &se))
	require.Equal(t, "increment unread", se.Op)
	require.Empty(t, got)
}

func TestMessageService_SendValidation(t *testing.T) {
	ctx := context.Background()

	projects := &mocks.ProjectService{}
	projects.On("Get", ctx, "p1").Return(&project.Project{ID: "p1", CreatorID: "c1", EditorID: strPtr("e1")}, nil)

	svc := message.NewService(&mocks.MessageRepository{}, projects, nil, nil, nil, nil)

	_, err := svc.Send(ctx, "p1", "c1", "   ")
	require.ErrorIs(t, err, message.ErrInvalidInput)

	_, err = svc.Send(ctx, "p1", "c1", strings.Repeat("a", message.MaxContentLength+1))
	require.ErrorIs(t, err, message.ErrInvalidInput)

	_, err = svc.Send(ctx, "p1", "stranger", "hi")
	require.ErrorIs(t, err, message.ErrForbidden)
}

func TestMessageService_SubscribeReceivesSends(t *testing.T) {
	ctx := context.Background()
	broker := realtime.NewMemoryBroker()

	projects := &mocks.ProjectService{}
	projects.On("Get", ctx, "p1").Return(&project.Project{ID: "p1", CreatorID: "c1", EditorID: strPtr("e1")}, nil)
	projects.On("IncrementUnread", ctx, "p1", project.RoleEditor).Return(nil)

	repo := &mocks.MessageRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := message.NewService(repo, projects, nil, broker, nil, nil)

	var got []message.Message
	sub, err := svc.Subscribe(ctx, "p1", func(m message.Message) { got = append(got, m) })
	require.NoError(t, err)
	defer sub.Unsubscribe()

	_, err = svc.Send(ctx, "p1", "c1", "please trim the intro")
	require.NoError(t, err)

	require.Len(t, got, 1)
	require.Equal(t, "please trim the intro", got[0].Content)
	require.Equal(t, "c1", got[0].SenderID)
}

func TestMessageService_ListDefaultsLimit(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.MessageRepository{}
	repo.On("List", ctx, "p1", message.ListOptions{Limit: 100}).Return([]message.Message{{ID: "m1"}}, nil)

	svc := message.NewService(repo, &mocks.ProjectService{}, nil, nil, nil, nil)
	msgs, err := svc.List(ctx, "p1", message.ListOptions{})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
}
