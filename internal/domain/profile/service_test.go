package profile_test

import (
	"context"
	"testing"

	"github.com/rpggio/cutroom/internal/domain/profile"
	"github.com/rpggio/cutroom/internal/repository"
	"github.com/rpggio/cutroom/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProfileService_Onboard(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProfileRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := profile.NewService(repo, nil)
	p, err := svc.Onboard(ctx, profile.OnboardRequest{Name: "  Maya ", Role: profile.RoleEditor})
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)
	require.Equal(t, "Maya", p.Name)
	require.Equal(t, profile.RoleEditor, p.Role)
}

func TestProfileService_OnboardValidation(t *testing.T) {
	svc := profile.NewService(&mocks.ProfileRepository{}, nil)

	_, err := svc.Onboard(context.Background(), profile.OnboardRequest{Name: "", Role: profile.RoleCreator})
	require.ErrorIs(t, err, profile.ErrInvalidInput)

	_, err = svc.Onboard(context.Background(), profile.OnboardRequest{Name: "Sam", Role: "admin"})
	require.ErrorIs(t, err, profile.ErrInvalidInput)
}

func TestProfileService_OnboardTwice(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProfileRepository{}
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrConflict)

	svc := profile.NewService(repo, nil)
	_, err := svc.Onboard(ctx, profile.OnboardRequest{ID: "u1", Name: "Sam", Role: profile.RoleCreator})
	require.ErrorIs(t, err, profile.ErrAlreadyOnboarded)
}

func TestProfileService_GetNotFound(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProfileRepository{}
	repo.On("Get", ctx, "missing").Return((*profile.Profile)(nil), repository.ErrNotFound)

	svc := profile.NewService(repo, nil)
	_, err := svc.Get(ctx, "missing")
	require.ErrorIs(t, err, profile.ErrProfileNotFound)
}
