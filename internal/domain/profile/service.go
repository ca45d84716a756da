package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/cutroom/internal/repository"
)

// Service handles profile onboarding and lookup.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new profile service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// OnboardRequest defines profile creation inputs.
type OnboardRequest struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	AvatarURL string
	Bio       string
}

// Onboard creates the profile of a new user.
func (s *Service) Onboard(ctx context.Context, req OnboardRequest) (*Profile, error) {
	if strings.TrimSpace(req.Name) == "" || !req.Role.Valid() {
		return nil, ErrInvalidInput
	}

	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	now := time.Now()
	p := &Profile{
		ID:        id,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Role:      req.Role,
		AvatarURL: req.AvatarURL,
		Bio:       req.Bio,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyOnboarded
		}
		return nil, &repository.StorageError{Op: "create profile", ID: id, Err: err}
	}
	return p, nil
}

// Get fetches a profile by ID.
func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	return p, nil
}

// ListByRole returns every profile with the given role, ordered by name.
func (s *Service) ListByRole(ctx context.Context, role Role) ([]Profile, error) {
	if !role.Valid() {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByRole(ctx, role)
}
