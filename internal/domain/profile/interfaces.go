package profile

import "context"

// Repository provides persistence for profiles.
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	Get(ctx context.Context, id string) (*Profile, error)
	ListByRole(ctx context.Context, role Role) ([]Profile, error)
}
