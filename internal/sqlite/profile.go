package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/cutroom/internal/domain/profile"
)

// ProfileRepository implements profile.Repository for SQLite
type ProfileRepository struct {
	db *DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, name, email, role, avatar_url, bio, created_at, updated_at`

// Create inserts a profile. An existing id yields repository.ErrConflict.
func (r *ProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	query := `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Email,
		p.Role,
		p.AvatarURL,
		p.Bio,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", classify(err))
	}
	return nil
}

// Get retrieves a profile by ID
func (r *ProfileRepository) Get(ctx context.Context, id string) (*profile.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ?`
	p, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classify(err)
	}
	return p, nil
}

// ListByRole returns profiles of a role ordered by name
func (r *ProfileRepository) ListByRole(ctx context.Context, role profile.Role) ([]profile.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE role = ? ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []profile.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}
	return profiles, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*profile.Profile, error) {
	var p profile.Profile
	var avatar, bio sql.NullString
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.Role,
		&avatar,
		&bio,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.AvatarURL = avatar.String
	p.Bio = bio.String
	return &p, nil
}
