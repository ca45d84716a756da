package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/cutroom/internal/domain/version"
)

// VersionRepository implements version.Repository for SQLite
type VersionRepository struct {
	db *DB
}

// NewVersionRepository creates a new VersionRepository
func NewVersionRepository(db *DB) *VersionRepository {
	return &VersionRepository{db: db}
}

// normalizedType mirrors version.NormalizeType for rows written before versions were typed.
const normalizedType = `CASE
	WHEN type IN ('raw', 'edited') THEN type
	WHEN version_number > 0 THEN 'edited'
	ELSE 'raw'
END`

const versionColumns = `id, project_id, uploaded_by, version_number, type, file_url, storage_key, file_name, comment, created_at`

// Create inserts v numbered after the highest existing number of its type.
// The number is computed inside the INSERT so concurrent uploads cannot share one.
func (r *VersionRepository) Create(ctx context.Context, v *version.Version) error {
	query := `
		INSERT INTO project_versions (` + versionColumns + `)
		SELECT ?, ?, ?, COALESCE(MAX(version_number) + 1, ?), ?, ?, ?, ?, ?, ?
		FROM project_versions
		WHERE project_id = ? AND ` + normalizedType + ` = ?
		RETURNING version_number
	`
	err := r.db.QueryRowContext(ctx, query,
		v.ID,
		v.ProjectID,
		v.UploadedBy,
		v.Type.FirstNumber(),
		v.Type,
		v.FileURL,
		v.StorageKey,
		v.FileName,
		nullString(v.Comment),
		v.CreatedAt,
		v.ProjectID,
		v.Type,
	).Scan(&v.VersionNumber)
	if err != nil {
		return fmt.Errorf("failed to create version: %w", classify(err))
	}
	return nil
}

// Get retrieves a version by ID
func (r *VersionRepository) Get(ctx context.Context, id string) (*version.Version, error) {
	query := `SELECT ` + versionColumns + ` FROM project_versions WHERE id = ?`
	v, err := scanVersion(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classify(err)
	}
	return v, nil
}

// List returns versions of a project, highest number first
func (r *VersionRepository) List(ctx context.Context, projectID string, t version.Type) ([]version.Version, error) {
	query := `SELECT ` + versionColumns + ` FROM project_versions WHERE project_id = ?`
	args := []any{projectID}
	if t != "" {
		query += ` AND ` + normalizedType + ` = ?`
		args = append(args, t)
	}
	query += ` ORDER BY version_number DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	var versions []version.Version
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		versions = append(versions, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating versions: %w", err)
	}
	return versions, nil
}

// Delete removes a version row; its comments go with it
func (r *VersionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM project_versions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete version: %w", err)
	}
	return expectOne(res)
}

func scanVersion(row rowScanner) (*version.Version, error) {
	var v version.Version
	var typeTag, comment sql.NullString
	if err := row.Scan(
		&v.ID,
		&v.ProjectID,
		&v.UploadedBy,
		&v.VersionNumber,
		&typeTag,
		&v.FileURL,
		&v.StorageKey,
		&v.FileName,
		&comment,
		&v.CreatedAt,
	); err != nil {
		return nil, err
	}
	v.Type = version.NormalizeType(typeTag.String, v.VersionNumber)
	v.Comment = stringPtr(comment)
	return &v, nil
}
