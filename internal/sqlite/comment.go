package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/cutroom/internal/domain/comment"
)

// CommentRepository implements comment.Repository for SQLite
type CommentRepository struct {
	db *DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *DB) *CommentRepository {
	return &CommentRepository{db: db}
}

const commentColumns = `id, version_id, project_id, author_id, timestamp_seconds, content, is_resolved, created_at, updated_at`

// Create inserts a comment
func (r *CommentRepository) Create(ctx context.Context, c *comment.Comment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO video_comments (`+commentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.VersionID,
		c.ProjectID,
		c.AuthorID,
		c.TimestampSeconds,
		c.Content,
		c.IsResolved,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", classify(err))
	}
	return nil
}

// Get retrieves a comment by ID
func (r *CommentRepository) Get(ctx context.Context, id string) (*comment.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM video_comments WHERE id = ?`, id))
	if err != nil {
		return nil, classify(err)
	}
	return c, nil
}

// UpdateContent replaces a comment's content
func (r *CommentRepository) UpdateContent(ctx context.Context, id, content string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE video_comments SET content = ?, updated_at = ? WHERE id = ?`,
		content, at, id)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return expectOne(res)
}

// SetResolved sets the resolved flag
func (r *CommentRepository) SetResolved(ctx context.Context, id string, resolved bool, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE video_comments SET is_resolved = ?, updated_at = ? WHERE id = ?`,
		resolved, at, id)
	if err != nil {
		return fmt.Errorf("failed to resolve comment: %w", err)
	}
	return expectOne(res)
}

// Delete removes a comment
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM video_comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return expectOne(res)
}

// List returns comments of a version ordered by timestamp
func (r *CommentRepository) List(ctx context.Context, versionID string, includeResolved bool) ([]comment.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM video_comments WHERE version_id = ?`
	if !includeResolved {
		query += ` AND is_resolved = 0`
	}
	query += ` ORDER BY timestamp_seconds ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []comment.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return comments, nil
}

func scanComment(row rowScanner) (*comment.Comment, error) {
	var c comment.Comment
	if err := row.Scan(
		&c.ID,
		&c.VersionID,
		&c.ProjectID,
		&c.AuthorID,
		&c.TimestampSeconds,
		&c.Content,
		&c.IsResolved,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
