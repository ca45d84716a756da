package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/cutroom/internal/domain/project"
	"github.com/rpggio/cutroom/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite.
// Every status and counter change is a single UPDATE statement.
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
	id, title, description, platform, status, priority, deadline,
	creator_id, editor_id, unread_creator_messages, unread_editor_messages,
	creator_rating, creator_feedback, rated_at,
	voice_brief_url, voice_transcript, brief_language, parsed_instructions,
	last_activity_at, created_at, updated_at`

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	query := `
		INSERT INTO projects (
			id, title, description, platform, status, priority, deadline,
			creator_id, editor_id, last_activity_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var deadline sql.NullTime
	if proj.Deadline != nil {
		deadline = sql.NullTime{Time: *proj.Deadline, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		proj.ID,
		proj.Title,
		proj.Description,
		proj.Platform,
		proj.Status,
		proj.Priority,
		deadline,
		proj.CreatorID,
		nullString(proj.EditorID),
		proj.LastActivityAt,
		proj.CreatedAt,
		proj.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", classify(err))
	}
	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	proj, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return proj, nil
}

// List returns projects matching opts, most recently active first
func (r *ProjectRepository) List(ctx context.Context, opts project.ListOptions) ([]project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`

	var args []any
	var conditions []string
	if opts.CreatorID != "" {
		conditions = append(conditions, "creator_id = ?")
		args = append(args, opts.CreatorID)
	}
	if opts.EditorID != "" {
		conditions = append(conditions, "editor_id = ?")
		args = append(args, opts.EditorID)
	}
	if len(opts.Statuses) > 0 {
		placeholders := make([]string, len(opts.Statuses))
		for i, s := range opts.Statuses {
			placeholders[i] = "?"
			args = append(args, s)
		}
		conditions = append(conditions, "status IN ("+strings.Join(placeholders, ", ")+")")
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY last_activity_at DESC, id"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *proj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	return projects, nil
}

// ApplyChange writes a status change conditionally on the project still being in change.From.
// A project found in another status yields repository.ErrConflict.
func (r *ProjectRepository) ApplyChange(ctx context.Context, change project.Change) error {
	var incCreator, incEditor int
	switch change.IncrementUnread {
	case project.RoleCreator:
		incCreator = 1
	case project.RoleEditor:
		incEditor = 1
	}

	query := `
		UPDATE projects SET
			status = ?,
			editor_id = CASE
				WHEN ? THEN NULL
				WHEN ? IS NOT NULL THEN ?
				ELSE COALESCE(editor_id, ?)
			END,
			unread_creator_messages = unread_creator_messages + ?,
			unread_editor_messages = unread_editor_messages + ?,
			last_activity_at = ?,
			updated_at = ?
		WHERE id = ?
	`
	editorID := nullString(change.EditorID)
	args := []any{
		change.To,
		change.ClearEditor,
		editorID, editorID,
		nullString(change.FillEditorID),
		incCreator,
		incEditor,
		change.At,
		change.At,
		change.ProjectID,
	}
	if change.From != "" {
		query += " AND status = ?"
		args = append(args, change.From)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update project status: %w", classify(err))
	}
	return r.expectUpdated(ctx, res, change.ProjectID)
}

// Touch refreshes last_activity_at of a project still open to raw footage.
// An approved or completed project yields repository.ErrConflict.
func (r *ProjectRepository) Touch(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE projects SET last_activity_at = ?, updated_at = ?
		WHERE id = ? AND status NOT IN (?, ?)`,
		at, at, id, project.StatusApproved, project.StatusCompleted)
	if err != nil {
		return fmt.Errorf("failed to touch project: %w", err)
	}
	return r.expectUpdated(ctx, res, id)
}

// IncrementUnread adds one to the role's unread counter in place
func (r *ProjectRepository) IncrementUnread(ctx context.Context, id string, role project.Role) error {
	column, err := unreadColumn(role)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET `+column+` = `+column+` + 1, last_activity_at = ? WHERE id = ?`,
		time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to increment unread counter: %w", err)
	}
	return expectOne(res)
}

// ResetUnread sets the role's unread counter to zero
func (r *ProjectRepository) ResetUnread(ctx context.Context, id string, role project.Role) error {
	column, err := unreadColumn(role)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE projects SET `+column+` = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to reset unread counter: %w", err)
	}
	return expectOne(res)
}

// SetRating stores the rating once, and only on a completed or approved project.
// Any other state yields repository.ErrConflict.
func (r *ProjectRepository) SetRating(ctx context.Context, rating project.Rating) error {
	query := `
		UPDATE projects SET
			creator_rating = ?,
			creator_feedback = ?,
			rated_at = ?,
			updated_at = ?
		WHERE id = ?
			AND creator_rating IS NULL
			AND status IN (?, ?)
	`
	res, err := r.db.ExecContext(ctx, query,
		rating.Rating,
		nullString(rating.Feedback),
		rating.At,
		rating.At,
		rating.ProjectID,
		project.StatusCompleted,
		project.StatusApproved,
	)
	if err != nil {
		return fmt.Errorf("failed to rate project: %w", classify(err))
	}
	return r.expectUpdated(ctx, res, rating.ProjectID)
}

// SetVoiceBrief records the brief URL and clears any earlier transcription
func (r *ProjectRepository) SetVoiceBrief(ctx context.Context, id, url string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE projects SET
			voice_brief_url = ?,
			voice_transcript = NULL,
			brief_language = NULL,
			parsed_instructions = NULL,
			last_activity_at = ?,
			updated_at = ?
		WHERE id = ?`,
		url, at, at, id)
	if err != nil {
		return fmt.Errorf("failed to set voice brief: %w", err)
	}
	return expectOne(res)
}

// SetTranscription stores the transcription result while t.BriefURL is still the project's brief.
// A replaced brief yields repository.ErrConflict.
func (r *ProjectRepository) SetTranscription(ctx context.Context, id string, t project.Transcription, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE projects SET
			voice_transcript = ?,
			brief_language = ?,
			parsed_instructions = ?,
			updated_at = ?
		WHERE id = ? AND voice_brief_url = ?`,
		t.Transcript, t.Language, t.Instructions, at, id, t.BriefURL)
	if err != nil {
		return fmt.Errorf("failed to store transcription: %w", err)
	}
	return r.expectUpdated(ctx, res, id)
}

// expectUpdated tells a missing project from one whose state failed the update's conditions.
func (r *ProjectRepository) expectUpdated(ctx context.Context, res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var exists int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM projects WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check project: %w", err)
	}
	return repository.ErrConflict
}

func unreadColumn(role project.Role) (string, error) {
	switch role {
	case project.RoleCreator:
		return "unread_creator_messages", nil
	case project.RoleEditor:
		return "unread_editor_messages", nil
	}
	return "", fmt.Errorf("unknown project role %q", role)
}

func scanProject(row rowScanner) (*project.Project, error) {
	var proj project.Project
	var deadline, ratedAt sql.NullTime
	var editorID, feedback sql.NullString
	var briefURL, transcript, language, instructions sql.NullString
	var rating sql.NullInt64
	if err := row.Scan(
		&proj.ID,
		&proj.Title,
		&proj.Description,
		&proj.Platform,
		&proj.Status,
		&proj.Priority,
		&deadline,
		&proj.CreatorID,
		&editorID,
		&proj.UnreadCreatorMessages,
		&proj.UnreadEditorMessages,
		&rating,
		&feedback,
		&ratedAt,
		&briefURL,
		&transcript,
		&language,
		&instructions,
		&proj.LastActivityAt,
		&proj.CreatedAt,
		&proj.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if deadline.Valid {
		proj.Deadline = &deadline.Time
	}
	if ratedAt.Valid {
		proj.RatedAt = &ratedAt.Time
	}
	if rating.Valid {
		n := int(rating.Int64)
		proj.CreatorRating = &n
	}
	proj.EditorID = stringPtr(editorID)
	proj.CreatorFeedback = stringPtr(feedback)
	proj.VoiceBriefURL = stringPtr(briefURL)
	proj.VoiceTranscript = stringPtr(transcript)
	proj.BriefLanguage = stringPtr(language)
	proj.ParsedInstructions = stringPtr(instructions)
	return &proj, nil
}
