package sqlite

import (
	"context"
	"fmt"

	"github.com/rpggio/cutroom/internal/domain/message"
)

// MessageRepository implements message.Repository for SQLite
type MessageRepository struct {
	db *DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a message
func (r *MessageRepository) Create(ctx context.Context, msg *message.Message) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (id, project_id, sender_id, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.ProjectID, msg.SenderID, msg.Content, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", classify(err))
	}
	return nil
}

// List returns a project's messages, oldest first
func (r *MessageRepository) List(ctx context.Context, projectID string, opts message.ListOptions) ([]message.Message, error) {
	query := `
		SELECT id, project_id, sender_id, content, created_at
		FROM messages
		WHERE project_id = ?
		ORDER BY created_at ASC, rowid ASC
	`
	args := []any{projectID}
	if opts.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var msgs []message.Message
	for rows.Next() {
		var msg message.Message
		if err := rows.Scan(&msg.ID, &msg.ProjectID, &msg.SenderID, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return msgs, nil
}
