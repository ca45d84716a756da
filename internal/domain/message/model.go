package message

import "time"

// MaxContentLength bounds a chat message in characters.
const MaxContentLength = 4000

// Message is an immutable chat entry on a project
type Message struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ListOptions pages through a project's messages, oldest first.
type ListOptions struct {
	Limit  int
	Offset int
}
