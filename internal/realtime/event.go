package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Event is a row-level change pushed to subscribers
type Event struct {
	Type      string          `json:"type"`
	ProjectID string          `json:"project_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Event types published by the domain services.
const (
	EventProjectUpdated = "project.updated"
	EventVersionCreated = "version.created"
	EventVersionDeleted = "version.deleted"
	EventMessageCreated = "message.created"
	EventCommentCreated = "comment.created"
	EventCommentUpdated = "comment.updated"
	EventCommentDeleted = "comment.deleted"
)

// NewEvent builds an event with a JSON-encoded payload.
func NewEvent(eventType, projectID string, payload any) (Event, error) {
	ev := Event{Type: eventType, ProjectID: projectID, CreatedAt: time.Now()}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Event{}, fmt.Errorf("encoding %s payload: %w", eventType, err)
		}
		ev.Payload = data
	}
	return ev, nil
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("%s event has no payload", e.Type)
	}
	return json.Unmarshal(e.Payload, v)
}

// ProjectTopic carries status and counter changes of one project.
func ProjectTopic(projectID string) string {
	return "project:" + projectID
}

// MessagesTopic carries chat inserts of one project.
func MessagesTopic(projectID string) string {
	return "project:" + projectID + ":messages"
}

// CommentsTopic carries comment changes of one version.
func CommentsTopic(versionID string) string {
	return "version:" + versionID + ":comments"
}

// Handler receives events for a subscribed topic.
type Handler func(Event)

// Subscription is a live registration on a topic.
type Subscription interface {
	Unsubscribe() error
}

// Broker publishes and delivers events by topic.
type Broker interface {
	Publish(ctx context.Context, topic string, event Event) error
	Subscribe(ctx context.Context, topic string, handler Handler) (Subscription, error)
	Close() error
}
