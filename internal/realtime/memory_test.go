package realtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryBroker_PublishSubscribe(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBroker()

	var got []Event
	sub, err := b.Subscribe(ctx, ProjectTopic("p1"), func(ev Event) { got = append(got, ev) })
	require.NoError(t, err)

	ev, err := NewEvent(EventProjectUpdated, "p1", map[string]string{"status": "review"})
	require.NoError(t, err)
	require.NoError(t, b.Publish(ctx, ProjectTopic("p1"), ev))
	require.NoError(t, b.Publish(ctx, ProjectTopic("p2"), ev))

	require.Len(t, got, 1)
	var payload map[string]string
	require.NoError(t, got[0].Decode(&payload))
	require.Equal(t, "review", payload["status"])

	require.NoError(t, sub.Unsubscribe())
	require.NoError(t, sub.Unsubscribe())
	require.NoError(t, b.Publish(ctx, ProjectTopic("p1"), ev))
	require.Len(t, got, 1)
}

func TestMemoryBroker_Closed(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBroker()
	require.NoError(t, b.Close())

	_, err := b.Subscribe(ctx, "t", func(Event) {})
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, b.Publish(ctx, "t", Event{}), ErrClosed)
}

func TestTopics(t *testing.T) {
	require.Equal(t, "project:p1", ProjectTopic("p1"))
	require.Equal(t, "project:p1:messages", MessagesTopic("p1"))
	require.Equal(t, "version:v1:comments", CommentsTopic("v1"))
}

func TestEvent_DecodeEmpty(t *testing.T) {
	ev, err := NewEvent(EventVersionDeleted, "p1", nil)
	require.NoError(t, err)
	require.Error(t, ev.Decode(&struct{}{}))
}
