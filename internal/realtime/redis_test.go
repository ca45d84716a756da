package realtime

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Runs against a real server when CUTROOM_TEST_REDIS_ADDR is set.
func TestRedisBroker_RoundTrip(t *testing.T) {
	addr := os.Getenv("CUTROOM_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CUTROOM_TEST_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	b, err := NewRedisBroker(ctx, RedisOptions{Addr: addr}, nil)
	require.NoError(t, err)
	defer b.Close()

	received := make(chan Event, 1)
	sub, err := b.Subscribe(ctx, MessagesTopic("p1"), func(ev Event) { received <- ev })
	require.NoError(t, err)
	defer sub.Unsubscribe()

	ev, err := NewEvent(EventMessageCreated, "p1", map[string]string{"content": "hi"})
	require.NoError(t, err)
	require.NoError(t, b.Publish(ctx, MessagesTopic("p1"), ev))

	select {
	case got := <-received:
		require.Equal(t, EventMessageCreated, got.Type)
		require.Equal(t, "p1", got.ProjectID)
	case <-ctx.Done():
		t.Fatal("event not delivered")
	}
}

func TestNewRedisBroker_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedisBroker(ctx, RedisOptions{Addr: "127.0.0.1:1"}, nil)
	require.Error(t, err)
}
