package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPayload(t *testing.T) {
	assert.Equal(t, "<nil>", formatPayload(nil))
	assert.Equal(t, `{"status":"ok"}`, formatPayload(StatusResponse{Status: "ok"}))
	assert.Equal(t, "chan int", formatPayload(make(chan int)))

	long := formatPayload(map[string]string{"content_base64": strings.Repeat("A", 4*maxLoggedPayload)})
	assert.True(t, strings.HasSuffix(long, "bytes)"))
	assert.Less(t, len(long), maxLoggedPayload+64)
}

func TestUserIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, getUserID(ctx))
	assert.Equal(t, "u1", getUserID(WithUserID(ctx, "u1")))

	_, err := actingUser(ctx)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
