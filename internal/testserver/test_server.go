package testserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rpggio/cutroom/internal/domain/activity"
	"github.com/rpggio/cutroom/internal/domain/brief"
	"github.com/rpggio/cutroom/internal/domain/comment"
	"github.com/rpggio/cutroom/internal/domain/message"
	"github.com/rpggio/cutroom/internal/domain/profile"
	"github.com/rpggio/cutroom/internal/domain/project"
	"github.com/rpggio/cutroom/internal/domain/version"
	"github.com/rpggio/cutroom/internal/mcp"
	"github.com/rpggio/cutroom/internal/metrics"
	"github.com/rpggio/cutroom/internal/realtime"
	"github.com/rpggio/cutroom/internal/sqlite"
	"github.com/rpggio/cutroom/internal/storage"
	"github.com/stretchr/testify/require"
)

// TranscriberFunc adapts a function to brief.Transcriber.
type TranscriberFunc func(ctx context.Context, projectID, audioURL string) (*brief.Result, error)

func (f TranscriberFunc) Transcribe(ctx context.Context, projectID, audioURL string) (*brief.Result, error) {
	return f(ctx, projectID, audioURL)
}

// TestServer is the full service graph on an in-memory database and object store.
type TestServer struct {
	DB       *sqlite.DB
	Store    *storage.MemoryStore
	Broker   *realtime.MemoryBroker
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	Projects *project.Service
	Versions *version.Service
	Messages *message.Service
	Comments *comment.Service
	Briefs   *brief.Service
	Profiles *profile.Service
	Activity *activity.Service
	APIKeys  *sqlite.APIKeyRepository
}

// New wires every service. A nil transcriber disables voice brief transcription.
func New(t *testing.T, transcriber brief.Transcriber) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	store := storage.NewMemoryStore("")
	broker := realtime.NewMemoryBroker()

	projectRepo := sqlite.NewProjectRepository(db)
	profileRepo := sqlite.NewProfileRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	projectSvc := project.NewService(projectRepo, profileRepo, activityRepo, broker, m, nil)
	versionSvc := version.NewService(sqlite.NewVersionRepository(db), projectSvc, store, activityRepo, broker, m, nil, version.Options{})
	ts := &TestServer{
		DB:       db,
		Store:    store,
		Broker:   broker,
		Registry: reg,
		Metrics:  m,
		Projects: projectSvc,
		Versions: versionSvc,
		Messages: message.NewService(sqlite.NewMessageRepository(db), projectSvc, activityRepo, broker, m, nil),
		Comments: comment.NewService(sqlite.NewCommentRepository(db), versionSvc, projectSvc, broker, nil),
		Profiles: profile.NewService(profileRepo, nil),
		Activity: activity.NewService(activityRepo, nil),
		APIKeys:  sqlite.NewAPIKeyRepository(db),
	}
	ts.Briefs = brief.NewService(projectSvc, store, transcriber, activityRepo, m, nil, brief.Options{Timeout: 5 * time.Second})

	t.Cleanup(func() {
		ts.Briefs.Wait()
		_ = broker.Close()
		_ = db.Close()
	})

	return ts
}

// Services returns the MCP view of the service graph.
func (ts *TestServer) Services() mcp.Services {
	return mcp.Services{
		Projects: ts.Projects,
		Versions: ts.Versions,
		Messages: ts.Messages,
		Comments: ts.Comments,
		Briefs:   ts.Briefs,
		Profiles: ts.Profiles,
		Activity: ts.Activity,
	}
}

// Onboard creates a profile with a fixed ID.
func (ts *TestServer) Onboard(t *testing.T, id string, role profile.Role) {
	t.Helper()
	_, err := ts.Profiles.Onboard(context.Background(), profile.OnboardRequest{ID: id, Name: id, Role: role})
	require.NoError(t, err)
}

// Client is an MCP client session connected to an in-process server.
type Client struct {
	Session *sdkmcp.ClientSession
}

// Connect starts an MCP server over in-memory transports with auth disabled.
func (ts *TestServer) Connect(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()

	server := mcp.NewServer(mcp.Config{
		Services:      ts.Services(),
		TransportMode: "stdio",
	})
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		_ = serverSession.Wait()
	})
	return &Client{Session: session}
}

// Call invokes a tool as userID and returns its text payload and error flag.
func (c *Client) Call(t *testing.T, userID, name string, args map[string]any) (json.RawMessage, bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if args == nil {
		args = map[string]any{}
	}
	params := &sdkmcp.CallToolParams{Name: name, Arguments: args}
	if userID != "" {
		params.Meta = sdkmcp.Meta{"user_id": userID}
	}
	result, err := c.Session.CallTool(ctx, params)
	require.NoError(t, err, "CallTool %s failed", name)
	require.NotEmpty(t, result.Content, "tool %s returned no content", name)

	for _, content := range result.Content {
		if text, ok := content.(*sdkmcp.TextContent); ok {
			return json.RawMessage(text.Text), result.IsError
		}
	}
	t.Fatalf("tool %s returned no text content", name)
	return nil, false
}

// MustCall invokes a tool and fails the test on a tool error.
func (c *Client) MustCall(t *testing.T, userID, name string, args map[string]any, out any) {
	t.Helper()
	data, isErr := c.Call(t, userID, name, args)
	require.False(t, isErr, "tool %s returned error: %s", name, data)
	if out != nil {
		require.NoError(t, json.Unmarshal(data, out))
	}
}

// CallError invokes a tool that must fail and returns its error code.
func (c *Client) CallError(t *testing.T, userID, name string, args map[string]any) mcp.APIError {
	t.Helper()
	data, isErr := c.Call(t, userID, name, args)
	require.True(t, isErr, "tool %s unexpectedly succeeded: %s", name, data)
	var apiErr mcp.APIError
	require.NoError(t, json.Unmarshal(data, &apiErr))
	return apiErr
}
