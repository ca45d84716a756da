package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/cutroom/internal/domain/activity"
	"github.com/rpggio/cutroom/internal/domain/brief"
	"github.com/rpggio/cutroom/internal/domain/comment"
	"github.com/rpggio/cutroom/internal/domain/message"
	"github.com/rpggio/cutroom/internal/domain/profile"
	"github.com/rpggio/cutroom/internal/domain/project"
	"github.com/rpggio/cutroom/internal/domain/version"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	List(ctx context.Context, opts project.ListOptions) ([]project.Project, error)
	AssignEditor(ctx context.Context, projectID, editorID string) (*project.Project, error)
	AcceptAssignment(ctx context.Context, projectID string) (*project.Project, error)
	RejectAssignment(ctx context.Context, projectID string) (*project.Project, error)
	Approve(ctx context.Context, projectID string) (*project.Project, error)
	RequestChanges(ctx context.Context, projectID string) (*project.Project, error)
	Complete(ctx context.Context, projectID string) (*project.Project, error)
	Rate(ctx context.Context, req project.RateRequest) (*project.Project, error)
	ResetUnread(ctx context.Context, projectID string, role project.Role) error
}

// VersionService defines version operations needed by MCP.
type VersionService interface {
	Upload(ctx context.Context, req version.UploadRequest) (*version.Version, error)
	Get(ctx context.Context, id string) (*version.Version, error)
	List(ctx context.Context, projectID string, t version.Type) ([]version.Version, error)
	Delete(ctx context.Context, id string) error
}

// MessageService defines chat operations needed by MCP.
type MessageService interface {
	Send(ctx context.Context, projectID, senderID, content string) (*message.Message, error)
	List(ctx context.Context, projectID string, opts message.ListOptions) ([]message.Message, error)
}

// CommentService defines video comment operations needed by MCP.
type CommentService interface {
	Add(ctx context.Context, req comment.AddRequest) (*comment.Comment, error)
	Edit(ctx context.Context, id, userID, content string) (*comment.Comment, error)
	Delete(ctx context.Context, id, userID string) error
	SetResolved(ctx context.Context, id, userID string, resolved bool) (*comment.Comment, error)
	List(ctx context.Context, versionID string, includeResolved bool) ([]comment.Comment, error)
}

// BriefService defines voice brief operations needed by MCP.
type BriefService interface {
	Upload(ctx context.Context, projectID, uploaderID string, audio brief.Audio) (*project.Project, error)
}

// ProfileService defines profile operations needed by MCP.
type ProfileService interface {
	Onboard(ctx context.Context, req profile.OnboardRequest) (*profile.Profile, error)
	Get(ctx context.Context, id string) (*profile.Profile, error)
	ListByRole(ctx context.Context, role profile.Role) ([]profile.Profile, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
	Versions VersionService
	Messages MessageService
	Comments CommentService
	Briefs   BriefService
	Profiles ProfileService
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      UserResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "cutroom",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)

	// Stdio is local-only and never authenticates.
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(metaUserMiddleware())
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))

	registerTools(server, NewHandler(cfg.Services))

	return server
}
