package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/cutroom/internal/domain/activity"
	"github.com/rpggio/cutroom/internal/domain/brief"
	"github.com/rpggio/cutroom/internal/domain/comment"
	"github.com/rpggio/cutroom/internal/domain/message"
	"github.com/rpggio/cutroom/internal/domain/profile"
	"github.com/rpggio/cutroom/internal/domain/project"
	"github.com/rpggio/cutroom/internal/domain/version"
)

// maxInlineUpload bounds decoded base64 file content passed through a tool call.
const maxInlineUpload = 64 << 20

// Handler adapts tool calls to domain services on behalf of the acting user.
type Handler struct {
	projects ProjectService
	versions VersionService
	messages MessageService
	comments CommentService
	briefs   BriefService
	profiles ProfileService
	activity ActivityService
}

// NewHandler creates a new MCP handler.
func NewHandler(s Services) *Handler {
	return &Handler{
		projects: s.Projects,
		versions: s.Versions,
		messages: s.Messages,
		comments: s.Comments,
		briefs:   s.Briefs,
		profiles: s.Profiles,
		activity: s.Activity,
	}
}

func actingUser(ctx context.Context) (string, error) {
	userID := getUserID(ctx)
	if userID == "" {
		return "", ErrUnauthenticated
	}
	return userID, nil
}

// participant loads the project and the acting user's role on it.
// Users who are not participants get project.ErrForbidden.
func (h *Handler) participant(ctx context.Context, projectID string) (*project.Project, string, project.Role, error) {
	userID, err := actingUser(ctx)
	if err != nil {
		return nil, "", "", err
	}
	proj, err := h.projects.Get(ctx, projectID)
	if err != nil {
		return nil, "", "", err
	}
	role := proj.RoleOf(userID)
	if role == "" {
		return nil, "", "", project.ErrForbidden
	}
	return proj, userID, role, nil
}

func (h *Handler) requireRole(ctx context.Context, projectID string, want project.Role) error {
	_, _, role, err := h.participant(ctx, projectID)
	if err != nil {
		return err
	}
	if role != want {
		return fmt.Errorf("%w: only the project %s may do this", project.ErrForbidden, want)
	}
	return nil
}

func (h *Handler) respond(ctx context.Context, proj *project.Project) ProjectResponse {
	resp := ProjectResponse{Project: proj}
	if role := proj.RoleOf(getUserID(ctx)); role != "" {
		resp.Role = role
		resp.Unread = proj.Unread(role)
	}
	return resp
}

func (h *Handler) createProject(ctx context.Context, in CreateProjectParams) (any, error) {
	userID, err := actingUser(ctx)
	if err != nil {
		return nil, err
	}
	req := project.CreateRequest{
		Title:       in.Title,
		Description: in.Description,
		Platform:    project.Platform(in.Platform),
		CreatorID:   userID,
		Priority:    project.Priority(in.Priority),
	}
	if in.EditorID != "" {
		req.EditorID = &in.EditorID
	}
	if in.Deadline != "" {
		deadline, err := time.Parse(time.RFC3339, in.Deadline)
		if err != nil {
			return nil, &project.ValidationError{Field: "deadline", Reason: "must be an RFC 3339 timestamp"}
		}
		req.Deadline = &deadline
	}
	proj, err := h.projects.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	return h.respond(ctx, proj), nil
}

func (h *Handler) getProject(ctx context.Context, in ProjectIDParams) (any, error) {
	proj, _, _, err := h.participant(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	return h.respond(ctx, proj), nil
}

func (h *Handler) listProjects(ctx context.Context, in ListProjectsParams) (any, error) {
	userID, err := actingUser(ctx)
	if err != nil {
		return nil, err
	}

	role := project.Role(in.Role)
	if role == "" {
		role = project.RoleCreator
		if p, err := h.profiles.Get(ctx, userID); err == nil && p.Role == profile.RoleEditor {
			role = project.RoleEditor
		}
	}

	opts := project.ListOptions{Statuses: in.Statuses, Limit: in.Limit, Offset: in.Offset}
	switch role {
	case project.RoleCreator:
		opts.CreatorID = userID
	case project.RoleEditor:
		opts.EditorID = userID
	default:
		return nil, &project.ValidationError{Field: "role", Reason: "must be creator or editor"}
	}

	projects, err := h.projects.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	resp := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		resp = append(resp, h.respond(ctx, &projects[i]))
	}
	return resp, nil
}

func (h *Handler) assignEditor(ctx context.Context, in AssignEditorParams) (any, error) {
	if err := h.requireRole(ctx, in.ProjectID, project.RoleCreator); err != nil {
		return nil, err
	}
	proj, err := h.projects.AssignEditor(ctx, in.ProjectID, in.EditorID)
	if err != nil {
		return nil, err
	}
	return h.respond(ctx, proj), nil
}

// editorStep runs an assignment answer; only the assigned editor may answer.
func (h *Handler) editorStep(step func(context.Context, string) (*project.Project, error)) func(context.Context, ProjectIDParams) (any, error) {
	return func(ctx context.Context, in ProjectIDParams) (any, error) {
		if err := h.requireRole(ctx, in.ProjectID, project.RoleEditor); err != nil {
			return nil, err
		}
		proj, err := step(ctx, in.ProjectID)
		if err != nil {
			return nil, err
		}
		return h.respond(ctx, proj), nil
	}
}

// creatorStep runs a review decision; only the creator may decide.
func (h *Handler) creatorStep(step func(context.Context, string) (*project.Project, error)) func(context.Context, ProjectIDParams) (any, error) {
	return func(ctx context.Context, in ProjectIDParams) (any, error) {
		if err := h.requireRole(ctx, in.ProjectID, project.RoleCreator); err != nil {
			return nil, err
		}
		proj, err := step(ctx, in.ProjectID)
		if err != nil {
			return nil, err
		}
		return h.respond(ctx, proj), nil
	}
}

func (h *Handler) rateProject(ctx context.Context, in RateProjectParams) (any, error) {
	userID, err := actingUser(ctx)
	if err != nil {
		return nil, err
	}
	req := project.RateRequest{ProjectID: in.ProjectID, RaterID: userID, Rating: in.Rating}
	if strings.TrimSpace(in.Feedback) != "" {
		req.Feedback = &in.Feedback
	}
	proj, err := h.projects.Rate(ctx, req)
	if err != nil {
		return nil, err
	}
	return h.respond(ctx, proj), nil
}

func (h *Handler) markRead(ctx context.Context, in ProjectIDParams) (any, error) {
	_, _, role, err := h.participant(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := h.projects.ResetUnread(ctx, in.ProjectID, role); err != nil {
		return nil, err
	}
	return StatusResponse{Status: "ok"}, nil
}

func (h *Handler) uploadVersion(ctx context.Context, in UploadVersionParams) (any, error) {
	userID, err := actingUser(ctx)
	if err != nil {
		return nil, err
	}
	proj, err := h.projects.Get(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	// An edited upload to a project without an editor makes the uploader its editor.
	// The version service then requires the editor role.
	takesOver := version.Type(in.Type) == version.TypeEdited && proj.EditorID == nil
	if proj.RoleOf(userID) == "" && !takesOver {
		return nil, project.ErrForbidden
	}

	data, err := decodeContent(in.ContentBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", version.ErrInvalidInput, err)
	}
	req := version.UploadRequest{
		ProjectID:  in.ProjectID,
		UploaderID: userID,
		Type:       version.Type(in.Type),
		File: version.File{
			Name:        in.FileName,
			ContentType: in.ContentType,
			Size:        int64(len(data)),
			Body:        bytes.NewReader(data),
		},
	}
	if in.Comment != "" {
		req.Comment = &in.Comment
	}
	return h.versions.Upload(ctx, req)
}

func (h *Handler) listVersions(ctx context.Context, in ListVersionsParams) (any, error) {
	if _, _, _, err := h.participant(ctx, in.ProjectID); err != nil {
		return nil, err
	}
	versions, err := h.versions.List(ctx, in.ProjectID, version.Type(in.Type))
	if err != nil {
		return nil, err
	}
	if versions == nil {
		versions = []version.Version{}
	}
	return VersionListResponse{Versions: versions}, nil
}

func (h *Handler) deleteVersion(ctx context.Context, in VersionIDParams) (any, error) {
	v, err := h.versions.Get(ctx, in.VersionID)
	if err != nil {
		return nil, err
	}
	_, userID, role, err := h.participant(ctx, v.ProjectID)
	if err != nil {
		return nil, err
	}
	if role != project.RoleCreator && v.UploadedBy != userID {
		return nil, fmt.Errorf("%w: only the uploader or the creator may delete a version", project.ErrForbidden)
	}
	if err := h.versions.Delete(ctx, in.VersionID); err != nil {
		return nil, err
	}
	return StatusResponse{Status: "deleted"}, nil
}

func (h *Handler) sendMessage(ctx context.Context, in SendMessageParams) (any, error) {
	userID, err := actingUser(ctx)
	if err != nil {
		return nil, err
	}
	return h.messages.Send(ctx, in.ProjectID, userID, in.Content)
}

func (h *Handler) listMessages(ctx context.Context, in ListMessagesParams) (any, error) {
	if _, _, _, err := h.participant(ctx, in.ProjectID); err != nil {
		return nil, err
	}
	msgs, err := h.messages.List(ctx, in.ProjectID, message.ListOptions{Limit: in.Limit, Offset: in.Offset})
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []message.Message{}
	}
	return msgs, nil
}

func (h *Handler) addComment(ctx context.Context, in AddCommentParams) (any, error) {
	userID, err := actingUser(ctx)
	if err != nil {
		return nil, err
	}
	c, err := h.comments.Add(ctx, comment.AddRequest{
		VersionID:        in.VersionID,
		AuthorID:         userID,
		TimestampSeconds: in.TimestampSeconds,
		Content:          in.Content,
	})
	if err != nil {
		return nil, err
	}
	return commentResponse(c), nil
}

func (h *Handler) editComment(ctx context.Context, in EditCommentParams) (any, error) {
	userID, err := actingUser(ctx)
	if err != nil {
		return nil, err
	}
	c, err := h.comments.Edit(ctx, in.CommentID, userID, in.Content)
	if err != nil {
		return nil, err
	}
	return commentResponse(c), nil
}

func (h *Handler) deleteComment(ctx context.Context, in CommentIDParams) (any, error) {
	userID, err := actingUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.comments.Delete(ctx, in.CommentID, userID); err != nil {
		return nil, err
	}
	return StatusResponse{Status: "deleted"}, nil
}

func (h *Handler) resolveComment(ctx context.Context, in ResolveCommentParams) (any, error) {
	userID, err := actingUser(ctx)
	if err != nil {
		return nil, err
	}
	resolved := true
	if in.Resolved != nil {
		resolved = *in.Resolved
	}
	c, err := h.comments.SetResolved(ctx, in.CommentID, userID, resolved)
	if err != nil {
		return nil, err
	}
	return commentResponse(c), nil
}

func (h *Handler) listComments(ctx context.Context, in ListCommentsParams) (any, error) {
	v, err := h.versions.Get(ctx, in.VersionID)
	if err != nil {
		return nil, err
	}
	if _, _, _, err := h.participant(ctx, v.ProjectID); err != nil {
		return nil, err
	}
	comments, err := h.comments.List(ctx, in.VersionID, in.IncludeResolved)
	if err != nil {
		return nil, err
	}
	resp := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		resp = append(resp, commentResponse(&comments[i]))
	}
	return resp, nil
}

func (h *Handler) uploadVoiceBrief(ctx context.Context, in UploadVoiceBriefParams) (any, error) {
	userID, err := actingUser(ctx)
	if err != nil {
		return nil, err
	}
	data, err := decodeContent(in.ContentBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", brief.ErrInvalidInput, err)
	}
	proj, err := h.briefs.Upload(ctx, in.ProjectID, userID, brief.Audio{
		Name:        in.FileName,
		ContentType: in.ContentType,
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
	})
	if err != nil {
		return nil, err
	}
	return h.respond(ctx, proj), nil
}

func (h *Handler) onboard(ctx context.Context, in OnboardParams) (any, error) {
	id := getUserID(ctx)
	if id == "" {
		id = in.ID
	} else if in.ID != "" && in.ID != id {
		return nil, fmt.Errorf("%w: cannot onboard another user", project.ErrForbidden)
	}
	return h.profiles.Onboard(ctx, profile.OnboardRequest{
		ID:        id,
		Name:      in.Name,
		Email:     in.Email,
		Role:      profile.Role(in.Role),
		AvatarURL: in.AvatarURL,
		Bio:       in.Bio,
	})
}

func (h *Handler) listEditors(ctx context.Context, _ struct{}) (any, error) {
	editors, err := h.profiles.ListByRole(ctx, profile.RoleEditor)
	if err != nil {
		return nil, err
	}
	if editors == nil {
		editors = []profile.Profile{}
	}
	return editors, nil
}

func (h *Handler) getActivity(ctx context.Context, in GetActivityParams) (any, error) {
	opts := activity.ListActivityOptions{Action: in.Action, Limit: in.Limit, Offset: in.Offset}
	if in.ProjectID != "" {
		if _, _, _, err := h.participant(ctx, in.ProjectID); err != nil {
			return nil, err
		}
		opts.ProjectID = in.ProjectID
	} else {
		userID, err := actingUser(ctx)
		if err != nil {
			return nil, err
		}
		opts.ParticipantID = userID
	}
	entries, err := h.activity.GetRecentActivity(ctx, opts)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []activity.ActivityEntry{}
	}
	return entries, nil
}

// CommentResponse is a comment with its position formatted for display.
type CommentResponse struct {
	comment.Comment
	Timestamp string `json:"timestamp"`
}

func commentResponse(c *comment.Comment) CommentResponse {
	return CommentResponse{Comment: *c, Timestamp: comment.FormatTimestamp(c.TimestampSeconds)}
}

func decodeContent(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, errors.New("content_base64 is required")
	}
	if base64.StdEncoding.DecodedLen(len(encoded)) > maxInlineUpload {
		return nil, fmt.Errorf("content exceeds %d bytes", maxInlineUpload)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("content_base64 is not valid base64: %w", err)
	}
	return data, nil
}
