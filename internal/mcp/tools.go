package mcp

import (
	"context"
	"encoding/json"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// addTool registers fn as a tool answering with JSON text. The input schema is inferred from In.
// Domain errors become tool results with IsError set and an APIError body.
func addTool[In any](server *sdkmcp.Server, name, description string, fn func(context.Context, In) (any, error)) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: name, Description: description},
		func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, any, error) {
			out, err := fn(ctx, in)
			if err != nil {
				return errorResult(err), nil, nil
			}
			return jsonResult(out), nil, nil
		})
}

func jsonResult(v any) *sdkmcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult(err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}
}

func errorResult(err error) *sdkmcp.CallToolResult {
	apiErr := MapError(err)
	data, mErr := json.Marshal(apiErr)
	if mErr != nil {
		data = []byte(apiErr.Error())
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		IsError: true,
	}
}

// registerTools adds every tool to server.
func registerTools(server *sdkmcp.Server, h *Handler) {
	// Projects
	addTool(server, "create_project",
		"Create a project as its creator. Starts in briefing, or in_edit when editor_id is given.",
		h.createProject)
	addTool(server, "get_project",
		"Get a project you take part in, with your role and unread message count",
		h.getProject)
	addTool(server, "list_projects",
		"List projects you create or edit, most recently active first",
		h.listProjects)

	// Lifecycle
	addTool(server, "assign_editor",
		"Offer a briefing project to an editor (briefing -> pending_acceptance)",
		h.assignEditor)
	addTool(server, "accept_assignment",
		"Accept the project offered to you (pending_acceptance -> in_edit)",
		h.editorStep(h.projects.AcceptAssignment))
	addTool(server, "reject_assignment",
		"Decline the project offered to you (pending_acceptance -> briefing)",
		h.editorStep(h.projects.RejectAssignment))
	addTool(server, "approve_project",
		"Approve the cut under review (review -> approved)",
		h.creatorStep(h.projects.Approve))
	addTool(server, "request_changes",
		"Send the cut under review back to the editor (review -> changes_requested)",
		h.creatorStep(h.projects.RequestChanges))
	addTool(server, "complete_project",
		"Close an approved project (approved -> completed)",
		h.creatorStep(h.projects.Complete))
	addTool(server, "rate_project",
		"Rate the editor's work once, 1 to 5, after approval",
		h.rateProject)
	addTool(server, "mark_read",
		"Reset your unread message counter on a project",
		h.markRead)

	// Versions
	addTool(server, "upload_version",
		"Upload raw footage or an edited cut. Edited uploads move the project to review.",
		h.uploadVersion)
	addTool(server, "list_versions",
		"List a project's versions, newest first",
		h.listVersions)
	addTool(server, "delete_version",
		"Delete a version and its file",
		h.deleteVersion)

	// Chat
	addTool(server, "send_message",
		"Send a chat message to the other participant",
		h.sendMessage)
	addTool(server, "list_messages",
		"List a project's chat messages, oldest first",
		h.listMessages)

	// Comments
	addTool(server, "add_comment",
		"Comment on a version at a playback position",
		h.addComment)
	addTool(server, "edit_comment",
		"Edit your own comment",
		h.editComment)
	addTool(server, "delete_comment",
		"Delete your own comment",
		h.deleteComment)
	addTool(server, "resolve_comment",
		"Mark a comment resolved, or reopen it with resolved=false",
		h.resolveComment)
	addTool(server, "list_comments",
		"List a version's comments ordered by playback position",
		h.listComments)

	// Briefs
	addTool(server, "upload_voice_brief",
		"Record a voice brief for your project; it is transcribed in the background",
		h.uploadVoiceBrief)

	// Profiles
	addTool(server, "onboard",
		"Create your profile as a creator or an editor",
		h.onboard)
	addTool(server, "list_editors",
		"List onboarded editors",
		h.listEditors)

	// Activity
	addTool(server, "get_activity",
		"Get recent activity for a project or across your projects",
		h.getActivity)
}
