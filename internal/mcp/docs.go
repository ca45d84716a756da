package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `cutroom coordinates a video project between its creator and one editor.

Core concepts:
- Profile: who you are (creator or editor). Call onboard once.
- Project: a brief from a creator. Its status moves through
  briefing -> pending_acceptance -> in_edit -> review -> approved -> completed,
  with changes_requested looping back to review on the next edited upload.
- Version: an uploaded file. raw versions are source footage numbered 0,1,2...;
  edited versions are cuts numbered 1,2,3... and every one sends the project to review.
- Messages and comments: chat per project, timestamped comments per version.

Acting user:
- HTTP with auth: the bearer token identifies you.
- Otherwise pass _meta.user_id on every call.

Docs:
- cutroom://docs/workflow (who calls what, in order)
- cutroom://docs/statuses (the full transition table)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "cutroom://docs/workflow",
		Name:        "docs_workflow",
		Title:       "Project workflow",
		Description: "The order in which creator and editor call tools for one project.",
		Content: `# Project workflow

## Creator
1. onboard (role creator), then create_project.
2. upload_voice_brief and upload_version type=raw to hand over material.
3. list_editors, then assign_editor.
4. When the project is in review: list_versions, add_comment, then
   approve_project or request_changes.
5. complete_project, then rate_project (once, 1 to 5).

## Editor
1. onboard (role editor).
2. list_projects role=editor shows offers in pending_acceptance;
   accept_assignment or reject_assignment.
3. upload_version type=edited for every cut; the project goes to review.
4. After request_changes, read comments, then upload the next cut.

## Both
- send_message notifies the other side; mark_read clears your counter.
- get_activity shows what happened recently.
`,
	},
	{
		URI:         "cutroom://docs/statuses",
		Name:        "docs_statuses",
		Title:       "Status transitions",
		Description: "Every trigger and the statuses it is accepted from.",
		Content: `# Status transitions

| Trigger | From | To |
|---|---|---|
| assign_editor | briefing | pending_acceptance |
| accept_assignment | pending_acceptance | in_edit |
| reject_assignment | pending_acceptance | briefing (editor cleared) |
| upload_version edited | any | review |
| upload_version raw | any except approved, completed | unchanged |
| approve_project | review | approved |
| request_changes | review | changes_requested |
| complete_project | approved | completed |

A trigger outside its From column fails with INVALID_TRANSITION and the
project keeps its status. rate_project is accepted in approved or completed.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
