package mcp

import "github.com/mark3labs/mcp-go/mcp"

var authToolDef = mcp.NewTool("kb_auth",
	mcp.WithDescription("Authenticate against the wiki. The credential is verified with a probe request before it is saved; a failed probe leaves any previous credential in place."),
	mcp.WithString("token",
		mcp.Required(),
		mcp.Description("API token for the wiki account"),
	),
	mcp.WithString("url",
		mcp.Required(),
		mcp.Description("Base URL of the wiki instance, e.g. https://example.atlassian.net"),
	),
	mcp.WithString("email",
		mcp.Required(),
		mcp.Description("Account email the token belongs to"),
	),
)

var pageToolDef = mcp.NewTool("kb_page",
	mcp.WithDescription("Fetch a wiki page by id, including its storage-format body, version, and space."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Numeric page id"),
	),
)

var updateToolDef = mcp.NewTool("kb_update",
	mcp.WithDescription("Append a paragraph of text to a wiki page. The page is re-read first and written back with the next version number; a concurrent edit surfaces as a remote failure."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Numeric page id"),
	),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Plain text to append as a new paragraph"),
	),
)

var spacesToolDef = mcp.NewTool("kb_spaces",
	mcp.WithDescription("List wiki spaces visible to the authenticated account."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of spaces to return (default 25)"),
	),
)

var promptToolDef = mcp.NewTool("kb_prompt",
	mcp.WithDescription("Send a chat prompt through the dispatcher. Command-prefixed prompts run wiki commands; anything else is answered by the configured chat model."),
	mcp.WithString("prompt",
		mcp.Required(),
		mcp.Description("The prompt text as the user typed it"),
	),
)
