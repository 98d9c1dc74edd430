package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/kbagent/internal/chat"
	"github.com/hpungsan/kbagent/internal/config"
	"github.com/hpungsan/kbagent/internal/creds"
	"github.com/hpungsan/kbagent/internal/errors"
	"github.com/hpungsan/kbagent/internal/ops"
	"github.com/hpungsan/kbagent/internal/wiki"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	cfg        *config.Config
	store      *creds.Store
	client     *wiki.Client
	dispatcher *chat.Dispatcher
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg *config.Config, store *creds.Store, client *wiki.Client, dispatcher *chat.Dispatcher) *Handlers {
	return &Handlers{cfg: cfg, store: store, client: client, dispatcher: dispatcher}
}

// Request types for each tool

// AuthRequest represents the arguments for kb_auth.
type AuthRequest struct {
	Token string `json:"token"`
	URL   string `json:"url"`
	Email string `json:"email"`
}

// PageRequest represents the arguments for kb_page.
type PageRequest struct {
	ID string `json:"id"`
}

// UpdateRequest represents the arguments for kb_update.
type UpdateRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// SpacesRequest represents the arguments for kb_spaces.
type SpacesRequest struct {
	Limit int `json:"limit,omitempty"`
}

// PromptRequest represents the arguments for kb_prompt.
type PromptRequest struct {
	Prompt string `json:"prompt"`
}

// HandleAuth implements the kb_auth tool.
func (h *Handlers) HandleAuth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AuthRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	// The ops layer owns payload validation, so re-encode into the same
	// JSON form the chat /auth command accepts.
	payload, merr := json.Marshal(input)
	if merr != nil {
		return errorResult(errors.NewInternal(merr)), nil
	}

	result, err := ops.Auth(ctx, h.store, h.client, ops.AuthInput{Payload: string(payload)})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePage implements the kb_page tool.
func (h *Handlers) HandlePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PageRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Page(ctx, h.store, h.client, ops.PageInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleUpdate implements the kb_update tool.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Update(ctx, h.store, h.client, ops.UpdateInput{ID: input.ID, Text: input.Text})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSpaces implements the kb_spaces tool.
func (h *Handlers) HandleSpaces(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SpacesRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Spaces(ctx, h.store, h.client, ops.SpacesInput{Limit: input.Limit})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePrompt implements the kb_prompt tool. MCP has no streaming channel
// here, so the reply is returned whole.
func (h *Handlers) HandlePrompt(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PromptRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Prompt == "" {
		return errorResult(errors.NewInvalidRequest("prompt is required")), nil
	}

	reply := h.dispatcher.Dispatch(ctx, input.Prompt, nil)
	return successResult(map[string]any{
		"kind": string(reply.Kind),
		"text": reply.Text,
	})
}

// errorResult converts an error into an MCP error result with a structured
// JSON payload.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if aErr, ok := err.(*errors.AgentError); ok {
		errorObj := map[string]any{
			"code":    aErr.Code,
			"message": aErr.Message,
			"status":  aErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if aErr.Code != errors.ErrInternal && aErr.Details != nil {
			errorObj["details"] = aErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult converts a success payload into an MCP JSON result.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
