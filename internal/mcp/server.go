// Package mcp exposes the wiki operations and the chat dispatcher as MCP
// tools over stdio.
package mcp

import (
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/kbagent/internal/chat"
	"github.com/hpungsan/kbagent/internal/config"
	"github.com/hpungsan/kbagent/internal/creds"
	"github.com/hpungsan/kbagent/internal/llm"
	"github.com/hpungsan/kbagent/internal/wiki"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"kb_auth": {
		def:     authToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAuth },
	},
	"kb_page": {
		def:     pageToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePage },
	},
	"kb_update": {
		def:     updateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleUpdate },
	},
	"kb_spaces": {
		def:     spacesToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSpaces },
	},
	"kb_prompt": {
		def:     promptToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePrompt },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates an MCP server with the kbagent tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(database *sql.DB, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"kbagent",
		version,
		server.WithToolCapabilities(true),
	)

	store := creds.NewStore(database)
	client := wiki.New(store, cfg)
	model := llm.NewClient(cfg.ModelBaseURL, cfg.Model)
	dispatcher := chat.NewDispatcher(cfg, database, store, client, model)
	h := NewHandlers(cfg, store, client, dispatcher)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(database *sql.DB, cfg *config.Config, version string) error {
	s := NewServer(database, cfg, version)
	return server.ServeStdio(s)
}
