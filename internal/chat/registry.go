package chat

import (
	"context"
	"sort"
	"strings"
)

// Command is one entry of the dispatch table.
type Command struct {
	// Name is the subcommand name without the slash.
	Name string

	// Usage shows argument syntax (e.g. "/page <id>").
	Usage string

	// Description is shown in the usage help.
	Description string

	// MinArgs is the minimum number of argument tokens.
	MinArgs int

	// RequiresAuth marks commands that need a stored credential.
	RequiresAuth bool

	// Disabled marks recognized names that are reserved but not available;
	// they answer with the usage help exactly like unknown names.
	Disabled bool

	// Handler executes the command and produces exactly one reply.
	Handler func(ctx context.Context, inv Invocation) *Reply
}

// Registry holds the dispatch table.
type Registry struct {
	commands map[string]*Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Command)}
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
}

// Get retrieves a command by name, or nil if unknown.
func (r *Registry) Get(name string) *Command {
	return r.commands[name]
}

// UsageHelp renders the literal usage-help message listing the available
// commands. Disabled entries are omitted.
func (r *Registry) UsageHelp() string {
	names := make([]string, 0, len(r.commands))
	for name, cmd := range r.commands {
		if cmd.Disabled {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Unknown command. Available commands:\n")
	for _, name := range names {
		cmd := r.commands[name]
		b.WriteString("  " + cmd.Usage)
		if cmd.Description != "" {
			b.WriteString(" - " + cmd.Description)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
