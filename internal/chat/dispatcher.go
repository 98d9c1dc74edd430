package chat

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hpungsan/kbagent/internal/config"
	"github.com/hpungsan/kbagent/internal/creds"
	"github.com/hpungsan/kbagent/internal/errors"
	"github.com/hpungsan/kbagent/internal/llm"
	"github.com/hpungsan/kbagent/internal/ops"
	"github.com/hpungsan/kbagent/internal/wiki"
)

// ReplyKind classifies a dispatcher reply.
type ReplyKind string

const (
	ReplySuccess  ReplyKind = "success"
	ReplyError    ReplyKind = "error"
	ReplyNotice   ReplyKind = "notice"
	ReplyFallback ReplyKind = "fallback"
)

// Reply is the single response payload a prompt produces.
type Reply struct {
	Kind ReplyKind
	Text string
}

// ModelClient is the collaborator contract of the conversational fallback.
type ModelClient interface {
	Available(ctx context.Context) bool
	Chat(ctx context.Context, messages []llm.Message, callback func(string)) error
	Model() string
}

// Dispatcher routes prompts: command-prefixed ones to the wiki operations,
// everything else to the model fallback. Every prompt yields exactly one
// reply; remote failures become error replies, never panics, and nothing
// is ever retried.
type Dispatcher struct {
	cfg      *config.Config
	database *sql.DB
	store    *creds.Store
	client   *wiki.Client
	model    ModelClient
	registry *Registry
}

// NewDispatcher wires a dispatcher. model may be nil when no fallback is
// configured; conversation prompts then answer with a plain notice.
func NewDispatcher(cfg *config.Config, database *sql.DB, store *creds.Store, client *wiki.Client, model ModelClient) *Dispatcher {
	d := &Dispatcher{
		cfg:      cfg,
		database: database,
		store:    store,
		client:   client,
		model:    model,
	}

	r := NewRegistry()
	r.Register(&Command{
		Name:        "auth",
		Usage:       `/auth {"token":"...","url":"...","email":"..."}`,
		Description: "authenticate against the wiki",
		Handler:     d.handleAuth,
	})
	r.Register(&Command{
		Name:         "page",
		Usage:        "/page <id>",
		Description:  "show a wiki page",
		MinArgs:      1,
		RequiresAuth: true,
		Handler:      d.handlePage,
	})
	r.Register(&Command{
		Name:         "update",
		Usage:        "/update <id> <text>",
		Description:  "append text to a wiki page",
		MinArgs:      2,
		RequiresAuth: true,
		Handler:      d.handleUpdate,
	})
	// Reserved for future use; recognized but not available.
	r.Register(&Command{Name: "pages", Disabled: true})
	r.Register(&Command{Name: "create", Disabled: true})
	d.registry = r

	return d
}

// Registry exposes the dispatch table, e.g. for help rendering.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch processes one prompt. Streamed fallback fragments are forwarded
// to emit as they arrive; the returned reply always carries the full text.
func (d *Dispatcher) Dispatch(ctx context.Context, raw string, emit func(string)) *Reply {
	prompt := Normalize(raw)

	if !strings.HasPrefix(prompt, d.cfg.CommandPrefix) {
		// Conversation path: no authentication involved, and the model sees
		// the original prompt, not the normalized one.
		return d.fallback(ctx, raw, emit)
	}

	rest := strings.TrimSpace(strings.TrimPrefix(prompt, d.cfg.CommandPrefix))
	inv, ok := ParseInvocation(rest)
	if !ok {
		return &Reply{Kind: ReplyError, Text: d.registry.UsageHelp()}
	}

	cmd := d.registry.Get(inv.Name)
	if cmd == nil || cmd.Disabled {
		// Same answer whatever the authentication state.
		return &Reply{Kind: ReplyError, Text: d.registry.UsageHelp()}
	}

	if cmd.RequiresAuth && d.store.Get() == nil {
		return &Reply{Kind: ReplyError, Text: authRequiredText(d.cfg.CommandPrefix)}
	}

	if cmd.MinArgs > 0 && len(SplitArgs(inv.RawArgs)) < cmd.MinArgs {
		return &Reply{Kind: ReplyError, Text: "Usage: " + cmd.Usage}
	}

	return cmd.Handler(ctx, inv)
}

// authRequiredText is the authentication-required message.
func authRequiredText(prefix string) string {
	return fmt.Sprintf(`You are not authenticated. Run %s /auth {"token":"...","url":"...","email":"..."} first.`, prefix)
}

func (d *Dispatcher) handleAuth(ctx context.Context, inv Invocation) *Reply {
	output, err := ops.Auth(ctx, d.store, d.client, ops.AuthInput{Payload: inv.RawArgs})
	if err != nil {
		if errors.Is(err, errors.ErrInvalidPayload) {
			return &Reply{Kind: ReplyError, Text: errMessage(err)}
		}
		return &Reply{Kind: ReplyError, Text: "Authentication failed: " + errMessage(err) + ". Credentials were not saved."}
	}
	return &Reply{
		Kind: ReplySuccess,
		Text: fmt.Sprintf("Authenticated as %s at %s.", output.Email, output.URL),
	}
}

func (d *Dispatcher) handlePage(ctx context.Context, inv Invocation) *Reply {
	id := SplitArgs(inv.RawArgs)[0]
	output, err := ops.Page(ctx, d.store, d.client, ops.PageInput{ID: id})
	if err != nil {
		return &Reply{Kind: ReplyError, Text: "Could not fetch page " + id + ": " + errMessage(err)}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s** (id %s)\n", output.Title, output.ID)
	fmt.Fprintf(&b, "Space: %s | Version: %d\n", output.SpaceKey, output.Version)
	if output.URL != "" {
		fmt.Fprintf(&b, "%s\n", output.URL)
	}
	b.WriteString("\n")
	b.WriteString(output.Body)
	return &Reply{Kind: ReplySuccess, Text: b.String()}
}

func (d *Dispatcher) handleUpdate(ctx context.Context, inv Invocation) *Reply {
	id, text := cutToken(inv.RawArgs)
	output, err := ops.Update(ctx, d.store, d.client, ops.UpdateInput{ID: id, Text: text})
	if err != nil {
		return &Reply{Kind: ReplyError, Text: "Could not update page " + id + ": " + errMessage(err)}
	}

	reply := fmt.Sprintf("Updated **%s** to version %d.", output.Title, output.Version)
	if output.URL != "" {
		reply += "\n" + output.URL
	}
	return &Reply{Kind: ReplySuccess, Text: reply}
}

// fallback forwards a non-command prompt plus conversation history to the
// model and streams the reply.
func (d *Dispatcher) fallback(ctx context.Context, raw string, emit func(string)) *Reply {
	if d.model == nil || !d.model.Available(ctx) {
		return &Reply{
			Kind: ReplyNotice,
			Text: "No chat model is available. Wiki commands still work: try " + d.cfg.CommandPrefix + " /page <id>.",
		}
	}

	messages := []llm.Message{{Role: "system", Content: d.cfg.SystemPrompt}}
	for _, t := range d.recentTurns() {
		messages = append(messages, llm.Message{Role: t.Role, Content: t.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: raw})

	var b strings.Builder
	err := d.model.Chat(ctx, messages, func(frag string) {
		b.WriteString(frag)
		if emit != nil {
			emit(frag)
		}
	})
	if err != nil {
		return &Reply{Kind: ReplyError, Text: "Chat failed: " + err.Error()}
	}

	d.recordTurn("user", raw)
	d.recordTurn("assistant", b.String())

	return &Reply{Kind: ReplyFallback, Text: b.String()}
}

// errMessage unwraps the user-facing message of an operation error.
func errMessage(err error) string {
	if aErr, ok := err.(*errors.AgentError); ok {
		return aErr.Message
	}
	return err.Error()
}
