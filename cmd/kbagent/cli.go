package main

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/kbagent/internal/chat"
	"github.com/hpungsan/kbagent/internal/config"
	"github.com/hpungsan/kbagent/internal/creds"
	"github.com/hpungsan/kbagent/internal/errors"
	"github.com/hpungsan/kbagent/internal/llm"
	"github.com/hpungsan/kbagent/internal/ops"
	"github.com/hpungsan/kbagent/internal/wiki"
)

// cliDeps bundles the shared dependencies of the CLI commands.
type cliDeps struct {
	database *sql.DB
	cfg      *config.Config
	store    *creds.Store
	client   *wiki.Client
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(database *sql.DB, cfg *config.Config) *cli.App {
	deps := &cliDeps{database: database, cfg: cfg}
	if database != nil && cfg != nil {
		deps.store = creds.NewStore(database)
		deps.client = wiki.New(deps.store, cfg)
	}

	app := &cli.App{
		Name:    "kbagent",
		Usage:   "Wiki commands and chat for your knowledge base",
		Version: Version,
		Commands: []*cli.Command{
			authCmd(deps),
			pageCmd(deps),
			updateCmd(deps),
			spacesCmd(deps),
			whoamiCmd(deps),
			logoutCmd(deps),
			chatCmd(deps),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// authCmd creates the auth command. The credential can be given either as
// one positional JSON argument or via flags; flags win field by field.
func authCmd(deps *cliDeps) *cli.Command {
	return &cli.Command{
		Name:      "auth",
		Usage:     "Authenticate against the wiki (probes before saving)",
		ArgsUsage: `['{"token":"...","url":"...","email":"..."}']`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "token", Usage: "API token"},
			&cli.StringFlag{Name: "url", Usage: "Wiki base URL"},
			&cli.StringFlag{Name: "email", Usage: "Account email"},
		},
		Action: func(c *cli.Context) error {
			payload := c.Args().First()
			if payload == "" {
				fields := map[string]string{
					"token": c.String("token"),
					"url":   c.String("url"),
					"email": c.String("email"),
				}
				encoded, err := json.Marshal(fields)
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				payload = string(encoded)
			}

			output, err := ops.Auth(c.Context, deps.store, deps.client, ops.AuthInput{Payload: payload})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// pageCmd creates the page command.
func pageCmd(deps *cliDeps) *cli.Command {
	return &cli.Command{
		Name:      "page",
		Usage:     "Fetch a wiki page by id",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Page(c.Context, deps.store, deps.client, ops.PageInput{
				ID: c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// updateCmd creates the update command.
func updateCmd(deps *cliDeps) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Append a paragraph of text to a wiki page",
		ArgsUsage: "<id> <text...>",
		Action: func(c *cli.Context) error {
			output, err := ops.Update(c.Context, deps.store, deps.client, ops.UpdateInput{
				ID:   c.Args().First(),
				Text: strings.Join(c.Args().Tail(), " "),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// spacesCmd creates the spaces command.
func spacesCmd(deps *cliDeps) *cli.Command {
	return &cli.Command{
		Name:  "spaces",
		Usage: "List wiki spaces visible to the authenticated account",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultSpacesLimit, Usage: "Maximum number of spaces"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Spaces(c.Context, deps.store, deps.client, ops.SpacesInput{
				Limit: c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// whoamiCmd creates the whoami command.
func whoamiCmd(deps *cliDeps) *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the active credential (token masked)",
		Action: func(c *cli.Context) error {
			cred := deps.store.Get()
			if cred == nil {
				return outputError(errors.NewAuthRequired())
			}
			return outputJSON(map[string]string{
				"email": cred.Email,
				"url":   cred.URL,
				"token": maskToken(cred.Token),
			})
		},
	}
}

// logoutCmd creates the logout command.
func logoutCmd(deps *cliDeps) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Forget the stored credential",
		Action: func(c *cli.Context) error {
			if err := deps.store.Clear(); err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]bool{"logged_out": true})
		},
	}
}

// chatCmd creates the interactive chat command. Each input line goes
// through the dispatcher; model replies stream to stdout as they arrive.
func chatCmd(deps *cliDeps) *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Interactive chat with wiki commands and the configured model",
		Action: func(c *cli.Context) error {
			model := llm.NewClient(deps.cfg.ModelBaseURL, deps.cfg.Model)
			dispatcher := chat.NewDispatcher(deps.cfg, deps.database, deps.store, deps.client, model)

			fmt.Printf("kbagent chat (%s). Commands start with %s; Ctrl-D exits.\n",
				model.Model(), deps.cfg.CommandPrefix)

			scanner := bufio.NewScanner(os.Stdin)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					break
				}

				streamed := false
				reply := dispatcher.Dispatch(c.Context, line, func(frag string) {
					streamed = true
					fmt.Print(frag)
				})
				if streamed {
					// Fragments already went to stdout, just end the line.
					fmt.Println()
					continue
				}
				fmt.Println(reply.Text)
			}
			fmt.Println()
			return scanner.Err()
		},
	}
}

// maskToken keeps the first and last two characters of a token.
func maskToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return token[:2] + strings.Repeat("*", len(token)-4) + token[len(token)-2:]
}

// outputJSON writes v to stdout as indented JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats an error for the CLI and exits non-zero.
func outputError(err error) error {
	if aErr, ok := err.(*errors.AgentError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", aErr.Code, aErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
