// Package ops implements the wiki operations shared by the CLI, the MCP
// surface, and the chat dispatcher.
package ops

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/hpungsan/kbagent/internal/creds"
	"github.com/hpungsan/kbagent/internal/errors"
	"github.com/hpungsan/kbagent/internal/wiki"
)

// requiredAuthKeys are the keys an auth payload must carry.
var requiredAuthKeys = []string{"token", "url", "email"}

// AuthInput contains parameters for the Auth operation.
type AuthInput struct {
	// Payload is the raw JSON object {"token","url","email"}.
	Payload string
}

// AuthOutput contains the result of the Auth operation.
type AuthOutput struct {
	Email string `json:"email"`
	URL   string `json:"url"`
}

// Auth parses the payload, probes the wiki with the candidate credential,
// and persists it only after the probe succeeds. A failed probe leaves any
// previously stored credential untouched.
func Auth(ctx context.Context, store *creds.Store, client *wiki.Client, input AuthInput) (*AuthOutput, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(input.Payload), &raw); err != nil {
		return nil, errors.NewInvalidPayload("invalid JSON; expected {\"token\":...,\"url\":...,\"email\":...}")
	}

	var missing []string
	values := make(map[string]string, len(requiredAuthKeys))
	for _, key := range requiredAuthKeys {
		v, ok := raw[key]
		s := coerceString(v)
		if !ok || s == "" {
			missing = append(missing, key)
			continue
		}
		values[key] = s
	}
	if len(missing) > 0 {
		return nil, errors.NewInvalidPayload(fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")))
	}

	candidate := creds.Credential{
		Token: values["token"],
		URL:   strings.TrimRight(values["url"], "/"),
		Email: values["email"],
	}

	if err := client.ProbeWith(ctx, &candidate); err != nil {
		return nil, err
	}

	if err := store.Set(candidate); err != nil {
		return nil, err
	}

	return &AuthOutput{Email: candidate.Email, URL: candidate.URL}, nil
}

// coerceString renders a decoded JSON value as a string.
func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}
