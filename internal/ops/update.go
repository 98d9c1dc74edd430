package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/kbagent/internal/creds"
	"github.com/hpungsan/kbagent/internal/errors"
	"github.com/hpungsan/kbagent/internal/wiki"
)

// UpdateInput contains parameters for the Update operation.
type UpdateInput struct {
	ID   string
	Text string // appended to the page body inside a paragraph wrapper
}

// UpdateOutput contains the result of the Update operation.
type UpdateOutput struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Version int    `json:"version"` // version after the write
	URL     string `json:"url"`
}

// Update appends text to a page. It reads the current page state and writes
// it back with version+1; the read and write are two separate requests, so
// a concurrent external edit makes the server reject the write, which
// surfaces as an ordinary remote failure.
func Update(ctx context.Context, store *creds.Store, client *wiki.Client, input UpdateInput) (*UpdateOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("page id is required")
	}
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, errors.NewInvalidRequest("update text is required")
	}

	page, err := client.GetPage(ctx, id)
	if err != nil {
		return nil, err
	}

	// Full write payload: title and space key exactly as read, body with the
	// new paragraph appended, version incremented by exactly one.
	page.Body = page.Body + "<p>" + text + "</p>"
	page.Version = page.Version + 1

	if err := client.UpdatePage(ctx, page); err != nil {
		return nil, err
	}

	return &UpdateOutput{
		ID:      page.ID,
		Title:   page.Title,
		Version: page.Version,
		URL:     canonicalURL(store, client, page.WebUI),
	}, nil
}
