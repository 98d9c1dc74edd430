package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/kbagent/internal/creds"
	"github.com/hpungsan/kbagent/internal/errors"
	"github.com/hpungsan/kbagent/internal/wiki"
)

// PageInput contains parameters for the Page operation.
type PageInput struct {
	ID string
}

// PageOutput contains the result of the Page operation.
type PageOutput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	SpaceKey  string `json:"space_key"`
	SpaceName string `json:"space_name,omitempty"`
	Version   int    `json:"version"`
	URL       string `json:"url"`
	Body      string `json:"body"`
}

// Page fetches a page with body, version, and space expanded.
func Page(ctx context.Context, store *creds.Store, client *wiki.Client, input PageInput) (*PageOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("page id is required")
	}

	page, err := client.GetPage(ctx, id)
	if err != nil {
		return nil, err
	}

	return &PageOutput{
		ID:        page.ID,
		Title:     page.Title,
		SpaceKey:  page.SpaceKey,
		SpaceName: page.SpaceName,
		Version:   page.Version,
		URL:       canonicalURL(store, client, page.WebUI),
		Body:      page.Body,
	}, nil
}

// canonicalURL joins the stored base URL with a page's web UI path. The
// webui path is relative to the wiki context, not the REST root.
func canonicalURL(store *creds.Store, client *wiki.Client, webui string) string {
	if webui == "" {
		return ""
	}
	cred := store.Get()
	if cred == nil {
		return webui
	}
	return cred.URL + client.WebPrefix() + webui
}
