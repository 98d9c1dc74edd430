package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hpungsan/kbagent/internal/creds"
	"github.com/hpungsan/kbagent/internal/errors"
)

// Space is one wiki space as returned by the space listing.
type Space struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Page is a request-scoped copy of a remote page. The remote service owns
// the record; Version is its optimistic-concurrency counter.
type Page struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Version   int    `json:"version"`
	SpaceKey  string `json:"space_key"`
	SpaceName string `json:"space_name,omitempty"`
	Body      string `json:"body"`
	WebUI     string `json:"webui"`
}

// spaceEnvelope is the wire shape of GET /space.
type spaceEnvelope struct {
	Results *[]Space `json:"results"`
}

// pageEnvelope is the wire shape of GET /content/{id} with
// body.storage, version, and space expanded.
type pageEnvelope struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Version *struct {
		Number *int `json:"number"`
	} `json:"version"`
	Space *struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	} `json:"space"`
	Body *struct {
		Storage *struct {
			Value string `json:"value"`
		} `json:"storage"`
	} `json:"body"`
	Links *struct {
		WebUI string `json:"webui"`
	} `json:"_links"`
}

// ListSpaces lists up to limit spaces using the stored credential.
func (c *Client) ListSpaces(ctx context.Context, limit int) ([]Space, error) {
	payload, err := c.Do(ctx, fmt.Sprintf("/space?limit=%d", limit), RequestOptions{})
	if err != nil {
		return nil, err
	}
	return parseSpaces(payload)
}

// ProbeWith runs the low-cost space listing against a candidate credential
// without touching the store. A nil error means the credential works.
func (c *Client) ProbeWith(ctx context.Context, cred *creds.Credential) error {
	payload, err := c.doWith(ctx, cred, "/space?limit=1", RequestOptions{})
	if err != nil {
		return err
	}
	_, err = parseSpaces(payload)
	return err
}

// GetPage fetches a page with its storage-format body, version, and space.
func (c *Client) GetPage(ctx context.Context, id string) (*Page, error) {
	suffix := fmt.Sprintf("/content/%s?expand=body.storage,version,space", id)
	payload, err := c.Do(ctx, suffix, RequestOptions{})
	if err != nil {
		return nil, err
	}

	var env pageEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, errors.NewBadResponse(err.Error())
	}

	switch {
	case env.ID == "":
		return nil, errors.NewBadResponse("page missing id")
	case env.Title == "":
		return nil, errors.NewBadResponse("page missing title")
	case env.Version == nil || env.Version.Number == nil:
		return nil, errors.NewBadResponse("page missing version number")
	case env.Space == nil || env.Space.Key == "":
		return nil, errors.NewBadResponse("page missing space key")
	case env.Body == nil || env.Body.Storage == nil:
		return nil, errors.NewBadResponse("page missing storage body")
	}

	page := &Page{
		ID:        env.ID,
		Title:     env.Title,
		Version:   *env.Version.Number,
		SpaceKey:  env.Space.Key,
		SpaceName: env.Space.Name,
		Body:      env.Body.Storage.Value,
	}
	if env.Links != nil {
		page.WebUI = env.Links.WebUI
	}
	return page, nil
}

// UpdatePage submits a full write of the given page state. The caller sets
// Version to lastKnownVersion+1; the server rejects stale versions and that
// rejection surfaces as an ordinary REMOTE_CALL failure.
func (c *Client) UpdatePage(ctx context.Context, page *Page) error {
	body := map[string]any{
		"id":    page.ID,
		"type":  "page",
		"title": page.Title,
		"space": map[string]any{"key": page.SpaceKey},
		"body": map[string]any{
			"storage": map[string]any{
				"value":          page.Body,
				"representation": "storage",
			},
		},
		"version": map[string]any{"number": page.Version},
	}

	_, err := c.Do(ctx, "/content/"+page.ID, RequestOptions{
		Method: http.MethodPut,
		Body:   body,
	})
	return err
}

func parseSpaces(payload json.RawMessage) ([]Space, error) {
	var env spaceEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, errors.NewBadResponse(err.Error())
	}
	if env.Results == nil {
		return nil, errors.NewBadResponse("space listing missing results")
	}
	return *env.Results, nil
}
