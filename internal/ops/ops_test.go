package ops

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hpungsan/kbagent/internal/config"
	"github.com/hpungsan/kbagent/internal/creds"
	"github.com/hpungsan/kbagent/internal/db"
	"github.com/hpungsan/kbagent/internal/wiki"
)

// fixture bundles a credential store, a wiki client, and a fake wiki server.
type fixture struct {
	store    *creds.Store
	client   *wiki.Client
	server   *httptest.Server
	requests int
}

// newFixture starts a fake wiki served by handler. The store starts empty;
// call authorize to point it at the fake server.
func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()

	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	f := &fixture{store: creds.NewStore(database)}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests++
		if handler != nil {
			handler(w, r)
		}
	}))
	t.Cleanup(f.server.Close)

	f.client = wiki.New(f.store, config.DefaultConfig())
	return f
}

// authorize stores a credential pointing at the fake server.
func (f *fixture) authorize(t *testing.T) {
	t.Helper()
	err := f.store.Set(creds.Credential{Token: "tok", URL: f.server.URL, Email: "e@x"})
	if err != nil {
		t.Fatalf("store.Set failed: %v", err)
	}
}

// pageJSON is a wiki page response body with the expansions the client asks for.
func pageJSON(id, title, spaceKey, body string, version int) map[string]any {
	return map[string]any{
		"id":      id,
		"title":   title,
		"version": map[string]any{"number": version},
		"space":   map[string]any{"key": spaceKey, "name": spaceKey + " space"},
		"body":    map[string]any{"storage": map[string]any{"value": body}},
		"_links":  map[string]any{"webui": "/spaces/" + spaceKey + "/pages/" + id},
	}
}
