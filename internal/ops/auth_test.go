package ops

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/hpungsan/kbagent/internal/creds"
	"github.com/hpungsan/kbagent/internal/errors"
)

func TestAuth_InvalidJSON(t *testing.T) {
	f := newFixture(t, nil)

	_, err := Auth(context.Background(), f.store, f.client, AuthInput{Payload: `{"token": nope`})
	if !errors.Is(err, errors.ErrInvalidPayload) {
		t.Fatalf("Auth = %v, want INVALID_PAYLOAD", err)
	}
	if !strings.Contains(err.Error(), "invalid JSON") {
		t.Errorf("error = %q, want invalid JSON message", err.Error())
	}
	if f.requests != 0 {
		t.Errorf("requests = %d, want 0 before any valid payload", f.requests)
	}
}

func TestAuth_MissingFields(t *testing.T) {
	f := newFixture(t, nil)

	_, err := Auth(context.Background(), f.store, f.client, AuthInput{Payload: `{"token":"t"}`})
	if !errors.Is(err, errors.ErrInvalidPayload) {
		t.Fatalf("Auth = %v, want INVALID_PAYLOAD", err)
	}
	if !strings.Contains(err.Error(), "url") || !strings.Contains(err.Error(), "email") {
		t.Errorf("error = %q, should name the missing fields", err.Error())
	}
	if f.requests != 0 {
		t.Errorf("requests = %d, want 0", f.requests)
	}
}

func TestAuth_EmptyValueCountsAsMissing(t *testing.T) {
	f := newFixture(t, nil)

	payload := `{"token":"", "url":"http://h", "email":"e@x"}`
	_, err := Auth(context.Background(), f.store, f.client, AuthInput{Payload: payload})
	if !errors.Is(err, errors.ErrInvalidPayload) {
		t.Fatalf("Auth = %v, want INVALID_PAYLOAD", err)
	}
	if !strings.Contains(err.Error(), "token") {
		t.Errorf("error = %q, should name token", err.Error())
	}
}

func TestAuth_ProbeBeforePersist(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	})

	// A previously stored credential must survive a failed probe
	previous := creds.Credential{Token: "old", URL: "http://old.example.com", Email: "old@x"}
	if err := f.store.Set(previous); err != nil {
		t.Fatalf("store.Set failed: %v", err)
	}

	payload := `{"token":"new","url":"` + f.server.URL + `","email":"new@x"}`
	_, err := Auth(context.Background(), f.store, f.client, AuthInput{Payload: payload})
	if !errors.Is(err, errors.ErrRemoteCall) {
		t.Fatalf("Auth = %v, want REMOTE_CALL", err)
	}
	if f.requests != 1 {
		t.Errorf("requests = %d, want exactly one probe", f.requests)
	}

	got := f.store.Get()
	if got == nil || got.Token != "old" || got.Email != "old@x" {
		t.Errorf("stored credential = %+v, want the previous one unchanged", got)
	}
}

func TestAuth_SuccessPersistsStrippedURL(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wiki/rest/api/space" {
			t.Errorf("probe path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	})

	payload := `{"token":"t","url":"` + f.server.URL + `/","email":"e@x"}`
	output, err := Auth(context.Background(), f.store, f.client, AuthInput{Payload: payload})
	if err != nil {
		t.Fatalf("Auth failed: %v", err)
	}

	if output.URL != f.server.URL {
		t.Errorf("output.URL = %q, want trailing slash stripped %q", output.URL, f.server.URL)
	}

	got := f.store.Get()
	if got == nil || got.URL != f.server.URL || got.Token != "t" || got.Email != "e@x" {
		t.Errorf("stored credential = %+v", got)
	}
}

func TestAuth_CoercesScalarValues(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	})

	// Numeric token is coerced to its string form, as a pasted payload may carry it unquoted
	payload := `{"token":12345,"url":"` + f.server.URL + `","email":"e@x"}`
	if _, err := Auth(context.Background(), f.store, f.client, AuthInput{Payload: payload}); err != nil {
		t.Fatalf("Auth failed: %v", err)
	}

	if got := f.store.Get(); got.Token != "12345" {
		t.Errorf("Token = %q, want %q", got.Token, "12345")
	}
}
