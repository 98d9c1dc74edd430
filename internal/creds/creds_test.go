package creds

import (
	"testing"

	"github.com/hpungsan/kbagent/internal/db"
	"github.com/hpungsan/kbagent/internal/errors"
)

func TestStore_SetGetClear(t *testing.T) {
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	store := NewStore(database)

	if got := store.Get(); got != nil {
		t.Fatalf("Get on empty store = %+v, want nil", got)
	}

	cred := Credential{Token: "tok", URL: "http://wiki.example.com", Email: "e@x"}
	if err := store.Set(cred); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got := store.Get()
	if got == nil || got.Token != "tok" || got.Email != "e@x" {
		t.Errorf("Get = %+v, want stored credential", got)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got := store.Get(); got != nil {
		t.Errorf("Get after Clear = %+v, want nil", got)
	}
}

func TestStore_StripsTrailingSlash(t *testing.T) {
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	store := NewStore(database)
	if err := store.Set(Credential{Token: "t", URL: "http://h/", Email: "e@x"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if got := store.Get(); got.URL != "http://h" {
		t.Errorf("URL = %q, want %q", got.URL, "http://h")
	}
}

func TestStore_RejectsIncomplete(t *testing.T) {
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	store := NewStore(database)

	tests := []Credential{
		{URL: "http://h", Email: "e@x"},
		{Token: "t", Email: "e@x"},
		{Token: "t", URL: "http://h"},
		{Token: "  ", URL: "http://h", Email: "e@x"},
	}
	for _, cred := range tests {
		if err := store.Set(cred); !errors.Is(err, errors.ErrInvalidPayload) {
			t.Errorf("Set(%+v) = %v, want INVALID_PAYLOAD", cred, err)
		}
	}

	// Nothing partial was stored anywhere
	if got := store.Get(); got != nil {
		t.Errorf("Get after rejected sets = %+v, want nil", got)
	}
}

func TestStore_LazyReloadAcrossInstances(t *testing.T) {
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	first := NewStore(database)
	if err := first.Set(Credential{Token: "t", URL: "http://h", Email: "e@x"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A fresh store over the same database sees the durable record
	second := NewStore(database)
	got := second.Get()
	if got == nil || got.Token != "t" {
		t.Errorf("Get from fresh store = %+v, want persisted credential", got)
	}
}

func TestStore_OverwriteWholesale(t *testing.T) {
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	store := NewStore(database)
	if err := store.Set(Credential{Token: "old", URL: "http://old", Email: "old@x"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(Credential{Token: "new", URL: "http://new", Email: "new@x"}); err != nil {
		t.Fatalf("Set (overwrite) failed: %v", err)
	}

	got := store.Get()
	if got.Token != "new" || got.URL != "http://new" || got.Email != "new@x" {
		t.Errorf("Get = %+v, want fully replaced credential", got)
	}
}
