// Package creds holds the single active wiki credential set.
//
// The store is an explicit object passed to every operation rather than a
// process-wide variable, so tests can inject fakes and multiple sessions
// stay possible. Persistence is one JSON record under a fixed key in the
// kv table; the in-memory snapshot is re-checked lazily when absent.
package creds

import (
	"database/sql"
	"encoding/json"
	"strings"
	"sync"

	"github.com/hpungsan/kbagent/internal/db"
	"github.com/hpungsan/kbagent/internal/errors"
)

// StorageKey is the fixed kv key the credential record lives under.
const StorageKey = "credential"

// Credential is one authenticated wiki session: an opaque API token, the
// service base URL (no trailing slash), and the account email.
type Credential struct {
	Token string `json:"token"`
	URL   string `json:"url"`
	Email string `json:"email"`
}

// Valid reports whether all three fields are non-empty.
func (c *Credential) Valid() bool {
	return c != nil && c.Token != "" && c.URL != "" && c.Email != ""
}

// Store holds at most one active credential with durable persistence.
type Store struct {
	mu       sync.RWMutex
	database *sql.DB
	current  *Credential
	loaded   bool
}

// NewStore creates a credential store backed by the given database.
func NewStore(database *sql.DB) *Store {
	return &Store{database: database}
}

// Get returns the active credential, or nil if none is stored.
// The durable record is consulted lazily when nothing is in memory.
func (s *Store) Get() *Credential {
	s.mu.RLock()
	if s.current != nil {
		c := *s.current
		s.mu.RUnlock()
		return &c
	}
	loaded := s.loaded
	s.mu.RUnlock()

	if loaded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.current = s.read()
		s.loaded = true
	}
	if s.current == nil {
		return nil
	}
	c := *s.current
	return &c
}

// Set validates and persists a credential, replacing any previous one
// wholesale. The URL is stored with any trailing slash stripped.
func (s *Store) Set(c Credential) error {
	c.URL = strings.TrimRight(strings.TrimSpace(c.URL), "/")
	c.Token = strings.TrimSpace(c.Token)
	c.Email = strings.TrimSpace(c.Email)
	if !c.Valid() {
		return errors.NewInvalidPayload("credential requires token, url, and email")
	}

	payload, err := json.Marshal(c)
	if err != nil {
		return errors.NewInternal(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := db.SetValue(s.database, StorageKey, string(payload)); err != nil {
		return errors.NewInternal(err)
	}
	s.current = &c
	s.loaded = true
	return nil
}

// Clear removes the active credential from memory and durable storage.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := db.DeleteValue(s.database, StorageKey); err != nil {
		return errors.NewInternal(err)
	}
	s.current = nil
	s.loaded = true
	return nil
}

// read loads the durable record. Malformed or incomplete records are
// treated as absent rather than surfaced; re-authentication repairs them.
func (s *Store) read() *Credential {
	value, ok, err := db.GetValue(s.database, StorageKey)
	if err != nil || !ok {
		return nil
	}
	var c Credential
	if err := json.Unmarshal([]byte(value), &c); err != nil {
		return nil
	}
	if !c.Valid() {
		return nil
	}
	return &c
}
