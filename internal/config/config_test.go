package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.CommandPrefix != "@kb_agent" {
		t.Errorf("CommandPrefix = %q, want %q", cfg.CommandPrefix, "@kb_agent")
	}
	if cfg.WikiAPIRoot != "/wiki/rest/api" {
		t.Errorf("WikiAPIRoot = %q, want %q", cfg.WikiAPIRoot, "/wiki/rest/api")
	}
	if cfg.HTTPTimeoutSecs != 30 {
		t.Errorf("HTTPTimeoutSecs = %d, want 30", cfg.HTTPTimeoutSecs)
	}
	if cfg.HistoryLimit != 20 {
		t.Errorf("HistoryLimit = %d, want 20", cfg.HistoryLimit)
	}
}

func TestLoad_OverlayWins(t *testing.T) {
	dir := t.TempDir()
	content := `{"command_prefix": "@wiki", "model": "llama3.1:8b", "disabled_tools": ["kb_update"]}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.CommandPrefix != "@wiki" {
		t.Errorf("CommandPrefix = %q, want %q", cfg.CommandPrefix, "@wiki")
	}
	if cfg.Model != "llama3.1:8b" {
		t.Errorf("Model = %q, want %q", cfg.Model, "llama3.1:8b")
	}
	// Defaults survive for keys the file omits
	if cfg.WikiAPIRoot != "/wiki/rest/api" {
		t.Errorf("WikiAPIRoot = %q, want default", cfg.WikiAPIRoot)
	}
	if len(cfg.DisabledTools) != 1 || cfg.DisabledTools[0] != "kb_update" {
		t.Errorf("DisabledTools = %v, want [kb_update]", cfg.DisabledTools)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{nope"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("Load should fail on invalid JSON")
	}
}

func TestMerge_Arrays(t *testing.T) {
	base := &Config{DisabledTools: []string{"kb_auth", "kb_page"}}
	overlay := &Config{DisabledTools: []string{" kb_page ", "kb_prompt"}}

	merged := Merge(base, overlay)

	want := []string{"kb_auth", "kb_page", "kb_prompt"}
	if len(merged.DisabledTools) != len(want) {
		t.Fatalf("DisabledTools = %v, want %v", merged.DisabledTools, want)
	}
	for i, w := range want {
		if merged.DisabledTools[i] != w {
			t.Errorf("DisabledTools[%d] = %q, want %q", i, merged.DisabledTools[i], w)
		}
	}
}
