package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// CommandPrefix is the reserved token that marks a prompt as a command.
	// Anything not starting with it is plain conversation.
	CommandPrefix string `json:"command_prefix,omitempty"`

	// WikiAPIRoot is the fixed path prefix under the wiki base URL where all
	// document operations live.
	WikiAPIRoot string `json:"wiki_api_root,omitempty"`

	// HTTPTimeoutSecs bounds every wiki request. 0 leaves requests un-timed.
	HTTPTimeoutSecs int `json:"http_timeout_secs,omitempty"`

	// ModelBaseURL is the chat model API base URL used by the fallback.
	ModelBaseURL string `json:"model_base_url,omitempty"`

	// Model is the chat model name used by the fallback.
	Model string `json:"model,omitempty"`

	// SystemPrompt is prepended to every fallback conversation.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// HistoryLimit is the number of recent turns replayed to the model.
	HistoryLimit int `json:"history_limit,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown names are rejected at startup.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		CommandPrefix:   "@kb_agent",
		WikiAPIRoot:     "/wiki/rest/api",
		HTTPTimeoutSecs: 30,
		ModelBaseURL:    "http://127.0.0.1:11434",
		Model:           "qwen2.5:7b",
		SystemPrompt:    "You are a helpful knowledge-base assistant.",
		HistoryLimit:    20,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.kbagent.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.CommandPrefix = overlay.CommandPrefix
	if result.CommandPrefix == "" {
		result.CommandPrefix = base.CommandPrefix
	}

	result.WikiAPIRoot = overlay.WikiAPIRoot
	if result.WikiAPIRoot == "" {
		result.WikiAPIRoot = base.WikiAPIRoot
	}

	result.HTTPTimeoutSecs = overlay.HTTPTimeoutSecs
	if result.HTTPTimeoutSecs == 0 {
		result.HTTPTimeoutSecs = base.HTTPTimeoutSecs
	}

	result.ModelBaseURL = overlay.ModelBaseURL
	if result.ModelBaseURL == "" {
		result.ModelBaseURL = base.ModelBaseURL
	}

	result.Model = overlay.Model
	if result.Model == "" {
		result.Model = base.Model
	}

	result.SystemPrompt = overlay.SystemPrompt
	if result.SystemPrompt == "" {
		result.SystemPrompt = base.SystemPrompt
	}

	result.HistoryLimit = overlay.HistoryLimit
	if result.HistoryLimit == 0 {
		result.HistoryLimit = base.HistoryLimit
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
