// Package config holds all ferret configuration from <data dir>/config.json.
// This is the single source of truth for configuration; environment variables
// override file values.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds ALL ferret configuration.
type Config struct {
	LLM      LLMConfig      `json:"llm"`
	UI       UIConfig       `json:"ui"`
	Logging  LoggingConfig  `json:"logging"`
	Metadata MetadataConfig `json:"metadata"`
	Terminal TerminalConfig `json:"terminal"`
}

// LLMConfig configures the local Ollama inference server.
type LLMConfig struct {
	// Endpoint is the Ollama base URL.
	Endpoint string `json:"endpoint,omitempty"`

	// Model is the Ollama model name to generate with.
	Model string `json:"model,omitempty"`

	// TimeoutSecs bounds a single /api/generate call.
	TimeoutSecs int `json:"timeout_secs,omitempty"`

	// Temperature and NumCtx are passed through as generation options.
	Temperature float64 `json:"temperature,omitempty"`
	NumCtx      int     `json:"num_ctx,omitempty"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	// Theme for the TUI ("light" or "dark")
	Theme string `json:"theme,omitempty"`
}

// LoggingConfig controls the categorized file logger.
// Must stay field-compatible with the mirror struct in internal/logging.
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Categories map[string]bool `json:"categories,omitempty"`
	Level      string          `json:"level,omitempty"`
	JSONFormat bool            `json:"json_format,omitempty"`
}

// MetadataConfig configures the tags/notes store.
type MetadataConfig struct {
	// DBPath is the SQLite file. Empty means <data dir>/metadata.sqlite3.
	DBPath string `json:"db_path,omitempty"`
}

// TerminalConfig configures the embedded terminal.
type TerminalConfig struct {
	// Shell overrides the detected shell executable.
	Shell string `json:"shell,omitempty"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Endpoint:    "http://localhost:11434",
			Model:       "gemma3:4b",
			TimeoutSecs: 60,
			Temperature: 0.3,
			NumCtx:      4096,
		},
		UI: UIConfig{
			Theme: "dark",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultDataDir returns the per-user data directory (~/.ferret).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ferret"
	}
	return filepath.Join(home, ".ferret")
}

// DefaultConfigPath returns the path of the user config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDataDir(), "config.json")
}

// Load reads the config file at path, applies defaults for missing values
// and environment overrides on top. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config as indented JSON, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// applyDefaults fills zero-valued fields a hand-edited file may have dropped.
func (c *Config) applyDefaults() {
	def := Default()
	if c.LLM.Endpoint == "" {
		c.LLM.Endpoint = def.LLM.Endpoint
	}
	if c.LLM.Model == "" {
		c.LLM.Model = def.LLM.Model
	}
	if c.LLM.TimeoutSecs <= 0 {
		c.LLM.TimeoutSecs = def.LLM.TimeoutSecs
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = def.LLM.Temperature
	}
	if c.LLM.NumCtx <= 0 {
		c.LLM.NumCtx = def.LLM.NumCtx
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("FERRET_OLLAMA_URL"); url != "" {
		c.LLM.Endpoint = url
	}
	if model := os.Getenv("FERRET_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if secs := os.Getenv("FERRET_LLM_TIMEOUT_SECS"); secs != "" {
		if n, err := strconv.Atoi(secs); err == nil && n > 0 {
			c.LLM.TimeoutSecs = n
		}
	}
	if theme := os.Getenv("FERRET_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if path := os.Getenv("FERRET_DB"); path != "" {
		c.Metadata.DBPath = path
	}
	if shell := os.Getenv("FERRET_SHELL"); shell != "" {
		c.Terminal.Shell = shell
	}
	if debug := os.Getenv("FERRET_DEBUG"); debug != "" {
		if b, err := strconv.ParseBool(debug); err == nil {
			c.Logging.DebugMode = b
		}
	}
}

// MetadataDBPath resolves the metadata database location.
func (c *Config) MetadataDBPath(dataDir string) string {
	if c.Metadata.DBPath != "" {
		return c.Metadata.DBPath
	}
	return filepath.Join(dataDir, "metadata.sqlite3")
}
