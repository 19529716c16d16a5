// Package config handles the persistent application configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config is the persistent application configuration
type Config struct {
	API   APIConfig   `json:"api"`
	UI    UIConfig    `json:"ui"`
	Spool SpoolConfig `json:"spool"`
}

// APIConfig holds feed service settings
type APIConfig struct {
	BaseURL  string `json:"base_url"`
	Token    string `json:"token,omitempty"`
	PageSize int    `json:"page_size"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	StartMuted   bool   `json:"start_muted"`
	LoopPlayback bool   `json:"loop_playback"`
	Theme        string `json:"theme"`
}

// SpoolConfig holds media spool settings
type SpoolConfig struct {
	Dir    string `json:"dir"`
	HeadKB int    `json:"head_kb"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		API: APIConfig{
			BaseURL:  "http://localhost:8080",
			PageSize: 10,
		},
		UI: UIConfig{
			StartMuted:   true, // autoplay starts muted, same contract as the web
			LoopPlayback: true,
			Theme:        "dark",
		},
		Spool: SpoolConfig{
			Dir:    filepath.Join(home, ".reel", "spool"),
			HeadKB: 512,
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".reel", "config.json")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.AutoPopulateFromEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil
	}

	cfg.AutoPopulateFromEnv()
	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600) // Restrictive permissions for the token
}

// LoadEnvFile loads ~/.reel/env into the process environment if present,
// so AutoPopulateFromEnv can pick the values up.
func LoadEnvFile() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	_ = godotenv.Load(filepath.Join(home, ".reel", "env"))
}

// AutoPopulateFromEnv fills in settings from environment variables
func (c *Config) AutoPopulateFromEnv() {
	if v := os.Getenv("REEL_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("REEL_API_TOKEN"); v != "" {
		c.API.Token = v
	}
	if v := os.Getenv("REEL_SPOOL_DIR"); v != "" {
		c.Spool.Dir = v
	}
}
