package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the Learnly client.
//
// Durations are time.Duration values; RenewalInterval is how often the
// access token is renewed while signed in, PostSuccessDelay is the pause
// before a page transitions after a successful submit.
type Config struct {
	BackendURL         string
	FrontendURL        string
	AppName            string
	GoogleClientID     string
	GoogleClientSecret string
	DataDir            string
	RenewalInterval    time.Duration
	PostSuccessDelay   time.Duration
	RequestTimeout     time.Duration
	LogLevel           string
}

// defaultDataDir is the per-user directory holding the cookie database.
func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "learnly")
	}
	return ".learnly"
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendURL = "http://localhost:3000"
	c.FrontendURL = "http://localhost:5173"
	c.AppName = "Learnly"
	c.DataDir = defaultDataDir()
	c.RenewalInterval = 3 * time.Hour
	c.PostSuccessDelay = 3 * time.Second
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg, os.Getenv)
	parseFlags(cfg)
	return cfg
}
