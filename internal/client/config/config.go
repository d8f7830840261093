package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the CLI.
//
// Fields:
//   - ServerURL: base URL of the API, prefix included.
//   - StoragePath: SQLite file holding the session, shared by every CLI process.
//   - RequestTimeout: per-request HTTP timeout.
//   - ExpiryCheckInterval: how often long-running commands re-check token expiry.
//   - LogFormat / LogLevel: see logging.New.
type Config struct {
	ServerURL           string
	StoragePath         string
	RequestTimeout      time.Duration
	ExpiryCheckInterval time.Duration
	LogFormat           string
	LogLevel            string
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080/api"
	c.StoragePath = DefaultStoragePath()
	c.RequestTimeout = 10 * time.Second
	c.ExpiryCheckInterval = 30 * time.Second
	c.LogFormat = "text"
	c.LogLevel = "warn"
}

// DefaultStoragePath puts the session next to other per-user configuration,
// falling back to the working directory when the home is unknown.
func DefaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "gophauth-session.db"
	}
	return filepath.Join(dir, "gophauth", "session.db")
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server url %q must be http or https", c.ServerURL)
	}
	if c.StoragePath == "" {
		return errors.New("storage path must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.ExpiryCheckInterval <= 0 {
		return fmt.Errorf("expiry check interval must be positive, got %s", c.ExpiryCheckInterval)
	}
	return nil
}
