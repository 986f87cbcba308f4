// Package config resolves runtime settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// DefaultAPIURL is the backend used when LEARNPATH_API_URL is unset.
const DefaultAPIURL = "http://localhost:5000"

// Environment variable names.
const (
	EnvAPIURL   = "LEARNPATH_API_URL"
	EnvDB       = "LEARNPATH_DB"
	EnvPassword = "LEARNPATH_PASSWORD"
)

// Config holds settings shared by the TUI and the CLI commands.
type Config struct {
	// APIURL is the backend base URL without a trailing slash.
	APIURL string

	// DBPath overrides the event store location. Empty means the default
	// path from store.DefaultDBPath.
	DBPath string

	// Password is used by non-interactive commands that need to sign in.
	Password string
}

// FromEnv builds a Config from environment variables. The API URL is
// validated; an invalid value is an error.
func FromEnv() (Config, error) {
	cfg := Load()
	return cfg, cfg.Validate()
}

// Load reads environment variables without validating them. Commands that
// never reach the backend use it so a bad API URL does not stop them.
func Load() Config {
	cfg := Config{
		APIURL:   DefaultAPIURL,
		DBPath:   os.Getenv(EnvDB),
		Password: os.Getenv(EnvPassword),
	}
	if u := os.Getenv(EnvAPIURL); u != "" {
		cfg.APIURL = u
	}
	return cfg
}

// WithDBPath returns a copy of cfg using dbPath when it is non-empty.
func (c Config) WithDBPath(dbPath string) Config {
	if dbPath != "" {
		c.DBPath = dbPath
	}
	return c
}

// WithAPIURL returns a copy of cfg using apiURL when it is non-empty.
func (c Config) WithAPIURL(apiURL string) (Config, error) {
	if apiURL != "" {
		c.APIURL = apiURL
	}
	return c, c.Validate()
}

// Validate normalizes and checks the configuration.
func (c *Config) Validate() error {
	u, err := ValidateAPIURL(c.APIURL)
	if err != nil {
		return err
	}
	c.APIURL = u
	return nil
}

// ValidateAPIURL checks that raw is an absolute http(s) URL with a host and
// returns it without a trailing slash.
func ValidateAPIURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid API URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid API URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid API URL %q: missing host", raw)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("invalid API URL %q: query and fragment are not allowed", raw)
	}
	return strings.TrimRight(raw, "/"), nil
}
