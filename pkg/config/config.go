package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultLocation is used when no location is configured anywhere
	DefaultLocation = "us-central1"

	// DefaultUser is the chat user id when none is given
	DefaultUser = "cli-user"

	configDirName  = "agent-engine"
	configFileName = "config.yml"
)

// Config holds user defaults loaded from the YAML config file and the environment
type Config struct {
	Project    string `yaml:"project"`
	Location   string `yaml:"location"`
	BaseURL    string `yaml:"base_url"`
	APIVersion string `yaml:"api_version"`
	User       string `yaml:"user"`

	path string
}

// DefaultPath returns the config file location under the user config directory
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, configDirName, configFileName), nil
}

// Load reads the config file at path and applies environment overrides.
// An empty path falls back to AGENT_ENGINE_CONFIG and then DefaultPath.
// A missing file yields the defaults.
func Load(path string, getenv func(string) string) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	explicit := path != ""
	if path == "" {
		if env := getenv("AGENT_ENGINE_CONFIG"); env != "" {
			path = env
			explicit = true
		}
	}
	if path == "" {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	cfg := &Config{path: path}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist) && !explicit:
			// No config file is fine
		case errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("configuration file not found: %s", path)
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv(getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides file values with AGENT_ENGINE_* environment variables
func (c *Config) applyEnv(getenv func(string) string) {
	overrides := map[string]*string{
		"AGENT_ENGINE_PROJECT":     &c.Project,
		"AGENT_ENGINE_LOCATION":    &c.Location,
		"AGENT_ENGINE_BASE_URL":    &c.BaseURL,
		"AGENT_ENGINE_API_VERSION": &c.APIVersion,
		"AGENT_ENGINE_USER":        &c.User,
	}
	for key, field := range overrides {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*field = v
		}
	}
}

// Validate checks values that end up in resource paths and URLs
func (c *Config) Validate() error {
	if err := validateSegment("project", c.Project); err != nil {
		return err
	}
	if err := validateSegment("location", c.Location); err != nil {
		return err
	}

	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("base_url '%s' is not a valid URL: %w", c.BaseURL, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("base_url '%s' must be an http(s) URL", c.BaseURL)
		}
	}

	return nil
}

// validateSegment rejects values that cannot be a single path segment
func validateSegment(field, value string) error {
	for _, char := range value {
		if char == '/' || char <= ' ' {
			return fmt.Errorf("%s '%s' contains invalid character %q", field, value, char)
		}
	}
	return nil
}

// Path returns the config file path that was consulted
func (c *Config) Path() string {
	return c.path
}

// ResolveLocation picks the explicit value, then the configured location,
// then GOOGLE_CLOUD_LOCATION, then DefaultLocation
func (c *Config) ResolveLocation(explicit string, getenv func(string) string) string {
	if v := strings.TrimSpace(explicit); v != "" {
		return v
	}
	if c != nil && c.Location != "" {
		return c.Location
	}
	if getenv != nil {
		if v := strings.TrimSpace(getenv("GOOGLE_CLOUD_LOCATION")); v != "" {
			return v
		}
	}
	return DefaultLocation
}

// ResolveUser returns the explicit chat user, the configured one, or DefaultUser
func (c *Config) ResolveUser(explicit string) string {
	if v := strings.TrimSpace(explicit); v != "" {
		return v
	}
	if c != nil && c.User != "" {
		return c.User
	}
	return DefaultUser
}
