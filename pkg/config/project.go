package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
)

// CloudPlatformScope is the OAuth scope for Vertex AI calls
const CloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// ConfigurationError means no usable project context could be determined
type ConfigurationError struct {
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%v)", e.Message, e.Err)
	}
	return e.Message
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// ProjectResolver returns the project to use given the --project flag value
type ProjectResolver func(ctx context.Context, explicit string) (string, error)

// CredentialsFinder looks up application default credentials
type CredentialsFinder func(ctx context.Context, scopes ...string) (*google.Credentials, error)

// projectEnvVars are consulted in order after the config file
var projectEnvVars = []string{"GOOGLE_CLOUD_PROJECT", "CLOUDSDK_CORE_PROJECT"}

// ProjectSource names where a resolved project came from
type ProjectSource string

const (
	SourceFlag   ProjectSource = "flag"
	SourceConfig ProjectSource = "config"
	SourceADC    ProjectSource = "application default credentials"
)

// NewProjectResolver resolves a project from, in order: the explicit flag,
// the config file (or AGENT_ENGINE_PROJECT), GOOGLE_CLOUD_PROJECT and
// CLOUDSDK_CORE_PROJECT, then the project of the ADC credentials.
func NewProjectResolver(cfg *Config, getenv func(string) string, find CredentialsFinder) ProjectResolver {
	return func(ctx context.Context, explicit string) (string, error) {
		project, _, err := ResolveProject(ctx, cfg, getenv, find, explicit)
		return project, err
	}
}

// ResolveProject is NewProjectResolver that also reports the source. An
// environment variable source is reported by its name.
func ResolveProject(ctx context.Context, cfg *Config, getenv func(string) string, find CredentialsFinder, explicit string) (string, ProjectSource, error) {
	if p := strings.TrimSpace(explicit); p != "" {
		return p, SourceFlag, nil
	}
	if cfg != nil && cfg.Project != "" {
		return cfg.Project, SourceConfig, nil
	}
	if getenv != nil {
		for _, key := range projectEnvVars {
			if p := strings.TrimSpace(getenv(key)); p != "" {
				return p, ProjectSource(key), nil
			}
		}
	}

	var adcErr error
	if find != nil {
		creds, err := find(ctx, CloudPlatformScope)
		if err == nil && creds != nil && creds.ProjectID != "" {
			return creds.ProjectID, SourceADC, nil
		}
		adcErr = err
	}

	return "", "", &ConfigurationError{
		Message: "No project specified. Use --project, set 'project' in the config file, or configure a default project for Application Default Credentials",
		Err:     adcErr,
	}
}

// ValidateTarget rejects a resolved project or location that cannot be a
// single resource path segment. Values from the config file are already
// checked by Load; this covers flags, the environment and ADC.
func ValidateTarget(project, location string) error {
	if err := validateSegment("project", project); err != nil {
		return &ConfigurationError{Message: "invalid target: " + err.Error()}
	}
	if err := validateSegment("location", location); err != nil {
		return &ConfigurationError{Message: "invalid target: " + err.Error()}
	}
	return nil
}
