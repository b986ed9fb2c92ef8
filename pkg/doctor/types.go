package doctor

import (
	"context"

	"github.com/braunmar/agent-engine/pkg/config"
	"github.com/braunmar/agent-engine/pkg/engine"
)

// Health statuses, from best to worst
const (
	StatusGood = "GOOD"
	StatusFair = "FAIR"
	StatusPoor = "POOR"
)

// Options for running health checks
type Options struct {
	// Project and Location are the --project and --location flag values
	Project  string
	Location string
	// SkipAPI skips the authenticated call to the Agent Engine API
	SkipAPI bool
}

// Env is the environment the checks inspect
type Env struct {
	// Config is nil when ConfigErr is set
	Config     *config.Config
	ConfigErr  error
	ConfigPath string

	Getenv          func(string) string
	FindCredentials config.CredentialsFinder
	NewClient       func(ctx context.Context, project, location string) (engine.API, error)
}

// Report contains all diagnostic results
type Report struct {
	Config      ConfigReport      `json:"config"`
	Credentials CredentialsReport `json:"credentials"`
	Target      TargetReport      `json:"target"`
	API         APIReport         `json:"api"`
	Summary     Summary           `json:"summary"`
}

// ConfigReport describes the config file
type ConfigReport struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
	Error  string `json:"error,omitempty"`
}

// CredentialsReport describes the application default credentials
type CredentialsReport struct {
	Found     bool   `json:"found"`
	ProjectID string `json:"project_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// TargetReport describes the resolved project and location
type TargetReport struct {
	Project       string `json:"project,omitempty"`
	ProjectSource string `json:"project_source,omitempty"`
	Location      string `json:"location"`
	// ProjectMismatch is set when the credentials belong to another project
	ProjectMismatch bool   `json:"project_mismatch"`
	Error           string `json:"error,omitempty"`
}

// APIReport describes the reachability of the Agent Engine API
type APIReport struct {
	Checked    bool   `json:"checked"`
	SkipReason string `json:"skip_reason,omitempty"`
	Reachable  bool   `json:"reachable"`
	HasAgents  bool   `json:"has_agents"`
	Error      string `json:"error,omitempty"`
}

// Summary contains overall health metrics
type Summary struct {
	WarningsCount int    `json:"warnings"`
	ErrorsCount   int    `json:"errors"`
	HealthStatus  string `json:"health_status"` // GOOD, FAIR, POOR
}
