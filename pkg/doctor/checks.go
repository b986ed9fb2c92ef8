package doctor

import (
	"context"
	"errors"
	"os"

	"github.com/braunmar/agent-engine/pkg/config"
)

// RunHealthCheck runs all diagnostic checks and returns a comprehensive report
func RunHealthCheck(ctx context.Context, env Env, opts Options) *Report {
	report := &Report{}

	// 1. Check the config file
	report.Config = CheckConfig(env)

	// 2. Check application default credentials
	report.Credentials = CheckCredentials(ctx, env.FindCredentials)

	// 3. Resolve project and location the way every command does
	report.Target = CheckTarget(ctx, env, opts, report.Credentials)

	// 4. Call the API with the resolved target
	report.API = CheckAPI(ctx, env, opts, report)

	// 5. Build summary
	report.Summary = buildSummary(report)

	return report
}

// CheckConfig reports where configuration was read from
func CheckConfig(env Env) ConfigReport {
	report := ConfigReport{Path: env.ConfigPath}
	if env.Config != nil && env.Config.Path() != "" {
		report.Path = env.Config.Path()
	}

	if env.ConfigErr != nil {
		report.Error = env.ConfigErr.Error()
	}

	if report.Path != "" {
		if _, err := os.Stat(report.Path); err == nil {
			report.Exists = true
		}
	}

	return report
}

// CheckCredentials looks up application default credentials
func CheckCredentials(ctx context.Context, find config.CredentialsFinder) CredentialsReport {
	if find == nil {
		return CredentialsReport{Error: "no credentials lookup available"}
	}

	creds, err := find(ctx, config.CloudPlatformScope)
	if err != nil {
		return CredentialsReport{Error: err.Error()}
	}
	if creds == nil {
		return CredentialsReport{Error: "no credentials returned"}
	}

	return CredentialsReport{Found: true, ProjectID: creds.ProjectID}
}

// CheckTarget resolves the project and location
func CheckTarget(ctx context.Context, env Env, opts Options, creds CredentialsReport) TargetReport {
	report := TargetReport{
		Location: env.Config.ResolveLocation(opts.Location, env.Getenv),
	}

	project, source, err := config.ResolveProject(ctx, env.Config, env.Getenv, env.FindCredentials, opts.Project)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	if err := config.ValidateTarget(project, report.Location); err != nil {
		report.Error = err.Error()
		return report
	}

	report.Project = project
	report.ProjectSource = string(source)
	report.ProjectMismatch = creds.ProjectID != "" && creds.ProjectID != project

	return report
}

// CheckAPI lists agents in the target to prove credentials and endpoint work
func CheckAPI(ctx context.Context, env Env, opts Options, report *Report) APIReport {
	switch {
	case opts.SkipAPI:
		return APIReport{SkipReason: "skipped by request"}
	case report.Config.Error != "":
		return APIReport{SkipReason: "configuration is invalid"}
	case report.Target.Error != "":
		return APIReport{SkipReason: "no project resolved"}
	case !report.Credentials.Found:
		return APIReport{SkipReason: "no credentials"}
	case env.NewClient == nil:
		return APIReport{SkipReason: "no client available"}
	}

	result := APIReport{Checked: true}

	client, err := env.NewClient(ctx, report.Target.Project, report.Target.Location)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer client.Close()

	for _, err := range client.ListAgents(ctx) {
		if err != nil {
			result.Error = err.Error()
			return result
		}
		result.HasAgents = true
		break
	}
	result.Reachable = true

	return result
}

// buildSummary calculates overall health metrics
func buildSummary(report *Report) Summary {
	summary := Summary{}

	// Errors: anything that makes every command fail
	for _, msg := range []string{report.Config.Error, report.Credentials.Error, report.Target.Error, report.API.Error} {
		if msg != "" {
			summary.ErrorsCount++
		}
	}

	// Warnings: commands work but may hit the wrong project
	if report.Target.ProjectMismatch {
		summary.WarningsCount++
	}

	// Determine overall health status
	if summary.ErrorsCount > 0 {
		summary.HealthStatus = StatusPoor
	} else if summary.WarningsCount > 0 {
		summary.HealthStatus = StatusFair
	} else {
		summary.HealthStatus = StatusGood
	}

	return summary
}

// ErrUnhealthy is returned by callers that fail on a POOR report
var ErrUnhealthy = errors.New("environment has errors")
