package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/braunmar/agent-engine/pkg/config"
	"github.com/braunmar/agent-engine/pkg/engine"
)

// targetFlags are the --project and --location flags every API command takes
type targetFlags struct {
	project  string
	location string
}

func addTargetFlags(cmd *cobra.Command, t *targetFlags) {
	cmd.Flags().StringVarP(&t.project, "project", "p", "", "Google Cloud project ID (default: ADC project)")
	cmd.Flags().StringVarP(&t.location, "location", "l", "", "Google Cloud region (default: us-central1)")
}

// target resolves the project and location for this invocation
func (a *app) target(ctx context.Context, t targetFlags) (string, string, error) {
	project, err := config.NewProjectResolver(a.cfg, a.getenv, a.findCredentials)(ctx, t.project)
	if err != nil {
		return "", "", err
	}
	location := a.cfg.ResolveLocation(t.location, a.getenv)
	if err := config.ValidateTarget(project, location); err != nil {
		return "", "", err
	}

	a.logger.Debug("resolved target", "project", project, "location", location)
	return project, location, nil
}

// clientOptions merges flag and config overrides for the API client
func (a *app) clientOptions(debug bool) engine.Options {
	opts := engine.Options{
		BaseURL:    a.baseURL,
		APIVersion: a.apiVersion,
		Debug:      debug || a.verbose,
		Logger:     a.logger,
	}
	if opts.BaseURL == "" && a.cfg != nil {
		opts.BaseURL = a.cfg.BaseURL
	}
	if opts.APIVersion == "" && a.cfg != nil {
		opts.APIVersion = a.cfg.APIVersion
	}
	return opts
}

// connect resolves the target and builds a client. Configuration errors
// are returned as-is; client construction errors are attributed to action.
func (a *app) connect(ctx context.Context, t targetFlags, action string) (engine.API, error) {
	project, location, err := a.target(ctx, t)
	if err != nil {
		return nil, err
	}

	client, err := a.newClient(ctx, project, location, a.clientOptions(false))
	if err != nil {
		return nil, failed(action, err)
	}
	return client, nil
}
