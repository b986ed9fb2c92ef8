package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/braunmar/agent-engine/pkg/doctor"
	"github.com/braunmar/agent-engine/pkg/engine"
	"github.com/braunmar/agent-engine/pkg/ui"
)

func newDoctorCmd(a *app) *cobra.Command {
	var target targetFlags
	var skipAPI, jsonOutput bool
	var configErr error

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the CLI environment health",
		Long: `Diagnose and report issues with the CLI setup:

- Config file location and validity
- Application default credentials
- Project and location resolution
- Agent Engine API reachability

Examples:
  agent-engine doctor                 # Run every check
  agent-engine doctor --skip-api      # Do not call the API
  agent-engine doctor --json          # JSON output for scripting`,
		Args: cobra.NoArgs,
		// A broken config file is a finding here, not a failure
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				configErr = err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			env := doctor.Env{
				Config:          a.cfg,
				ConfigErr:       configErr,
				ConfigPath:      a.configPath,
				Getenv:          a.getenv,
				FindCredentials: a.findCredentials,
				NewClient: func(ctx context.Context, project, location string) (engine.API, error) {
					return a.newClient(ctx, project, location, a.clientOptions(false))
				},
			}

			report := doctor.RunHealthCheck(cmd.Context(), env, doctor.Options{
				Project:  target.project,
				Location: target.location,
				SkipAPI:  skipAPI,
			})

			p := ui.NewPrinter(cmd.OutOrStdout())
			if jsonOutput {
				p.Println(report.ToJSON())
			} else {
				report.Print(p)
			}

			if report.ExitCode() == 2 {
				return failed("running health check", doctor.ErrUnhealthy)
			}
			return nil
		},
	}

	addTargetFlags(cmd, &target)
	cmd.Flags().BoolVar(&skipAPI, "skip-api", false, "skip the authenticated API call")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output results as JSON")

	return cmd
}
