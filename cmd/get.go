package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/braunmar/agent-engine/pkg/engine"
	"github.com/braunmar/agent-engine/pkg/ui"
)

// agentDetails is the --full JSON form of an agent
type agentDetails struct {
	ResourceName string            `json:"resource_name"`
	DisplayName  *string           `json:"display_name"`
	Description  *string           `json:"description"`
	CreateTime   *time.Time        `json:"create_time"`
	UpdateTime   *time.Time        `json:"update_time"`
	Spec         *engine.AgentSpec `json:"spec,omitempty"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func newGetCmd(a *app) *cobra.Command {
	var target targetFlags
	var full bool

	cmd := &cobra.Command{
		Use:   "get <agent-id>",
		Short: "Get details for a specific agent",
		Long: `Get details for a specific agent.

The agent may be given by its short ID or its full resource name.

Example:
  agent-engine get 1234567890
  agent-engine get projects/my-project/locations/us-central1/reasoningEngines/1234567890
  agent-engine get 1234567890 --full`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(cmd.Context(), target, "getting agent")
			if err != nil {
				return err
			}
			defer client.Close()

			agent, err := client.GetAgent(cmd.Context(), args[0])
			if err != nil {
				return failed("getting agent", err)
			}

			p := ui.NewPrinter(cmd.OutOrStdout())
			if full {
				return p.PrintJSON(agentDetails{
					ResourceName: agent.Name,
					DisplayName:  optional(agent.DisplayName),
					Description:  optional(agent.Description),
					CreateTime:   agent.CreateTime,
					UpdateTime:   agent.UpdateTime,
					Spec:         agent.Spec,
				})
			}

			p.Panel("Agent Details", []ui.Field{
				{Label: "Name", Value: agent.ShortName},
				{Label: "Resource", Value: agent.Name},
				{Label: "Display Name", Value: engine.OrNA(agent.DisplayName)},
				{Label: "Description", Value: engine.OrNA(agent.Description)},
				{Label: "Created", Value: engine.FormatTime(agent.CreateTime)},
				{Label: "Updated", Value: engine.FormatTime(agent.UpdateTime)},
				{Label: "Effective Identity", Value: agent.EffectiveIdentity},
			})
			return nil
		},
	}

	addTargetFlags(cmd, &target)
	cmd.Flags().BoolVarP(&full, "full", "f", false, "show the full agent resource as JSON")

	return cmd
}
