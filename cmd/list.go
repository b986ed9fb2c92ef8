package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/braunmar/agent-engine/pkg/engine"
	"github.com/braunmar/agent-engine/pkg/ui"
)

// agentSummary is the --json form of one list row
type agentSummary struct {
	Name              string     `json:"name"`
	ResourceName      string     `json:"resource_name"`
	DisplayName       string     `json:"display_name"`
	CreateTime        *time.Time `json:"create_time"`
	UpdateTime        *time.Time `json:"update_time"`
	EffectiveIdentity string     `json:"effective_identity"`
}

func newListCmd(a *app) *cobra.Command {
	var target targetFlags
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all agents in the project",
		Long: `List all agents in the project and location.

Shows:
- Agent name
- Display name
- Creation and last update time
- Effective identity

Example:
  agent-engine list
  agent-engine list --project my-project --location europe-west4
  agent-engine list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(cmd.Context(), target, "listing agents")
			if err != nil {
				return err
			}
			defer client.Close()

			var agents []engine.Agent
			for agent, err := range client.ListAgents(cmd.Context()) {
				if err != nil {
					return failed("listing agents", err)
				}
				agents = append(agents, agent)
			}
			a.logger.Debug("listed agents", "count", len(agents))

			p := ui.NewPrinter(cmd.OutOrStdout())
			if jsonOutput {
				summaries := make([]agentSummary, 0, len(agents))
				for _, agent := range agents {
					summaries = append(summaries, agentSummary{
						Name:              agent.ShortName,
						ResourceName:      agent.Name,
						DisplayName:       agent.DisplayName,
						CreateTime:        agent.CreateTime,
						UpdateTime:        agent.UpdateTime,
						EffectiveIdentity: agent.EffectiveIdentity,
					})
				}
				return p.PrintJSON(summaries)
			}

			if len(agents) == 0 {
				p.Warning("No agents found.")
				return nil
			}

			rows := make([][]string, 0, len(agents))
			for _, agent := range agents {
				rows = append(rows, []string{
					agent.ShortName,
					engine.OrNA(agent.DisplayName),
					engine.FormatTime(agent.CreateTime),
					engine.FormatTime(agent.UpdateTime),
					agent.EffectiveIdentity,
				})
			}
			p.Table("Agents", []ui.Column{
				{Header: "Name", Color: "6"},
				{Header: "Display Name", Color: "2"},
				{Header: "Created"},
				{Header: "Updated"},
				{Header: "Identity", Color: "5"},
			}, rows)
			return nil
		},
	}

	addTargetFlags(cmd, &target)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print agents as JSON")

	return cmd
}
