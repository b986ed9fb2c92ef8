package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/braunmar/agent-engine/pkg/resource"
	"github.com/braunmar/agent-engine/pkg/ui"
)

func newDeleteCmd(a *app) *cobra.Command {
	var target targetFlags
	var force, yes bool

	cmd := &cobra.Command{
		Use:   "delete <agent-id>",
		Short: "Delete an agent",
		Long: `Delete an agent.

Asks for confirmation unless --yes is given. An agent that still has
sessions, sandboxes or memories can only be deleted with --force, which
removes them as well.

Example:
  agent-engine delete 1234567890
  agent-engine delete 1234567890 --force --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agentID := args[0]
			if err := resource.Validate(agentID); err != nil {
				return failed("deleting agent", err)
			}

			client, err := a.connect(cmd.Context(), target, "deleting agent")
			if err != nil {
				return err
			}
			defer client.Close()

			p := ui.NewPrinter(cmd.OutOrStdout())
			if !yes {
				ok, err := p.Confirm(cmd.InOrStdin(), fmt.Sprintf("Are you sure you want to delete agent '%s'?", agentID))
				if err != nil {
					return failed("deleting agent", err)
				}
				if !ok {
					p.Warning("Aborted.")
					return nil
				}
			}

			if err := client.DeleteAgent(cmd.Context(), agentID, force); err != nil {
				return failed("deleting agent", err)
			}

			p.Error(fmt.Sprintf("Agent '%s' deleted.", agentID))
			return nil
		},
	}

	addTargetFlags(cmd, &target)
	cmd.Flags().BoolVarP(&force, "force", "f", false, "also delete the agent's sessions, sandboxes and memories")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	return cmd
}
