package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/braunmar/agent-engine/pkg/engine"
	"github.com/braunmar/agent-engine/pkg/ui"
)

func newSandboxesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sandboxes",
		Short: "Manage agent sandbox environments",
	}
	cmd.AddCommand(newSandboxesListCmd(a))
	return cmd
}

func newSandboxesListCmd(a *app) *cobra.Command {
	var target targetFlags

	cmd := &cobra.Command{
		Use:   "list <agent-id>",
		Short: "List the sandbox environments of an agent",
		Long: `List the sandbox environments of an agent.

Example:
  agent-engine sandboxes list 1234567890`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(cmd.Context(), target, "listing sandboxes")
			if err != nil {
				return err
			}
			defer client.Close()

			sandboxes, err := client.ListSandboxes(cmd.Context(), args[0])
			if err != nil {
				return failed("listing sandboxes", err)
			}

			p := ui.NewPrinter(cmd.OutOrStdout())
			if len(sandboxes) == 0 {
				p.Warning(fmt.Sprintf("No sandboxes found for agent '%s'.", args[0]))
				return nil
			}

			rows := make([][]string, 0, len(sandboxes))
			for _, s := range sandboxes {
				rows = append(rows, []string{
					s.ID,
					engine.OrNA(s.DisplayName),
					s.StateLabel(),
					engine.FormatTime(s.CreateTime),
					engine.FormatTime(s.ExpireTime),
				})
			}
			p.Table("Sandboxes", []ui.Column{
				{Header: "Sandbox ID", Color: "6"},
				{Header: "Display Name", Color: "2"},
				{Header: "State", Color: "3"},
				{Header: "Created"},
				{Header: "Expires"},
			}, rows)
			return nil
		},
	}

	addTargetFlags(cmd, &target)
	return cmd
}
