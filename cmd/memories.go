package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/braunmar/agent-engine/pkg/engine"
	"github.com/braunmar/agent-engine/pkg/ui"
)

func newMemoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memories",
		Short: "Manage agent memories",
	}
	cmd.AddCommand(newMemoriesListCmd(a))
	return cmd
}

func newMemoriesListCmd(a *app) *cobra.Command {
	var target targetFlags

	cmd := &cobra.Command{
		Use:   "list <agent-id>",
		Short: "List the memories of an agent",
		Long: `List the memories stored for an agent.

Example:
  agent-engine memories list 1234567890`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(cmd.Context(), target, "listing memories")
			if err != nil {
				return err
			}
			defer client.Close()

			memories, err := client.ListMemories(cmd.Context(), args[0])
			if err != nil {
				return failed("listing memories", err)
			}

			p := ui.NewPrinter(cmd.OutOrStdout())
			if len(memories) == 0 {
				p.Warning(fmt.Sprintf("No memories found for agent '%s'.", args[0]))
				return nil
			}

			rows := make([][]string, 0, len(memories))
			for _, m := range memories {
				rows = append(rows, []string{
					m.ID,
					m.ScopeString(),
					engine.OrNA(m.Fact),
					engine.FormatTime(m.CreateTime),
					engine.FormatTime(m.UpdateTime),
				})
			}
			p.Table("Memories", []ui.Column{
				{Header: "Memory ID", Color: "6"},
				{Header: "Scope", Color: "5"},
				{Header: "Fact"},
				{Header: "Created"},
				{Header: "Updated"},
			}, rows)
			return nil
		},
	}

	addTargetFlags(cmd, &target)
	return cmd
}
