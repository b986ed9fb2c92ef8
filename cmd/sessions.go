package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/braunmar/agent-engine/pkg/engine"
	"github.com/braunmar/agent-engine/pkg/ui"
)

func newSessionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage agent sessions",
	}
	cmd.AddCommand(newSessionsListCmd(a))
	return cmd
}

func newSessionsListCmd(a *app) *cobra.Command {
	var target targetFlags

	cmd := &cobra.Command{
		Use:   "list <agent-id>",
		Short: "List the sessions of an agent",
		Long: `List the sessions of an agent.

Example:
  agent-engine sessions list 1234567890`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(cmd.Context(), target, "listing sessions")
			if err != nil {
				return err
			}
			defer client.Close()

			sessions, err := client.ListSessions(cmd.Context(), args[0])
			if err != nil {
				return failed("listing sessions", err)
			}

			p := ui.NewPrinter(cmd.OutOrStdout())
			if len(sessions) == 0 {
				p.Warning(fmt.Sprintf("No sessions found for agent '%s'.", args[0]))
				return nil
			}

			rows := make([][]string, 0, len(sessions))
			for _, s := range sessions {
				rows = append(rows, []string{
					s.ID,
					engine.OrNA(s.UserID),
					engine.FormatTime(s.CreateTime),
					engine.FormatTime(s.UpdateTime),
					engine.FormatTime(s.ExpireTime),
				})
			}
			p.Table("Sessions", []ui.Column{
				{Header: "Session ID", Color: "6"},
				{Header: "User ID", Color: "2"},
				{Header: "Created"},
				{Header: "Updated"},
				{Header: "Expires"},
			}, rows)
			return nil
		},
	}

	addTargetFlags(cmd, &target)
	return cmd
}
