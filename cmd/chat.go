package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/braunmar/agent-engine/pkg/chat"
	"github.com/braunmar/agent-engine/pkg/config"
	"github.com/braunmar/agent-engine/pkg/ui"
)

func newChatCmd(a *app) *cobra.Command {
	var target targetFlags
	var user string
	var debug bool

	cmd := &cobra.Command{
		Use:   "chat <agent-id>",
		Short: "Start an interactive chat session with an agent",
		Long: `Start an interactive chat session with an agent.

Type 'exit' or 'quit' (or press Ctrl-D) to end the session.

Example:
  agent-engine chat 1234567890
  agent-engine chat 1234567890 --user alice --debug`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, location, err := a.target(cmd.Context(), target)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("user") {
				user = a.cfg.ResolveUser("")
			}

			params := chat.Params{
				Project:  project,
				Location: location,
				AgentID:  args[0],
				UserID:   user,
				Debug:    debug,
			}

			runChat := a.runChat
			if runChat == nil {
				runChat = func(ctx context.Context, params chat.Params) error {
					return a.chat(cmd, params)
				}
			}

			err = runChat(cmd.Context(), params)
			if errors.Is(err, context.Canceled) {
				ui.NewPrinter(cmd.OutOrStdout()).Warning("\nChat session ended.")
				return nil
			}
			if err != nil {
				return failed("in chat session", err)
			}
			return nil
		},
	}

	addTargetFlags(cmd, &target)
	cmd.Flags().StringVarP(&user, "user", "u", config.DefaultUser, "user ID for the chat session")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "log HTTP requests and responses")

	return cmd
}

// chat runs the terminal chat loop against a real client
func (a *app) chat(cmd *cobra.Command, params chat.Params) error {
	opts := a.clientOptions(params.Debug)
	if params.Debug {
		opts.Logger = newLogger(cmd.ErrOrStderr(), true)
	}

	client, err := a.newClient(cmd.Context(), params.Project, params.Location, opts)
	if err != nil {
		return err
	}
	defer client.Close()

	return chat.Run(cmd.Context(), client, chat.Options{
		AgentID: params.AgentID,
		UserID:  params.UserID,
		In:      cmd.InOrStdin(),
		Out:     cmd.OutOrStdout(),
		Prompt:  ui.IsTerminal(cmd.InOrStdin()),
	})
}
