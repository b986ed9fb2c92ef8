package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/braunmar/agent-engine/pkg/engine"
	"github.com/braunmar/agent-engine/pkg/ui"
)

func identityChoices() string {
	names := make([]string, len(engine.IdentityTypes))
	for i, t := range engine.IdentityTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func newCreateCmd(a *app) *cobra.Command {
	var target targetFlags
	var identity, serviceAccount string

	cmd := &cobra.Command{
		Use:   "create <display-name>",
		Short: "Create a new agent without deploying code",
		Long: `Create a new agent with the given display name.

No code is deployed. The agent runs as a platform-managed agent identity
unless --identity service_account is given, in which case --service-account
selects the account (the platform default is used when omitted).

Example:
  agent-engine create "My Agent"
  agent-engine create "My Agent" --identity service_account --service-account sa@my-project.iam.gserviceaccount.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idType := engine.IdentityType(identity)
			if !slices.Contains(engine.IdentityTypes, idType) {
				return fmt.Errorf("invalid value %q for --identity: must be one of %s", identity, identityChoices())
			}

			client, err := a.connect(cmd.Context(), target, "creating agent")
			if err != nil {
				return err
			}
			defer client.Close()

			p := ui.NewPrinter(cmd.OutOrStdout())
			if serviceAccount != "" && idType != engine.IdentityServiceAccount {
				p.WarningF("--service-account is ignored unless --identity is %s", engine.IdentityServiceAccount)
			}

			displayName := args[0]
			p.Loading(fmt.Sprintf("Creating agent '%s'...", displayName))

			agent, err := client.CreateAgent(cmd.Context(), engine.CreateRequest{
				DisplayName:    displayName,
				IdentityType:   idType,
				ServiceAccount: serviceAccount,
			})
			if err != nil {
				return failed("creating agent", err)
			}

			p.Success("Agent created successfully!")
			p.PrintStatusLine("Name", agent.ShortName)
			p.PrintStatusLine("Resource", agent.Name)
			return nil
		},
	}

	addTargetFlags(cmd, &target)
	cmd.Flags().StringVarP(&identity, "identity", "i", string(engine.IdentityAgent), "identity type: "+identityChoices())
	cmd.Flags().StringVarP(&serviceAccount, "service-account", "s", "", "service account email (with --identity service_account)")

	return cmd
}
