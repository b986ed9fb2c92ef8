package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2/google"

	"github.com/braunmar/agent-engine/pkg/chat"
	"github.com/braunmar/agent-engine/pkg/config"
	"github.com/braunmar/agent-engine/pkg/engine"
	"github.com/braunmar/agent-engine/pkg/ui"
)

const version = "0.1.0"

// deps are the collaborators a command invocation talks to
type deps struct {
	// findCredentials locates application default credentials
	findCredentials config.CredentialsFinder
	newClient       func(ctx context.Context, project, location string, opts engine.Options) (engine.API, error)
	// runChat, when set, replaces the built-in chat loop
	runChat func(ctx context.Context, params chat.Params) error
	getenv  func(string) string
}

func defaultDeps() deps {
	return deps{
		findCredentials: google.FindDefaultCredentials,
		newClient: func(ctx context.Context, project, location string, opts engine.Options) (engine.API, error) {
			return engine.NewClient(ctx, project, location, opts)
		},
		getenv: os.Getenv,
	}
}

// app carries the state shared by every command of one invocation
type app struct {
	deps

	configPath string
	baseURL    string
	apiVersion string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
}

// Execute runs the root command and reports any error
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, newRootCmd(defaultDeps()))
}

// run executes root and renders a failure as a single error line
func run(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if err != nil {
		reportError(root.ErrOrStderr(), err)
	}
	return err
}

func newRootCmd(d deps) *cobra.Command {
	a := &app{deps: d}

	root := &cobra.Command{
		Use:   "agent-engine",
		Short: "Agent Engine CLI - Manage your agents with ease",
		Long: `Agent Engine CLI - Manage your agents with ease.

Create, inspect and delete Vertex AI Agent Engine agents, browse their
sessions, sandboxes and memories, and chat with a deployed agent.

The project defaults to the one configured for Application Default
Credentials when --project is omitted.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	// Add global flags
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/agent-engine/config.yml)")
	root.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "override the Vertex AI base URL")
	root.PersistentFlags().StringVar(&a.apiVersion, "api-version", "", "override the Vertex AI API version (default "+engine.DefaultAPIVersion+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	root.AddCommand(newVersionCmd())
	root.AddCommand(newListCmd(a))
	root.AddCommand(newGetCmd(a))
	root.AddCommand(newCreateCmd(a))
	root.AddCommand(newDeleteCmd(a))
	root.AddCommand(newChatCmd(a))
	root.AddCommand(newSessionsCmd(a))
	root.AddCommand(newSandboxesCmd(a))
	root.AddCommand(newMemoriesCmd(a))
	root.AddCommand(newDoctorCmd(a))

	// Customize help template
	root.SetHelpTemplate(`{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}Usage:
  {{.UseLine}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`)

	return root
}

// setup loads configuration and the logger before any command runs
func (a *app) setup(cmd *cobra.Command) error {
	a.logger = newLogger(cmd.ErrOrStderr(), a.verbose)

	cfg, err := config.Load(a.configPath, a.getenv)
	if err != nil {
		return &config.ConfigurationError{Message: err.Error()}
	}
	a.cfg = cfg
	a.logger.Debug("configuration loaded", "path", cfg.Path())

	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// commandError is a failure of the operation a command performs
type commandError struct {
	action string
	err    error
}

func (e *commandError) Error() string {
	return fmt.Sprintf("Error %s: %v", e.action, e.err)
}

func (e *commandError) Unwrap() error {
	return e.err
}

func failed(action string, err error) error {
	return &commandError{action: action, err: err}
}

// reportError prints err the way the user sees it
func reportError(w io.Writer, err error) {
	p := ui.NewPrinter(w)

	var cmdErr *commandError
	if errors.As(err, &cmdErr) {
		p.Error(cmdErr.Error())
		return
	}
	p.ErrorF("Error: %v", err)
}
