package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vk/sectiongrid/internal/app"
	"github.com/vk/sectiongrid/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// options are the flags shared by every subcommand.
type options struct {
	settingsPath string
	envFile      string
	system       string
	logLevel     string
	logFormat    string
	workers      int
	healthPort   int
	bridgeURL    string
	namespace    string
}

// Execute runs the command line in args. Results go to out, logs to errOut.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	root := NewRootCommand(out, errOut)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// NewRootCommand builds the command tree.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "sectiongrid",
		Short: "Structural section analysis functions for node-graph editors",
		Long: `sectiongrid - reinforced concrete section functions as graph nodes

Evaluates graph documents of rebar, layout, preload, material and
section capacity components, or serves them live to a remote node
editor over socket.io.

Examples:
  sectiongrid functions
  sectiongrid describe CreateRebarSpacing
  sectiongrid eval beam.hcl --save solved.hcl
  sectiongrid bridge ./documents --url http://localhost:3000`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error()}
	})

	f := root.PersistentFlags()
	f.StringVar(&o.settingsPath, "config", "sectiongrid.yaml", "Path to the YAML settings file.")
	f.StringVar(&o.envFile, "env-file", ".env", "Path to a .env file with SECTIONGRID_* variables.")
	f.StringVar(&o.system, "system", "", "Unit system for documents that do not name one: metric-mm, metric-m or imperial.")
	f.StringVar(&o.logLevel, "log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	f.StringVar(&o.logFormat, "log-format", "", "Log output format. Options: 'text' or 'json'.")
	f.IntVar(&o.workers, "workers", 0, "Number of components solved concurrently. 0 uses every CPU.")

	root.AddCommand(
		newEvalCommand(o, errOut),
		newFunctionsCommand(o, errOut),
		newDescribeCommand(o, errOut),
		newBridgeCommand(o, errOut),
	)
	return root
}

// newApp resolves settings (file, then environment, then flags) and
// creates the application.
func newApp(cmd *cobra.Command, o *options, logW io.Writer, docs []string) (*app.App, error) {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	s, err := config.Load(o.settingsPath)
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	if err := s.ApplyEnv(os.LookupEnv); err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}

	flags := cmd.Flags()
	if flags.Changed("system") {
		s.System = o.system
	}
	if flags.Changed("log-level") {
		s.Log.Level = o.logLevel
	}
	if flags.Changed("log-format") {
		s.Log.Format = o.logFormat
	}
	if flags.Changed("workers") {
		s.Workers = o.workers
	}
	if flags.Changed("healthcheck-port") {
		s.HealthcheckPort = o.healthPort
	}
	if flags.Changed("url") {
		s.Bridge.URL = o.bridgeURL
	}
	if flags.Changed("namespace") {
		s.Bridge.Namespace = o.namespace
	}

	cfg, err := app.NewConfig(app.Config{Settings: *s, Documents: docs})
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	return app.NewApp(logW, cfg), nil
}

func errorf(code int, format string, args ...any) error {
	return &ExitError{Code: code, Message: fmt.Sprintf(format, args...)}
}
