// Package cmd provides the CLI commands for envcheck.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gigsdata/envcheck/internal/config"
	cerrors "github.com/gigsdata/envcheck/internal/errors"
	"github.com/gigsdata/envcheck/internal/launcher"
	"github.com/gigsdata/envcheck/internal/logging"
	"github.com/gigsdata/envcheck/internal/output"
	"github.com/gigsdata/envcheck/internal/pipeline"
	"github.com/gigsdata/envcheck/internal/preflight"
	"github.com/gigsdata/envcheck/internal/runner"
	"github.com/gigsdata/envcheck/pkg/version"
)

// ErrChecksFailed is returned under --strict when a required check failed.
var ErrChecksFailed = errors.New("required checks failed")

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	debug      bool
	noColor    bool
}

// app carries the process-wide collaborators. Tests swap the runners.
type app struct {
	flags    globalFlags
	runner   runner.Runner
	attacher runner.Attacher
	logger   *slog.Logger
	cleanup  func()
}

func newApp() *app {
	return &app{
		runner:   runner.Exec{},
		attacher: runner.Exec{},
		logger:   logging.Discard(),
	}
}

// NewRootCmd creates the root command for the envcheck CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	var (
		verbose  bool
		yes      bool
		noLaunch bool
		strict   bool
	)

	cmd := &cobra.Command{
		Use:   "envcheck",
		Short: "Verify the environment for the Gigs data analyst challenge",
		Long: `envcheck verifies that this machine is ready for the data analyst
challenge: Python packages, the DuckDB client version, the data files,
the starter notebook and Jupyter.

When every required check passes it offers to start Jupyter Lab on the
starter notebook.`,
		Example: `  # Run all checks and answer the launch prompt
  envcheck

  # Run the checks without prompting (CI)
  envcheck --no-launch --strict

  # Show a per-check results table
  envcheck --verbose`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}

			mode := pipeline.LaunchAsk
			switch {
			case noLaunch:
				mode = pipeline.LaunchNever
			case yes:
				mode = pipeline.LaunchAlways
			}

			out := a.output(cmd)
			outcome := pipeline.Run(cmd.Context(), pipeline.Deps{
				Config: cfg,
				Out:    out,
				In:     cmd.InOrStdin(),
				Checker: preflight.New(
					preflight.WithOutput(out),
					preflight.WithRunner(a.runner),
					preflight.WithLogger(a.logger)),
				Launcher: a.launcher(cmd, out),
				Logger:   a.logger,
				Mode:     mode,
				Verbose:  verbose,
			})

			a.logger.Info("verification finished",
				slog.Bool("passed", outcome.Passed),
				slog.String("status", preflight.SummaryStatus(outcome.Report.Results)),
				slog.Bool("launched", outcome.Launched))

			if strict && !outcome.Passed {
				return ErrChecksFailed
			}
			return nil
		},
	}

	cmd.SetVersionTemplate("envcheck version {{.Version}}\n")

	// Run flags
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print a results table after the checks")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Start Jupyter Lab without asking when all checks pass")
	cmd.Flags().BoolVar(&noLaunch, "no-launch", false, "Never offer to start Jupyter Lab")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when a required check fails")
	cmd.MarkFlagsMutuallyExclusive("yes", "no-launch")

	// Configuration flags, also read by the config commands
	cmd.PersistentFlags().StringVarP(&a.flags.configPath, "config", "c", "", "Config file (default .envcheck.yaml in the working directory)")
	defaults := config.NewConfig()
	cmd.PersistentFlags().String("notebook", defaults.NotebookPath, "Starter notebook path")
	cmd.PersistentFlags().String("python", "", "Python interpreter for package probes (default $VIRTUAL_ENV/bin/python or python3)")
	cmd.PersistentFlags().Duration("jupyter-timeout", defaults.JupyterTimeout, "Timeout for the Jupyter availability probe")

	// Output and logging flags
	cmd.PersistentFlags().BoolVar(&a.flags.noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolVar(&a.flags.debug, "debug", false, "Enable debug logging to ~/.envcheck/logs/")

	cmd.PersistentPreRunE = a.startLogging
	cmd.PersistentPostRunE = a.stopLogging

	cmd.AddCommand(newLaunchCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startLogging installs the default stderr logger, or in debug mode the
// rotating file logger with warnings still copied to stderr.
func (a *app) startLogging(cmd *cobra.Command, _ []string) error {
	cfg := logging.DefaultConfig()
	if a.flags.debug {
		cfg = logging.DebugConfig()
	}
	cfg.Stderr = cmd.ErrOrStderr()

	logger, cleanup, err := logging.Setup(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	a.logger = logger
	a.cleanup = cleanup
	slog.SetDefault(logger)

	if a.flags.debug {
		logger.Info("debug logging enabled",
			slog.String("log_file", cfg.FilePath),
			slog.String("version", version.Short()),
			slog.String("command", cmd.CommandPath()))
	}
	return nil
}

func (a *app) stopLogging(_ *cobra.Command, _ []string) error {
	if a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
	return nil
}

func (a *app) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(a.flags.configPath, cmd.Flags())
	if err != nil {
		a.logger.LogAttrs(cmd.Context(), slog.LevelError, "config load failed", cerrors.FormatForLog(err)...)
		return config.Config{}, err
	}
	a.logger.Debug("config loaded",
		slog.String("source", cfg.Source),
		slog.String("notebook", cfg.NotebookPath),
		slog.Duration("jupyter_timeout", cfg.JupyterTimeout))
	return cfg, nil
}

func (a *app) output(cmd *cobra.Command) *output.Writer {
	return output.ForTerminal(cmd.OutOrStdout(), a.flags.noColor)
}

func (a *app) launcher(cmd *cobra.Command, out *output.Writer) *launcher.Launcher {
	return launcher.New(out,
		launcher.WithAttacher(a.attacher),
		launcher.WithStdio(runner.Stdio{
			In:  cmd.InOrStdin(),
			Out: cmd.OutOrStdout(),
			Err: cmd.ErrOrStderr(),
		}),
		launcher.WithLogger(a.logger))
}

// Execute runs the root command. Errors are printed to stderr.
//
// Interrupts are left to their default behavior except while Jupyter runs,
// so Ctrl+C at the launch prompt still exits.
func Execute() error {
	err := NewRootCmd().ExecuteContext(context.Background())
	if err != nil && !errors.Is(err, ErrChecksFailed) {
		fmt.Fprint(os.Stderr, cerrors.FormatForCLI(err))
	}
	return err
}
