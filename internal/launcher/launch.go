// Package launcher starts Jupyter on the starter notebook once the
// environment has been verified.
package launcher

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gigsdata/envcheck/internal/config"
	cerrors "github.com/gigsdata/envcheck/internal/errors"
	"github.com/gigsdata/envcheck/internal/output"
	"github.com/gigsdata/envcheck/internal/runner"
)

// Launcher runs Jupyter attached to the terminal.
type Launcher struct {
	out      *output.Writer
	attacher runner.Attacher
	stdio    runner.Stdio
	logger   *slog.Logger
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithAttacher replaces the command runner.
func WithAttacher(a runner.Attacher) Option {
	return func(l *Launcher) {
		l.attacher = a
	}
}

// WithStdio sets the streams handed to Jupyter.
func WithStdio(stdio runner.Stdio) Option {
	return func(l *Launcher) {
		l.stdio = stdio
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Launcher) {
		l.logger = logger
	}
}

// New creates a Launcher that reports progress to out.
func New(out *output.Writer, opts ...Option) *Launcher {
	l := &Launcher{
		out:      out,
		attacher: runner.Exec{},
		stdio:    runner.Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr},
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Launch runs `jupyter lab <notebook>` until it exits. An interrupt while
// Jupyter runs is a normal stop and returns nil. When the jupyter command
// is missing, the classic notebook server is tried instead.
func (l *Launcher) Launch(ctx context.Context, cfg config.Config) error {
	l.out.Newline()
	l.out.Statusf("🚀", "Starting Jupyter Lab with %s...", cfg.NotebookPath)
	l.out.Line("This will open your browser automatically.")
	l.out.Line("If it doesn't open, navigate to the URL shown below.")
	l.out.Newline()
	l.out.Line("Press Ctrl+C to stop Jupyter when you're done.")
	l.out.Newline()

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	l.logger.Debug("starting jupyter lab",
		slog.String("jupyter", cfg.Tools.Jupyter),
		slog.String("notebook", cfg.NotebookPath))

	err := l.attacher.Attach(runCtx, l.stdio, cfg.Tools.Jupyter, "lab", cfg.NotebookPath)
	switch {
	case runCtx.Err() != nil:
		l.stopped()
		return nil

	case err == nil:
		return nil

	case runner.IsNotFound(err):
		l.out.Error("Jupyter Lab command not found")
		l.out.Line("Trying regular Jupyter notebook...")
		return l.fallback(runCtx, cfg)

	default:
		l.out.Errorf("Error starting Jupyter: %v", err)
		return cerrors.New(cerrors.ErrCodeLaunchFailed, "Error starting Jupyter", err).
			WithDetail("command", cfg.Tools.Jupyter+" lab")
	}
}

func (l *Launcher) fallback(ctx context.Context, cfg config.Config) error {
	err := l.attacher.Attach(ctx, l.stdio, cfg.Tools.Jupyter, "notebook")
	switch {
	case ctx.Err() != nil:
		l.stopped()
		return nil
	case err == nil:
		return nil
	}

	l.out.Errorf("Could not start Jupyter: %v", err)
	return cerrors.New(cerrors.ErrCodeLaunchFailed, "Could not start Jupyter", err).
		WithDetail("command", cfg.Tools.Jupyter+" notebook").
		WithSuggestion("uv pip install -r requirements.txt")
}

func (l *Launcher) stopped() {
	l.out.Newline()
	l.out.Status("👋", "Jupyter Lab stopped.")
}

// PrintManualSteps tells the operator how to start Jupyter themselves.
func PrintManualSteps(out *output.Writer, cfg config.Config) {
	out.Section("📝", "To start analysis manually:")
	out.Status("", cfg.Tools.Jupyter+" lab")
	out.Newline()
	out.Hintf("Open %s to get started", cfg.NotebookPath)
}
