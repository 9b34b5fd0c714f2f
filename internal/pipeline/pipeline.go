// Package pipeline runs the verification workflow end to end: banner,
// checks, summary, and the optional Jupyter launch.
package pipeline

import (
	"context"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/gigsdata/envcheck/internal/config"
	"github.com/gigsdata/envcheck/internal/engine"
	cerrors "github.com/gigsdata/envcheck/internal/errors"
	"github.com/gigsdata/envcheck/internal/launcher"
	"github.com/gigsdata/envcheck/internal/output"
	"github.com/gigsdata/envcheck/internal/preflight"
)

// Banner is the first line of every run.
const Banner = "Gigs Data Analyst Challenge - Environment Verification"

// LaunchMode decides what happens after a passing run.
type LaunchMode int

const (
	// LaunchAsk prompts the operator.
	LaunchAsk LaunchMode = iota
	// LaunchAlways starts Jupyter without asking.
	LaunchAlways
	// LaunchNever prints the manual steps without asking.
	LaunchNever
)

// Launcher starts Jupyter.
type Launcher interface {
	Launch(ctx context.Context, cfg config.Config) error
}

// DistinctCounter counts distinct values of column in the file at path.
type DistinctCounter func(ctx context.Context, path, column string) (int64, error)

// Deps holds everything one run needs.
type Deps struct {
	Config   config.Config
	Out      *output.Writer
	In       io.Reader
	Checker  *preflight.Checker
	Launcher Launcher
	// CountDistinct backs the unique customer line. Defaults to a fresh
	// DuckDB engine.
	CountDistinct DistinctCounter
	Logger        *slog.Logger
	Mode          LaunchMode
	Verbose       bool
}

// Outcome summarizes a run.
type Outcome struct {
	Passed   bool
	Prompted bool
	// Launched is set only when the launcher returned without error.
	Launched bool
	Report   preflight.Report
	// LaunchErr is set when Jupyter could not be started. It does not make
	// the run a failure.
	LaunchErr error
}

// Run executes the workflow. The launch question is only reached when
// every required check passed.
func Run(ctx context.Context, d Deps) Outcome {
	d = withDefaults(d)
	out := d.Out

	out.Status("🔍", Banner)
	out.Rule()

	report := d.Checker.RunAll(ctx, d.Config)
	outcome := Outcome{Passed: report.Passed(), Report: report}

	if d.Verbose {
		out.Newline()
		out.Table(preflight.TableRows(report.Results))
	}

	out.Newline()
	out.Rule()

	if !outcome.Passed {
		printFailures(out, report)
		out.Rule()
		d.Logger.Info("verification failed", slog.Int("failed", len(report.Failures())))
		return outcome
	}

	out.Success("All validation checks passed! Environment is ready.")
	printDataSummary(ctx, d, report.Counts)

	out.Section("🚀", "Ready to start your analysis!")
	out.Statusf("", "1. Open %s in Jupyter Lab", d.Config.NotebookPath)
	out.Status("", "2. Follow the setup cells to load data into DuckDB")
	out.Status("", "3. Start your analysis!")

	launch := false
	switch d.Mode {
	case LaunchAlways:
		launch = true
	case LaunchAsk:
		outcome.Prompted = true
		launch = launcher.Confirm(out, d.In)
	}

	if launch {
		if err := d.Launcher.Launch(ctx, d.Config); err != nil {
			outcome.LaunchErr = err
			d.Logger.LogAttrs(ctx, slog.LevelWarn, "jupyter launch failed", cerrors.FormatForLog(err)...)
		} else {
			outcome.Launched = true
		}
	} else {
		launcher.PrintManualSteps(out, d.Config)
	}

	out.Rule()
	return outcome
}

func withDefaults(d Deps) Deps {
	if d.Logger == nil {
		d.Logger = slog.New(slog.DiscardHandler)
	}
	if d.Checker == nil {
		d.Checker = preflight.New(preflight.WithOutput(d.Out), preflight.WithLogger(d.Logger))
	}
	if d.Launcher == nil {
		d.Launcher = launcher.New(d.Out, launcher.WithLogger(d.Logger))
	}
	if d.CountDistinct == nil {
		logger := d.Logger
		d.CountDistinct = func(ctx context.Context, path, column string) (int64, error) {
			e, err := engine.Open(ctx, logger)
			if err != nil {
				return 0, err
			}
			defer func() { _ = e.Close() }()
			return e.CountDistinct(ctx, path, column)
		}
	}
	return d
}

func printFailures(out *output.Writer, report preflight.Report) {
	out.Error("Some validation checks failed.")
	for _, r := range report.Failures() {
		out.Itemf("%s: %s", r.Name, r.Message)
	}

	out.Section("💡", "Common fixes:")
	out.Item("Install missing packages: uv pip install -r requirements.txt")
	out.Item("Activate virtual environment: source .venv/bin/activate")
	out.Item("Ensure you're in the data-analyst directory")
}

// printDataSummary lists the row counts and, when it can be computed, the
// number of distinct customers. A failed distinct count is logged and the
// line is left out.
func printDataSummary(ctx context.Context, d Deps, counts map[string]int64) {
	out := d.Out
	out.Section("📊", "Data Summary:")

	if len(counts) == 0 {
		out.Item("Data files verified but counts unavailable")
		return
	}

	for _, ds := range d.Config.Datasets {
		if n, ok := counts[ds.Label]; ok {
			out.Itemf("%s: %s", ds.Description, humanize.Comma(n))
		}
	}

	ds, ok := d.Config.DatasetByLabel(d.Config.Summary.Dataset)
	if !ok {
		return
	}
	column := d.Config.Summary.DistinctColumn
	n, err := d.CountDistinct(ctx, ds.Path, column)
	if err != nil {
		d.Logger.Debug("distinct count unavailable",
			slog.String("path", ds.Path),
			slog.String("column", column),
			slog.String("error", err.Error()))
		return
	}
	out.Itemf("Unique customers: %s", humanize.Comma(n))
}
