package preflight

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/gigsdata/envcheck/internal/config"
	"github.com/gigsdata/envcheck/internal/engine"
	cerrors "github.com/gigsdata/envcheck/internal/errors"
	"github.com/gigsdata/envcheck/internal/output"
	"github.com/gigsdata/envcheck/internal/runner"
)

// CheckStatus represents the result of a preflight check.
type CheckStatus int

const (
	// StatusPass indicates the check passed successfully.
	StatusPass CheckStatus = iota
	// StatusWarn indicates a non-critical warning.
	StatusWarn
	// StatusFail indicates the check failed.
	StatusFail
)

// String returns the string representation of a CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusWarn:
		return "WARN"
	case StatusFail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// Check names, in pipeline order.
const (
	NameUV                = "uv"
	NameVirtualEnv        = "virtualenv"
	NamePackages          = "packages"
	NameEngineVersion     = "duckdb_version"
	NameDataFiles         = "data_files"
	NameEngineIntegration = "duckdb_integration"
	NameNotebook          = "notebook"
	NameJupyter           = "jupyter"
)

// CheckResult holds the result of a single preflight check.
type CheckResult struct {
	Name     string
	Status   CheckStatus
	Message  string
	Details  string
	Required bool
	// Err carries the code and remediation hint of a failed or degraded check.
	Err *cerrors.CheckError
}

// IsCritical returns true if this is a required check that failed.
func (r CheckResult) IsCritical() bool {
	return r.Required && r.Status == StatusFail
}

// Passed reports whether the check succeeded outright.
func (r CheckResult) Passed() bool {
	return r.Status == StatusPass
}

// Engine is the subset of the DuckDB engine the integration check uses.
type Engine interface {
	Smoke(ctx context.Context) (string, error)
	CountRows(ctx context.Context, path string) (int64, error)
	Close() error
}

// EngineOpener opens a fresh engine for one check.
type EngineOpener func(ctx context.Context) (Engine, error)

// Checker runs the preflight checks. It holds I/O dependencies only; the
// configuration is passed to each check.
type Checker struct {
	out        *output.Writer
	runner     runner.Runner
	openEngine EngineOpener
	logger     *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithOutput sets the output writer.
func WithOutput(w *output.Writer) Option {
	return func(c *Checker) {
		c.out = w
	}
}

// WithWriter sets a plain output writer over w.
func WithWriter(w io.Writer) Option {
	return func(c *Checker) {
		c.out = output.New(w)
	}
}

// WithRunner sets the external command runner.
func WithRunner(r runner.Runner) Option {
	return func(c *Checker) {
		c.runner = r
	}
}

// WithEngineOpener replaces the DuckDB engine factory.
func WithEngineOpener(open EngineOpener) Option {
	return func(c *Checker) {
		c.openEngine = open
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = l
	}
}

// New creates a new Checker with the given options.
func New(opts ...Option) *Checker {
	c := &Checker{
		out:    output.New(os.Stdout),
		runner: runner.Exec{},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.openEngine == nil {
		logger := c.logger
		c.openEngine = func(ctx context.Context) (Engine, error) {
			e, err := engine.Open(ctx, logger)
			if err != nil {
				return nil, err
			}
			return e, nil
		}
	}
	return c
}

// Report is the outcome of RunAll.
type Report struct {
	Results []CheckResult
	// Counts maps dataset label to row count. Empty unless the integration
	// check passed.
	Counts map[string]int64
}

// Passed reports whether every required check passed.
func (r Report) Passed() bool {
	return !HasCriticalFailures(r.Results)
}

// Failures returns the required checks that failed, in order.
func (r Report) Failures() []CheckResult {
	var out []CheckResult
	for _, res := range r.Results {
		if res.IsCritical() {
			out = append(out, res)
		}
	}
	return out
}

// RunAll runs every check in fixed order. No check is skipped because an
// earlier one failed.
func (c *Checker) RunAll(ctx context.Context, cfg config.Config) Report {
	results := make([]CheckResult, 0, 8)

	results = append(results, c.record(c.CheckUV(ctx, cfg)))
	results = append(results, c.record(c.CheckVirtualEnv(ctx, cfg)))
	results = append(results, c.record(c.CheckPackages(ctx, cfg)))
	results = append(results, c.record(c.CheckEngineVersion(ctx, cfg)))
	results = append(results, c.record(c.CheckDataFiles(cfg)))

	integration, counts := c.CheckEngineIntegration(ctx, cfg)
	results = append(results, c.record(integration))

	results = append(results, c.record(c.CheckNotebook(cfg)))
	results = append(results, c.record(c.CheckJupyter(ctx, cfg)))

	return Report{Results: results, Counts: counts}
}

// record logs the outcome of a check and passes it through.
func (c *Checker) record(r CheckResult) CheckResult {
	attrs := []any{
		slog.String("check", r.Name),
		slog.String("status", r.Status.String()),
		slog.Bool("required", r.Required),
	}
	if r.Err != nil {
		attrs = append(attrs, slog.String("error_code", r.Err.Code))
		if r.Err.Cause != nil {
			attrs = append(attrs, slog.String("cause", r.Err.Cause.Error()))
		}
	}
	c.logger.Debug("check finished", attrs...)
	return r
}

// HasCriticalFailures returns true if any required check failed.
func HasCriticalFailures(results []CheckResult) bool {
	for _, r := range results {
		if r.IsCritical() {
			return true
		}
	}
	return false
}

// SummaryStatus returns a summary status string for the results.
func SummaryStatus(results []CheckResult) string {
	hasWarnings := false

	for _, r := range results {
		if r.IsCritical() {
			return "failed"
		}
		if r.Status == StatusWarn || (r.Status == StatusFail && !r.Required) {
			hasWarnings = true
		}
	}

	if hasWarnings {
		return "ready_with_warnings"
	}
	return "ready"
}

// TableRows renders results for output.Writer.Table.
func TableRows(results []CheckResult) (header []string, rows [][]string) {
	header = []string{"Check", "Status", "Required", "Message"}
	for _, r := range results {
		required := "no"
		if r.Required {
			required = "yes"
		}
		rows = append(rows, []string{r.Name, r.Status.String(), required, r.Message})
	}
	return header, rows
}

func pass(name, msg string, required bool) CheckResult {
	return CheckResult{Name: name, Status: StatusPass, Message: msg, Required: required}
}

func fail(name string, err *cerrors.CheckError) CheckResult {
	return CheckResult{Name: name, Status: StatusFail, Message: err.Message, Required: true, Err: err}
}

func warn(name string, err *cerrors.CheckError) CheckResult {
	return CheckResult{Name: name, Status: StatusWarn, Message: err.Message, Required: false, Err: err}
}

// reason returns the text shown to the operator for err. For a CheckError
// that is its root cause, or its message when there is none.
func reason(err error) string {
	if ce, ok := cerrors.As(err); ok {
		if ce.Cause != nil {
			return ce.Cause.Error()
		}
		return ce.Message
	}
	return err.Error()
}
