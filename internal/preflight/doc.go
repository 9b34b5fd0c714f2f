// Package preflight runs the environment checks for the analyst exercise.
//
// Checks come in two kinds. Optional probes (uv, virtual environment) only
// ever pass or warn and never affect the outcome. Required checks
// (packages, DuckDB version, data files, DuckDB integration, starter
// notebook, Jupyter) fail the run when their precondition is missing.
//
// Every check prints its own progress lines, converts any underlying error
// into a CheckResult, and never returns an error to the caller:
//
//	checker := preflight.New(preflight.WithOutput(w))
//	report := checker.RunAll(ctx, cfg)
//	if !report.Passed() {
//	    // print failures, do not launch
//	}
package preflight
