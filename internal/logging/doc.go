// Package logging configures slog for envcheck.
//
// Human-facing check output never goes through slog; it is printed by the
// output package. slog carries diagnostics only: by default warnings and
// errors go to stderr as text, and with --debug everything down to DEBUG is
// written as JSON to ~/.envcheck/logs/envcheck.log with size-based rotation.
// Every record carries the run_id of the invocation that produced it.
package logging
