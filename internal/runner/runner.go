// Package runner executes external commands for the checks and the launcher.
//
// Errors are normalized so callers can tell a missing executable, a timeout
// and a non-zero exit apart with errors.Is / errors.As.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"
)

const (
	// waitDelay bounds how long Run waits for output pipes after the process
	// is killed, in case a grandchild still holds them open.
	waitDelay = time.Second

	// attachGrace is how long an attached command has to exit after it is
	// interrupted before it is killed.
	attachGrace = 10 * time.Second
)

var (
	// ErrNotFound means the executable could not be located.
	ErrNotFound = errors.New("command not found")
	// ErrTimeout means the context deadline expired before the command exited.
	ErrTimeout = errors.New("command timed out")
)

// ExitError reports a command that ran but exited non-zero.
type ExitError struct {
	Name   string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s exited with status %d: %s", e.Name, e.Code, e.Stderr)
	}
	return fmt.Sprintf("%s exited with status %d", e.Name, e.Code)
}

// Result is the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner runs a command to completion and captures its output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// Stdio is the set of streams handed to an attached command.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Attacher runs a command connected to the caller's streams.
type Attacher interface {
	Attach(ctx context.Context, stdio Stdio, name string, args ...string) error
}

// Exec runs commands with os/exec.
type Exec struct{}

var (
	_ Runner   = Exec{}
	_ Attacher = Exec{}
)

// Run implements Runner. Stdout and stderr are trimmed.
func (Exec) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // names come from configuration
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	res := Result{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}
	if err == nil {
		return res, nil
	}
	return classify(ctx, name, err, &res)
}

// Attach implements Attacher. The command inherits the given streams and
// is not bounded by any timeout beyond ctx. Cancelling ctx interrupts the
// command rather than killing it, so servers get to shut down cleanly.
func (Exec) Attach(ctx context.Context, stdio Stdio, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // names come from configuration
	cmd.Stdin = stdio.In
	cmd.Stdout = stdio.Out
	cmd.Stderr = stdio.Err
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = attachGrace

	if err := cmd.Run(); err != nil {
		_, err = classify(ctx, name, err, &Result{})
		return err
	}
	return nil
}

func classify(ctx context.Context, name string, err error, res *Result) (Result, error) {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return *res, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return *res, fmt.Errorf("%s: %w", name, ErrTimeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return *res, &ExitError{Name: name, Code: res.ExitCode, Stderr: res.Stderr}
	}
	return *res, fmt.Errorf("%s: %w", name, err)
}

// IsNotFound reports whether err means the executable was missing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTimeout reports whether err means the command ran out of time.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsExit reports whether err is a non-zero exit.
func IsExit(err error) bool {
	var e *ExitError
	return errors.As(err, &e)
}
