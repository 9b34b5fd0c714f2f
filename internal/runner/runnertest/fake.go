// Package runnertest provides a scripted runner for tests.
package runnertest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gigsdata/envcheck/internal/runner"
)

// Response is a scripted outcome for Fake.
type Response struct {
	Stdout string
	// Exit is a non-zero exit code to report. Ignored when NotFound is set.
	Exit int
	// NotFound reports the executable as missing.
	NotFound bool
	// Hang blocks until ctx is done and then reports a timeout.
	Hang bool
}

// Fake is a scripted runner.Runner and runner.Attacher. Commands are matched
// by their full command line joined with single spaces. Unscripted commands
// report runner.ErrNotFound.
type Fake struct {
	mu        sync.Mutex
	responses map[string]Response
	calls     []string
}

var (
	_ runner.Runner   = (*Fake)(nil)
	_ runner.Attacher = (*Fake)(nil)
)

// NewFake returns a Fake with no scripted commands.
func NewFake() *Fake {
	return &Fake{responses: make(map[string]Response)}
}

// On scripts the response for a command line.
func (f *Fake) On(cmdline string, r Response) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = r
	return f
}

// Calls returns the command lines run so far, in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Run implements runner.Runner.
func (f *Fake) Run(ctx context.Context, name string, args ...string) (runner.Result, error) {
	r := f.lookup(name, args)

	switch {
	case r.NotFound:
		return runner.Result{}, fmt.Errorf("%s: %w", name, runner.ErrNotFound)
	case r.Hang:
		<-ctx.Done()
		return runner.Result{}, fmt.Errorf("%s: %w", name, runner.ErrTimeout)
	case r.Exit != 0:
		return runner.Result{Stdout: r.Stdout, ExitCode: r.Exit}, &runner.ExitError{Name: name, Code: r.Exit}
	}
	return runner.Result{Stdout: r.Stdout}, nil
}

// Attach implements runner.Attacher. Scripted stdout is copied to stdio.Out.
func (f *Fake) Attach(ctx context.Context, stdio runner.Stdio, name string, args ...string) error {
	res, err := f.Run(ctx, name, args...)
	if res.Stdout != "" && stdio.Out != nil {
		_, _ = fmt.Fprintln(stdio.Out, res.Stdout)
	}
	return err
}

func (f *Fake) lookup(name string, args []string) Response {
	cmdline := strings.Join(append([]string{name}, args...), " ")

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cmdline)
	if r, ok := f.responses[cmdline]; ok {
		return r
	}
	return Response{NotFound: true}
}
