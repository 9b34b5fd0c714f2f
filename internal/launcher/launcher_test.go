package launcher

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigsdata/envcheck/internal/config"
	cerrors "github.com/gigsdata/envcheck/internal/errors"
	"github.com/gigsdata/envcheck/internal/output"
	"github.com/gigsdata/envcheck/internal/runner"
	"github.com/gigsdata/envcheck/internal/runner/runnertest"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"lowercase y", "y\n", true},
		{"uppercase Y", "Y\n", true},
		{"padded y", "  y \n", true},
		{"y without newline before EOF", "y", true},
		{"windows line ending", "y\r\n", true},
		{"yes is not y", "yes\n", false},
		{"n", "n\n", false},
		{"empty line", "\n", false},
		{"EOF", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}

			got := Confirm(output.New(buf), strings.NewReader(tt.input))

			assert.Equal(t, tt.want, got)
			assert.True(t, strings.HasPrefix(buf.String(), LaunchPrompt))
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("tty detached") }

func TestConfirm_ReadErrorIsNo(t *testing.T) {
	assert.False(t, Confirm(output.New(&bytes.Buffer{}), failingReader{}))
}

func newTestLauncher(f *runnertest.Fake) (*Launcher, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := New(output.New(buf),
		WithAttacher(f),
		WithStdio(runner.Stdio{In: strings.NewReader(""), Out: buf, Err: buf}))
	return l, buf
}

func TestLaunch_RunsJupyterLabOnNotebook(t *testing.T) {
	// Given
	f := runnertest.NewFake().On("jupyter lab analysis.ipynb", runnertest.Response{Stdout: "[I ServerApp] Jupyter Server is running"})
	l, buf := newTestLauncher(f)

	// When
	err := l.Launch(context.Background(), config.NewConfig())

	// Then
	require.NoError(t, err)
	assert.Equal(t, []string{"jupyter lab analysis.ipynb"}, f.Calls())

	out := buf.String()
	assert.Contains(t, out, "🚀 Starting Jupyter Lab with analysis.ipynb...")
	assert.Contains(t, out, "Press Ctrl+C to stop Jupyter when you're done.")
	assert.Contains(t, out, "Jupyter Server is running")
}

func TestLaunch_InterruptIsCleanStop(t *testing.T) {
	// Given: Jupyter runs until interrupted
	f := runnertest.NewFake().On("jupyter lab analysis.ipynb", runnertest.Response{Hang: true})
	l, buf := newTestLauncher(f)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	// When
	err := l.Launch(ctx, config.NewConfig())

	// Then
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "👋 Jupyter Lab stopped.")
}

func TestLaunch_FallsBackToNotebook(t *testing.T) {
	// Given: lab is missing but the classic notebook server works
	f := runnertest.NewFake().
		On("jupyter lab analysis.ipynb", runnertest.Response{NotFound: true}).
		On("jupyter notebook", runnertest.Response{})
	l, buf := newTestLauncher(f)

	// When
	err := l.Launch(context.Background(), config.NewConfig())

	// Then
	require.NoError(t, err)
	assert.Equal(t, []string{"jupyter lab analysis.ipynb", "jupyter notebook"}, f.Calls())
	assert.Contains(t, buf.String(), "❌ Jupyter Lab command not found")
	assert.Contains(t, buf.String(), "Trying regular Jupyter notebook...")
}

func TestLaunch_FallbackFailure(t *testing.T) {
	f := runnertest.NewFake()
	l, buf := newTestLauncher(f)

	err := l.Launch(context.Background(), config.NewConfig())

	require.Error(t, err)
	assert.Equal(t, cerrors.ErrCodeLaunchFailed, cerrors.GetCode(err))
	assert.Contains(t, buf.String(), "❌ Could not start Jupyter: ")
}

func TestLaunch_OtherErrors(t *testing.T) {
	f := runnertest.NewFake().On("jupyter lab analysis.ipynb", runnertest.Response{Exit: 1})
	l, buf := newTestLauncher(f)

	err := l.Launch(context.Background(), config.NewConfig())

	require.Error(t, err)
	assert.Equal(t, cerrors.ErrCodeLaunchFailed, cerrors.GetCode(err))
	assert.Contains(t, buf.String(), "❌ Error starting Jupyter: jupyter exited with status 1")
	assert.Len(t, f.Calls(), 1)
}

func TestPrintManualSteps(t *testing.T) {
	buf := &bytes.Buffer{}

	PrintManualSteps(output.New(buf), config.NewConfig())

	assert.Equal(t,
		"\n📝 To start analysis manually:\n   jupyter lab\n\n💡 Open analysis.ipynb to get started\n",
		buf.String())
}
