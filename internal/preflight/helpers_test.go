package preflight

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gigsdata/envcheck/internal/config"
	"github.com/gigsdata/envcheck/internal/runner"
	"github.com/gigsdata/envcheck/internal/runner/runnertest"
)

const testNotebook = `{
  "cells": [
    {"cell_type": "markdown", "source": ["# Analysis\n"]},
    {"cell_type": "code", "source": ["%load_ext sql\n"]},
    {"cell_type": "code", "source": ["%%sql\n", "SELECT 1\n"]}
  ],
  "nbformat": 4,
  "nbformat_minor": 5
}`

// fixture is a temporary exercise directory with every dataset and the
// starter notebook in place.
type fixture struct {
	dir string
	cfg config.Config
}

// newFixture writes the datasets with rows[i] data rows each and returns a
// config pointing at them.
func newFixture(t *testing.T, rows ...int) fixture {
	t.Helper()

	dir := t.TempDir()
	cfg := config.NewConfig()
	cfg.Tools.Python = "python3"

	for i := range cfg.Datasets {
		path := filepath.Join(dir, cfg.Datasets[i].Path)
		n := 3
		if i < len(rows) {
			n = rows[i]
		}
		writeCSV(t, path, n)
		cfg.Datasets[i].Path = path
	}

	cfg.NotebookPath = filepath.Join(dir, "analysis.ipynb")
	require.NoError(t, os.WriteFile(cfg.NotebookPath, []byte(testNotebook), 0o644))

	return fixture{dir: dir, cfg: cfg}
}

func writeCSV(t *testing.T, path string, rows int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	var b strings.Builder
	b.WriteString("customer_id,amount\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "%d,%d.5\n", i%2, i)
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
}

// healthyRunner scripts every external command the checks run for a fully
// provisioned environment.
func healthyRunner(cfg config.Config) *runnertest.Fake {
	f := runnertest.NewFake().
		On("uv --version", runnertest.Response{Stdout: "uv 0.5.1"}).
		On("python3 -c "+engineVersionProbe, runnertest.Response{Stdout: "1.2.1"}).
		On("python3 -c "+venvPrefixProbe, runnertest.Response{Stdout: "/work/.venv"}).
		On("jupyter lab --version", runnertest.Response{Stdout: "4.2.5"})
	for _, pkg := range cfg.RequiredPackages {
		f.On("python3 -c import "+pkg.Name, runnertest.Response{})
	}
	return f
}

func newTestChecker(r runner.Runner, opts ...Option) (*Checker, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	base := []Option{WithWriter(buf), WithRunner(r)}
	return New(append(base, opts...)...), buf
}
