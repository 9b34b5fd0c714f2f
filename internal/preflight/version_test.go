package preflight

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gigsdata/envcheck/internal/config"
	cerrors "github.com/gigsdata/envcheck/internal/errors"
	"github.com/gigsdata/envcheck/internal/runner/runnertest"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input               string
		major, minor, patch int
		ok                  bool
	}{
		{"1.2.1", 1, 2, 1, true},
		{"v1.3.0", 1, 3, 0, true},
		{"1.2", 1, 2, 0, true},
		{"1.4.0.dev1234", 1, 4, 0, true},
		{"duckdb 0.10.3", 0, 10, 3, true},
		{"12.34.56", 12, 34, 56, true},
		{"unknown", 0, 0, 0, false},
		{"", 0, 0, 0, false},
		{"1", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			major, minor, patch, ok := ParseVersion(tt.input)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.major, major)
			assert.Equal(t, tt.minor, minor)
			assert.Equal(t, tt.patch, patch)
		})
	}
}

func TestMeetsMinimum(t *testing.T) {
	req := config.Version{Major: 1, Minor: 2}

	tests := []struct {
		major, minor int
		want         bool
	}{
		{1, 2, true},
		{1, 3, true},
		{2, 0, true},
		{1, 1, false},
		{0, 9, false},
		{0, 99, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MeetsMinimum(tt.major, tt.minor, req), "%d.%d", tt.major, tt.minor)
	}
}

func TestCheckEngineVersion(t *testing.T) {
	tests := []struct {
		name     string
		response runnertest.Response
		status   CheckStatus
		code     string
		output   string
	}{
		{
			name:     "supported",
			response: runnertest.Response{Stdout: "1.2.1"},
			status:   StatusPass,
			output:   "✅ DuckDB version supports required features",
		},
		{
			name:     "newer major",
			response: runnertest.Response{Stdout: "2.0.0"},
			status:   StatusPass,
			output:   "✅ DuckDB version: 2.0.0",
		},
		{
			name:     "too old",
			response: runnertest.Response{Stdout: "1.1.3"},
			status:   StatusFail,
			code:     cerrors.ErrCodeVersionTooOld,
			output:   "❌ DuckDB version too old (need 1.2+)",
		},
		{
			name:     "unparsable",
			response: runnertest.Response{Stdout: "unknown"},
			status:   StatusFail,
			code:     cerrors.ErrCodeVersionUnparsable,
			output:   "❌ Could not parse DuckDB version",
		},
		{
			name:     "duckdb not importable",
			response: runnertest.Response{Exit: 1},
			status:   StatusFail,
			code:     cerrors.ErrCodeToolFailed,
			output:   "❌ Error checking DuckDB version:",
		},
		{
			name:     "no interpreter",
			response: runnertest.Response{NotFound: true},
			status:   StatusFail,
			code:     cerrors.ErrCodeToolFailed,
			output:   "❌ Error checking DuckDB version:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			cfg := config.NewConfig()
			cfg.Tools.Python = "python3"
			c, buf := newTestChecker(runnertest.NewFake().On("python3 -c "+engineVersionProbe, tt.response))

			// When
			res := c.CheckEngineVersion(context.Background(), cfg)

			// Then
			assert.Equal(t, tt.status, res.Status)
			assert.True(t, res.Required)
			assert.Contains(t, buf.String(), tt.output)
			if tt.code != "" {
				assert.Equal(t, tt.code, res.Err.Code)
			}
		})
	}
}

func TestCheckEngineVersion_TooOldSuggestsUpgrade(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Tools.Python = "python3"
	c, buf := newTestChecker(runnertest.NewFake().On("python3 -c "+engineVersionProbe, runnertest.Response{Stdout: "0.9.2"}))

	res := c.CheckEngineVersion(context.Background(), cfg)

	assert.Equal(t, "uv pip install duckdb --upgrade", res.Err.Suggestion)
	assert.Contains(t, buf.String(), "💡 Please upgrade with: uv pip install duckdb --upgrade")
}
