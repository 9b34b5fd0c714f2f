package preflight

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigsdata/envcheck/internal/runner/runnertest"
)

func TestCheckStatus_String(t *testing.T) {
	tests := []struct {
		status CheckStatus
		want   string
	}{
		{StatusPass, "PASS"},
		{StatusWarn, "WARN"},
		{StatusFail, "FAIL"},
		{CheckStatus(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestCheckResult_IsCritical(t *testing.T) {
	tests := []struct {
		name     string
		result   CheckResult
		expected bool
	}{
		{
			name:     "required pass is not critical",
			result:   CheckResult{Status: StatusPass, Required: true},
			expected: false,
		},
		{
			name:     "required fail is critical",
			result:   CheckResult{Status: StatusFail, Required: true},
			expected: true,
		},
		{
			name:     "optional fail is not critical",
			result:   CheckResult{Status: StatusFail, Required: false},
			expected: false,
		},
		{
			name:     "optional warn is not critical",
			result:   CheckResult{Status: StatusWarn, Required: false},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.result.IsCritical())
		})
	}
}

func TestSummaryStatus(t *testing.T) {
	tests := []struct {
		name    string
		results []CheckResult
		want    string
	}{
		{
			name:    "all pass",
			results: []CheckResult{{Status: StatusPass, Required: true}},
			want:    "ready",
		},
		{
			name: "optional warning",
			results: []CheckResult{
				{Status: StatusWarn, Required: false},
				{Status: StatusPass, Required: true},
			},
			want: "ready_with_warnings",
		},
		{
			name: "required failure wins",
			results: []CheckResult{
				{Status: StatusWarn, Required: false},
				{Status: StatusFail, Required: true},
			},
			want: "failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SummaryStatus(tt.results))
			assert.Equal(t, tt.want == "failed", HasCriticalFailures(tt.results))
		})
	}
}

func TestTableRows(t *testing.T) {
	header, rows := TableRows([]CheckResult{
		{Name: NameUV, Status: StatusWarn, Message: "uv is not installed (optional)"},
		{Name: NameJupyter, Status: StatusPass, Required: true, Message: "Jupyter Lab: 4.2.5"},
	})

	assert.Equal(t, []string{"Check", "Status", "Required", "Message"}, header)
	assert.Equal(t, [][]string{
		{"uv", "WARN", "no", "uv is not installed (optional)"},
		{"jupyter", "PASS", "yes", "Jupyter Lab: 4.2.5"},
	}, rows)
}

func TestChecker_New_Defaults(t *testing.T) {
	c := New()

	assert.NotNil(t, c.out)
	assert.NotNil(t, c.runner)
	assert.NotNil(t, c.openEngine)
	assert.NotNil(t, c.logger)
}

func TestRunAll_HealthyEnvironment(t *testing.T) {
	// Given: all datasets, the notebook and every tool are present
	fx := newFixture(t, 3, 5, 4)
	c, buf := newTestChecker(healthyRunner(fx.cfg))

	// When: all checks run
	report := c.RunAll(context.Background(), fx.cfg)

	// Then: every check passes in fixed order and counts are populated
	require.Len(t, report.Results, 8)
	names := make([]string, 0, len(report.Results))
	for _, r := range report.Results {
		names = append(names, r.Name)
		assert.Equal(t, StatusPass, r.Status, "check %s", r.Name)
	}
	assert.Equal(t, []string{
		NameUV, NameVirtualEnv, NamePackages, NameEngineVersion,
		NameDataFiles, NameEngineIntegration, NameNotebook, NameJupyter,
	}, names)

	assert.True(t, report.Passed())
	assert.Empty(t, report.Failures())
	assert.Equal(t, map[string]int64{"usage": 3, "plans": 5, "projects": 4}, report.Counts)

	out := buf.String()
	for _, header := range []string{
		"📦 Checking required packages...",
		"📁 Verifying data files...",
		"🧪 Testing DuckDB integration...",
		"📓 Verifying starter notebook...",
		"🔬 Checking Jupyter availability...",
	} {
		assert.Contains(t, out, header)
	}
}

func TestRunAll_NoShortCircuit(t *testing.T) {
	// Given: data files are missing and nothing is installed
	fx := newFixture(t)
	require.NoError(t, os.Remove(fx.cfg.Datasets[0].Path))
	f := runnertest.NewFake()
	c, _ := newTestChecker(f)
	t.Setenv("VIRTUAL_ENV", "")
	t.Setenv("CONDA_PREFIX", "")

	// When: all checks run
	report := c.RunAll(context.Background(), fx.cfg)

	// Then: every check still ran and the later notebook check passed
	require.Len(t, report.Results, 8)
	assert.False(t, report.Passed())
	assert.Empty(t, report.Counts)
	assert.NotNil(t, report.Counts)

	byName := map[string]CheckResult{}
	for _, r := range report.Results {
		byName[r.Name] = r
	}
	assert.Equal(t, StatusWarn, byName[NameUV].Status)
	assert.Equal(t, StatusWarn, byName[NameVirtualEnv].Status)
	assert.Equal(t, StatusFail, byName[NameDataFiles].Status)
	assert.Equal(t, StatusFail, byName[NameEngineIntegration].Status)
	assert.Equal(t, StatusPass, byName[NameNotebook].Status)
	assert.Equal(t, StatusFail, byName[NameJupyter].Status)

	failed := make([]string, 0)
	for _, r := range report.Failures() {
		failed = append(failed, r.Name)
	}
	assert.Equal(t, []string{
		NamePackages, NameEngineVersion, NameDataFiles, NameEngineIntegration, NameJupyter,
	}, failed)
	assert.Contains(t, f.Calls(), "jupyter lab --version")
}

func TestRunAll_OptionalWarningsDoNotFail(t *testing.T) {
	// Given: a healthy environment without uv and outside any venv
	fx := newFixture(t)
	f := healthyRunner(fx.cfg).
		On("uv --version", runnertest.Response{NotFound: true}).
		On("python3 -c "+venvPrefixProbe, runnertest.Response{})
	t.Setenv("VIRTUAL_ENV", "")
	t.Setenv("CONDA_PREFIX", "")
	c, _ := newTestChecker(f)

	// When
	report := c.RunAll(context.Background(), fx.cfg)

	// Then: the probes warn but the report still passes
	assert.Equal(t, StatusWarn, report.Results[0].Status)
	assert.Equal(t, StatusWarn, report.Results[1].Status)
	assert.True(t, report.Passed())
	assert.Equal(t, "ready_with_warnings", SummaryStatus(report.Results))
}
