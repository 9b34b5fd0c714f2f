package preflight

import (
	"context"
	"regexp"
	"strconv"

	"github.com/gigsdata/envcheck/internal/config"
	cerrors "github.com/gigsdata/envcheck/internal/errors"
)

const (
	engineVersionProbe = "import duckdb; print(duckdb.__version__)"
	upgradeHint        = "uv pip install duckdb --upgrade"
)

// versionPattern matches the first dotted version in a string, so release
// tags ("v1.2.0") and dev builds ("1.3.0.dev42") both parse.
var versionPattern = regexp.MustCompile(`v?(\d+)\.(\d+)(?:\.(\d+))?`)

// ParseVersion extracts major, minor and patch from s. Patch is 0 when
// absent. ok is false when s contains no major.minor pair.
func ParseVersion(s string) (major, minor, patch int, ok bool) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, 0, false
	}

	var err error
	if major, err = strconv.Atoi(m[1]); err != nil {
		return 0, 0, 0, false
	}
	if minor, err = strconv.Atoi(m[2]); err != nil {
		return 0, 0, 0, false
	}
	if m[3] != "" {
		if patch, err = strconv.Atoi(m[3]); err != nil {
			return 0, 0, 0, false
		}
	}
	return major, minor, patch, true
}

// MeetsMinimum reports whether major.minor satisfies req. Patch levels are
// never compared.
func MeetsMinimum(major, minor int, req config.Version) bool {
	return major > req.Major || (major == req.Major && minor >= req.Minor)
}

// CheckEngineVersion verifies the DuckDB Python client is at least the
// configured version.
func (c *Checker) CheckEngineVersion(ctx context.Context, cfg config.Config) CheckResult {
	res, err := c.runner.Run(ctx, cfg.PythonBinary(), "-c", engineVersionProbe)
	if err != nil {
		c.out.Errorf("Error checking DuckDB version: %v", err)
		return fail(NameEngineVersion,
			cerrors.New(cerrors.ErrCodeToolFailed, "Error checking DuckDB version: "+err.Error(), err))
	}

	raw := res.Stdout
	c.out.Successf("DuckDB version: %s", raw)

	major, minor, _, ok := ParseVersion(raw)
	if !ok {
		c.out.Error("Could not parse DuckDB version")
		return fail(NameEngineVersion,
			cerrors.New(cerrors.ErrCodeVersionUnparsable, "Could not parse DuckDB version", nil).
				WithDetail("version", raw))
	}

	req := cfg.RequiredEngineVersion
	if !MeetsMinimum(major, minor, req) {
		c.out.Errorf("DuckDB version too old (need %s+)", req)
		c.out.Hintf("Please upgrade with: %s", upgradeHint)
		return fail(NameEngineVersion,
			cerrors.Newf(cerrors.ErrCodeVersionTooOld, "DuckDB version too old (need %s+)", req).
				WithDetail("version", raw).
				WithSuggestion(upgradeHint))
	}

	c.out.Success("DuckDB version supports required features")
	result := pass(NameEngineVersion, "DuckDB "+raw, true)
	result.Details = raw
	return result
}
