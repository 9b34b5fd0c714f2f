package preflight

import (
	"context"
	"fmt"
	"strings"

	"github.com/gigsdata/envcheck/internal/config"
	cerrors "github.com/gigsdata/envcheck/internal/errors"
)

const requirementsHint = "uv pip install -r requirements.txt"

// CheckPackages verifies that every required Python package imports in the
// configured interpreter. A missing interpreter makes every package missing.
func (c *Checker) CheckPackages(ctx context.Context, cfg config.Config) CheckResult {
	c.out.Section("📦", "Checking required packages...")

	python := cfg.PythonBinary()
	var missing []string

	for _, pkg := range cfg.RequiredPackages {
		if _, err := c.runner.Run(ctx, python, "-c", "import "+pkg.Name); err != nil {
			c.out.Errorf("Missing %s: %s", pkg.Name, pkg.Description)
			c.logger.Debug("package import failed",
				"package", pkg.Name,
				"python", python,
				"error", err)
			missing = append(missing, pkg.Name)
			continue
		}
		c.out.Successf("%s: %s", pkg.Name, pkg.Description)
	}

	if len(missing) == 0 {
		return pass(NamePackages, fmt.Sprintf("%d packages importable", len(cfg.RequiredPackages)), true)
	}

	list := strings.Join(missing, ", ")
	c.out.Newline()
	c.out.Errorf("Missing packages: %s", list)
	c.out.Hintf("Install with: %s", requirementsHint)

	res := fail(NamePackages, cerrors.Newf(cerrors.ErrCodePackageMissing, "Missing packages: %s", list).
		WithDetail("python", python).
		WithSuggestion(requirementsHint))
	res.Details = list
	return res
}
