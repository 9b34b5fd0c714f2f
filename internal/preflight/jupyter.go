package preflight

import (
	"context"
	"fmt"

	"github.com/gigsdata/envcheck/internal/config"
	cerrors "github.com/gigsdata/envcheck/internal/errors"
	"github.com/gigsdata/envcheck/internal/runner"
)

// CheckJupyter verifies `jupyter lab --version` answers within the
// configured timeout. Unlike the uv probe this check is required.
func (c *Checker) CheckJupyter(ctx context.Context, cfg config.Config) CheckResult {
	c.out.Section("🔬", "Checking Jupyter availability...")

	probeCtx, cancel := context.WithTimeout(ctx, cfg.JupyterTimeout)
	defer cancel()

	res, err := c.runner.Run(probeCtx, cfg.Tools.Jupyter, "lab", "--version")
	switch {
	case err == nil:
		c.out.Successf("Jupyter Lab: %s", res.Stdout)
		result := pass(NameJupyter, "Jupyter Lab: "+res.Stdout, true)
		result.Details = res.Stdout
		return result

	case runner.IsNotFound(err):
		c.out.Error("Jupyter Lab command not found")
		return fail(NameJupyter,
			cerrors.New(cerrors.ErrCodeToolNotFound, "Jupyter Lab command not found", err).
				WithSuggestion(requirementsHint))

	case runner.IsTimeout(err):
		msg := fmt.Sprintf("Jupyter Lab did not respond within %s", cfg.JupyterTimeout)
		c.out.Error(msg)
		return fail(NameJupyter,
			cerrors.New(cerrors.ErrCodeToolTimeout, msg, err).
				WithDetail("timeout", cfg.JupyterTimeout.String()))

	default:
		c.out.Error("Jupyter Lab not working")
		return fail(NameJupyter, cerrors.New(cerrors.ErrCodeToolFailed, "Jupyter Lab not working", err))
	}
}
