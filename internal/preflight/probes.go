package preflight

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gigsdata/envcheck/internal/config"
	cerrors "github.com/gigsdata/envcheck/internal/errors"
	"github.com/gigsdata/envcheck/internal/runner"
)

// Install hints for the optional probes.
const (
	uvInstallHint   = "curl -LsSf https://astral.sh/uv/install.sh | sh"
	venvCreateHint  = "uv venv && source .venv/bin/activate"
	venvPrefixProbe = "import sys; print(sys.prefix if sys.prefix != sys.base_prefix else '')"
)

// CheckUV reports whether the uv package manager is available. It never
// fails: a missing or broken uv only warns.
func (c *Checker) CheckUV(ctx context.Context, cfg config.Config) CheckResult {
	res, err := c.runner.Run(ctx, cfg.Tools.UV, "--version")
	switch {
	case err == nil:
		c.out.Successf("uv is installed: %s", res.Stdout)
		return pass(NameUV, "uv is installed: "+res.Stdout, false)

	case runner.IsNotFound(err):
		c.out.Warning("uv is not installed (optional)")
		c.out.Hintf("Install with: %s", uvInstallHint)
		return warn(NameUV, cerrors.New(cerrors.ErrCodeToolNotFound, "uv is not installed (optional)", err).
			WithSuggestion(uvInstallHint))

	default:
		c.out.Warning("uv is not working properly (optional)")
		return warn(NameUV, cerrors.New(cerrors.ErrCodeToolFailed, "uv is not working properly (optional)", err))
	}
}

// CheckVirtualEnv reports whether the run is isolated from the global
// Python install. It never fails.
//
// Detection order: VIRTUAL_ENV, a non-base conda env, then asking the
// interpreter whether sys.prefix differs from sys.base_prefix.
func (c *Checker) CheckVirtualEnv(ctx context.Context, cfg config.Config) CheckResult {
	if name := c.detectVirtualEnv(ctx, cfg); name != "" {
		c.out.Successf("Running in virtual environment: %s", name)
		return pass(NameVirtualEnv, "Running in virtual environment: "+name, false)
	}

	c.out.Warning("Not in a virtual environment (recommended)")
	c.out.Hintf("Create with: %s", venvCreateHint)
	return warn(NameVirtualEnv,
		cerrors.New(cerrors.ErrCodeToolNotFound, "Not in a virtual environment (recommended)", nil).
			WithSuggestion(venvCreateHint))
}

func (c *Checker) detectVirtualEnv(ctx context.Context, cfg config.Config) string {
	if venv := os.Getenv("VIRTUAL_ENV"); venv != "" {
		return filepath.Base(venv)
	}

	if prefix := os.Getenv("CONDA_PREFIX"); prefix != "" && os.Getenv("CONDA_DEFAULT_ENV") != "base" {
		return filepath.Base(prefix)
	}

	res, err := c.runner.Run(ctx, cfg.PythonBinary(), "-c", venvPrefixProbe)
	if err != nil || res.Stdout == "" {
		return ""
	}
	return filepath.Base(res.Stdout)
}
