package preflight

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/gigsdata/envcheck/internal/config"
	cerrors "github.com/gigsdata/envcheck/internal/errors"
)

// CheckEngineIntegration opens a private in-memory DuckDB, runs a smoke
// query and counts the rows of every dataset in order. It stops at the
// first dataset that cannot be read; later datasets are not queried.
//
// Counts are returned only when every dataset was counted. On any failure
// the returned map is empty.
func (c *Checker) CheckEngineIntegration(ctx context.Context, cfg config.Config) (CheckResult, map[string]int64) {
	c.out.Section("🧪", "Testing DuckDB integration...")

	eng, err := c.openEngine(ctx)
	if err != nil {
		return c.integrationFailed(err), map[string]int64{}
	}
	defer func() {
		if cerr := eng.Close(); cerr != nil {
			c.logger.Debug("duckdb close failed", "error", cerr)
		}
	}()

	msg, err := eng.Smoke(ctx)
	if err != nil {
		return c.integrationFailed(err), map[string]int64{}
	}
	c.out.Successf("DuckDB basic test: %s", msg)

	counts := make(map[string]int64, len(cfg.Datasets))
	for _, ds := range cfg.Datasets {
		n, err := eng.CountRows(ctx, ds.Path)
		if err != nil {
			text := fmt.Sprintf("Error reading %s: %s", ds.Path, reason(err))
			c.out.Error(text)
			return fail(NameEngineIntegration, cerrors.New(cerrors.ErrCodeEngineQuery, text, err).
				WithDetail("path", ds.Path)), map[string]int64{}
		}
		counts[ds.Label] = n
		c.out.Successf("%s: %s records", ds.Path, humanize.Comma(n))
	}

	return pass(NameEngineIntegration, fmt.Sprintf("%d datasets readable", len(counts)), true), counts
}

func (c *Checker) integrationFailed(err error) CheckResult {
	text := "DuckDB integration test failed: " + reason(err)
	c.out.Error(text)

	code := cerrors.GetCode(err)
	if code == "" {
		code = cerrors.ErrCodeEngineOpen
	}
	return fail(NameEngineIntegration, cerrors.New(code, text, err))
}
