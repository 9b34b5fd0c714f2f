package preflight

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/gigsdata/envcheck/internal/config"
	cerrors "github.com/gigsdata/envcheck/internal/errors"
	"github.com/gigsdata/envcheck/internal/notebook"
)

// CheckNotebook verifies the starter notebook exists and has a cells list,
// and reports how many code cells use the SQL magic.
func (c *Checker) CheckNotebook(cfg config.Config) CheckResult {
	c.out.Section("📓", "Verifying starter notebook...")

	path := cfg.NotebookPath
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		c.out.Errorf("Starter notebook not found: %s", path)
		c.out.Hint(directoryHint)
		return fail(NameNotebook,
			cerrors.New(cerrors.ErrCodeNotebookMissing, "Starter notebook not found: "+path, err).
				WithDetail("path", path).
				WithSuggestion(directoryHint))
	}

	doc, err := notebook.Load(path)
	switch {
	case errors.Is(err, notebook.ErrMissingCells):
		c.out.Error("Invalid notebook format")
		return fail(NameNotebook,
			cerrors.New(cerrors.ErrCodeNotebookInvalid, "Invalid notebook format", err).
				WithDetail("path", path))

	case err != nil:
		c.out.Errorf("Error reading notebook: %v", err)
		return fail(NameNotebook,
			cerrors.New(cerrors.ErrCodeNotebookUnreadable, "Error reading notebook: "+err.Error(), err).
				WithDetail("path", path))
	}

	cells := doc.CountCells()
	sqlCells := doc.CountCellsContaining(notebook.CellTypeCode, cfg.SQLMagic)

	c.logger.Debug("notebook parsed",
		slog.String("path", path),
		slog.Int("cells", cells),
		slog.Int("sql_cells", sqlCells),
		slog.Int("nbformat", doc.NBFormat),
		slog.Int("nbformat_minor", doc.NBFormatMinor))

	c.out.Successf("Found %s", path)
	c.out.Successf("Notebook has %d cells (%d SQL cells)", cells, sqlCells)

	return pass(NameNotebook, fmt.Sprintf("%d cells (%d SQL cells)", cells, sqlCells), true)
}
