package preflight

import (
	"os"
	"strings"

	"github.com/gigsdata/envcheck/internal/config"
	cerrors "github.com/gigsdata/envcheck/internal/errors"
)

const directoryHint = "Make sure you're in the data-analyst directory"

// CheckDataFiles verifies every configured dataset exists as a regular
// file. A directory at a dataset path counts as missing. On failure the
// result's Details lists exactly the missing paths.
func (c *Checker) CheckDataFiles(cfg config.Config) CheckResult {
	c.out.Section("📁", "Verifying data files...")

	var missing []string
	for _, path := range cfg.DataPaths() {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			c.out.Errorf("Missing: %s", path)
			missing = append(missing, path)
			continue
		}
		c.out.Successf("Found %s (%.1f MB)", path, float64(info.Size())/(1024*1024))
	}

	if len(missing) == 0 {
		return pass(NameDataFiles, "all data files present", true)
	}

	list := strings.Join(missing, ", ")
	c.out.Newline()
	c.out.Errorf("Missing data files: %s", list)
	c.out.Hint(directoryHint)

	res := fail(NameDataFiles, cerrors.Newf(cerrors.ErrCodeDataFileMissing, "Missing data files: %s", list).
		WithSuggestion(directoryHint))
	res.Details = list
	return res
}
