// Package config holds the envcheck configuration record.
//
// A Config is built once at startup by Load and then passed by value into
// every check. Nothing in the program mutates it after Load returns.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	cerrors "github.com/gigsdata/envcheck/internal/errors"
)

// Default file names searched in the working directory.
var defaultFileNames = []string{".envcheck.yaml", ".envcheck.yml"}

// Dataset is one required data file together with the label used for
// its row count.
type Dataset struct {
	Label       string `koanf:"label" yaml:"label"`
	Path        string `koanf:"path" yaml:"path"`
	Description string `koanf:"description" yaml:"description"`
}

// Package is a Python package that must be importable.
type Package struct {
	Name        string `koanf:"name" yaml:"name"`
	Description string `koanf:"description" yaml:"description"`
}

// Version is a major.minor requirement. Patch levels are never compared.
type Version struct {
	Major int `koanf:"major" yaml:"major"`
	Minor int `koanf:"minor" yaml:"minor"`
}

// String returns "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ToolsConfig names the external executables envcheck invokes.
type ToolsConfig struct {
	// Python is the interpreter for import and version probes.
	// Empty selects $VIRTUAL_ENV/bin/python when a venv is active, else python3.
	Python  string `koanf:"python" yaml:"python"`
	UV      string `koanf:"uv" yaml:"uv"`
	Jupyter string `koanf:"jupyter" yaml:"jupyter"`
}

// SummaryConfig configures the best-effort distinct count printed after a
// successful run.
type SummaryConfig struct {
	Dataset        string `koanf:"dataset" yaml:"dataset"`
	DistinctColumn string `koanf:"distinct_column" yaml:"distinct_column"`
}

// Config is the complete envcheck configuration.
type Config struct {
	Datasets              []Dataset     `koanf:"datasets"`
	NotebookPath          string        `koanf:"notebook_path"`
	RequiredEngineVersion Version       `koanf:"required_engine_version"`
	RequiredPackages      []Package     `koanf:"required_packages"`
	Tools                 ToolsConfig   `koanf:"tools"`
	JupyterTimeout        time.Duration `koanf:"jupyter_timeout"`
	SQLMagic              string        `koanf:"sql_magic"`
	Summary               SummaryConfig `koanf:"summary"`

	// Source is the config file that was loaded, empty for defaults only.
	Source string `koanf:"-"`
}

// NewConfig returns the built-in defaults.
func NewConfig() Config {
	return Config{
		Datasets: []Dataset{
			{Label: "usage", Path: "data/usage_by_subscription_period.csv", Description: "Usage records"},
			{Label: "plans", Path: "data/plan_change_events.csv", Description: "Plan change events"},
			{Label: "projects", Path: "data/projects.csv", Description: "Project records"},
		},
		NotebookPath:          "analysis.ipynb",
		RequiredEngineVersion: Version{Major: 1, Minor: 2},
		RequiredPackages: []Package{
			{Name: "duckdb", Description: "DuckDB Python client"},
			{Name: "sql", Description: "JupySQL magic commands"},
			{Name: "pandas", Description: "Pandas for data manipulation"},
			{Name: "jupyter", Description: "Jupyter notebook"},
			{Name: "duckdb_engine", Description: "DuckDB SQLAlchemy engine"},
		},
		Tools: ToolsConfig{
			UV:      "uv",
			Jupyter: "jupyter",
		},
		JupyterTimeout: 5 * time.Second,
		SQLMagic:       "%%sql",
		Summary: SummaryConfig{
			Dataset:        "usage",
			DistinctColumn: "customer_id",
		},
	}
}

// DatasetByLabel returns the dataset with the given label.
func (c Config) DatasetByLabel(label string) (Dataset, bool) {
	for _, d := range c.Datasets {
		if d.Label == label {
			return d, true
		}
	}
	return Dataset{}, false
}

// DataPaths returns the dataset paths in configuration order.
func (c Config) DataPaths() []string {
	paths := make([]string, 0, len(c.Datasets))
	for _, d := range c.Datasets {
		paths = append(paths, d.Path)
	}
	return paths
}

// PythonBinary resolves the interpreter used for package probes.
func (c Config) PythonBinary() string {
	if c.Tools.Python != "" {
		return c.Tools.Python
	}
	if venv := os.Getenv("VIRTUAL_ENV"); venv != "" {
		if runtime.GOOS == "windows" {
			return filepath.Join(venv, "Scripts", "python.exe")
		}
		return filepath.Join(venv, "bin", "python")
	}
	return "python3"
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if len(c.Datasets) == 0 {
		return cerrors.ConfigError("at least one dataset is required", nil)
	}

	seen := make(map[string]bool, len(c.Datasets))
	for i, d := range c.Datasets {
		if strings.TrimSpace(d.Label) == "" {
			return cerrors.ConfigError(fmt.Sprintf("datasets[%d]: label is required", i), nil)
		}
		if strings.TrimSpace(d.Path) == "" {
			return cerrors.ConfigError(fmt.Sprintf("datasets[%d] (%s): path is required", i, d.Label), nil)
		}
		if seen[d.Label] {
			return cerrors.ConfigError(fmt.Sprintf("duplicate dataset label: %s", d.Label), nil)
		}
		seen[d.Label] = true
	}

	if strings.TrimSpace(c.NotebookPath) == "" {
		return cerrors.ConfigError("notebook_path is required", nil)
	}

	if c.RequiredEngineVersion.Major < 0 || c.RequiredEngineVersion.Minor < 0 {
		return cerrors.ConfigError(
			fmt.Sprintf("required_engine_version must not be negative, got %s", c.RequiredEngineVersion), nil)
	}

	for i, p := range c.RequiredPackages {
		if strings.TrimSpace(p.Name) == "" {
			return cerrors.ConfigError(fmt.Sprintf("required_packages[%d]: name is required", i), nil)
		}
	}

	if c.Tools.UV == "" || c.Tools.Jupyter == "" {
		return cerrors.ConfigError("tools.uv and tools.jupyter must not be empty", nil)
	}

	if c.JupyterTimeout <= 0 {
		return cerrors.ConfigError(fmt.Sprintf("jupyter_timeout must be positive, got %s", c.JupyterTimeout), nil)
	}

	if c.SQLMagic == "" {
		return cerrors.ConfigError("sql_magic must not be empty", nil)
	}

	if _, ok := c.DatasetByLabel(c.Summary.Dataset); !ok {
		return cerrors.ConfigError(fmt.Sprintf("summary.dataset %q is not a configured dataset", c.Summary.Dataset), nil)
	}
	if c.Summary.DistinctColumn == "" {
		return cerrors.ConfigError("summary.distinct_column must not be empty", nil)
	}

	return nil
}
