package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	cerrors "github.com/gigsdata/envcheck/internal/errors"
)

// EnvPrefix is the prefix for environment overrides.
// A double underscore separates nesting levels: ENVCHECK_TOOLS__JUPYTER.
const EnvPrefix = "ENVCHECK_"

// flagKeys maps CLI flag names to config keys. Flags not listed here are
// not configuration and are ignored by the loader.
var flagKeys = map[string]string{
	"notebook":        "notebook_path",
	"python":          "tools.python",
	"jupyter-timeout": "jupyter_timeout",
}

// Load builds the configuration.
// Precedence (lowest to highest):
//  1. Built-in defaults
//  2. Config file (explicit path, or .envcheck.yaml in the working directory)
//  3. Environment variables (ENVCHECK_*)
//  4. Flags that were explicitly set
//
// An explicit path that does not exist is an error; a missing default file
// is not.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultsMap(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	source, err := resolveFile(path)
	if err != nil {
		return Config{}, err
	}
	if source != "" {
		if err := k.Load(file.Provider(source), yaml.Parser()); err != nil {
			return Config{}, cerrors.ConfigError(
				fmt.Sprintf("error reading config file %s", source), err).
				WithDetail("path", source)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagKey(flags)), nil); err != nil {
			return Config{}, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, cerrors.ConfigError("unable to decode config", err)
	}
	cfg.Source = source

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// resolveFile picks the config file to read.
func resolveFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", cerrors.New(cerrors.ErrCodeConfigNotFound,
				fmt.Sprintf("config file not found: %s", explicit), err).
				WithSuggestion("Run 'envcheck config show' to print a starting point")
		}
		return explicit, nil
	}
	for _, name := range defaultFileNames {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", nil
}

// envKey transforms ENVCHECK_TOOLS__JUPYTER into tools.jupyter.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func flagKey(flags *pflag.FlagSet) func(f *pflag.Flag) (string, any) {
	return func(f *pflag.Flag) (string, any) {
		key, ok := flagKeys[f.Name]
		if !ok || !f.Changed {
			return "", nil
		}
		return key, posflag.FlagVal(flags, f)
	}
}

// defaultsMap renders NewConfig in the shape koanf expects.
func defaultsMap() map[string]any {
	d := NewConfig()

	datasets := make([]any, 0, len(d.Datasets))
	for _, ds := range d.Datasets {
		datasets = append(datasets, map[string]any{
			"label":       ds.Label,
			"path":        ds.Path,
			"description": ds.Description,
		})
	}

	packages := make([]any, 0, len(d.RequiredPackages))
	for _, p := range d.RequiredPackages {
		packages = append(packages, map[string]any{
			"name":        p.Name,
			"description": p.Description,
		})
	}

	return map[string]any{
		"datasets":                      datasets,
		"notebook_path":                 d.NotebookPath,
		"required_engine_version.major": d.RequiredEngineVersion.Major,
		"required_engine_version.minor": d.RequiredEngineVersion.Minor,
		"required_packages":             packages,
		"tools.python":                  d.Tools.Python,
		"tools.uv":                      d.Tools.UV,
		"tools.jupyter":                 d.Tools.Jupyter,
		"jupyter_timeout":               d.JupyterTimeout,
		"sql_magic":                     d.SQLMagic,
		"summary.dataset":               d.Summary.Dataset,
		"summary.distinct_column":       d.Summary.DistinctColumn,
	}
}
