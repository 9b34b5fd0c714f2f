package config

import (
	"gopkg.in/yaml.v3"
)

// fileView is the on-disk shape of a Config. It differs from Config only in
// rendering the timeout as a duration string.
type fileView struct {
	Datasets              []Dataset     `yaml:"datasets"`
	NotebookPath          string        `yaml:"notebook_path"`
	RequiredEngineVersion Version       `yaml:"required_engine_version"`
	RequiredPackages      []Package     `yaml:"required_packages"`
	Tools                 ToolsConfig   `yaml:"tools"`
	JupyterTimeout        string        `yaml:"jupyter_timeout"`
	SQLMagic              string        `yaml:"sql_magic"`
	Summary               SummaryConfig `yaml:"summary"`
}

// MarshalYAML implements yaml.Marshaler.
func (c Config) MarshalYAML() (any, error) {
	return fileView{
		Datasets:              c.Datasets,
		NotebookPath:          c.NotebookPath,
		RequiredEngineVersion: c.RequiredEngineVersion,
		RequiredPackages:      c.RequiredPackages,
		Tools:                 c.Tools,
		JupyterTimeout:        c.JupyterTimeout.String(),
		SQLMagic:              c.SQLMagic,
		Summary:               c.Summary,
	}, nil
}

// ToYAML renders the configuration in the format Load reads.
func ToYAML(c Config) ([]byte, error) {
	return yaml.Marshal(c)
}
