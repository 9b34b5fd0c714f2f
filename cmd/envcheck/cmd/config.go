package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gigsdata/envcheck/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		Long: `Inspect the effective envcheck configuration.

Configuration precedence (lowest to highest):
  1. Built-in defaults
  2. Config file (--config, or .envcheck.yaml in the working directory)
  3. Environment variables (ENVCHECK_*, nested keys joined by __)
  4. Command-line flags`,
		Example: `  # Show effective configuration
  envcheck config show

  # Print the config file in use
  envcheck config path`,
	}

	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigPathCmd(a))

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration as YAML",
		Long: `Show the effective configuration after merging all sources.

The output is valid input for --config and can be saved as .envcheck.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}

			data, err := config.ToYAML(cfg)
			if err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}

			out := cmd.OutOrStdout()
			if cfg.Source != "" {
				fmt.Fprintf(out, "# Source: %s\n", cfg.Source)
			} else {
				fmt.Fprintln(out, "# Source: built-in defaults")
			}
			_, err = out.Write(data)
			return err
		},
	}
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file in use",
		Long: `Print the absolute path of the config file that would be loaded.
Prints nothing and exits normally when only built-in defaults apply.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Source == "" {
				return nil
			}

			path, err := filepath.Abs(cfg.Source)
			if err != nil {
				path = cfg.Source
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
