package cmd

import (
	"github.com/spf13/cobra"
)

func newLaunchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "launch",
		Short: "Start Jupyter Lab on the starter notebook without running checks",
		Long: `Start Jupyter Lab on the configured starter notebook.

No checks are run. If Jupyter Lab is not available the classic notebook
server is tried instead. Press Ctrl+C to stop Jupyter.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			return a.launcher(cmd, a.output(cmd)).Launch(cmd.Context(), cfg)
		},
	}
}
