package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Isolate the target package into its output directory",
		Args:  cobra.NoArgs,
		RunE:  c.runIsolate,
	}
}

func (c *CLI) runIsolate(cmd *cobra.Command, _ []string) error {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}

	res, err := c.components.App.Isolate(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", res.IsolateDir)
	return nil
}
