// Package commands implements the CLI commands for isolate.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/isolate/internal/app"
	"go.trai.ch/isolate/internal/build"
)

// CLI represents the command line interface for isolate.
type CLI struct {
	components *app.Components
	rootCmd    *cobra.Command
}

// New creates a new CLI instance with the given components.
func New(components *app.Components) *CLI {
	c := &CLI{components: components}

	rootCmd := &cobra.Command{
		Use:           "isolate",
		Short:         "Isolate a workspace package with its internal dependencies",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		Args:          cobra.NoArgs,
		RunE:          c.runIsolate,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringP(flagConfig, "c", "", "Path to the config file (default: discover isolate.config.yaml or .json)")
	flags.String(flagWorkspaceRoot, "", "Workspace root, relative to the target package")
	flags.String(flagTarget, "", "Package to isolate, relative to the working directory")
	flags.String(flagIsolateDir, "", "Output directory name inside the target package")
	flags.Bool(flagIncludeDev, false, "Keep the target's devDependencies and isolate their workspace packages")
	flags.Bool(flagForceNpm, false, "Write file: references and an npm lockfile whatever the workspace uses")
	flags.StringSlice(flagWorkspacePackages, nil, "Workspace package globs, overriding the workspace declaration")
	flags.StringSlice(flagPickScripts, nil, "Keep only these scripts in output manifests")
	flags.StringSlice(flagOmitScripts, nil, "Drop these scripts from output manifests")
	flags.String(flagLogLevel, "", "Log level: debug, info, warn or error")

	c.rootCmd = rootCmd
	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newDepsCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
}
