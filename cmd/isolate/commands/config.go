package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	flagConfig            = "config"
	flagWorkspaceRoot     = "workspace-root"
	flagTarget            = "target"
	flagIsolateDir        = "isolate-dir"
	flagIncludeDev        = "include-dev"
	flagForceNpm          = "force-npm"
	flagWorkspacePackages = "workspace-packages"
	flagPickScripts       = "pick-scripts"
	flagOmitScripts       = "omit-scripts"
	flagLogLevel          = "log-level"
)

type levelSetter interface {
	SetLevel(level domain.LogLevel)
}

// loadConfig reads the config file and applies every flag set on the command
// line on top of it.
func (c *CLI) loadConfig(cmd *cobra.Command) (domain.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString(flagConfig)

	cfg, err := c.components.ConfigLoader.Load(".", path)
	if err != nil {
		return domain.Config{}, zerr.Wrap(err, "failed to load configuration")
	}

	if flags.Changed(flagWorkspaceRoot) {
		cfg.WorkspaceRoot, _ = flags.GetString(flagWorkspaceRoot)
	}
	if flags.Changed(flagTarget) {
		cfg.TargetPackagePath, _ = flags.GetString(flagTarget)
	}
	if flags.Changed(flagIsolateDir) {
		cfg.IsolateDirName, _ = flags.GetString(flagIsolateDir)
	}
	if flags.Changed(flagIncludeDev) {
		cfg.IncludeDevDependencies, _ = flags.GetBool(flagIncludeDev)
	}
	if flags.Changed(flagForceNpm) {
		cfg.ForceNpm, _ = flags.GetBool(flagForceNpm)
	}
	if flags.Changed(flagWorkspacePackages) {
		cfg.WorkspacePackages, _ = flags.GetStringSlice(flagWorkspacePackages)
	}
	if flags.Changed(flagPickScripts) {
		cfg.PickFromScripts, _ = flags.GetStringSlice(flagPickScripts)
	}
	if flags.Changed(flagOmitScripts) {
		cfg.OmitFromScripts, _ = flags.GetStringSlice(flagOmitScripts)
	}
	if flags.Changed(flagLogLevel) {
		cfg.LogLevel, _ = flags.GetString(flagLogLevel)
	}

	cfg, err = c.components.ConfigLoader.Validate(cfg)
	if err != nil {
		return domain.Config{}, err
	}

	if setter, ok := c.components.Logger.(levelSetter); ok {
		setter.SetLevel(domain.ParseLogLevel(cfg.LogLevel))
	}
	return cfg, nil
}
