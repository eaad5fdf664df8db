package domain

// Config controls one isolation run.
type Config struct {
	// WorkspaceRoot is the workspace root, relative to the target package.
	WorkspaceRoot string
	// TargetPackagePath is the package to isolate, relative to the working directory.
	TargetPackagePath string
	// IsolateDirName is the output directory created inside the target package.
	IsolateDirName string `validate:"required,excludesall=/\\"`
	// WorkspacePackages overrides the package globs of the workspace declaration.
	WorkspacePackages      []string
	IncludeDevDependencies bool
	// ForceNpm writes file: references and an npm lockfile whatever the detected manager.
	ForceNpm        bool
	PickFromScripts []string `validate:"excluded_with=OmitFromScripts"`
	OmitFromScripts []string
	LogLevel        string `validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		WorkspaceRoot:     DefaultWorkspaceRoot,
		TargetPackagePath: ".",
		IsolateDirName:    DefaultIsolateDirName,
		LogLevel:          "info",
	}
}

// WithDefaults fills every unset field from DefaultConfig.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.WorkspaceRoot == "" {
		c.WorkspaceRoot = def.WorkspaceRoot
	}
	if c.TargetPackagePath == "" {
		c.TargetPackagePath = def.TargetPackagePath
	}
	if c.IsolateDirName == "" {
		c.IsolateDirName = def.IsolateDirName
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	return c
}
