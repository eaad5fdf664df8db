package config

// IsolateFile represents the structure of isolate.config.yaml. The JSON
// variant decodes through the same tags.
type IsolateFile struct {
	WorkspaceRoot          string   `yaml:"workspaceRoot"`
	TargetPackagePath      string   `yaml:"targetPackagePath"`
	IsolateDirName         string   `yaml:"isolateDirName"`
	WorkspacePackages      []string `yaml:"workspacePackages"`
	IncludeDevDependencies bool     `yaml:"includeDevDependencies"`
	ForceNpm               bool     `yaml:"forceNpm"`
	PickFromScripts        []string `yaml:"pickFromScripts"`
	OmitFromScripts        []string `yaml:"omitFromScripts"`
	LogLevel               string   `yaml:"logLevel"`
}
