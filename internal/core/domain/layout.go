package domain

const (
	// ManifestFileName is the name of a package manifest.
	ManifestFileName = "package.json"

	// PnpmWorkspaceFileName declares pnpm workspace packages and catalogs.
	PnpmWorkspaceFileName = "pnpm-workspace.yaml"

	// PnpmLockfileName is the pnpm lockfile.
	PnpmLockfileName = "pnpm-lock.yaml"

	// NpmLockfileName is the npm lockfile.
	NpmLockfileName = "package-lock.json"

	// NpmShrinkwrapFileName is the publishable variant of the npm lockfile.
	NpmShrinkwrapFileName = "npm-shrinkwrap.json"

	// YarnLockfileName is the yarn lockfile.
	YarnLockfileName = "yarn.lock"

	// BunLockfileName is the text bun lockfile.
	BunLockfileName = "bun.lock"

	// NpmrcFileName carries registry settings that pnpm installs need.
	NpmrcFileName = ".npmrc"

	// NodeModulesDirName is the installed dependency tree directory.
	NodeModulesDirName = "node_modules"

	// DefaultIsolateDirName is the output directory created inside the target package.
	DefaultIsolateDirName = "isolate"

	// DefaultWorkspaceRoot is the workspace root relative to the target package.
	DefaultWorkspaceRoot = "../.."

	// ConfigFileNameYAML is the YAML config file name.
	ConfigFileNameYAML = "isolate.config.yaml"

	// ConfigFileNameJSON is the JSON config file name.
	ConfigFileNameJSON = "isolate.config.json"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)
