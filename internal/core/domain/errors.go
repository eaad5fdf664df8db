package domain

import "go.trai.ch/zerr"

var (
	// ErrWorkspaceDeclaration is returned when the workspace package declaration cannot be read.
	ErrWorkspaceDeclaration = zerr.New("failed to read workspace package declaration")

	// ErrWorkspaceGlobFailed is returned when a workspace package pattern is malformed.
	ErrWorkspaceGlobFailed = zerr.New("invalid workspace package pattern")

	// ErrManifestReadFailed is returned when a package.json cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read package manifest")

	// ErrManifestParseFailed is returned when a package.json is not valid JSON.
	ErrManifestParseFailed = zerr.New("failed to parse package manifest")

	// ErrManifestWriteFailed is returned when a package.json cannot be written.
	ErrManifestWriteFailed = zerr.New("failed to write package manifest")

	// ErrInvalidManifest is returned when a production package manifest lacks a mandatory field.
	ErrInvalidManifest = zerr.New("package manifest is missing a mandatory field")

	// ErrInvalidDevManifest is returned when a dev-only dependency manifest lacks a mandatory field.
	ErrInvalidDevManifest = zerr.New("dev dependency manifest is missing a mandatory field")

	// ErrPackageNotFound is returned when a package name is not part of the workspace registry.
	ErrPackageNotFound = zerr.New("package not found in workspace")

	// ErrLockfileNotFound is returned when the workspace lockfile for the detected manager is absent.
	ErrLockfileNotFound = zerr.New("lockfile not found")

	// ErrLockfileReadFailed is returned when a lockfile cannot be read.
	ErrLockfileReadFailed = zerr.New("failed to read lockfile")

	// ErrLockfileParseFailed is returned when a lockfile cannot be parsed.
	ErrLockfileParseFailed = zerr.New("failed to parse lockfile")

	// ErrLockfileWriteFailed is returned when the isolated lockfile cannot be written.
	ErrLockfileWriteFailed = zerr.New("failed to write lockfile")

	// ErrUnsupportedLockfile is returned when a lockfile version has no isolation strategy.
	ErrUnsupportedLockfile = zerr.New("unsupported lockfile version")

	// ErrTargetImporterNotFound is returned when the target package has no importer in the lockfile.
	ErrTargetImporterNotFound = zerr.New("target package not found in lockfile")

	// ErrModulesRelocationFailed is returned when node_modules cannot be moved.
	ErrModulesRelocationFailed = zerr.New("failed to relocate node_modules")

	// ErrCommandFailed is returned when a package manager subprocess exits unsuccessfully.
	ErrCommandFailed = zerr.New("command failed")

	// ErrPackageManagerNotDetected is returned when no package manager can be inferred for the workspace.
	ErrPackageManagerNotDetected = zerr.New("could not detect package manager")

	// ErrInvalidPackageManager is returned when a packageManager field cannot be parsed.
	ErrInvalidPackageManager = zerr.New("invalid packageManager field, expected format: name@version")

	// ErrPackFailed is returned when packing a package fails.
	ErrPackFailed = zerr.New("failed to pack package")

	// ErrUnpackFailed is returned when extracting a package archive fails.
	ErrUnpackFailed = zerr.New("failed to unpack package archive")

	// ErrUnsafeArchivePath is returned when an archive entry would escape the destination directory.
	ErrUnsafeArchivePath = zerr.New("archive entry escapes destination directory")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a config value is out of range.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrIsolateDirFailed is returned when the isolate output directory cannot be prepared.
	ErrIsolateDirFailed = zerr.New("failed to prepare isolate directory")

	// ErrIsolationFailed wraps any failure of the isolation pipeline.
	ErrIsolationFailed = zerr.New("isolation failed")

	// ErrFingerprintFailed is returned when the isolate output cannot be hashed.
	ErrFingerprintFailed = zerr.New("failed to fingerprint isolate output")
)
