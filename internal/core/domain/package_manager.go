package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
	"golang.org/x/mod/semver"
)

// ManagerName identifies a supported package manager.
type ManagerName string

// Supported package managers.
const (
	ManagerNpm  ManagerName = "npm"
	ManagerYarn ManagerName = "yarn"
	ManagerPnpm ManagerName = "pnpm"
	ManagerBun  ManagerName = "bun"
)

// PackageManager is the resolved identity of the workspace package manager.
// It is passed explicitly to every component that branches on it.
type PackageManager struct {
	Name    ManagerName
	Version string
}

// ParseManagerName maps a package manager name to its ManagerName.
func ParseManagerName(s string) (ManagerName, bool) {
	switch ManagerName(s) {
	case ManagerNpm, ManagerYarn, ManagerPnpm, ManagerBun:
		return ManagerName(s), true
	default:
		return "", false
	}
}

// ParsePackageManagerField parses a manifest packageManager value such as
// "pnpm@9.12.0+sha512.abc". The integrity suffix is dropped.
func ParsePackageManagerField(field string) (PackageManager, error) {
	name, version, ok := strings.Cut(strings.TrimSpace(field), "@")
	if !ok || name == "" || version == "" {
		return PackageManager{}, zerr.With(zerr.Wrap(ErrInvalidPackageManager, ""), "packageManager", field)
	}
	manager, known := ParseManagerName(name)
	if !known {
		return PackageManager{}, zerr.With(zerr.Wrap(ErrInvalidPackageManager, ""), "packageManager", field)
	}
	version, _, _ = strings.Cut(version, "+")
	if !semver.IsValid("v" + version) {
		return PackageManager{}, zerr.With(zerr.Wrap(ErrInvalidPackageManager, ""), "packageManager", field)
	}
	return PackageManager{Name: manager, Version: version}, nil
}

// MajorVersion returns the major version, or 0 when the version is not semver.
func (pm PackageManager) MajorVersion() int {
	major := strings.TrimPrefix(semver.Major("v"+pm.Version), "v")
	n, err := strconv.Atoi(major)
	if err != nil {
		return 0
	}
	return n
}

// String renders the identity in packageManager field form.
func (pm PackageManager) String() string {
	if pm.Version == "" {
		return string(pm.Name)
	}
	return string(pm.Name) + "@" + pm.Version
}

// IsPnpmFamily reports whether the manager understands workspace: and
// catalog: specifiers in an isolated output.
func (pm PackageManager) IsPnpmFamily() bool {
	return pm.Name == ManagerPnpm || pm.Name == ManagerBun
}

// LockfileName returns the lockfile file name the manager reads and writes.
func (pm PackageManager) LockfileName() string {
	switch pm.Name {
	case ManagerPnpm:
		return PnpmLockfileName
	case ManagerYarn:
		return YarnLockfileName
	case ManagerBun:
		return BunLockfileName
	default:
		return NpmLockfileName
	}
}
