package domain

import (
	"maps"
	"slices"

	"go.trai.ch/zerr"
)

// WorkspacePackageInfo describes one discovered workspace package.
type WorkspacePackageInfo struct {
	// AbsoluteDir is the package directory on disk.
	AbsoluteDir string
	// RootRelativeDir is the POSIX path relative to the workspace root. Lockfiles
	// use it to identify the package.
	RootRelativeDir string
	Manifest        *PackageManifest
}

// PackagesRegistry maps declared package names to their workspace location.
// It is built once per run and read-only afterwards.
type PackagesRegistry map[string]*WorkspacePackageInfo

// Lookup returns the package registered under name.
func (r PackagesRegistry) Lookup(name string) (*WorkspacePackageInfo, error) {
	info, ok := r[name]
	if !ok {
		return nil, zerr.With(zerr.Wrap(ErrPackageNotFound, ""), "package", name)
	}
	return info, nil
}

// Names returns the registered names in sorted order.
func (r PackagesRegistry) Names() []string {
	return slices.Sorted(maps.Keys(r))
}

// NamesByDir maps each root relative directory to the package name declared there.
func (r PackagesRegistry) NamesByDir() map[string]string {
	out := make(map[string]string, len(r))
	for name, info := range r {
		out[info.RootRelativeDir] = name
	}
	return out
}

// Workspace is the discovered state of a multi-package source tree.
type Workspace struct {
	RootDir      string
	RootManifest *PackageManifest
	Registry     PackagesRegistry
	Catalogs     Catalogs
}
