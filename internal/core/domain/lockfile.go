package domain

import (
	"path/filepath"
	"slices"

	"go.trai.ch/zerr"
)

// RootImporterID is the lockfile key of the package at the root of the output.
const RootImporterID = "."

// LockfileRequest carries everything a lockfile generator needs to derive the
// isolated lockfile from the workspace lockfile.
type LockfileRequest struct {
	WorkspaceRootDir string
	TargetPackageDir string
	IsolateDir       string
	// InternalDepNames lists the retained workspace packages, target excluded.
	InternalDepNames       []string
	Registry               PackagesRegistry
	Catalogs               Catalogs
	IncludeDevDependencies bool
	// TargetManifest is the adapted manifest already written to IsolateDir.
	TargetManifest *PackageManifest
	PackageManager PackageManager
}

// LockfileResult describes the written lockfile.
type LockfileResult struct {
	Path string
	// UsedFallback is set when the npm strategy stood in for the requested
	// manager; the output packageManager field must then name npm.
	UsedFallback bool
}

// TargetRelativeDir returns the POSIX path of the target package relative to
// the workspace root.
func (r LockfileRequest) TargetRelativeDir() (string, error) {
	rel, err := filepath.Rel(r.WorkspaceRootDir, r.TargetPackageDir)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "target package is outside the workspace"), "path", r.TargetPackageDir)
	}
	return filepath.ToSlash(rel), nil
}

// InternalDirs maps the root relative directory of every retained internal
// dependency to its package name.
func (r LockfileRequest) InternalDirs() map[string]string {
	dirs := make(map[string]string, len(r.InternalDepNames))
	for _, name := range r.InternalDepNames {
		if info, ok := r.Registry[name]; ok {
			dirs[info.RootRelativeDir] = name
		}
	}
	return dirs
}

// SortedInternalDirs returns the directories of InternalDirs in sorted order.
func (r LockfileRequest) SortedInternalDirs() []string {
	dirs := make([]string, 0, len(r.InternalDepNames))
	for dir := range r.InternalDirs() {
		dirs = append(dirs, dir)
	}
	slices.Sort(dirs)
	return dirs
}

// AdaptedManifest returns the output manifest of the package mirrored at the
// root relative directory dir. RootImporterID addresses the target.
func (r LockfileRequest) AdaptedManifest(dir string) (*PackageManifest, error) {
	if dir == RootImporterID {
		return r.TargetManifest, nil
	}
	return ReadManifest(filepath.Join(r.IsolateDir, filepath.FromSlash(dir), ManifestFileName))
}
