// Package pnpm prunes a pnpm-lock.yaml to an isolated package and its
// internal dependencies.
package pnpm

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// reattached are the top-level fields restored after pruning, in the order
// pnpm writes them.
var reattached = []string{
	fieldCatalogs,
	fieldOverrides,
	fieldPackageExtensionsChecksum,
	fieldPatchedDependencies,
	fieldPnpmfileChecksum,
}

// Workspace is the pnpm-workspace.yaml written to the output.
type Workspace struct {
	Packages []string                     `yaml:"packages,omitempty"`
	Catalog  map[string]string            `yaml:"catalog,omitempty"`
	Catalogs map[string]map[string]string `yaml:"catalogs,omitempty"`
}

// Generator writes pnpm-lock.yaml and pnpm-workspace.yaml.
type Generator struct {
	logger ports.Logger
}

// New creates a new Generator.
func New(logger ports.Logger) *Generator {
	return &Generator{
		logger: logger,
	}
}

// Generate derives the output lockfile from the workspace lockfile.
func (g *Generator) Generate(_ context.Context, req domain.LockfileRequest) (string, error) {
	src, err := ReadLockfile(filepath.Join(req.WorkspaceRootDir, domain.PnpmLockfileName))
	if err != nil {
		return "", err
	}

	targetDir, err := req.TargetRelativeDir()
	if err != nil {
		return "", err
	}
	plan := importerPlan{targetDir: targetDir, internal: req.InternalDirs()}

	importers, err := buildImporters(src, req, plan)
	if err != nil {
		return "", err
	}

	out := Prune(src, importers)
	reattach(out, src)
	g.logger.Debug(fmt.Sprintf("pruned %s to %d importers and %d packages",
		domain.PnpmLockfileName, len(keys(importers)), len(keys(out.Field(fieldPackages)))))

	data, err := out.Marshal()
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrLockfileWriteFailed.Error())
	}
	dst := filepath.Join(req.IsolateDir, domain.PnpmLockfileName)
	if err := os.WriteFile(dst, data, domain.FilePerm); err != nil { //nolint:gosec // lockfiles must be readable
		return "", zerr.With(zerr.Wrap(err, domain.ErrLockfileWriteFailed.Error()), "path", dst)
	}

	if err := WriteWorkspace(req.IsolateDir, req.SortedInternalDirs(), req.Catalogs); err != nil {
		return "", err
	}
	return dst, nil
}

// reattach restores the top-level fields Prune does not carry. Patched
// dependencies are limited to packages still in the lockfile.
func reattach(out, src *Lockfile) {
	for _, field := range reattached {
		value := src.Field(field)
		if value == nil {
			continue
		}
		value = clone(value)
		if field == fieldPatchedDependencies {
			value = retainedPatches(value, out)
			if len(value.Content) == 0 {
				continue
			}
		}
		setBefore(out.root, field, value, fieldImporters)
	}
}

// retainedPatches keeps the patches whose name or name@version key matches a
// retained package.
func retainedPatches(patches *yaml.Node, lock *Lockfile) *yaml.Node {
	names := make(map[string]bool)
	ids := make(map[string]bool)
	for _, key := range keys(lock.Field(fieldPackages)) {
		name, version := packageID(key)
		names[name] = true
		ids[name+"@"+version] = true
	}
	return filterKeys(patches, func(key string) bool { return ids[key] || names[key] })
}

// WriteWorkspace writes pnpm-workspace.yaml declaring the mirrored package
// directories and the workspace catalogs. Nothing is written when there is
// nothing to declare.
func WriteWorkspace(dir string, packages []string, catalogs domain.Catalogs) error {
	ws := Workspace{Packages: packages, Catalog: catalogs.Default, Catalogs: catalogs.Named}
	if len(ws.Packages) == 0 && catalogs.IsEmpty() {
		return nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(ws); err != nil {
		return zerr.Wrap(err, domain.ErrLockfileWriteFailed.Error())
	}
	if err := enc.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrLockfileWriteFailed.Error())
	}
	data := buf.Bytes()
	path := filepath.Join(dir, domain.PnpmWorkspaceFileName)
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil { //nolint:gosec // workspace files must be readable
		return zerr.With(zerr.Wrap(err, domain.ErrLockfileWriteFailed.Error()), "path", path)
	}
	return nil
}
