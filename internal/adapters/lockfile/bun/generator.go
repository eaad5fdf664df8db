// Package bun prunes a text bun.lock to an isolated package and its internal
// dependencies.
package bun

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/core/ports"
	"go.trai.ch/isolate/internal/jsondoc"
	"go.trai.ch/zerr"
)

// Generator writes bun.lock.
type Generator struct {
	logger ports.Logger
}

// New creates a new Generator.
func New(logger ports.Logger) *Generator {
	return &Generator{
		logger: logger,
	}
}

// Generate derives the output lockfile from the workspace bun.lock.
func (g *Generator) Generate(_ context.Context, req domain.LockfileRequest) (string, error) {
	src := filepath.Join(req.WorkspaceRootDir, domain.BunLockfileName)
	data, err := os.ReadFile(src) //nolint:gosec // path points into the workspace
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", zerr.With(zerr.Wrap(domain.ErrLockfileNotFound, ""), "path", src)
		}
		return "", zerr.With(zerr.Wrap(err, domain.ErrLockfileReadFailed.Error()), "path", src)
	}

	doc, err := jsondoc.Parse(data)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrLockfileParseFailed.Error()), "path", src)
	}

	targetDir, err := req.TargetRelativeDir()
	if err != nil {
		return "", err
	}

	sel := Selection{
		TargetDir:              targetDir,
		Internal:               req.InternalDirs(),
		IncludeDevDependencies: req.IncludeDevDependencies,
	}
	if err := Prune(doc, sel); err != nil {
		return "", zerr.With(zerr.With(zerr.Wrap(err, ""), "path", src), "workspace", targetDir)
	}
	if err := syncSpecifiers(doc, req); err != nil {
		return "", err
	}

	if packages, ok := doc.GetObject(fieldPackages); ok {
		g.logger.Debug(fmt.Sprintf("pruned %s to %d packages", domain.BunLockfileName, packages.Len()))
	}

	out, err := Marshal(doc)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrLockfileWriteFailed.Error())
	}
	dst := filepath.Join(req.IsolateDir, domain.BunLockfileName)
	if err := os.WriteFile(dst, out, domain.FilePerm); err != nil { //nolint:gosec // lockfiles must be readable
		return "", zerr.With(zerr.Wrap(err, domain.ErrLockfileWriteFailed.Error()), "path", dst)
	}
	return dst, nil
}

// syncSpecifiers sets the dependency specifiers of every kept workspace entry
// to what the output manifests declare, so resolved catalog references match.
func syncSpecifiers(doc *jsondoc.Object, req domain.LockfileRequest) error {
	workspaces, _ := doc.GetObject(fieldWorkspaces)
	for _, dir := range workspaces.Keys() {
		entry, _ := workspaces.GetObject(dir)

		id := dir
		if dir == "" {
			id = domain.RootImporterID
		}
		manifest, err := req.AdaptedManifest(id)
		if err != nil {
			return err
		}

		for _, field := range walkedFields {
			deps, ok := entry.GetObject(field)
			if !ok {
				continue
			}
			specs := manifest.DependencyMap(field)
			for _, dep := range deps.Keys() {
				if spec, ok := specs[dep]; ok {
					deps.Set(dep, spec)
				}
			}
		}
	}
	return nil
}
