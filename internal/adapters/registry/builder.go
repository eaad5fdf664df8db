// Package registry discovers the packages of a workspace.
package registry

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	isofs "go.trai.ch/isolate/internal/adapters/fs"
	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var _ ports.RegistryBuilder = (*Builder)(nil)

// PnpmWorkspace is the structure of pnpm-workspace.yaml.
type PnpmWorkspace struct {
	Packages []string                     `yaml:"packages"`
	Catalog  map[string]string            `yaml:"catalog"`
	Catalogs map[string]map[string]string `yaml:"catalogs"`
}

// Builder implements ports.RegistryBuilder.
type Builder struct {
	logger   ports.Logger
	resolver *isofs.Resolver
}

// NewBuilder creates a new Builder.
func NewBuilder(logger ports.Logger, resolver *isofs.Resolver) *Builder {
	return &Builder{
		logger:   logger,
		resolver: resolver,
	}
}

// Build discovers the packages below rootDir. Without patterns the globs come
// from pnpm-workspace.yaml for pnpm and from the root manifest workspaces
// field otherwise.
func (b *Builder) Build(ctx context.Context, rootDir string, pm domain.PackageManager, patterns []string) (*domain.Workspace, error) {
	rootManifest, err := b.readRootManifest(rootDir, pm)
	if err != nil {
		return nil, err
	}

	catalogs := domain.CatalogsFromManifest(rootManifest)

	if pm.Name == domain.ManagerPnpm {
		ws, err := ReadPnpmWorkspace(rootDir)
		switch {
		case err == nil:
			catalogs = catalogs.Merge(domain.Catalogs{Default: ws.Catalog, Named: ws.Catalogs})
			if len(patterns) == 0 {
				patterns = ws.Packages
			}
		case len(patterns) == 0:
			return nil, err
		}
	} else if len(patterns) == 0 {
		if rootManifest.Workspaces == nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrWorkspaceDeclaration, "root manifest has no workspaces field"),
				"path", filepath.Join(rootDir, domain.ManifestFileName))
		}
		patterns = rootManifest.Workspaces.Packages
	}

	dirs, err := b.resolver.ResolveDirs(rootDir, patterns)
	if err != nil {
		return nil, err
	}

	infos, err := b.readPackages(ctx, rootDir, dirs)
	if err != nil {
		return nil, err
	}

	registry := make(domain.PackagesRegistry, len(infos))
	for _, info := range infos {
		if info == nil {
			continue
		}
		if prev, exists := registry[info.Manifest.Name]; exists {
			b.logger.Debug("package " + info.Manifest.Name + " in " + info.RootRelativeDir +
				" replaces the one in " + prev.RootRelativeDir)
		}
		registry[info.Manifest.Name] = info
	}
	b.logger.Debug("registered workspace packages: " + strings.Join(registry.Names(), ", "))

	return &domain.Workspace{
		RootDir:      rootDir,
		RootManifest: rootManifest,
		Registry:     registry,
		Catalogs:     catalogs,
	}, nil
}

func (b *Builder) readRootManifest(rootDir string, pm domain.PackageManager) (*domain.PackageManifest, error) {
	path := filepath.Join(rootDir, domain.ManifestFileName)
	m, err := domain.ReadManifest(path)
	if err == nil {
		return m, nil
	}
	if pm.Name == domain.ManagerPnpm && errors.Is(err, fs.ErrNotExist) {
		return &domain.PackageManifest{}, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, zerr.With(zerr.Wrap(domain.ErrWorkspaceDeclaration, "root manifest not found"), "path", path)
	}
	return nil, err
}

// readPackages reads the manifest of every directory concurrently. The result
// follows the order of dirs; directories without a manifest yield nil.
func (b *Builder) readPackages(ctx context.Context, rootDir string, dirs []string) ([]*domain.WorkspacePackageInfo, error) {
	infos := make([]*domain.WorkspacePackageInfo, len(dirs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, rel := range dirs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			abs := filepath.Join(rootDir, filepath.FromSlash(rel))
			m, err := domain.ReadManifest(filepath.Join(abs, domain.ManifestFileName))
			if errors.Is(err, fs.ErrNotExist) {
				b.logger.Warn("skipping " + rel + ": no " + domain.ManifestFileName)
				return nil
			}
			if err != nil {
				return err
			}
			if m.Name == "" {
				b.logger.Warn("skipping " + rel + ": manifest has no name")
				return nil
			}

			infos[i] = &domain.WorkspacePackageInfo{
				AbsoluteDir:     abs,
				RootRelativeDir: rel,
				Manifest:        m,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return infos, nil
}

// ReadPnpmWorkspace reads pnpm-workspace.yaml from rootDir.
func ReadPnpmWorkspace(rootDir string) (*PnpmWorkspace, error) {
	path := filepath.Join(rootDir, domain.PnpmWorkspaceFileName)
	data, err := os.ReadFile(path) //nolint:gosec // path points into the workspace
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrWorkspaceDeclaration.Error()), "path", path)
	}

	var ws PnpmWorkspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrWorkspaceDeclaration.Error()), "path", path)
	}
	return &ws, nil
}
