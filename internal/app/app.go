// Package app implements the application layer for isolate.
package app

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/isolate/internal/adapters/fs" //nolint:depguard // Wired in app layer
	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/core/ports"
	"go.trai.ch/isolate/internal/engine/manifest"
	"go.trai.ch/isolate/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	logger        ports.Logger
	detector      ports.ManagerDetector
	registry      ports.RegistryBuilder
	packer        ports.Packer
	lockfiles     ports.LockfileGenerator
	fingerprinter ports.Fingerprinter
	telemetry     ports.Telemetry
	resolver      *resolver.Resolver
	adapter       *manifest.Adapter
	verifier      *fs.Verifier
}

// New creates a new App instance.
func New(
	log ports.Logger,
	detector ports.ManagerDetector,
	registry ports.RegistryBuilder,
	packer ports.Packer,
	lockfiles ports.LockfileGenerator,
	fingerprinter ports.Fingerprinter,
	telemetry ports.Telemetry,
	res *resolver.Resolver,
	adapter *manifest.Adapter,
	verifier *fs.Verifier,
) *App {
	return &App{
		logger:        log,
		detector:      detector,
		registry:      registry,
		packer:        packer,
		lockfiles:     lockfiles,
		fingerprinter: fingerprinter,
		telemetry:     telemetry,
		resolver:      res,
		adapter:       adapter,
		verifier:      verifier,
	}
}

// Paths are the absolute directories of one run.
type Paths struct {
	WorkspaceRoot string
	TargetPackage string
	IsolateDir    string
}

// ResolvePaths derives the run directories from cfg. TargetPackagePath is
// relative to the working directory, WorkspaceRoot to the target package.
func ResolvePaths(cfg domain.Config) (Paths, error) {
	target, err := filepath.Abs(cfg.TargetPackagePath)
	if err != nil {
		return Paths{}, zerr.With(zerr.Wrap(err, "failed to resolve target package path"), "path", cfg.TargetPackagePath)
	}
	root := cfg.WorkspaceRoot
	if !filepath.IsAbs(root) {
		root = filepath.Join(target, root)
	}
	return Paths{
		WorkspaceRoot: filepath.Clean(root),
		TargetPackage: target,
		IsolateDir:    filepath.Join(target, cfg.IsolateDirName),
	}, nil
}

// workspace is the state shared by Isolate and Deps.
type workspace struct {
	paths    Paths
	detected domain.PackageManager
	ws       *domain.Workspace
	target   *domain.PackageManifest
}

// load detects the package manager, builds the registry and reads the target
// manifest.
func (a *App) load(ctx context.Context, cfg domain.Config) (*workspace, error) {
	paths, err := ResolvePaths(cfg)
	if err != nil {
		return nil, err
	}

	out := &workspace{paths: paths}
	err = a.step(ctx, "detect package manager", func(ctx context.Context) error {
		pm, err := a.detector.Detect(ctx, paths.WorkspaceRoot)
		if err != nil {
			return err
		}
		out.detected = pm
		a.logger.Debug("detected package manager " + pm.String())
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = a.step(ctx, "build workspace registry", func(ctx context.Context) error {
		ws, err := a.registry.Build(ctx, paths.WorkspaceRoot, out.detected, cfg.WorkspacePackages)
		if err != nil {
			return err
		}
		out.ws = ws
		return nil
	})
	if err != nil {
		return nil, err
	}

	target, err := domain.ReadManifest(filepath.Join(paths.TargetPackage, domain.ManifestFileName))
	if err != nil {
		return nil, err
	}
	out.target = target
	return out, nil
}

// Deps resolves the workspace dependency tree of the target package.
func (a *App) Deps(ctx context.Context, cfg domain.Config) (*resolver.Node, error) {
	w, err := a.load(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return a.resolver.Tree(w.target, w.ws.Registry, cfg.IncludeDevDependencies), nil
}

// step runs fn as a recorded telemetry vertex.
func (a *App) step(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, vertex := a.telemetry.Record(ctx, name)
	err := fn(ctx)
	vertex.Complete(err)
	return err
}

// copyFile copies src to dst when src exists. It reports whether a copy happened.
func copyFile(src, dst string) (bool, error) {
	data, err := os.ReadFile(src) //nolint:gosec // path points into the workspace
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to read file"), "path", src)
	}
	if err := os.WriteFile(dst, data, domain.FilePerm); err != nil { //nolint:gosec // output must be readable
		return false, zerr.With(zerr.Wrap(err, "failed to write file"), "path", dst)
	}
	return true, nil
}
