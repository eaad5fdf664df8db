package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/engine/manifest"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Result describes a finished isolation.
type Result struct {
	IsolateDir     string
	LockfilePath   string
	PackageManager domain.PackageManager
	// InternalDeps lists the retained workspace packages in discovery order.
	InternalDeps []string
	// Fingerprint digests the isolate output; equal inputs give equal fingerprints.
	Fingerprint string
}

var errIncompleteOutput = zerr.New("isolate output is incomplete")

// unit is one package copied into the output.
type unit struct {
	name    string
	srcDir  string
	destDir string
	archive string
}

// Isolate copies the target package of cfg and its internal dependencies into
// the isolate directory, with manifests and a lockfile that install without
// the workspace.
//
//nolint:cyclop,funlen // orchestration function
func (a *App) Isolate(ctx context.Context, cfg domain.Config) (Result, error) {
	w, err := a.load(ctx, cfg)
	if err != nil {
		return Result{}, zerr.Wrap(err, domain.ErrIsolationFailed.Error())
	}
	paths := w.paths

	pm := w.detected
	if cfg.ForceNpm && pm.Name != domain.ManagerNpm {
		version, err := a.detector.Version(ctx, domain.ManagerNpm, paths.WorkspaceRoot)
		if err != nil {
			return Result{}, zerr.Wrap(err, domain.ErrIsolationFailed.Error())
		}
		pm = domain.PackageManager{Name: domain.ManagerNpm, Version: version}
	}

	var internal, devOnly []string
	err = a.step(ctx, "resolve internal dependencies", func(_ context.Context) error {
		internal = a.resolver.Resolve(w.target, w.ws.Registry, cfg.IncludeDevDependencies)
		_, devOnly = a.resolver.Split(w.target, w.ws.Registry, internal)
		return nil
	})
	if err != nil {
		return Result{}, zerr.Wrap(err, domain.ErrIsolationFailed.Error())
	}
	if len(internal) > 0 {
		a.logger.Info("internal dependencies: " + strings.Join(internal, ", "))
	}

	if err := os.RemoveAll(paths.IsolateDir); err != nil {
		return Result{}, zerr.With(zerr.Wrap(err, domain.ErrIsolateDirFailed.Error()), "path", paths.IsolateDir)
	}

	units := make([]*unit, 0, len(internal)+1)
	units = append(units, &unit{name: w.target.Name, srcDir: paths.TargetPackage, destDir: paths.IsolateDir})
	dirs := make([]string, 0, len(internal))
	for _, name := range internal {
		info := w.ws.Registry[name]
		dirs = append(dirs, info.RootRelativeDir)
		units = append(units, &unit{
			name:    name,
			srcDir:  info.AbsoluteDir,
			destDir: filepath.Join(paths.IsolateDir, filepath.FromSlash(info.RootRelativeDir)),
		})
	}

	err = a.step(ctx, "pack packages", func(ctx context.Context) error {
		return a.packAll(ctx, units, w.detected, paths.IsolateDir)
	})
	if err != nil {
		return Result{}, zerr.Wrap(err, domain.ErrIsolationFailed.Error())
	}

	opts := manifest.Options{
		PackageManager:         pm,
		ForceNpm:               cfg.ForceNpm,
		IncludeDevDependencies: cfg.IncludeDevDependencies,
		PickFromScripts:        cfg.PickFromScripts,
		OmitFromScripts:        cfg.OmitFromScripts,
		WorkspaceDirs:          dirs,
	}

	var target *domain.PackageManifest
	err = a.step(ctx, "adapt manifests", func(ctx context.Context) error {
		var err error
		target, err = a.adaptManifests(ctx, w, internal, devOnly, opts)
		return err
	})
	if err != nil {
		return Result{}, zerr.Wrap(err, domain.ErrIsolationFailed.Error())
	}

	var lockfile domain.LockfileResult
	err = a.step(ctx, "generate lockfile", func(ctx context.Context) error {
		var err error
		lockfile, err = a.lockfiles.Generate(ctx, domain.LockfileRequest{
			WorkspaceRootDir:       paths.WorkspaceRoot,
			TargetPackageDir:       paths.TargetPackage,
			IsolateDir:             paths.IsolateDir,
			InternalDepNames:       internal,
			Registry:               w.ws.Registry,
			Catalogs:               w.ws.Catalogs,
			IncludeDevDependencies: cfg.IncludeDevDependencies,
			TargetManifest:         target,
			PackageManager:         pm,
		})
		if err != nil {
			return err
		}
		if lockfile.UsedFallback {
			pm, err = a.declareNpm(ctx, target, paths)
		}
		return err
	})
	if err != nil {
		return Result{}, zerr.Wrap(err, domain.ErrIsolationFailed.Error())
	}

	if pm.Name == domain.ManagerPnpm {
		copied, err := copyFile(filepath.Join(paths.WorkspaceRoot, domain.NpmrcFileName),
			filepath.Join(paths.IsolateDir, domain.NpmrcFileName))
		if err != nil {
			return Result{}, zerr.Wrap(err, domain.ErrIsolationFailed.Error())
		}
		if copied {
			a.logger.Debug("copied " + domain.NpmrcFileName)
		}
	}

	var fingerprint string
	err = a.step(ctx, "verify output", func(_ context.Context) error {
		var err error
		fingerprint, err = a.verify(w, internal, lockfile.Path)
		return err
	})
	if err != nil {
		return Result{}, zerr.Wrap(err, domain.ErrIsolationFailed.Error())
	}

	a.logger.Info(fmt.Sprintf("isolated %s to %s (%s)", w.target.Name, paths.IsolateDir, fingerprint))

	return Result{
		IsolateDir:     paths.IsolateDir,
		LockfilePath:   lockfile.Path,
		PackageManager: pm,
		InternalDeps:   internal,
		Fingerprint:    fingerprint,
	}, nil
}

// packAll packs every unit, then unpacks each archive into its output
// directory. Packing completes before anything is extracted so the isolate
// directory never ends up inside an archive.
func (a *App) packAll(ctx context.Context, units []*unit, pm domain.PackageManager, isolateDir string) error {
	scratch, err := os.MkdirTemp("", "isolate-pack-")
	if err != nil {
		return zerr.Wrap(err, domain.ErrPackFailed.Error())
	}
	defer os.RemoveAll(scratch) //nolint:errcheck // Best effort cleanup

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, u := range units {
		g.Go(func() error {
			archive, err := a.packer.Pack(gctx, u.srcDir, filepath.Join(scratch, strconv.Itoa(i)), pm)
			if err != nil {
				return zerr.With(err, "package", u.name)
			}
			u.archive = archive
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := os.MkdirAll(isolateDir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrIsolateDirFailed.Error()), "path", isolateDir)
	}

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, u := range units {
		g.Go(func() error {
			if err := a.packer.Unpack(gctx, u.archive, u.destDir); err != nil {
				return zerr.With(err, "package", u.name)
			}
			return nil
		})
	}
	return g.Wait()
}

// adaptManifests writes the derived manifest of every internal dependency,
// then the target's, and returns the target's.
func (a *App) adaptManifests(
	ctx context.Context,
	w *workspace,
	internal, devOnly []string,
	opts manifest.Options,
) (*domain.PackageManifest, error) {
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, name := range internal {
		info := w.ws.Registry[name]
		g.Go(func() error {
			m, err := a.adapter.AdaptInternal(info, w.ws, opts, slices.Contains(devOnly, name))
			if err != nil {
				return err
			}
			return domain.WriteManifest(filepath.Join(w.paths.IsolateDir, filepath.FromSlash(info.RootRelativeDir)), m)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	target, err := a.adapter.AdaptTarget(w.target, w.ws, opts)
	if err != nil {
		return nil, err
	}
	if err := domain.WriteManifest(w.paths.IsolateDir, target); err != nil {
		return nil, err
	}
	return target, nil
}

// declareNpm rewrites the output target manifest to name npm as its package
// manager after the npm strategy stood in for another one.
func (a *App) declareNpm(ctx context.Context, target *domain.PackageManifest, paths Paths) (domain.PackageManager, error) {
	version, err := a.detector.Version(ctx, domain.ManagerNpm, paths.WorkspaceRoot)
	if err != nil {
		return domain.PackageManager{}, err
	}
	pm := domain.PackageManager{Name: domain.ManagerNpm, Version: version}
	m, err := manifest.WithPackageManager(target, pm)
	if err != nil {
		return domain.PackageManager{}, err
	}
	return pm, domain.WriteManifest(paths.IsolateDir, m)
}

// verify checks that every manifest and the lockfile landed in the output and
// returns the output fingerprint.
func (a *App) verify(w *workspace, internal []string, lockfilePath string) (string, error) {
	expected := []string{domain.ManifestFileName}
	if rel, err := filepath.Rel(w.paths.IsolateDir, lockfilePath); err == nil {
		expected = append(expected, rel)
	}
	for _, name := range internal {
		rel := filepath.FromSlash(w.ws.Registry[name].RootRelativeDir)
		expected = append(expected, filepath.Join(rel, domain.ManifestFileName))
	}

	missing, err := a.verifier.Missing(w.paths.IsolateDir, expected)
	if err != nil {
		return "", err
	}
	if len(missing) > 0 {
		return "", zerr.With(errIncompleteOutput, "files", strings.Join(missing, ", "))
	}

	return a.fingerprinter.Fingerprint(w.paths.IsolateDir)
}
