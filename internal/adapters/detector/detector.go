// Package detector resolves the package manager of a workspace.
package detector

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ManagerDetector = (*Detector)(nil)

// lockfileOrder is the order lockfiles are probed in when the root manifest
// does not declare a packageManager.
var lockfileOrder = []struct {
	file    string
	manager domain.ManagerName
}{
	{domain.PnpmLockfileName, domain.ManagerPnpm},
	{domain.BunLockfileName, domain.ManagerBun},
	{domain.YarnLockfileName, domain.ManagerYarn},
	{domain.NpmLockfileName, domain.ManagerNpm},
	{domain.NpmShrinkwrapFileName, domain.ManagerNpm},
}

// Detector implements ports.ManagerDetector.
type Detector struct {
	runner ports.CommandRunner
	logger ports.Logger
}

// New creates a new Detector.
func New(runner ports.CommandRunner, logger ports.Logger) *Detector {
	return &Detector{
		runner: runner,
		logger: logger,
	}
}

// Detect prefers the packageManager field of the root manifest. Without it
// the manager is inferred from the lockfile present at the root and its
// version is asked from the installed binary.
func (d *Detector) Detect(ctx context.Context, rootDir string) (domain.PackageManager, error) {
	manifestPath := filepath.Join(rootDir, domain.ManifestFileName)
	if _, err := os.Stat(manifestPath); err == nil {
		m, err := domain.ReadManifest(manifestPath)
		if err != nil {
			return domain.PackageManager{}, err
		}
		if m.PackageManager != "" {
			pm, err := domain.ParsePackageManagerField(m.PackageManager)
			if err != nil {
				return domain.PackageManager{}, zerr.With(err, "path", manifestPath)
			}
			d.logger.Debug("package manager " + pm.String() + " declared in " + manifestPath)
			return pm, nil
		}
	}

	for _, probe := range lockfileOrder {
		if _, err := os.Stat(filepath.Join(rootDir, probe.file)); err != nil {
			continue
		}
		version, err := d.Version(ctx, probe.manager, rootDir)
		if err != nil {
			return domain.PackageManager{}, err
		}
		pm := domain.PackageManager{Name: probe.manager, Version: version}
		d.logger.Debug("package manager " + pm.String() + " inferred from " + probe.file)
		return pm, nil
	}

	return domain.PackageManager{}, zerr.With(zerr.Wrap(domain.ErrPackageManagerNotDetected, ""), "root", rootDir)
}

// Version runs "<name> --version" in dir.
func (d *Detector) Version(ctx context.Context, name domain.ManagerName, dir string) (string, error) {
	out, err := d.runner.Output(ctx, domain.Command{Name: string(name), Args: []string{"--version"}, Dir: dir})
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrPackageManagerNotDetected.Error()), "manager", string(name))
	}
	return strings.TrimPrefix(strings.TrimSpace(string(out)), "v"), nil
}
