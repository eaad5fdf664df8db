// Package npm derives an npm lockfile by letting npm rebuild the tree of the
// isolated package from the installed workspace modules.
package npm

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/moby/locker"
	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/core/ports"
	"go.trai.ch/zerr"
)

// InstallArgs are the npm arguments that write package-lock.json from the
// node_modules tree without touching the network or running scripts.
var InstallArgs = []string{
	"install",
	"--package-lock-only",
	"--ignore-scripts",
	"--no-audit",
	"--no-fund",
	"--prefer-offline",
}

// relocations serializes node_modules moves per workspace root.
var relocations = locker.New()

// Generator writes package-lock.json or npm-shrinkwrap.json.
type Generator struct {
	runner ports.CommandRunner
	logger ports.Logger
}

// New creates a new Generator.
func New(runner ports.CommandRunner, logger ports.Logger) *Generator {
	return &Generator{
		runner: runner,
		logger: logger,
	}
}

// Generate moves the workspace node_modules into the isolate directory, runs
// npm there and moves node_modules back on every exit path.
func (g *Generator) Generate(ctx context.Context, req domain.LockfileRequest) (_ string, err error) {
	src := filepath.Join(req.WorkspaceRootDir, domain.NodeModulesDirName)
	dst := filepath.Join(req.IsolateDir, domain.NodeModulesDirName)

	relocations.Lock(req.WorkspaceRootDir)
	defer func() { _ = relocations.Unlock(req.WorkspaceRootDir) }()

	if _, statErr := os.Stat(src); statErr != nil {
		return "", zerr.With(zerr.With(zerr.Wrap(domain.ErrLockfileNotFound, ""),
			"path", src), "hint", "install the workspace dependencies first")
	}

	g.logger.Debug("moving " + src + " to " + dst)
	if err := os.Rename(src, dst); err != nil {
		return "", zerr.With(zerr.With(zerr.Wrap(err, domain.ErrModulesRelocationFailed.Error()), "from", src), "to", dst)
	}
	defer func() {
		g.logger.Debug("restoring " + src)
		if restoreErr := os.Rename(dst, src); restoreErr != nil {
			restoreErr = zerr.With(zerr.With(zerr.Wrap(restoreErr, domain.ErrModulesRelocationFailed.Error()), "from", dst), "to", src)
			err = errors.Join(err, restoreErr)
		}
	}()

	if err := g.runner.Run(ctx, domain.Command{Name: string(domain.ManagerNpm), Args: InstallArgs, Dir: req.IsolateDir}); err != nil {
		return "", err
	}

	out := filepath.Join(req.IsolateDir, domain.NpmLockfileName)
	if !usesShrinkwrap(req.WorkspaceRootDir) {
		return out, nil
	}

	shrinkwrap := filepath.Join(req.IsolateDir, domain.NpmShrinkwrapFileName)
	if err := os.Rename(out, shrinkwrap); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrLockfileWriteFailed.Error()), "path", shrinkwrap)
	}
	return shrinkwrap, nil
}

func usesShrinkwrap(rootDir string) bool {
	_, err := os.Stat(filepath.Join(rootDir, domain.NpmShrinkwrapFileName))
	return err == nil
}
