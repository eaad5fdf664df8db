// Package yarn derives a yarn classic lockfile by installing the isolated
// package against a copy of the workspace yarn.lock.
package yarn

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/core/ports"
	"go.trai.ch/zerr"
)

// InstallArgs prune the copied lockfile to the isolated package.
var InstallArgs = []string{"install", "--ignore-scripts", "--non-interactive"}

// Generator writes yarn.lock for yarn v1.
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

// Generate copies yarn.lock into the isolate directory and lets yarn drop the
// entries the isolated package no longer needs.
func (g *Generator) Generate(ctx context.Context, req domain.LockfileRequest) (string, error) {
	src := filepath.Join(req.WorkspaceRootDir, domain.YarnLockfileName)
	dst := filepath.Join(req.IsolateDir, domain.YarnLockfileName)

	data, err := os.ReadFile(src) //nolint:gosec // path points into the workspace
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", zerr.With(zerr.Wrap(domain.ErrLockfileNotFound, ""), "path", src)
		}
		return "", zerr.With(zerr.Wrap(err, domain.ErrLockfileReadFailed.Error()), "path", src)
	}
	if err := os.WriteFile(dst, data, domain.FilePerm); err != nil { //nolint:gosec // lockfiles must be readable
		return "", zerr.With(zerr.Wrap(err, domain.ErrLockfileWriteFailed.Error()), "path", dst)
	}

	g.logger.Debug("copied " + src + " to " + dst)
	if err := g.runner.Run(ctx, domain.Command{Name: string(domain.ManagerYarn), Args: InstallArgs, Dir: req.IsolateDir}); err != nil {
		return "", err
	}
	return dst, nil
}
