// Package lockfile derives the lockfile of an isolated package by dispatching
// to the strategy of the workspace package manager.
package lockfile

import (
	"context"

	"go.trai.ch/isolate/internal/adapters/lockfile/bun"
	"go.trai.ch/isolate/internal/adapters/lockfile/npm"
	"go.trai.ch/isolate/internal/adapters/lockfile/pnpm"
	"go.trai.ch/isolate/internal/adapters/lockfile/yarn"
	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.LockfileGenerator = (*Engine)(nil)

// Kind names a lockfile strategy.
type Kind string

// Lockfile strategies.
const (
	KindNpm  Kind = "npm"
	KindYarn Kind = "yarn"
	KindPnpm Kind = "pnpm"
	KindBun  Kind = "bun"
)

// Generator is implemented by every strategy. It returns the path of the
// written lockfile.
type Generator interface {
	Generate(ctx context.Context, req domain.LockfileRequest) (string, error)
}

// Select returns the strategy for pm. fallback reports that the npm strategy
// stands in for a manager without one of its own.
func Select(pm domain.PackageManager) (kind Kind, fallback bool) {
	switch pm.Name {
	case domain.ManagerNpm:
		return KindNpm, false
	case domain.ManagerYarn:
		if pm.MajorVersion() == 1 {
			return KindYarn, false
		}
		return KindNpm, true
	case domain.ManagerPnpm:
		return KindPnpm, false
	case domain.ManagerBun:
		return KindBun, false
	default:
		return KindNpm, true
	}
}

// Engine implements ports.LockfileGenerator.
type Engine struct {
	logger     ports.Logger
	generators map[Kind]Generator
}

// NewEngine creates an Engine with the built-in strategies.
func NewEngine(logger ports.Logger, runner ports.CommandRunner) *Engine {
	return NewEngineWith(logger, map[Kind]Generator{
		KindNpm:  npm.New(runner, logger),
		KindYarn: yarn.New(runner, logger),
		KindPnpm: pnpm.New(logger),
		KindBun:  bun.New(logger),
	})
}

// NewEngineWith creates an Engine with the given strategies.
func NewEngineWith(logger ports.Logger, generators map[Kind]Generator) *Engine {
	return &Engine{
		logger:     logger,
		generators: generators,
	}
}

// Generate writes the isolated lockfile into req.IsolateDir.
func (e *Engine) Generate(ctx context.Context, req domain.LockfileRequest) (domain.LockfileResult, error) {
	kind, fallback := Select(req.PackageManager)
	if fallback {
		e.logger.Warn("no lockfile strategy for " + req.PackageManager.String() + ", generating an npm lockfile instead")
	}

	gen, ok := e.generators[kind]
	if !ok {
		return domain.LockfileResult{}, zerr.With(zerr.Wrap(domain.ErrUnsupportedLockfile, ""), "strategy", string(kind))
	}

	e.logger.Debug("generating lockfile with the " + string(kind) + " strategy")
	path, err := gen.Generate(ctx, req)
	if err != nil {
		return domain.LockfileResult{}, err
	}

	e.logger.Info("generated " + path)
	return domain.LockfileResult{Path: path, UsedFallback: fallback}, nil
}
