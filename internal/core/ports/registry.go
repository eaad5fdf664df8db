package ports

import (
	"context"

	"go.trai.ch/isolate/internal/core/domain"
)

// RegistryBuilder discovers the packages of a workspace.
//
//go:generate go run go.uber.org/mock/mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks
type RegistryBuilder interface {
	// Build reads the workspace declaration under rootDir, or uses patterns
	// when given, and returns every package that has a manifest.
	Build(ctx context.Context, rootDir string, pm domain.PackageManager, patterns []string) (*domain.Workspace, error)
}
