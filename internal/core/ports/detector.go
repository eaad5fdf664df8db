package ports

import (
	"context"

	"go.trai.ch/isolate/internal/core/domain"
)

// ManagerDetector resolves the package manager a workspace uses.
//
//go:generate go run go.uber.org/mock/mockgen -source=detector.go -destination=mocks/mock_detector.go -package=mocks
type ManagerDetector interface {
	// Detect inspects the workspace root.
	Detect(ctx context.Context, rootDir string) (domain.PackageManager, error)

	// Version asks the installed manager binary for its version.
	Version(ctx context.Context, name domain.ManagerName, dir string) (string, error)
}
