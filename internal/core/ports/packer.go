package ports

import (
	"context"

	"go.trai.ch/isolate/internal/core/domain"
)

// Packer produces and extracts publishable package archives.
//
//go:generate go run go.uber.org/mock/mockgen -source=packer.go -destination=mocks/mock_packer.go -package=mocks
type Packer interface {
	// Pack writes an archive holding exactly the files a publish of
	// packageDir would include into destDir and returns its path.
	Pack(ctx context.Context, packageDir, destDir string, pm domain.PackageManager) (string, error)

	// Unpack extracts archivePath into destDir.
	Unpack(ctx context.Context, archivePath, destDir string) error
}
