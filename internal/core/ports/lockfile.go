package ports

import (
	"context"

	"go.trai.ch/isolate/internal/core/domain"
)

// LockfileGenerator writes the lockfile of an isolated package.
//
//go:generate go run go.uber.org/mock/mockgen -source=lockfile.go -destination=mocks/mock_lockfile.go -package=mocks
type LockfileGenerator interface {
	Generate(ctx context.Context, req domain.LockfileRequest) (domain.LockfileResult, error)
}
