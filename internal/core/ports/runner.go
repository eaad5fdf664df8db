package ports

import (
	"context"

	"go.trai.ch/isolate/internal/core/domain"
)

// CommandRunner runs package manager subprocesses.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type CommandRunner interface {
	// Run executes cmd, streaming its output to the logger. A non-zero exit
	// status is returned as an error carrying the exit code and stderr tail.
	Run(ctx context.Context, cmd domain.Command) error

	// Output executes cmd and returns its trimmed standard output.
	Output(ctx context.Context, cmd domain.Command) ([]byte, error)
}
