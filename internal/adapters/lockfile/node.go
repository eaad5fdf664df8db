package lockfile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/isolate/internal/adapters/logger"
	"go.trai.ch/isolate/internal/adapters/shell"
	"go.trai.ch/isolate/internal/core/ports"
)

// NodeID is the unique identifier for the lockfile engine Graft node.
const NodeID graft.ID = "adapter.lockfile"

func init() {
	graft.Register(graft.Node[ports.LockfileGenerator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, shell.NodeID},
		Run: func(ctx context.Context) (ports.LockfileGenerator, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			return NewEngine(log, runner), nil
		},
	})
}
