package detector

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/isolate/internal/adapters/logger"
	"go.trai.ch/isolate/internal/adapters/shell"
	"go.trai.ch/isolate/internal/core/ports"
)

// NodeID is the unique identifier for the package manager detector Graft node.
const NodeID graft.ID = "adapter.detector"

func init() {
	graft.Register(graft.Node[ports.ManagerDetector]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.ManagerDetector, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(runner, log), nil
		},
	})
}
