package pack

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/isolate/internal/adapters/logger"
	"go.trai.ch/isolate/internal/adapters/shell"
	"go.trai.ch/isolate/internal/core/ports"
)

// NodeID is the unique identifier for the packer Graft node.
const NodeID graft.ID = "adapter.packer"

func init() {
	graft.Register(graft.Node[ports.Packer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.Packer, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewPacker(runner, log), nil
		},
	})
}
