package registry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/isolate/internal/adapters/fs"
	"go.trai.ch/isolate/internal/adapters/logger"
	"go.trai.ch/isolate/internal/core/ports"
)

// NodeID is the unique identifier for the registry builder Graft node.
const NodeID graft.ID = "adapter.registry"

func init() {
	graft.Register(graft.Node[ports.RegistryBuilder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, fs.ResolverNodeID},
		Run: func(ctx context.Context) (ports.RegistryBuilder, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			resolver, err := graft.Dep[*fs.Resolver](ctx)
			if err != nil {
				return nil, err
			}
			return NewBuilder(log, resolver), nil
		},
	})
}
