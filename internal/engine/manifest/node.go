package manifest

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/isolate/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/isolate/internal/core/ports"
)

// NodeID is the unique identifier for the manifest adapter Graft node.
const NodeID graft.ID = "engine.manifest"

func init() {
	graft.Register(graft.Node[*Adapter]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Adapter, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(log), nil
		},
	})
}
