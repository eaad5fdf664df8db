package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/isolate/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/isolate/internal/adapters/detector"           //nolint:depguard // Wired in app layer
	"go.trai.ch/isolate/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/isolate/internal/adapters/lockfile"           //nolint:depguard // Wired in app layer
	"go.trai.ch/isolate/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/isolate/internal/adapters/pack"               //nolint:depguard // Wired in app layer
	"go.trai.ch/isolate/internal/adapters/registry"           //nolint:depguard // Wired in app layer
	"go.trai.ch/isolate/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/isolate/internal/core/ports"
	"go.trai.ch/isolate/internal/engine/manifest"
	"go.trai.ch/isolate/internal/engine/resolver"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
			detector.NodeID,
			registry.NodeID,
			pack.NodeID,
			lockfile.NodeID,
			fs.FingerprinterNodeID,
			fs.VerifierNodeID,
			progrock.NodeID,
			resolver.NodeID,
			manifest.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
			progrock.NodeID,
		},
		Run: runComponentsNode,
	})
}

//nolint:cyclop // one lookup per dependency
func runAppNode(ctx context.Context) (*App, error) {
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	det, err := graft.Dep[ports.ManagerDetector](ctx)
	if err != nil {
		return nil, err
	}
	builder, err := graft.Dep[ports.RegistryBuilder](ctx)
	if err != nil {
		return nil, err
	}
	packer, err := graft.Dep[ports.Packer](ctx)
	if err != nil {
		return nil, err
	}
	lockfiles, err := graft.Dep[ports.LockfileGenerator](ctx)
	if err != nil {
		return nil, err
	}
	fingerprinter, err := graft.Dep[ports.Fingerprinter](ctx)
	if err != nil {
		return nil, err
	}
	verifier, err := graft.Dep[*fs.Verifier](ctx)
	if err != nil {
		return nil, err
	}
	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}
	res, err := graft.Dep[*resolver.Resolver](ctx)
	if err != nil {
		return nil, err
	}
	adapter, err := graft.Dep[*manifest.Adapter](ctx)
	if err != nil {
		return nil, err
	}

	return New(log, det, builder, packer, lockfiles, fingerprinter, telemetry, res, adapter, verifier), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:          a,
		Logger:       log,
		ConfigLoader: loader,
		Telemetry:    telemetry,
	}, nil
}
