// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/isolate/internal/adapters/config"
	_ "go.trai.ch/isolate/internal/adapters/detector"
	_ "go.trai.ch/isolate/internal/adapters/fs"
	_ "go.trai.ch/isolate/internal/adapters/lockfile"
	_ "go.trai.ch/isolate/internal/adapters/logger"
	_ "go.trai.ch/isolate/internal/adapters/pack"
	_ "go.trai.ch/isolate/internal/adapters/registry"
	_ "go.trai.ch/isolate/internal/adapters/shell"
	_ "go.trai.ch/isolate/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/isolate/internal/app"
	_ "go.trai.ch/isolate/internal/engine/manifest"
	_ "go.trai.ch/isolate/internal/engine/resolver"
)
