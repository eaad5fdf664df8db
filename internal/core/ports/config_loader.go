package ports

import "go.trai.ch/isolate/internal/core/domain"

// ConfigLoader defines the interface for loading the isolation configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the config file at path, or discovers isolate.config.yaml or
	// isolate.config.json in dir when path is empty. A missing config file
	// yields the defaults.
	Load(dir, path string) (domain.Config, error)
	// Validate fills defaults into cfg and checks the result.
	Validate(cfg domain.Config) (domain.Config, error)
}
