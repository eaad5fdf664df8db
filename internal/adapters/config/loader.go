// Package config provides the configuration loader for isolate.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader.
type Loader struct {
	logger   ports.Logger
	validate *validator.Validate
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Load reads the configuration file at path, or discovers one in dir when
// path is empty. Without a config file the defaults apply.
func (l *Loader) Load(dir, path string) (domain.Config, error) {
	if path == "" {
		path = discover(dir)
		if path == "" {
			l.logger.Debug("no config file found, using defaults")
			return l.Validate(domain.DefaultConfig())
		}
	}

	cfg, err := Load(path)
	if err != nil {
		return domain.Config{}, err
	}
	l.logger.Debug("loaded config from " + path)
	return l.Validate(cfg)
}

// Validate fills defaults into cfg and checks the result.
func (l *Loader) Validate(cfg domain.Config) (domain.Config, error) {
	cfg = cfg.WithDefaults()
	if err := l.validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return domain.Config{}, zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidConfig, ""),
				"field", fe.Field()), "rule", fe.Tag())
		}
		return domain.Config{}, zerr.Wrap(err, domain.ErrInvalidConfig.Error())
	}
	return cfg, nil
}

// Load reads a configuration file from the given path.
func Load(path string) (domain.Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return domain.Config{}, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file IsolateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.Config{}, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	return domain.Config{
		WorkspaceRoot:          file.WorkspaceRoot,
		TargetPackagePath:      file.TargetPackagePath,
		IsolateDirName:         file.IsolateDirName,
		WorkspacePackages:      trimStrings(file.WorkspacePackages),
		IncludeDevDependencies: file.IncludeDevDependencies,
		ForceNpm:               file.ForceNpm,
		PickFromScripts:        canonicalizeStrings(file.PickFromScripts),
		OmitFromScripts:        canonicalizeStrings(file.OmitFromScripts),
		LogLevel:               file.LogLevel,
	}, nil
}

func discover(dir string) string {
	for _, name := range []string{domain.ConfigFileNameYAML, domain.ConfigFileNameJSON} {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func trimStrings(strs []string) []string {
	var res []string
	for _, s := range strs {
		if s = strings.TrimSpace(s); s != "" {
			res = append(res, s)
		}
	}
	return res
}

func canonicalizeStrings(strs []string) []string {
	res := trimStrings(strs)
	if len(res) == 0 {
		return nil
	}
	slices.Sort(res)
	return slices.Compact(res)
}
