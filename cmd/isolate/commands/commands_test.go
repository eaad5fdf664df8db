package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/isolate/cmd/isolate/commands"
	"go.trai.ch/isolate/internal/adapters/fs"
	"go.trai.ch/isolate/internal/adapters/telemetry/progrock"
	"go.trai.ch/isolate/internal/app"
	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/core/ports/mocks"
	"go.trai.ch/isolate/internal/engine/manifest"
	"go.trai.ch/isolate/internal/engine/resolver"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	loader   *mocks.MockConfigLoader
	detector *mocks.MockManagerDetector
	registry *mocks.MockRegistryBuilder
	cli      *commands.CLI
	out      *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	f := &fixture{
		loader:   mocks.NewMockConfigLoader(ctrl),
		detector: mocks.NewMockManagerDetector(ctrl),
		registry: mocks.NewMockRegistryBuilder(ctrl),
		out:      &bytes.Buffer{},
	}

	a := app.New(
		log,
		f.detector,
		f.registry,
		mocks.NewMockPacker(ctrl),
		mocks.NewMockLockfileGenerator(ctrl),
		mocks.NewMockFingerprinter(ctrl),
		progrock.New(),
		resolver.New(log),
		manifest.New(log),
		fs.NewVerifier(),
	)
	f.cli = commands.New(&app.Components{
		App:          a,
		Logger:       log,
		ConfigLoader: f.loader,
		Telemetry:    progrock.New(),
	})
	return f
}

func TestRun_FlagsOverrideConfigFile(t *testing.T) {
	f := newFixture(t)

	fromFile := domain.DefaultConfig()
	fromFile.IsolateDirName = "dist-isolate"
	fromFile.ForceNpm = true

	f.loader.EXPECT().Load(".", "custom.yaml").Return(fromFile, nil)
	f.loader.EXPECT().Validate(gomock.Any()).DoAndReturn(func(cfg domain.Config) (domain.Config, error) {
		assert.Equal(t, "dist-isolate", cfg.IsolateDirName)
		assert.True(t, cfg.ForceNpm)
		assert.True(t, cfg.IncludeDevDependencies)
		assert.Equal(t, "apps/web", cfg.TargetPackagePath)
		assert.Equal(t, []string{"packages/*", "apps/*"}, cfg.WorkspacePackages)
		assert.Equal(t, "debug", cfg.LogLevel)
		return domain.Config{}, domain.ErrInvalidConfig
	})

	f.cli.SetArgs([]string{
		"run", "-c", "custom.yaml", "--target", "apps/web", "--include-dev",
		"--workspace-packages", "packages/*,apps/*", "--log-level", "debug",
	})
	err := f.cli.Execute(context.Background())
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestRun_ConfigLoadFails(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(".", "").Return(domain.Config{}, domain.ErrConfigParseFailed)

	err := f.cli.Execute(context.Background())
	require.ErrorIs(t, err, domain.ErrConfigParseFailed)
}

func TestDeps_PrintsTree(t *testing.T) {
	f := newFixture(t)
	root := t.TempDir()
	target := filepath.Join(root, "apps", "web")
	require.NoError(t, os.MkdirAll(target, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(target, "package.json"),
		[]byte(`{"name":"web","dependencies":{"@acme/lib":"workspace:*"}}`), 0o600))

	lib, err := domain.ParseManifest([]byte(`{"name":"@acme/lib","dependencies":{"@acme/core":"workspace:*"}}`))
	require.NoError(t, err)
	core, err := domain.ParseManifest([]byte(`{"name":"@acme/core","dependencies":{"@acme/lib":"workspace:*"}}`))
	require.NoError(t, err)
	ws := &domain.Workspace{
		RootDir: root,
		Registry: domain.PackagesRegistry{
			"@acme/lib":  {RootRelativeDir: "packages/lib", Manifest: lib},
			"@acme/core": {RootRelativeDir: "packages/core", Manifest: core},
		},
	}

	cfg := domain.DefaultConfig()
	cfg.TargetPackagePath = target
	f.loader.EXPECT().Load(".", "").Return(cfg, nil)
	f.loader.EXPECT().Validate(cfg).Return(cfg, nil)
	f.detector.EXPECT().Detect(gomock.Any(), root).Return(domain.PackageManager{Name: domain.ManagerPnpm, Version: "9.12.0"}, nil)
	f.registry.EXPECT().Build(gomock.Any(), root, gomock.Any(), gomock.Any()).Return(ws, nil)

	f.cli.SetArgs([]string{"deps"})
	f.cli.SetOutput(f.out)
	require.NoError(t, f.cli.Execute(context.Background()))

	out := f.out.String()
	assert.Contains(t, out, "web")
	assert.Contains(t, out, "@acme/lib")
	assert.Contains(t, out, "@acme/core")
	assert.Contains(t, out, "@acme/lib (cycle)")
}

func TestVersion(t *testing.T) {
	f := newFixture(t)
	f.cli.SetArgs([]string{"version"})
	f.cli.SetOutput(f.out)

	require.NoError(t, f.cli.Execute(context.Background()))
	assert.Contains(t, f.out.String(), "isolate version dev")
}
