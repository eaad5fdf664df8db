package registry_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/isolate/internal/adapters/fs"
	"go.trai.ch/isolate/internal/adapters/registry"
	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

var (
	pnpm = domain.PackageManager{Name: domain.ManagerPnpm, Version: "9.12.0"}
	npm  = domain.PackageManager{Name: domain.ManagerNpm, Version: "10.8.2"}
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newBuilder(t *testing.T) (*registry.Builder, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()
	return registry.NewBuilder(mockLogger, fs.NewResolver()), mockLogger
}

func TestBuilder_PnpmWorkspace(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name":"root","private":true}`)
	writeFile(t, filepath.Join(root, "pnpm-workspace.yaml"), dedent.Dedent(`
		packages:
		  - "apps/*"
		  - "packages/*"
		catalog:
		  react: ^18.3.1
		catalogs:
		  legacy:
		    react: ^16.14.0
		`))
	writeFile(t, filepath.Join(root, "apps", "web", "package.json"), `{"name":"web","version":"1.0.0"}`)
	writeFile(t, filepath.Join(root, "packages", "ui", "package.json"), `{"name":"@acme/ui","version":"1.0.0"}`)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "packages", "empty"), 0o750))

	builder, mockLogger := newBuilder(t)
	mockLogger.EXPECT().Warn("skipping packages/empty: no package.json")

	ws, err := builder.Build(context.Background(), root, pnpm, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"@acme/ui", "web"}, ws.Registry.Names())
	ui := ws.Registry["@acme/ui"]
	assert.Equal(t, "packages/ui", ui.RootRelativeDir)
	assert.Equal(t, filepath.Join(root, "packages", "ui"), ui.AbsoluteDir)
	assert.Equal(t, "1.0.0", ui.Manifest.Version)

	version, ok := ws.Catalogs.Resolve("react", "catalog:legacy")
	require.True(t, ok)
	assert.Equal(t, "^16.14.0", version)
	assert.Equal(t, "root", ws.RootManifest.Name)
}

func TestBuilder_ManifestWorkspaces(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name":"root","workspaces":{"packages":["packages/**"]}}`)
	writeFile(t, filepath.Join(root, "packages", "a", "package.json"), `{"name":"a","version":"1.0.0"}`)
	writeFile(t, filepath.Join(root, "packages", "group", "b", "package.json"), `{"name":"b","version":"1.0.0"}`)
	writeFile(t, filepath.Join(root, "packages", "a", "node_modules", "dep", "package.json"), `{"name":"dep"}`)

	builder, mockLogger := newBuilder(t)
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()

	ws, err := builder.Build(context.Background(), root, npm, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, ws.Registry.Names())
	assert.Equal(t, "packages/group/b", ws.Registry["b"].RootRelativeDir)
}

func TestBuilder_PatternOverride(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name":"root","workspaces":["packages/*"]}`)
	writeFile(t, filepath.Join(root, "packages", "a", "package.json"), `{"name":"a"}`)
	writeFile(t, filepath.Join(root, "libs", "z", "package.json"), `{"name":"z"}`)

	builder, _ := newBuilder(t)
	ws, err := builder.Build(context.Background(), root, npm, []string{"libs/*"})
	require.NoError(t, err)

	assert.Equal(t, []string{"z"}, ws.Registry.Names())
}

func TestBuilder_DuplicateNameLastDiscoveredWins(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name":"root","workspaces":["packages/*"]}`)
	writeFile(t, filepath.Join(root, "packages", "one", "package.json"), `{"name":"dup"}`)
	writeFile(t, filepath.Join(root, "packages", "two", "package.json"), `{"name":"dup"}`)

	builder, _ := newBuilder(t)
	ws, err := builder.Build(context.Background(), root, npm, nil)
	require.NoError(t, err)

	require.Len(t, ws.Registry, 1)
	assert.Equal(t, "packages/two", ws.Registry["dup"].RootRelativeDir)
}

func TestBuilder_MissingDeclaration(t *testing.T) {
	t.Run("pnpm without pnpm-workspace.yaml", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "package.json"), `{"name":"root"}`)

		builder, _ := newBuilder(t)
		_, err := builder.Build(context.Background(), root, pnpm, nil)
		require.ErrorIs(t, err, os.ErrNotExist)
		assert.Contains(t, err.Error(), domain.ErrWorkspaceDeclaration.Error())

		var zErr *zerr.Error
		require.ErrorAs(t, err, &zErr)
		assert.Equal(t, filepath.Join(root, "pnpm-workspace.yaml"), zErr.Metadata()["path"])
	})

	t.Run("npm without workspaces field", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "package.json"), `{"name":"root"}`)

		builder, _ := newBuilder(t)
		_, err := builder.Build(context.Background(), root, npm, nil)
		require.ErrorIs(t, err, domain.ErrWorkspaceDeclaration)
	})

	t.Run("npm without root manifest", func(t *testing.T) {
		builder, _ := newBuilder(t)
		_, err := builder.Build(context.Background(), t.TempDir(), npm, nil)
		require.ErrorIs(t, err, domain.ErrWorkspaceDeclaration)
	})
}

func TestBuilder_MalformedManifestIsFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name":"root","workspaces":["packages/*"]}`)
	writeFile(t, filepath.Join(root, "packages", "bad", "package.json"), `{"name":`)

	builder, _ := newBuilder(t)
	_, err := builder.Build(context.Background(), root, npm, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrManifestParseFailed.Error())
}
