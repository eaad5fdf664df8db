package domain_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/isolate/internal/core/domain"
)

func TestParseManifest_TypedView(t *testing.T) {
	m, err := domain.ParseManifest([]byte(`{
		"name": "@acme/app",
		"version": "1.2.3",
		"files": ["dist"],
		"main": "dist/index.js",
		"dependencies": {"@acme/lib": "workspace:*"},
		"devDependencies": {"typescript": "^5.4.0"},
		"packageManager": "pnpm@9.1.0",
		"pnpm": {"overrides": {"lodash": "4.17.21"}},
		"workspaces": ["packages/*"]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "@acme/app", m.Name)
	assert.Equal(t, []string{"dist"}, m.Files)
	assert.Equal(t, "workspace:*", m.DependencyMap(domain.FieldDependencies)["@acme/lib"])
	assert.Equal(t, "^5.4.0", m.DependencyMap(domain.FieldDevDependencies)["typescript"])
	assert.Nil(t, m.DependencyMap("bundledDependencies"))
	require.NotNil(t, m.Pnpm)
	assert.Equal(t, "4.17.21", m.Pnpm.Overrides["lodash"])
	require.NotNil(t, m.Workspaces)
	assert.Equal(t, []string{"packages/*"}, m.Workspaces.Packages)
}

func TestParseManifest_WorkspacesObject(t *testing.T) {
	m, err := domain.ParseManifest([]byte(`{"name":"root","workspaces":{"packages":["apps/*","packages/*"]}}`))
	require.NoError(t, err)
	require.NotNil(t, m.Workspaces)
	assert.Equal(t, []string{"apps/*", "packages/*"}, m.Workspaces.Packages)
}

func TestManifest_DocumentIsACopy(t *testing.T) {
	m, err := domain.ParseManifest([]byte(`{"name":"lib","version":"1.0.0"}`))
	require.NoError(t, err)

	doc := m.Document()
	doc.Set("version", "2.0.0")

	again := m.Document()
	v, _ := again.GetString("version")
	assert.Equal(t, "1.0.0", v)
}

func TestReadManifest_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := domain.ReadManifest(filepath.Join(dir, "missing", "package.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), domain.ErrManifestReadFailed.Error())

	path := filepath.Join(dir, "package.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": `), 0o600))
	_, err = domain.ReadManifest(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrManifestParseFailed.Error())
}

func TestWriteManifest_PreservesFieldOrder(t *testing.T) {
	m, err := domain.ParseManifest([]byte(`{"version":"1.0.0","name":"lib","exports":{".":"./index.js"}}`))
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, domain.WriteManifest(dir, m))

	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"version\": \"1.0.0\",\n  \"name\": \"lib\",\n  \"exports\": {\n    \".\": \"./index.js\"\n  }\n}\n", string(data))
}
