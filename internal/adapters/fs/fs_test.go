package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/isolate/internal/adapters/fs"
	"go.trai.ch/isolate/internal/core/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWalker_WalkFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "config"), "git")
	writeFile(t, filepath.Join(root, "node_modules", "lib", "index.js"), "x")
	writeFile(t, filepath.Join(root, "packages", "lib", "package.json"), "{}")
	writeFile(t, filepath.Join(root, "package.json"), "{}")

	var got []string
	for path, err := range fs.NewWalker().WalkFiles(root, []string{"node_modules"}) {
		require.NoError(t, err)
		rel, _ := filepath.Rel(root, path)
		got = append(got, filepath.ToSlash(rel))
	}

	assert.Equal(t, []string{"package.json", "packages/lib/package.json"}, got)
}

func TestWalker_WalkFiles_MissingRoot(t *testing.T) {
	var errs int
	for _, err := range fs.NewWalker().WalkFiles(filepath.Join(t.TempDir(), "missing"), nil) {
		if err != nil {
			errs++
		}
	}
	assert.Equal(t, 1, errs)
}

func TestFingerprinter_StableAndSensitive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name":"app"}`)
	writeFile(t, filepath.Join(root, "packages", "lib", "package.json"), `{"name":"lib"}`)

	f := fs.NewFingerprinter(fs.NewWalker())

	first, err := f.Fingerprint(root)
	require.NoError(t, err)
	second, err := f.Fingerprint(root)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 16)

	writeFile(t, filepath.Join(root, "node_modules", "x", "index.js"), "ignored")
	ignored, err := f.Fingerprint(root)
	require.NoError(t, err)
	assert.Equal(t, first, ignored)

	writeFile(t, filepath.Join(root, "packages", "lib", "package.json"), `{"name":"lib2"}`)
	changed, err := f.Fingerprint(root)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)
}

func TestResolver_ResolveDirs(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{
		"packages/a", "packages/b", "packages/legacy", "apps/web",
		"apps/web/node_modules/dep", "tools/deep/nested",
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o750))
	}
	writeFile(t, filepath.Join(root, "packages", "README.md"), "not a dir")

	dirs, err := fs.NewResolver().ResolveDirs(root, []string{
		"packages/*",
		"./apps/**",
		"!packages/legacy",
		"tools/**/nested/",
		"",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"apps",
		"apps/web",
		"packages/a",
		"packages/b",
		"tools/deep/nested",
	}, dirs)
}

func TestResolver_InvalidPattern(t *testing.T) {
	_, err := fs.NewResolver().ResolveDirs(t.TempDir(), []string{"packages/[a"})
	require.ErrorIs(t, err, domain.ErrWorkspaceGlobFailed)
}

func TestVerifier_Missing(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), "{}")

	missing, err := fs.NewVerifier().Missing(root, []string{"package.json", "pnpm-lock.yaml"})
	require.NoError(t, err)
	assert.Equal(t, []string{"pnpm-lock.yaml"}, missing)
}
