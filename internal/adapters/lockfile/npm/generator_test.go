package npm_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/isolate/internal/adapters/lockfile/npm"
	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func setup(t *testing.T) (root, isolate string) {
	t.Helper()
	root = t.TempDir()
	isolate = filepath.Join(root, "apps", "web", "isolate")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "react"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "react", "package.json"), []byte(`{}`), 0o600))
	require.NoError(t, os.MkdirAll(isolate, 0o750))
	return root, isolate
}

func newGenerator(t *testing.T) (*npm.Generator, *mocks.MockCommandRunner) {
	t.Helper()
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	return npm.New(runner, log), runner
}

func TestGenerate_RelocatesAndRestoresModules(t *testing.T) {
	root, isolate := setup(t)
	g, runner := newGenerator(t)

	runner.EXPECT().Run(gomock.Any(), domain.Command{Name: "npm", Args: npm.InstallArgs, Dir: isolate}).
		DoAndReturn(func(_ context.Context, cmd domain.Command) error {
			assert.DirExists(t, filepath.Join(cmd.Dir, "node_modules", "react"))
			assert.NoDirExists(t, filepath.Join(root, "node_modules"))
			return os.WriteFile(filepath.Join(cmd.Dir, "package-lock.json"), []byte(`{}`), 0o600)
		})

	path, err := g.Generate(context.Background(), domain.LockfileRequest{WorkspaceRootDir: root, IsolateDir: isolate})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(isolate, "package-lock.json"), path)
	assert.FileExists(t, filepath.Join(root, "node_modules", "react", "package.json"))
	assert.NoDirExists(t, filepath.Join(isolate, "node_modules"))
}

func TestGenerate_RestoresModulesOnFailure(t *testing.T) {
	root, isolate := setup(t)
	g, runner := newGenerator(t)

	failure := errors.New("npm exploded")
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(failure)

	_, err := g.Generate(context.Background(), domain.LockfileRequest{WorkspaceRootDir: root, IsolateDir: isolate})
	require.ErrorIs(t, err, failure)

	assert.DirExists(t, filepath.Join(root, "node_modules", "react"))
	assert.NoDirExists(t, filepath.Join(isolate, "node_modules"))
}

func TestGenerate_Shrinkwrap(t *testing.T) {
	root, isolate := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "npm-shrinkwrap.json"), []byte(`{}`), 0o600))
	g, runner := newGenerator(t)

	runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, cmd domain.Command) error {
		return os.WriteFile(filepath.Join(cmd.Dir, "package-lock.json"), []byte(`{}`), 0o600)
	})

	path, err := g.Generate(context.Background(), domain.LockfileRequest{WorkspaceRootDir: root, IsolateDir: isolate})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(isolate, "npm-shrinkwrap.json"), path)
	assert.NoFileExists(t, filepath.Join(isolate, "package-lock.json"))
}

func TestGenerate_MissingModules(t *testing.T) {
	root := t.TempDir()
	g, _ := newGenerator(t)

	_, err := g.Generate(context.Background(), domain.LockfileRequest{WorkspaceRootDir: root, IsolateDir: filepath.Join(root, "isolate")})
	require.ErrorIs(t, err, domain.ErrLockfileNotFound)
}

func TestGenerate_SerializesRelocationPerWorkspace(t *testing.T) {
	root, first := setup(t)
	second := filepath.Join(root, "apps", "api", "isolate")
	require.NoError(t, os.MkdirAll(second, 0o750))

	gen, runner := newGenerator(t)

	var inside, maxInside atomic.Int32
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, cmd domain.Command) error {
		n := inside.Add(1)
		defer inside.Add(-1)
		if n > maxInside.Load() {
			maxInside.Store(n)
		}
		if _, err := os.Stat(filepath.Join(cmd.Dir, "node_modules", "react")); err != nil {
			return err
		}
		time.Sleep(5 * time.Millisecond)
		return os.WriteFile(filepath.Join(cmd.Dir, "package-lock.json"), []byte(`{}`), 0o600)
	}).Times(2)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, dir := range []string{first, second} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = gen.Generate(context.Background(), domain.LockfileRequest{
				WorkspaceRootDir: root,
				IsolateDir:       dir,
			})
		}()
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int32(1), maxInside.Load())
	assert.DirExists(t, filepath.Join(root, "node_modules", "react"))
}
