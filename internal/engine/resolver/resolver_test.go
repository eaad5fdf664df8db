package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/core/ports/mocks"
	"go.trai.ch/isolate/internal/engine/resolver"
	"go.uber.org/mock/gomock"
)

func manifest(name string, deps ...string) *domain.PackageManifest {
	m := &domain.PackageManifest{Name: name, Version: "1.0.0", Dependencies: map[string]string{}}
	for _, d := range deps {
		m.Dependencies[d] = "workspace:*"
	}
	return m
}

func registryOf(manifests ...*domain.PackageManifest) domain.PackagesRegistry {
	reg := make(domain.PackagesRegistry, len(manifests))
	for _, m := range manifests {
		reg[m.Name] = &domain.WorkspacePackageInfo{
			RootRelativeDir: "packages/" + m.Name,
			Manifest:        m,
		}
	}
	return reg
}

func newResolver(t *testing.T) (*resolver.Resolver, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	return resolver.New(mockLogger), mockLogger
}

func TestResolve_SharedAndDevTool(t *testing.T) {
	app := manifest("app", "shared")
	app.DevDependencies = map[string]string{"devTool": "workspace:*"}
	reg := registryOf(app, manifest("shared"), manifest("devTool"))

	r, _ := newResolver(t)

	assert.Equal(t, []string{"shared"}, r.Resolve(manifest("app", "shared"), reg, false))
	assert.Equal(t, []string{"shared"}, r.Resolve(app, reg, false))
	assert.ElementsMatch(t, []string{"shared", "devTool"}, r.Resolve(app, reg, true))
}

func TestResolve_IgnoresExternalDependencies(t *testing.T) {
	root := manifest("app", "react", "lib")
	reg := registryOf(manifest("lib", "lodash"))

	r, _ := newResolver(t)
	assert.Equal(t, []string{"lib"}, r.Resolve(root, reg, false))
}

func TestResolve_DevFlagAppliesAtEveryDepth(t *testing.T) {
	lib := manifest("lib")
	lib.DevDependencies = map[string]string{"test-utils": "workspace:*"}
	reg := registryOf(lib, manifest("test-utils"))
	root := manifest("app", "lib")

	r, _ := newResolver(t)
	assert.Equal(t, []string{"lib"}, r.Resolve(root, reg, false))
	assert.Equal(t, []string{"lib", "test-utils"}, r.Resolve(root, reg, true))
}

func TestResolve_CycleWarnsOnce(t *testing.T) {
	reg := registryOf(manifest("a", "b"), manifest("b", "a"))

	r, mockLogger := newResolver(t)
	mockLogger.EXPECT().Warn("circular dependency: a -> b -> a").Times(1)

	got := r.Resolve(manifest("root", "a"), reg, false)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestResolve_OneWarningPerClosedEdge(t *testing.T) {
	// a -> b -> c, c -> a and c -> b close two distinct edges.
	reg := registryOf(manifest("a", "b"), manifest("b", "c"), manifest("c", "a", "b"))

	r, mockLogger := newResolver(t)
	mockLogger.EXPECT().Warn("circular dependency: a -> b -> c -> a").Times(1)
	mockLogger.EXPECT().Warn("circular dependency: b -> c -> b").Times(1)

	got := r.Resolve(manifest("root", "a"), reg, false)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestResolve_DiamondWithoutWarning(t *testing.T) {
	reg := registryOf(manifest("left", "base"), manifest("right", "base"), manifest("base"))

	r, _ := newResolver(t)
	got := r.Resolve(manifest("root", "left", "right"), reg, false)

	assert.Equal(t, []string{"left", "base", "right"}, got)
}

func TestResolve_TargetNeverInResult(t *testing.T) {
	app := manifest("app", "lib")
	reg := registryOf(app, manifest("lib", "app"))

	r, mockLogger := newResolver(t)
	mockLogger.EXPECT().Warn("circular dependency: app -> lib -> app").Times(1)

	assert.Equal(t, []string{"lib"}, r.Resolve(app, reg, false))
}

func TestResolve_SelfCycle(t *testing.T) {
	reg := registryOf(manifest("loop", "loop"))

	r, mockLogger := newResolver(t)
	mockLogger.EXPECT().Warn("circular dependency: loop -> loop").Times(1)

	assert.Equal(t, []string{"loop"}, r.Resolve(manifest("root", "loop"), reg, false))
}

func TestResolve_Deterministic(t *testing.T) {
	reg := registryOf(manifest("z"), manifest("m", "z"), manifest("a"))
	root := manifest("root", "z", "a", "m")

	r, _ := newResolver(t)
	first := r.Resolve(root, reg, false)
	for range 10 {
		assert.Equal(t, first, r.Resolve(root, reg, false))
	}
	assert.Equal(t, []string{"a", "m", "z"}, first)
}

func TestSplit(t *testing.T) {
	app := manifest("app", "shared")
	app.DevDependencies = map[string]string{"devTool": "workspace:*", "shared": "workspace:*"}
	devTool := manifest("devTool", "devHelper")
	reg := registryOf(app, manifest("shared"), devTool, manifest("devHelper"))

	r, _ := newResolver(t)
	all := r.Resolve(app, reg, true)
	prod, devOnly := r.Split(app, reg, all)

	assert.Equal(t, []string{"shared"}, prod)
	assert.Equal(t, []string{"devTool", "devHelper"}, devOnly)
}

func TestTree(t *testing.T) {
	reg := registryOf(manifest("a", "b", "c"), manifest("b", "a"), manifest("c"))
	root := manifest("root", "a", "c")

	r, mockLogger := newResolver(t)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	tree := r.Tree(root, reg, false)
	require.Len(t, tree.Children, 2)

	a := tree.Children[0]
	assert.Equal(t, "a", a.Name)
	require.Len(t, a.Children, 2)
	assert.Equal(t, "b", a.Children[0].Name)
	require.Len(t, a.Children[0].Children, 1)
	assert.True(t, a.Children[0].Children[0].Cycle)
	assert.Equal(t, "c", a.Children[1].Name)

	c := tree.Children[1]
	assert.Equal(t, "c", c.Name)
	assert.True(t, c.Repeated)
	assert.Empty(t, c.Children)
}
