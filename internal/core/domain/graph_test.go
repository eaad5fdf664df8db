package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/isolate/internal/core/domain"
)

func pkg(name string, deps, devDeps map[string]string) *domain.WorkspacePackageInfo {
	return &domain.WorkspacePackageInfo{
		RootRelativeDir: "packages/" + name,
		Manifest: &domain.PackageManifest{
			Name:            name,
			Version:         "1.0.0",
			Dependencies:    deps,
			DevDependencies: devDeps,
		},
	}
}

func TestDependencyGraph_NodesFollowSortedNames(t *testing.T) {
	g := domain.NewDependencyGraph(domain.PackagesRegistry{
		"zeta":  pkg("zeta", nil, nil),
		"alpha": pkg("alpha", nil, nil),
	})

	require.Equal(t, 2, g.Len())
	assert.Equal(t, "alpha", g.Name(0))
	assert.Equal(t, "zeta", g.Name(1))

	i, ok := g.Lookup("zeta")
	require.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, "packages/zeta", g.Package(i).RootRelativeDir)

	_, ok = g.Lookup("react")
	assert.False(t, ok)
}

func TestDependencyGraph_EdgesSkipExternalPackages(t *testing.T) {
	g := domain.NewDependencyGraph(domain.PackagesRegistry{
		"app":    pkg("app", map[string]string{"react": "^18", "ui": "workspace:*", "core": "workspace:*"}, map[string]string{"tooling": "*"}),
		"core":   pkg("core", nil, nil),
		"ui":     pkg("ui", map[string]string{"core": "workspace:*"}, nil),
		"tooling": pkg("tooling", nil, nil),
	})

	app, _ := g.Lookup("app")
	names := func(idx []int) []string {
		out := make([]string, 0, len(idx))
		for _, i := range idx {
			out = append(out, g.Name(i))
		}
		return out
	}

	assert.Equal(t, []string{"core", "ui"}, names(g.Edges(app, false)))
	assert.Equal(t, []string{"core", "tooling", "ui"}, names(g.Edges(app, true)))
}

func TestDependencyGraph_EdgesDeduplicateDevAndProd(t *testing.T) {
	g := domain.NewDependencyGraph(domain.PackagesRegistry{
		"lib": pkg("lib", nil, nil),
	})

	root := &domain.PackageManifest{
		Dependencies:    map[string]string{"lib": "1.0.0"},
		DevDependencies: map[string]string{"lib": "1.0.0"},
	}
	assert.Len(t, g.EdgesOf(root, true), 1)
	assert.Nil(t, g.EdgesOf(nil, true))
}

func TestInternedString(t *testing.T) {
	a := domain.NewInternedString("@scope/lib")
	b := domain.NewInternedString("@scope/lib")

	assert.Equal(t, a.Value(), b.Value())
	assert.Equal(t, "@scope/lib", a.String())
	assert.Empty(t, domain.InternedString{}.String())
}
