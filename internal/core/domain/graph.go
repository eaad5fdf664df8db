// Package domain contains the core domain models of a workspace isolation run.
package domain

import (
	"slices"
)

// DependencyGraph indexes the workspace packages of a registry in an arena.
// Nodes are addressed by position; edges are computed from manifests on first
// use and cached. A graph is not safe for concurrent use.
type DependencyGraph struct {
	index map[InternedString]int
	nodes []graphNode
}

type graphNode struct {
	name  InternedString
	info  *WorkspacePackageInfo
	edges [2][]int
	built [2]bool
}

// NewDependencyGraph creates a graph over every package of registry. Node
// positions follow the sorted package names.
func NewDependencyGraph(registry PackagesRegistry) *DependencyGraph {
	names := registry.Names()
	g := &DependencyGraph{
		index: make(map[InternedString]int, len(names)),
		nodes: make([]graphNode, len(names)),
	}
	for i, name := range names {
		interned := NewInternedString(name)
		g.index[interned] = i
		g.nodes[i] = graphNode{name: interned, info: registry[name]}
	}
	return g
}

// Len returns the number of nodes.
func (g *DependencyGraph) Len() int {
	return len(g.nodes)
}

// Lookup returns the node position of a package name.
func (g *DependencyGraph) Lookup(name string) (int, bool) {
	i, ok := g.index[NewInternedString(name)]
	return i, ok
}

// Name returns the package name of node i.
func (g *DependencyGraph) Name(i int) string {
	return g.nodes[i].name.String()
}

// Package returns the workspace package of node i.
func (g *DependencyGraph) Package(i int) *WorkspacePackageInfo {
	return g.nodes[i].info
}

// Edges returns the nodes that node i depends on, in name order.
func (g *DependencyGraph) Edges(i int, includeDev bool) []int {
	slot := 0
	if includeDev {
		slot = 1
	}
	n := &g.nodes[i]
	if !n.built[slot] {
		n.edges[slot] = g.EdgesOf(n.info.Manifest, includeDev)
		n.built[slot] = true
	}
	return n.edges[slot]
}

// EdgesOf returns the nodes a manifest depends on, in name order. The
// manifest does not need to belong to the graph. devDependencies are followed
// only when includeDev is set.
func (g *DependencyGraph) EdgesOf(m *PackageManifest, includeDev bool) []int {
	if m == nil {
		return nil
	}
	var out []int
	add := func(deps map[string]string) {
		for name := range deps {
			if i, ok := g.Lookup(name); ok {
				out = append(out, i)
			}
		}
	}
	add(m.Dependencies)
	if includeDev {
		add(m.DevDependencies)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
