// Package resolver computes the workspace packages a package transitively
// depends on.
package resolver

import (
	"strings"

	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/core/ports"
)

// Node is one package in a resolved dependency tree.
type Node struct {
	Name string
	// Cycle marks an edge back to an ancestor. It is not expanded.
	Cycle bool
	// Repeated marks a package already expanded elsewhere in the tree.
	Repeated bool
	Children []*Node
}

// Resolver walks workspace dependency graphs. Every call works on its own
// state; a Resolver may be shared.
type Resolver struct {
	logger ports.Logger
}

// New creates a new Resolver.
func New(logger ports.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// Resolve returns every workspace package reachable from manifest, in order
// of first discovery. dependencies are always followed, devDependencies only
// when includeDev is set, at every depth. Each edge that closes a cycle is
// logged once; resolution continues.
func (r *Resolver) Resolve(manifest *domain.PackageManifest, registry domain.PackagesRegistry, includeDev bool) []string {
	w := newWalk(manifest, registry, includeDev, r.logger)
	w.run(nil)
	return w.result()
}

// Split partitions names, as returned by Resolve with devDependencies, into
// the packages reachable through production dependencies and the rest.
func (r *Resolver) Split(manifest *domain.PackageManifest, registry domain.PackagesRegistry, names []string) (prod, devOnly []string) {
	w := newWalk(manifest, registry, false, nil)
	w.run(nil)

	inProd := make(map[string]bool)
	for _, name := range w.result() {
		inProd[name] = true
	}
	for _, name := range names {
		if inProd[name] {
			prod = append(prod, name)
		} else {
			devOnly = append(devOnly, name)
		}
	}
	return prod, devOnly
}

// Tree returns the walked dependency tree rooted at manifest.
func (r *Resolver) Tree(manifest *domain.PackageManifest, registry domain.PackagesRegistry, includeDev bool) *Node {
	root := &Node{Name: manifest.Name}
	w := newWalk(manifest, registry, includeDev, r.logger)
	w.run(root)
	return root
}

type walk struct {
	graph      *domain.DependencyGraph
	manifest   *domain.PackageManifest
	includeDev bool
	logger     ports.Logger

	root      int
	ancestors []bool
	visited   []bool
	found     []bool
	order     []int
	path      []int
}

func newWalk(manifest *domain.PackageManifest, registry domain.PackagesRegistry, includeDev bool, logger ports.Logger) *walk {
	g := domain.NewDependencyGraph(registry)
	w := &walk{
		graph:      g,
		manifest:   manifest,
		includeDev: includeDev,
		logger:     logger,
		root:       -1,
		ancestors:  make([]bool, g.Len()),
		visited:    make([]bool, g.Len()),
		found:      make([]bool, g.Len()),
	}
	if i, ok := g.Lookup(manifest.Name); ok && manifest.Name != "" {
		w.root = i
	}
	return w
}

func (w *walk) run(tree *Node) {
	if w.root >= 0 {
		w.ancestors[w.root] = true
		w.path = append(w.path, w.root)
	}
	w.visit(w.graph.EdgesOf(w.manifest, w.includeDev), tree)
}

func (w *walk) visit(edges []int, parent *Node) {
	for _, dep := range edges {
		if dep != w.root && !w.found[dep] {
			w.found[dep] = true
			w.order = append(w.order, dep)
		}

		var child *Node
		if parent != nil {
			child = &Node{Name: w.graph.Name(dep)}
			parent.Children = append(parent.Children, child)
		}

		switch {
		case w.ancestors[dep]:
			if child != nil {
				child.Cycle = true
			}
			w.warnCycle(dep)
		case w.visited[dep]:
			if child != nil {
				child.Repeated = true
			}
		default:
			w.ancestors[dep] = true
			w.path = append(w.path, dep)
			w.visit(w.graph.Edges(dep, w.includeDev), child)
			w.path = w.path[:len(w.path)-1]
			w.ancestors[dep] = false
			w.visited[dep] = true
		}
	}
}

func (w *walk) warnCycle(dep int) {
	if w.logger == nil {
		return
	}
	start := 0
	for i, n := range w.path {
		if n == dep {
			start = i
			break
		}
	}
	names := make([]string, 0, len(w.path)-start+1)
	for _, n := range w.path[start:] {
		names = append(names, w.graph.Name(n))
	}
	names = append(names, w.graph.Name(dep))
	w.logger.Warn("circular dependency: " + strings.Join(names, " -> "))
}

func (w *walk) result() []string {
	names := make([]string, len(w.order))
	for i, n := range w.order {
		names[i] = w.graph.Name(n)
	}
	return names
}
