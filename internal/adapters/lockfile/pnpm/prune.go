package pnpm

import (
	"gopkg.in/yaml.v3"
)

// Prune builds a lockfile holding the given importers and every package they
// reach through dependencies and optionalDependencies. Only the fields the
// pruner understands are carried over: lockfileVersion, settings, importers,
// packages and snapshots.
func Prune(src *Lockfile, importers *yaml.Node) *Lockfile {
	out := mapping()
	set(out, fieldLockfileVersion, clone(src.Field(fieldLockfileVersion)))
	if settings := src.Field(fieldSettings); settings != nil {
		set(out, fieldSettings, clone(settings))
	}
	set(out, fieldImporters, importers)

	reached := reachable(src, importers)

	packages := src.Field(fieldPackages)
	snapshots := src.Field(fieldSnapshots)

	if snapshots != nil {
		keptSnapshots := filterKeys(snapshots, func(key string) bool { return reached[key] })
		pkgKeys := make(map[string]bool, len(reached))
		for key := range reached {
			pkgKeys[stripPeers(key)] = true
		}
		if packages != nil {
			set(out, fieldPackages, filterKeys(packages, func(key string) bool { return pkgKeys[key] }))
		}
		set(out, fieldSnapshots, keptSnapshots)
	} else if packages != nil {
		set(out, fieldPackages, filterKeys(packages, func(key string) bool { return reached[key] }))
	}

	return &Lockfile{root: out, major: src.major}
}

// reachable walks the dependency graph from the importers. Version 9 keeps
// the edges in snapshots, version 6 in packages.
func reachable(src *Lockfile, importers *yaml.Node) map[string]bool {
	graph := src.Field(fieldSnapshots)
	if graph == nil {
		graph = src.Field(fieldPackages)
	}

	seen := make(map[string]bool)
	var queue []string
	enqueue := func(deps *yaml.Node) {
		for i := 0; deps != nil && i+1 < len(deps.Content); i += 2 {
			name := deps.Content[i].Value
			ref := deps.Content[i+1].Value
			if deps.Content[i+1].Kind == yaml.MappingNode {
				ref = getString(deps.Content[i+1], "version")
			}
			key, ok := depPath(name, ref, src.major)
			if !ok || seen[key] {
				continue
			}
			seen[key] = true
			queue = append(queue, key)
		}
	}

	for i := 1; i < len(importers.Content); i += 2 {
		for _, section := range dependencySections {
			enqueue(get(importers.Content[i], section))
		}
	}

	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		entry := get(graph, key)
		enqueue(get(entry, "dependencies"))
		enqueue(get(entry, "optionalDependencies"))
	}
	return seen
}

func filterKeys(m *yaml.Node, keep func(key string) bool) *yaml.Node {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: m.Tag, Style: m.Style}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if keep(m.Content[i].Value) {
			out.Content = append(out.Content, clone(m.Content[i]), clone(m.Content[i+1]))
		}
	}
	return out
}
