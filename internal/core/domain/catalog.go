package domain

import "strings"

const (
	// CatalogProtocol prefixes a dependency specifier that points into a catalog.
	CatalogProtocol = "catalog:"

	// WorkspaceProtocol prefixes a dependency specifier that points at a workspace package.
	WorkspaceProtocol = "workspace:"

	// FileProtocol prefixes a dependency specifier that points at a local directory.
	FileProtocol = "file:"

	// DefaultCatalogName addresses the unnamed catalog.
	DefaultCatalogName = "default"
)

// Catalogs holds the pinned version tables a workspace declares.
type Catalogs struct {
	Default map[string]string
	Named   map[string]map[string]string
}

// IsCatalogSpec reports whether spec references a catalog.
func IsCatalogSpec(spec string) bool {
	return strings.HasPrefix(spec, CatalogProtocol)
}

// Resolve returns the pinned version for dependency dep referenced by spec.
// "catalog:" and "catalog:default" address the default catalog.
func (c Catalogs) Resolve(dep, spec string) (string, bool) {
	group, ok := strings.CutPrefix(spec, CatalogProtocol)
	if !ok {
		return "", false
	}
	group = strings.TrimSpace(group)

	var table map[string]string
	if group == "" || group == DefaultCatalogName {
		table = c.Default
		if table == nil {
			table = c.Named[DefaultCatalogName]
		}
	} else {
		table = c.Named[group]
	}

	version, ok := table[dep]
	return version, ok
}

// Merge layers other on top of c. Entries of other win.
func (c Catalogs) Merge(other Catalogs) Catalogs {
	out := Catalogs{
		Default: mergeTable(c.Default, other.Default),
		Named:   make(map[string]map[string]string, len(c.Named)+len(other.Named)),
	}
	for name, table := range c.Named {
		out.Named[name] = mergeTable(nil, table)
	}
	for name, table := range other.Named {
		out.Named[name] = mergeTable(out.Named[name], table)
	}
	return out
}

// IsEmpty reports whether no catalog entry is declared.
func (c Catalogs) IsEmpty() bool {
	if len(c.Default) > 0 {
		return false
	}
	for _, table := range c.Named {
		if len(table) > 0 {
			return false
		}
	}
	return true
}

// CatalogsFromManifest reads catalog and catalogs from the top level of a root
// manifest and from its workspaces object.
func CatalogsFromManifest(m *PackageManifest) Catalogs {
	out := Catalogs{}
	if m == nil {
		return out
	}
	if m.Workspaces != nil {
		out = out.Merge(Catalogs{Default: m.Workspaces.Catalog, Named: m.Workspaces.Catalogs})
	}
	return out.Merge(Catalogs{Default: m.Catalog, Named: m.Catalogs})
}

func mergeTable(base, top map[string]string) map[string]string {
	if base == nil && top == nil {
		return nil
	}
	out := make(map[string]string, len(base)+len(top))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range top {
		out[k] = v
	}
	return out
}
