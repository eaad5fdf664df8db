package manifest

import (
	"path/filepath"
	"strings"

	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/jsondoc"
)

var rewrittenFields = []string{
	domain.FieldDependencies,
	domain.FieldDevDependencies,
	domain.FieldOptionalDependencies,
	domain.FieldPeerDependencies,
}

// rewriteDependencies resolves catalog references and, for managers without
// workspace protocol support, points internal dependencies at their output
// location. outDir is the consumer's directory inside the output.
func (a *Adapter) rewriteDependencies(doc *jsondoc.Object, pkgName, outDir string, ws *domain.Workspace, opts Options) {
	for _, field := range rewrittenFields {
		deps, ok := doc.GetObject(field)
		if !ok {
			continue
		}

		for _, dep := range deps.Keys() {
			spec, ok := deps.GetString(dep)
			if !ok {
				continue
			}

			if domain.IsCatalogSpec(spec) {
				if version, found := ws.Catalogs.Resolve(dep, spec); found {
					deps.Set(dep, version)
					spec = version
				} else {
					a.logger.Warn("unresolved catalog reference " + spec + " for " + dep + " in " + pkgName)
				}
			}

			if !opts.usesFileReferences() || field == domain.FieldPeerDependencies {
				continue
			}
			info, internal := ws.Registry[dep]
			if !internal {
				continue
			}
			deps.Set(dep, domain.FileProtocol+relativeOutputPath(outDir, info.RootRelativeDir))
		}
	}
}

// relativeOutputPath returns the POSIX path from the output directory from to
// the output directory to, always starting with "." so package managers treat
// it as a path.
func relativeOutputPath(from, to string) string {
	rel, err := filepath.Rel(filepath.FromSlash(from), filepath.FromSlash(to))
	if err != nil {
		rel = to
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}
