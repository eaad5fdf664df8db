package pnpm

import (
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// importerPlan maps the importers of the workspace lockfile onto the output.
type importerPlan struct {
	targetDir string
	internal  map[string]string
}

// location returns the output importer id of the workspace directory dir.
func (p importerPlan) location(dir string) (string, bool) {
	if dir == p.targetDir {
		return domain.RootImporterID, true
	}
	if _, ok := p.internal[dir]; ok {
		return dir, true
	}
	return "", false
}

// adaptImporter copies the importer oldID to its output location newID.
// Links are rewritten relative to the new location and links to packages
// outside the output are dropped. manifest supplies the specifiers the output
// package declares.
func (p importerPlan) adaptImporter(src *yaml.Node, oldID, newID string, includeDev bool, manifest *domain.PackageManifest) *yaml.Node {
	importer := clone(src)
	if newID != domain.RootImporterID || !includeDev {
		remove(importer, domain.FieldDevDependencies)
	}

	for _, section := range dependencySections {
		deps := get(importer, section)
		if deps == nil {
			continue
		}

		specs := manifest.DependencyMap(section)
		for _, name := range keys(deps) {
			entry := get(deps, name)
			version := getString(entry, "version")

			if link, ok := strings.CutPrefix(version, linkPrefix); ok {
				linked := path.Join(oldID, link)
				loc, kept := p.location(linked)
				if !kept {
					remove(deps, name)
					continue
				}
				set(entry, "version", str(linkPrefix+relativeLink(newID, loc)))
			}

			if spec, ok := specs[name]; ok && get(entry, "specifier") != nil {
				set(entry, "specifier", str(spec))
			}
		}

		if len(deps.Content) == 0 {
			remove(importer, section)
		}
	}
	return importer
}

// buildImporters returns the importers of the output: the target as the root
// importer followed by the internal dependencies in directory order.
func buildImporters(src *Lockfile, req domain.LockfileRequest, plan importerPlan) (*yaml.Node, error) {
	out := mapping()

	target := src.Importer(plan.targetDir)
	if target == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrTargetImporterNotFound, ""), "importer", plan.targetDir)
	}
	set(out, domain.RootImporterID, plan.adaptImporter(target, plan.targetDir, domain.RootImporterID,
		req.IncludeDevDependencies, req.TargetManifest))

	for _, dir := range req.SortedInternalDirs() {
		importer := src.Importer(dir)
		if importer == nil {
			return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrTargetImporterNotFound, ""),
				"importer", dir), "package", plan.internal[dir])
		}
		manifest, err := req.AdaptedManifest(dir)
		if err != nil {
			return nil, err
		}
		set(out, dir, plan.adaptImporter(importer, dir, dir, false, manifest))
	}
	return out, nil
}

// relativeLink returns the POSIX path from importer from to importer to.
func relativeLink(from, to string) string {
	rel, err := filepath.Rel(filepath.FromSlash(from), filepath.FromSlash(to))
	if err != nil {
		return to
	}
	return filepath.ToSlash(rel)
}
