// Package manifest derives the package manifests written to an isolate output.
package manifest

import (
	"slices"

	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/core/ports"
	"go.trai.ch/isolate/internal/jsondoc"
)

// Options controls how manifests are rewritten.
type Options struct {
	PackageManager         domain.PackageManager
	ForceNpm               bool
	IncludeDevDependencies bool
	PickFromScripts        []string
	OmitFromScripts        []string

	// WorkspaceDirs are the output directories of the internal dependencies,
	// relative to the isolate root. bun declares them as workspaces.
	WorkspaceDirs []string
}

// usesFileReferences reports whether internal dependencies must be rewritten
// to file: specifiers.
func (o Options) usesFileReferences() bool {
	return o.ForceNpm || !o.PackageManager.IsPnpmFamily()
}

// Adapter derives output manifests from workspace manifests. Source manifests
// are never modified.
type Adapter struct {
	logger    ports.Logger
	validator *validator
}

// New creates a new Adapter.
func New(logger ports.Logger) *Adapter {
	return &Adapter{
		logger:    logger,
		validator: newValidator(),
	}
}

// AdaptInternal derives the manifest of an internal dependency. Its
// devDependencies are always dropped. devOnly selects the validation class
// for packages only the target's devDependencies pull in.
func (a *Adapter) AdaptInternal(info *domain.WorkspacePackageInfo, ws *domain.Workspace, opts Options, devOnly bool) (*domain.PackageManifest, error) {
	doc := info.Manifest.Document()

	doc.Delete(domain.FieldDevDependencies)
	adaptScripts(doc, opts.PickFromScripts, opts.OmitFromScripts)
	a.rewriteDependencies(doc, info.Manifest.Name, info.RootRelativeDir, ws, opts)

	out, err := domain.NewManifestFromDocument(doc)
	if err != nil {
		return nil, err
	}
	if err := a.validator.check(out, info.RootRelativeDir, devOnly); err != nil {
		return nil, err
	}
	return out, nil
}

// AdaptTarget derives the manifest of the isolated package itself. It lands
// at the root of the output.
func (a *Adapter) AdaptTarget(target *domain.PackageManifest, ws *domain.Workspace, opts Options) (*domain.PackageManifest, error) {
	doc := target.Document()

	if !opts.IncludeDevDependencies {
		doc.Delete(domain.FieldDevDependencies)
	}
	adaptScripts(doc, opts.PickFromScripts, opts.OmitFromScripts)
	a.rewriteDependencies(doc, target.Name, ".", ws, opts)

	if opts.PackageManager.Name != "" {
		doc.SetAfter("packageManager", opts.PackageManager.String(), "version", "name")
	}
	switch opts.PackageManager.Name {
	case domain.ManagerPnpm:
		replacePnpmSettings(doc, ws.RootManifest)
	case domain.ManagerBun:
		declareWorkspaces(doc, opts.WorkspaceDirs)
	}

	out, err := domain.NewManifestFromDocument(doc)
	if err != nil {
		return nil, err
	}
	if err := a.validator.check(out, ".", false); err != nil {
		return nil, err
	}
	return out, nil
}

// WithPackageManager returns a copy of m declaring pm.
func WithPackageManager(m *domain.PackageManifest, pm domain.PackageManager) (*domain.PackageManifest, error) {
	doc := m.Document()
	doc.SetAfter("packageManager", pm.String(), "version", "name")
	return domain.NewManifestFromDocument(doc)
}

// declareWorkspaces lists dirs as the workspaces of the output so bun can
// resolve the workspace: specifiers kept in the manifests.
func declareWorkspaces(doc *jsondoc.Object, dirs []string) {
	if len(dirs) == 0 {
		doc.Delete(domain.FieldWorkspaces)
		return
	}
	doc.Set(domain.FieldWorkspaces, jsondoc.FromStrings(slices.Sorted(slices.Values(dirs))))
}

// replacePnpmSettings swaps the pnpm field for the install settings of the
// workspace root.
func replacePnpmSettings(doc *jsondoc.Object, root *domain.PackageManifest) {
	settings := jsondoc.NewObject()
	if root != nil && root.Pnpm != nil {
		if len(root.Pnpm.Overrides) > 0 {
			settings.Set("overrides", jsondoc.FromStringMap(root.Pnpm.Overrides))
		}
		if len(root.Pnpm.OnlyBuiltDependencies) > 0 {
			settings.Set("onlyBuiltDependencies", jsondoc.FromStrings(root.Pnpm.OnlyBuiltDependencies))
		}
		if len(root.Pnpm.IgnoredBuiltDependencies) > 0 {
			settings.Set("ignoredBuiltDependencies", jsondoc.FromStrings(root.Pnpm.IgnoredBuiltDependencies))
		}
	}

	if settings.Len() == 0 {
		doc.Delete("pnpm")
		return
	}
	doc.Set("pnpm", settings)
}
