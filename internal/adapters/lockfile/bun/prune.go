package bun

import (
	"slices"
	"strings"

	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/jsondoc"
)

// Top-level bun.lock fields.
const (
	fieldWorkspaces          = "workspaces"
	fieldPackages            = "packages"
	fieldTrustedDependencies = "trustedDependencies"
	fieldPatchedDependencies = "patchedDependencies"
)

const workspaceLocator = "@workspace:"

// walkedFields are the dependency fields followed through the package table.
var walkedFields = []string{
	domain.FieldDependencies,
	domain.FieldDevDependencies,
	domain.FieldOptionalDependencies,
	domain.FieldPeerDependencies,
}

// Selection describes the workspace entries an isolated lockfile keeps.
type Selection struct {
	// TargetDir is the workspace entry that becomes the root entry.
	TargetDir string
	// Internal maps retained workspace directories to package names.
	Internal               map[string]string
	IncludeDevDependencies bool
}

// Prune rewrites doc in place. The target's workspace entry becomes the root
// entry, internal entries are kept and every other entry is dropped. The
// package table keeps what the kept entries reach.
func Prune(doc *jsondoc.Object, sel Selection) error {
	workspaces, ok := doc.GetObject(fieldWorkspaces)
	if !ok {
		return domain.ErrLockfileParseFailed
	}
	target, ok := workspaces.GetObject(sel.TargetDir)
	if !ok {
		return domain.ErrTargetImporterNotFound
	}

	kept := jsondoc.NewObject()
	if !sel.IncludeDevDependencies {
		target.Delete(domain.FieldDevDependencies)
	}
	kept.Set("", target)
	for _, dir := range workspaces.Keys() {
		if _, internal := sel.Internal[dir]; !internal {
			continue
		}
		entry, _ := workspaces.GetObject(dir)
		entry.Delete(domain.FieldDevDependencies)
		kept.Set(dir, entry)
	}
	doc.Set(fieldWorkspaces, kept)

	packages, ok := doc.GetObject(fieldPackages)
	if !ok {
		return nil
	}

	w := walker{packages: packages, internal: sel.Internal, reached: make(map[string]bool)}
	for _, dir := range kept.Keys() {
		entry, _ := kept.GetObject(dir)
		var chain []string
		if dir != "" {
			chain = []string{sel.Internal[dir]}
		}
		w.walkDependencies(entry, chain)
	}
	packages.Filter(func(key string, _ any) bool { return w.reached[key] })

	locators := make(map[string]bool)
	names := make(map[string]bool)
	for _, key := range packages.Keys() {
		loc := locator(packages, key)
		locators[loc] = true
		names[locatorName(loc)] = true
	}

	if trusted, ok := doc.Get(fieldTrustedDependencies); ok {
		retained := slices.DeleteFunc(jsondoc.Strings(trusted), func(name string) bool { return !names[name] })
		if len(retained) == 0 {
			doc.Delete(fieldTrustedDependencies)
		} else {
			doc.Set(fieldTrustedDependencies, jsondoc.FromStrings(retained))
		}
	}
	if patched, ok := doc.GetObject(fieldPatchedDependencies); ok {
		patched.Filter(func(key string, _ any) bool { return locators[key] || names[key] })
	}
	return nil
}

type walker struct {
	packages *jsondoc.Object
	internal map[string]string
	reached  map[string]bool
}

// walkDependencies visits every dependency named in the fields of obj. chain
// is the nesting path of obj inside the package table.
func (w *walker) walkDependencies(obj *jsondoc.Object, chain []string) {
	for _, field := range walkedFields {
		deps, ok := obj.GetObject(field)
		if !ok {
			continue
		}
		for _, dep := range deps.Keys() {
			key, depChain, found := w.resolve(chain, dep)
			if !found {
				continue
			}
			w.visit(key, depChain)
		}
	}
}

// resolve finds the package entry for dep, trying nested keys before the
// hoisted one.
func (w *walker) resolve(chain []string, dep string) (string, []string, bool) {
	for i := len(chain); i >= 0; i-- {
		path := append(slices.Clone(chain[:i]), dep)
		key := strings.Join(path, "/")
		if w.packages.Has(key) {
			return key, path, true
		}
	}
	return "", nil, false
}

func (w *walker) visit(key string, chain []string) {
	if w.reached[key] {
		return
	}

	loc := locator(w.packages, key)
	if _, dir, ok := strings.Cut(loc, workspaceLocator); ok {
		if _, internal := w.internal[dir]; internal {
			w.reached[key] = true
		}
		return
	}

	w.reached[key] = true
	tuple, _ := w.packages.GetArray(key)
	for _, elem := range tuple {
		if meta, ok := elem.(*jsondoc.Object); ok {
			w.walkDependencies(meta, chain)
			break
		}
	}
}

func locator(packages *jsondoc.Object, key string) string {
	tuple, _ := packages.GetArray(key)
	if len(tuple) == 0 {
		return ""
	}
	loc, _ := tuple[0].(string)
	return loc
}

// locatorName returns the package name of a name@version locator.
func locatorName(loc string) string {
	if at := strings.Index(loc[min(1, len(loc)):], "@"); at >= 0 {
		return loc[:at+1]
	}
	return loc
}
