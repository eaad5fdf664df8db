package domain

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.trai.ch/isolate/internal/jsondoc"
	"go.trai.ch/zerr"
)

// Dependency field names of a package manifest.
const (
	FieldDependencies         = "dependencies"
	FieldDevDependencies      = "devDependencies"
	FieldOptionalDependencies = "optionalDependencies"
	FieldPeerDependencies     = "peerDependencies"
)

// FieldWorkspaces is the manifest field declaring workspace packages.
const FieldWorkspaces = "workspaces"

// PnpmSettings is the pnpm section of a package manifest.
type PnpmSettings struct {
	Overrides                map[string]string `json:"overrides,omitempty"`
	OnlyBuiltDependencies    []string          `json:"onlyBuiltDependencies,omitempty"`
	IgnoredBuiltDependencies []string          `json:"ignoredBuiltDependencies,omitempty"`
	PatchedDependencies      map[string]string `json:"patchedDependencies,omitempty"`
}

// WorkspacesField is the manifest workspaces field. It is either a list of
// package globs or an object carrying packages and catalogs.
type WorkspacesField struct {
	Packages []string                     `json:"packages,omitempty"`
	Catalog  map[string]string            `json:"catalog,omitempty"`
	Catalogs map[string]map[string]string `json:"catalogs,omitempty"`
}

// UnmarshalJSON accepts both the array and the object form.
func (w *WorkspacesField) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		w.Packages = list
		return nil
	}

	type plain WorkspacesField
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*w = WorkspacesField(obj)
	return nil
}

// PackageManifest is a parsed package.json. The typed fields are a read-only
// view; the ordered document keeps every field, including unknown ones, so a
// derived manifest can be written back without reordering.
type PackageManifest struct {
	Name                 string                       `json:"name"`
	Version              string                       `json:"version"`
	Files                []string                     `json:"files"`
	Dependencies         map[string]string            `json:"dependencies"`
	DevDependencies      map[string]string            `json:"devDependencies"`
	OptionalDependencies map[string]string            `json:"optionalDependencies"`
	PeerDependencies     map[string]string            `json:"peerDependencies"`
	Scripts              map[string]string            `json:"scripts"`
	PackageManager       string                       `json:"packageManager"`
	Pnpm                 *PnpmSettings                `json:"pnpm"`
	Workspaces           *WorkspacesField             `json:"workspaces"`
	Catalog              map[string]string            `json:"catalog"`
	Catalogs             map[string]map[string]string `json:"catalogs"`

	doc *jsondoc.Object
}

// ParseManifest decodes package.json content.
func ParseManifest(data []byte) (*PackageManifest, error) {
	doc, err := jsondoc.Parse(data)
	if err != nil {
		return nil, err
	}
	return NewManifestFromDocument(doc)
}

// NewManifestFromDocument builds a manifest whose typed view reflects doc.
// The manifest takes ownership of doc.
func NewManifestFromDocument(doc *jsondoc.Object) (*PackageManifest, error) {
	m := &PackageManifest{}
	if err := doc.Decode(m); err != nil {
		return nil, err
	}
	m.doc = doc
	return m, nil
}

// ReadManifest reads and parses the package.json at path.
func ReadManifest(path string) (*PackageManifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path points into the workspace
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, ErrManifestReadFailed.Error()), "path", path)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, ErrManifestParseFailed.Error()), "path", path)
	}
	return m, nil
}

// Document returns a deep copy of the manifest's ordered document.
func (m *PackageManifest) Document() *jsondoc.Object {
	if m.doc == nil {
		return jsondoc.NewObject()
	}
	return m.doc.Clone()
}

// DependencyMap returns the entries of the named dependency field.
func (m *PackageManifest) DependencyMap(field string) map[string]string {
	switch field {
	case FieldDependencies:
		return m.Dependencies
	case FieldDevDependencies:
		return m.DevDependencies
	case FieldOptionalDependencies:
		return m.OptionalDependencies
	case FieldPeerDependencies:
		return m.PeerDependencies
	default:
		return nil
	}
}

// Marshal renders the manifest the way package managers write package.json.
func (m *PackageManifest) Marshal() ([]byte, error) {
	return jsondoc.Marshal(m.Document(), "  ")
}

// WriteManifest writes m as package.json into dir, creating dir when needed.
func WriteManifest(dir string, m *PackageManifest) error {
	data, err := m.Marshal()
	if err != nil {
		return zerr.With(zerr.Wrap(err, ErrManifestWriteFailed.Error()), "dir", dir)
	}
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, ErrManifestWriteFailed.Error()), "dir", dir)
	}
	path := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(path, data, FilePerm); err != nil { //nolint:gosec // manifests must be readable
		return zerr.With(zerr.Wrap(err, ErrManifestWriteFailed.Error()), "path", path)
	}
	return nil
}
