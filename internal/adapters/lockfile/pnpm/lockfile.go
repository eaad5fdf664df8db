package pnpm

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Top-level lockfile fields.
const (
	fieldLockfileVersion           = "lockfileVersion"
	fieldSettings                  = "settings"
	fieldImporters                 = "importers"
	fieldPackages                  = "packages"
	fieldSnapshots                 = "snapshots"
	fieldCatalogs                  = "catalogs"
	fieldOverrides                 = "overrides"
	fieldPackageExtensionsChecksum = "packageExtensionsChecksum"
	fieldPatchedDependencies       = "patchedDependencies"
	fieldPnpmfileChecksum          = "pnpmfileChecksum"
)

const linkPrefix = "link:"

// dependencySections are the importer sections holding resolved dependencies.
var dependencySections = []string{
	domain.FieldDependencies,
	domain.FieldDevDependencies,
	domain.FieldOptionalDependencies,
}

// Lockfile is a parsed pnpm-lock.yaml.
type Lockfile struct {
	root  *yaml.Node
	major int
}

// ReadLockfile reads and parses the lockfile at path. Only lockfile versions
// 6 and 9 are accepted.
func ReadLockfile(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path points into the workspace
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrLockfileNotFound, ""), "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrLockfileReadFailed.Error()), "path", path)
	}

	lock, err := ParseLockfile(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return lock, nil
}

// ParseLockfile parses lockfile content.
func ParseLockfile(data []byte) (*Lockfile, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.Wrap(err, domain.ErrLockfileParseFailed.Error())
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, zerr.Wrap(domain.ErrLockfileParseFailed, "")
	}
	root := doc.Content[0]

	version := getString(root, fieldLockfileVersion)
	majorText, _, _ := strings.Cut(version, ".")
	major, err := strconv.Atoi(majorText)
	if err != nil || (major != 6 && major != 9) {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedLockfile, ""), "lockfileVersion", version)
	}

	return &Lockfile{root: root, major: major}, nil
}

// Major returns the major lockfile version.
func (l *Lockfile) Major() int {
	return l.major
}

// Importer returns the importer entry with the given id.
func (l *Lockfile) Importer(id string) *yaml.Node {
	return get(get(l.root, fieldImporters), id)
}

// Field returns a top-level field.
func (l *Lockfile) Field(name string) *yaml.Node {
	return get(l.root, name)
}

// Marshal renders the lockfile with two-space indentation and pnpm's blank
// line layout.
func (l *Lockfile) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{l.root}}
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return spaceSections(buf.Bytes()), nil
}

// spaceSections separates top-level fields, and the entries of the importer
// and package tables, with blank lines.
func spaceSections(data []byte) []byte {
	lines := bytes.Split(bytes.TrimSuffix(data, []byte("\n")), []byte("\n"))
	out := make([]byte, 0, len(data)+len(lines))

	section := ""
	for i, line := range lines {
		topLevel := len(line) > 0 && line[0] != ' ' && line[0] != '-'
		switch {
		case topLevel:
			if i > 0 {
				out = append(out, '\n')
			}
			section, _, _ = strings.Cut(string(line), ":")
		case isEntry(line) && spacedSection(section):
			out = append(out, '\n')
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

func isEntry(line []byte) bool {
	return len(line) > 2 && line[0] == ' ' && line[1] == ' ' && line[2] != ' '
}

func spacedSection(name string) bool {
	switch name {
	case fieldImporters, fieldPackages, fieldSnapshots:
		return true
	default:
		return false
	}
}

// depPath converts an importer or snapshot reference into the key of the
// package it resolves to. Links resolve to no package.
func depPath(name, ref string, major int) (string, bool) {
	if strings.HasPrefix(ref, linkPrefix) {
		return "", false
	}

	if major >= 9 {
		if strings.HasPrefix(ref, "@") {
			return ref, true
		}
		at := strings.Index(ref, "@")
		if at == -1 {
			return name + "@" + ref, true
		}
		colon := strings.Index(ref, ":")
		paren := strings.Index(ref, "(")
		if (colon == -1 || at < colon) && (paren == -1 || at < paren) {
			return ref, true
		}
		return name + "@" + ref, true
	}

	if strings.HasPrefix(ref, "file:") {
		return ref, true
	}
	if !strings.Contains(stripPeers(ref), "/") {
		return "/" + name + "@" + ref, true
	}
	return ref, true
}

// stripPeers removes the peer dependency suffix of a dependency path.
func stripPeers(key string) string {
	if i := strings.Index(key, "("); i > 0 {
		return key[:i]
	}
	return key
}

// packageID splits a package key into name and version.
func packageID(key string) (name, version string) {
	key = strings.TrimPrefix(stripPeers(key), "/")
	at := strings.LastIndex(key, "@")
	if at <= 0 {
		return key, ""
	}
	return key[:at], key[at+1:]
}
