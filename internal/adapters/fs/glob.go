package fs

import (
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/zerr"
)

// Resolver expands workspace package patterns to directories.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveDirs expands patterns relative to root and returns the matching
// directories as sorted POSIX paths relative to root. Patterns starting with
// "!" remove matches. Directories inside node_modules and the root itself are
// never returned.
func (r *Resolver) ResolveDirs(root string, patterns []string) ([]string, error) {
	fsys := os.DirFS(root)

	var include, exclude []string
	for _, raw := range patterns {
		pattern, negated := cleanPattern(raw)
		if pattern == "" {
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			return nil, zerr.With(zerr.Wrap(domain.ErrWorkspaceGlobFailed, ""), "pattern", raw)
		}
		if negated {
			exclude = append(exclude, pattern)
		} else {
			include = append(include, pattern)
		}
	}

	seen := make(map[string]struct{})
	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithNoFollow())
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrWorkspaceGlobFailed.Error()), "pattern", pattern)
		}
		for _, match := range matches {
			if match == "." || inNodeModules(match) || excluded(match, exclude) {
				continue
			}
			info, err := fs.Stat(fsys, match)
			if err != nil || !info.IsDir() {
				continue
			}
			seen[match] = struct{}{}
		}
	}

	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	slices.Sort(dirs)
	return dirs, nil
}

func cleanPattern(raw string) (string, bool) {
	pattern := strings.TrimSpace(raw)
	pattern, negated := strings.CutPrefix(pattern, "!")
	pattern = strings.TrimPrefix(pattern, "./")
	pattern = strings.TrimSuffix(pattern, "/")
	if pattern == "" {
		return "", negated
	}
	return path.Clean(pattern), negated
}

func inNodeModules(p string) bool {
	return slices.Contains(strings.Split(p, "/"), domain.NodeModulesDirName)
}

func excluded(p string, exclude []string) bool {
	for _, pattern := range exclude {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
	}
	return false
}
