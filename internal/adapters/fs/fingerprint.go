package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Fingerprinter = (*Fingerprinter)(nil)

// Fingerprinter digests directory trees with xxhash.
type Fingerprinter struct {
	walker *Walker
}

// NewFingerprinter creates a new Fingerprinter.
func NewFingerprinter(walker *Walker) *Fingerprinter {
	return &Fingerprinter{walker: walker}
}

// ComputeFileHash computes the xxhash of a file's content.
func (f *Fingerprinter) ComputeFileHash(path string) (uint64, error) {
	file, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer file.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// Fingerprint returns a digest over the relative path, permission bits and
// content of every file below root. node_modules is ignored.
func (f *Fingerprinter) Fingerprint(root string) (string, error) {
	hasher := xxhash.New()

	for path, err := range f.walker.WalkFiles(root, []string{domain.NodeModulesDirName}) {
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrFingerprintFailed.Error()), "path", root)
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrFingerprintFailed.Error()), "path", path)
		}
		info, err := os.Stat(path)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrFingerprintFailed.Error()), "path", path)
		}
		sum, err := f.ComputeFileHash(path)
		if err != nil {
			return "", err
		}

		_, _ = hasher.WriteString(filepath.ToSlash(rel))
		_, _ = hasher.Write([]byte{0})
		_ = binary.Write(hasher, binary.LittleEndian, uint32(info.Mode().Perm()))
		_ = binary.Write(hasher, binary.LittleEndian, sum)
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}
