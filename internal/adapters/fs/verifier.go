package fs

import (
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
)

// Verifier checks that expected files exist.
type Verifier struct{}

// NewVerifier creates a new Verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Missing returns the entries of files that do not exist below root.
func (v *Verifier) Missing(root string, files []string) ([]string, error) {
	var missing []string
	for _, file := range files {
		path := filepath.Join(root, file)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				missing = append(missing, file)
				continue
			}
			return nil, zerr.With(zerr.Wrap(err, "failed to stat output"), "path", path)
		}
	}
	return missing, nil
}
