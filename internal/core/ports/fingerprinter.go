package ports

// Fingerprinter digests a directory tree.
//
//go:generate go run go.uber.org/mock/mockgen -source=fingerprinter.go -destination=mocks/mock_fingerprinter.go -package=mocks
type Fingerprinter interface {
	// Fingerprint returns a digest over the relative paths, modes and
	// contents of every file below root.
	Fingerprint(root string) (string, error)
}
