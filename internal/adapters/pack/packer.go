// Package pack creates package archives with the workspace package manager
// and extracts them.
package pack

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Packer = (*Packer)(nil)

// archivePrefix is the directory every npm package archive is rooted at.
const archivePrefix = "package/"

// archiveName is the file name used when the manager lets the caller choose.
const archiveName = "package.tgz"

// Packer implements ports.Packer.
type Packer struct {
	runner ports.CommandRunner
	logger ports.Logger
}

// NewPacker creates a new Packer.
func NewPacker(runner ports.CommandRunner, logger ports.Logger) *Packer {
	return &Packer{
		runner: runner,
		logger: logger,
	}
}

// Command returns the invocation that packs the package in packageDir into
// destDir with pm.
func Command(packageDir, destDir string, pm domain.PackageManager) domain.Command {
	cmd := domain.Command{Name: string(pm.Name), Dir: packageDir}
	switch {
	case pm.Name == domain.ManagerYarn && pm.MajorVersion() == 1:
		cmd.Args = []string{"pack", "--filename", filepath.Join(destDir, archiveName)}
	case pm.Name == domain.ManagerYarn:
		cmd.Args = []string{"pack", "--out", filepath.Join(destDir, archiveName)}
	case pm.Name == domain.ManagerBun:
		cmd.Args = []string{"pm", "pack", "--destination", destDir, "--quiet"}
	case pm.Name == domain.ManagerPnpm:
		cmd.Args = []string{"pack", "--pack-destination", destDir}
	default:
		cmd.Name = string(domain.ManagerNpm)
		cmd.Args = []string{"pack", "--pack-destination", destDir, "--ignore-scripts", "--silent"}
	}
	return cmd
}

// Pack runs the manager's pack command and returns the single archive it
// wrote into destDir.
func (p *Packer) Pack(ctx context.Context, packageDir, destDir string, pm domain.PackageManager) (string, error) {
	if err := os.MkdirAll(destDir, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrPackFailed.Error()), "dir", destDir)
	}

	if err := p.runner.Run(ctx, Command(packageDir, destDir, pm)); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrPackFailed.Error()), "package", packageDir)
	}

	archives, err := doublestar.Glob(os.DirFS(destDir), "*.tgz")
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrPackFailed.Error()), "dir", destDir)
	}
	if len(archives) != 1 {
		return "", zerr.With(zerr.With(zerr.Wrap(domain.ErrPackFailed, "expected exactly one archive"),
			"dir", destDir), "archives", len(archives))
	}

	archive := filepath.Join(destDir, archives[0])
	p.logger.Debug("packed " + packageDir + " into " + archive)
	return archive, nil
}

// Unpack extracts a gzipped package archive into destDir, dropping the
// leading package/ directory. Entries that would land outside destDir are
// rejected.
func (p *Packer) Unpack(_ context.Context, archivePath, destDir string) error {
	f, err := os.Open(archivePath) //nolint:gosec // archive was written by Pack
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrUnpackFailed.Error()), "archive", archivePath)
	}
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrUnpackFailed.Error()), "archive", archivePath)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrUnpackFailed.Error()), "archive", archivePath)
		}

		target, err := entryPath(destDir, hdr.Name)
		if err != nil {
			return zerr.With(err, "archive", archivePath)
		}
		if target == "" {
			continue
		}

		if err := extract(tr, hdr, target); err != nil {
			return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrUnpackFailed.Error()), "archive", archivePath), "entry", hdr.Name)
		}
	}
	return nil
}

// entryPath maps an archive entry name below destDir. An empty result means
// the entry is the archive root itself.
func entryPath(destDir, name string) (string, error) {
	rel := strings.TrimPrefix(filepath.ToSlash(name), "./")
	rel = strings.TrimPrefix(rel, archivePrefix)
	if rel == "" || rel == strings.TrimSuffix(archivePrefix, "/") {
		return "", nil
	}

	target := filepath.Join(destDir, filepath.FromSlash(rel))
	within, err := filepath.Rel(destDir, target)
	if err != nil || within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", zerr.With(zerr.Wrap(domain.ErrUnsafeArchivePath, ""), "entry", name)
	}
	return target, nil
}

func extract(tr *tar.Reader, hdr *tar.Header, target string) error {
	switch hdr.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(target, domain.DirPerm)
	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
			return err
		}
		mode := os.FileMode(domain.FilePerm)
		if hdr.FileInfo().Mode()&0o111 != 0 {
			mode |= 0o111
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode) //nolint:gosec // target is checked by entryPath
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, tr); err != nil { //nolint:gosec // package archives are bounded by the registry
			_ = out.Close()
			return err
		}
		return out.Close()
	default:
		return nil
	}
}
