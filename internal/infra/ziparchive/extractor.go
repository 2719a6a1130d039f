package ziparchive

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/zip"

	"github.com/jugl/opencv-setup/internal/domain"
	"github.com/jugl/opencv-setup/internal/ports"
)

const zipMIME = "application/zip"

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

var _ ports.ArchiveExtractor = (*Extractor)(nil)

// Validate checks the archive's first listed entry against prefix. It only
// reads the central directory.
func (e *Extractor) Validate(archivePath, prefix string) error {
	if err := sniff(archivePath); err != nil {
		return err
	}

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return malformed("ziparchive.open", archivePath, err)
	}
	defer zr.Close()

	if len(zr.File) == 0 {
		return &domain.OpError{
			Op:   "ziparchive.validate",
			Kind: domain.KindUnsupportedLayout,
			Path: archivePath,
			Err:  fmt.Errorf("archive is empty: %w", domain.ErrUnsupportedLayout),
		}
	}

	first := zr.File[0].Name
	if !strings.HasPrefix(first, prefix) {
		return &domain.OpError{
			Op:   "ziparchive.validate",
			Kind: domain.KindUnsupportedLayout,
			Path: archivePath,
			Err:  fmt.Errorf("first entry %q does not start with %q: %w", first, prefix, domain.ErrUnsupportedLayout),
		}
	}
	return nil
}

// Extract writes every entry of the archive below destDir.
func (e *Extractor) Extract(archivePath, destDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return malformed("ziparchive.open", archivePath, err)
	}
	defer zr.Close()

	root, err := filepath.Abs(destDir)
	if err != nil {
		return &domain.OpError{Op: "ziparchive.extract", Kind: domain.KindExecution, Path: destDir, Err: err}
	}

	for _, f := range zr.File {
		if err := extractFile(f, root); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, root string) error {
	target, err := safeJoin(root, f.Name)
	if err != nil {
		return malformed("ziparchive.extract", f.Name, err)
	}

	mode := f.Mode()
	if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return ioError(target, err)
		}
		return nil
	}
	if mode&fs.ModeSymlink != 0 {
		return malformed("ziparchive.extract", f.Name, fmt.Errorf("symlink entries are not supported"))
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return ioError(target, err)
	}

	perm := mode.Perm()
	if perm == 0 {
		perm = 0o644
	}

	rc, err := f.Open()
	if err != nil {
		return malformed("ziparchive.entry", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return ioError(target, err)
	}

	_, err = io.Copy(out, rc)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// zip checksum and inflate failures surface here as well
		return malformed("ziparchive.entry", f.Name, err)
	}
	return nil
}

// safeJoin resolves name below root and rejects entries that would escape it.
func safeJoin(root, name string) (string, error) {
	if name == "" || filepath.IsAbs(name) || strings.HasPrefix(name, "/") || strings.Contains(name, `\`) {
		return "", fmt.Errorf("illegal entry name %q: %w", name, domain.ErrMalformedArchive)
	}
	target := filepath.Join(root, filepath.FromSlash(name))
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("entry %q escapes destination: %w", name, domain.ErrMalformedArchive)
	}
	return target, nil
}

func sniff(archivePath string) error {
	mt, err := mimetype.DetectFile(archivePath)
	if err != nil {
		return &domain.OpError{
			Op:   "ziparchive.sniff",
			Kind: domain.KindNotFound,
			Path: archivePath,
			Err:  err,
		}
	}
	for m := mt; m != nil; m = m.Parent() {
		if m.Is(zipMIME) {
			return nil
		}
	}
	return malformed("ziparchive.sniff", archivePath, fmt.Errorf("content type %s is not a zip archive", mt.String()))
}

func malformed(op, path string, err error) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindMalformedArchive,
		Path: path,
		Err:  err,
	}
}

func ioError(path string, err error) error {
	return &domain.OpError{
		Op:   "ziparchive.write",
		Kind: domain.KindExecution,
		Path: path,
		Err:  err,
	}
}
