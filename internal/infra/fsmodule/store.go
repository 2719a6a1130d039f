package fsmodule

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"

	"github.com/otiai10/copy"

	"github.com/jugl/opencv-setup/internal/domain"
	"github.com/jugl/opencv-setup/internal/ports"
)

// Store moves and removes pipeline artifacts on the local filesystem.
type Store struct {
	rename func(oldpath, newpath string) error
}

func NewStore() *Store {
	return &Store{rename: os.Rename}
}

var _ ports.ModuleStore = (*Store)(nil)

func (s *Store) Relocate(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		kind := domain.KindRelocate
		if errors.Is(err, fs.ErrNotExist) {
			kind = domain.KindNotFound
		}
		return &domain.OpError{Op: "fsmodule.relocate", Kind: kind, Path: src, Err: err}
	}
	if !info.IsDir() {
		return &domain.OpError{
			Op:   "fsmodule.relocate",
			Kind: domain.KindRelocate,
			Path: src,
			Err:  fmt.Errorf("source is not a directory"),
		}
	}

	if _, err := os.Lstat(dst); err == nil {
		return &domain.OpError{
			Op:   "fsmodule.relocate",
			Kind: domain.KindRelocate,
			Path: dst,
			Err:  fmt.Errorf("module directory: %w", domain.ErrAlreadyExists),
		}
	}

	err = s.rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return &domain.OpError{Op: "fsmodule.relocate", Kind: domain.KindRelocate, Path: dst, Err: err}
	}

	// rename cannot cross filesystems; fall back to copy + delete
	if err := copy.Copy(src, dst, copy.Options{PreserveTimes: true}); err != nil {
		_ = os.RemoveAll(dst)
		return &domain.OpError{Op: "fsmodule.copy", Kind: domain.KindRelocate, Path: dst, Err: err}
	}
	if err := os.RemoveAll(src); err != nil {
		return &domain.OpError{Op: "fsmodule.relocate", Kind: domain.KindRelocate, Path: src, Err: err}
	}
	return nil
}

func (s *Store) Remove(path string) (bool, error) {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &domain.OpError{Op: "fsmodule.remove", Kind: domain.KindExecution, Path: path, Err: err}
	}

	if info.IsDir() {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		return false, &domain.OpError{Op: "fsmodule.remove", Kind: domain.KindExecution, Path: path, Err: err}
	}
	return true, nil
}
