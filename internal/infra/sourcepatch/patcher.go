package sourcepatch

import (
	"os"

	"github.com/jugl/opencv-setup/internal/domain"
	"github.com/jugl/opencv-setup/internal/ports"
)

// TempSuffix names the sibling file a patch is written to before it replaces
// the original.
const TempSuffix = "~"

// FilePatcher applies a rule set to a file line by line.
type FilePatcher struct{}

func NewFilePatcher() *FilePatcher {
	return &FilePatcher{}
}

var _ ports.SourcePatcher = (*FilePatcher)(nil)

// Patch streams path through rules into path+TempSuffix and then renames the
// result over path. On error the original file is left as it was.
func (p *FilePatcher) Patch(path string, rules domain.PatchSet) (domain.PatchReport, error) {
	rep := domain.NewPatchReport(path)

	src, err := os.Open(path)
	if err != nil {
		return rep, patchError("sourcepatch.open", path, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return rep, patchError("sourcepatch.stat", path, err)
	}

	tmpPath := path + TempSuffix
	dst, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return rep, patchError("sourcepatch.create", tmpPath, err)
	}

	rep, err = rules.Rewrite(src, dst)
	rep.Target = path
	if err != nil {
		_ = dst.Close()
		_ = os.Remove(tmpPath)
		return rep, patchError("sourcepatch.rewrite", tmpPath, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return rep, patchError("sourcepatch.close", tmpPath, err)
	}
	_ = src.Close()

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return rep, patchError("sourcepatch.replace", path, err)
	}
	return rep, nil
}

func patchError(op, path string, err error) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindPatch,
		Path: path,
		Err:  err,
	}
}
