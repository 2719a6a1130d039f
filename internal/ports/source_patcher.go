package ports

import "github.com/jugl/opencv-setup/internal/domain"

// SourcePatcher rewrites a source file in place with a rule set.
type SourcePatcher interface {
	Patch(path string, rules domain.PatchSet) (domain.PatchReport, error)
}
