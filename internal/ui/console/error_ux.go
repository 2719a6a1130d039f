package console

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/jugl/opencv-setup/internal/domain"
)

// UserMessage turns a pipeline error into one short line for the console.
// Full details go to the log.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var oe *domain.OpError
	if !errors.As(err, &oe) {
		return "Unexpected error (see logs)"
	}

	switch oe.Kind {
	case domain.KindMissingDependency:
		return "System root certificates are not available"
	case domain.KindInvalidConfig:
		return "Invalid setup configuration"
	case domain.KindTransfer:
		if errors.Is(err, context.Canceled) {
			return "Download interrupted"
		}
		return "Failed to download OpenCV"
	case domain.KindUnsupportedLayout:
		return "Unknown directory structure in archive, aborting"
	case domain.KindMalformedArchive:
		return "Downloaded archive is damaged or not a zip file"
	case domain.KindNotFound:
		if strings.TrimSpace(oe.Path) != "" {
			return "Not found: " + filepath.Base(oe.Path)
		}
		return "Not found"
	case domain.KindRelocate:
		if errors.Is(err, domain.ErrAlreadyExists) {
			return "Module directory already exists, remove it to set up again"
		}
		return "Couldn't move SDK folder into module directory"
	case domain.KindPatch:
		return "Couldn't apply patches"
	default:
		return "Unexpected error (see logs)"
	}
}
