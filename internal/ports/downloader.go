package ports

import (
	"context"

	"github.com/jugl/opencv-setup/internal/domain"
)

// ProgressFunc receives the bytes written so far and the expected total
// (domain.UnknownSize when the server did not announce one).
type ProgressFunc func(written, total int64)

// Downloader streams a remote file to a local path.
type Downloader interface {
	Download(ctx context.Context, url, dst string, progress ProgressFunc) (domain.Transfer, error)
}
