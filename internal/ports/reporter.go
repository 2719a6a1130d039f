package ports

import "github.com/jugl/opencv-setup/internal/domain"

// StageReporter receives user-facing progress of a pipeline run.
type StageReporter interface {
	StageStarted(stage domain.Stage)
	StageFinished(stage domain.Stage, err error)
	Transfer(written, total int64)
}
