package domain

import "time"

// UnknownSize marks a transfer whose server sent no usable Content-Length.
const UnknownSize int64 = -1

// Transfer describes a finished archive download.
type Transfer struct {
	URL           string
	Path          string
	ExpectedBytes int64
	WrittenBytes  int64
	Duration      time.Duration
}

// SetupReport summarizes a pipeline run that reached the final cleanup.
type SetupReport struct {
	RunID      string
	Version    string
	StartedAt  time.Time
	EndedAt    time.Time
	Transfer   Transfer
	ModulePath string

	// Patch is only meaningful when PatchErr is nil.
	Patch    PatchReport
	PatchErr error
}

// Patched reports whether the module directory survived with the patches applied.
func (r SetupReport) Patched() bool {
	return r.PatchErr == nil
}
