package domain

// Stage names one step of the setup pipeline.
type Stage string

const (
	StageFetch    Stage = "fetch"
	StageExtract  Stage = "extract"
	StageRelocate Stage = "relocate"
	StagePatch    Stage = "patch"
	StageCleanup  Stage = "cleanup"
)

func (s Stage) Title() string {
	switch s {
	case StageFetch:
		return "Fetch"
	case StageExtract:
		return "Extract"
	case StageRelocate:
		return "Relocate"
	case StagePatch:
		return "Patch"
	case StageCleanup:
		return "Cleanup"
	default:
		return string(s)
	}
}
