package usecase

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jugl/opencv-setup/internal/domain"
	"github.com/jugl/opencv-setup/internal/ports"
)

// SetupSDK runs the fetch, extract, relocate, patch and cleanup stages once.
type SetupSDK struct {
	cfg        domain.SetupConfig
	rules      domain.PatchSet
	preflight  ports.Preflight
	downloader ports.Downloader
	archive    ports.ArchiveExtractor
	store      ports.ModuleStore
	patcher    ports.SourcePatcher
	reporter   ports.StageReporter
	log        *slog.Logger
	newRunID   func() string
	now        func() time.Time
}

type Deps struct {
	Preflight  ports.Preflight
	Downloader ports.Downloader
	Archive    ports.ArchiveExtractor
	Store      ports.ModuleStore
	Patcher    ports.SourcePatcher
	// Reporter is optional.
	Reporter ports.StageReporter
	Logger   *slog.Logger
}

func NewSetupSDK(cfg domain.SetupConfig, rules domain.PatchSet, deps Deps) *SetupSDK {
	uc := &SetupSDK{
		cfg:        cfg,
		rules:      rules,
		preflight:  deps.Preflight,
		downloader: deps.Downloader,
		archive:    deps.Archive,
		store:      deps.Store,
		patcher:    deps.Patcher,
		reporter:   deps.Reporter,
		log:        deps.Logger,
		newRunID:   uuid.NewString,
		now:        time.Now,
	}
	if uc.reporter == nil {
		uc.reporter = nopReporter{}
	}
	if uc.log == nil {
		uc.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return uc
}

// Execute runs the pipeline. A returned error means the run stopped early and
// the process should exit non-zero. A patch failure is not returned: it is
// recorded in SetupReport.PatchErr after the module directory was removed.
func (uc *SetupSDK) Execute(ctx context.Context) (domain.SetupReport, error) {
	rep := domain.SetupReport{
		RunID:     uc.newRunID(),
		Version:   uc.cfg.Version,
		StartedAt: uc.now(),
	}
	log := uc.log.With("run_id", rep.RunID)

	if err := uc.cfg.Validate(); err != nil {
		log.Error("config.invalid", "err", err)
		return rep, err
	}
	if err := uc.rules.Validate(); err != nil {
		err = &domain.OpError{Op: "setup.rules", Kind: domain.KindInvalidConfig, Err: err}
		log.Error("config.invalid", "err", err)
		return rep, err
	}
	if err := uc.preflight.Check(ctx); err != nil {
		log.Error("preflight.failed", "err", err)
		return rep, err
	}

	// Fetch. A failed transfer exits without cleanup; the partial archive
	// stays for inspection and is removed by the next successful run.
	uc.reporter.StageStarted(domain.StageFetch)
	log.Info("download.begin", "version", uc.cfg.Version, "url", uc.cfg.DownloadURL())
	tr, err := uc.downloader.Download(ctx, uc.cfg.DownloadURL(), uc.cfg.ArchivePath(), uc.reporter.Transfer)
	rep.Transfer = tr
	uc.reporter.StageFinished(domain.StageFetch, err)
	if err != nil {
		log.Error("download.failed", "err", err)
		return rep, err
	}

	// Extract. Nothing is written before the layout check passes.
	uc.reporter.StageStarted(domain.StageExtract)
	log.Info("extract.begin", "archive", uc.cfg.ArchivePath())
	err = uc.archive.Validate(uc.cfg.ArchivePath(), uc.cfg.BaseDir)
	if err == nil {
		err = uc.archive.Extract(uc.cfg.ArchivePath(), uc.workDir())
	}
	uc.reporter.StageFinished(domain.StageExtract, err)
	if err != nil {
		log.Error("extract.failed", "err", err, "kind", domain.KindOf(err))
		uc.cleanup(log)
		return rep, err
	}

	uc.reporter.StageStarted(domain.StageRelocate)
	log.Info("relocate.begin", "from", uc.cfg.SDKPath(), "to", uc.cfg.ModulePath())
	err = uc.store.Relocate(uc.cfg.SDKPath(), uc.cfg.ModulePath())
	uc.reporter.StageFinished(domain.StageRelocate, err)
	if err != nil {
		log.Error("relocate.failed", "err", err)
		uc.cleanup(log)
		return rep, err
	}
	rep.ModulePath = uc.cfg.ModulePath()

	uc.reporter.StageStarted(domain.StagePatch)
	rep.Patch, rep.PatchErr = uc.patch(log)
	uc.reporter.StageFinished(domain.StagePatch, rep.PatchErr)
	if rep.PatchErr != nil {
		rep.ModulePath = ""
	}

	uc.cleanup(log)

	rep.EndedAt = uc.now()
	log.Info("setup.finished",
		"patched", rep.Patched(),
		"duration", rep.EndedAt.Sub(rep.StartedAt).Round(time.Millisecond).String(),
	)
	return rep, nil
}

func (uc *SetupSDK) patch(log *slog.Logger) (domain.PatchReport, error) {
	target := uc.cfg.PatchTargetPath()
	log.Info("patch.begin", "file", target, "rules", len(uc.rules))

	pr, err := uc.patcher.Patch(target, uc.rules)
	if err != nil {
		log.Error("patch.failed", "err", err)

		// A partially patched module is unusable.
		uc.cleanup(log)
		uc.remove(log, "module directory", uc.cfg.ModulePath())
		return pr, err
	}

	for _, r := range uc.rules {
		log.Debug("patch.rule", "name", r.Name, "hits", pr.Hits[r.Name])
	}
	for _, name := range pr.Missed(uc.rules) {
		log.Warn("patch.rule_unmatched", "name", name, "file", target)
	}
	log.Info("patch.finished", "lines", pr.Lines)
	return pr, nil
}

// cleanup removes the archive and the extracted tree. It never fails and
// never touches the module directory.
func (uc *SetupSDK) cleanup(log *slog.Logger) {
	uc.reporter.StageStarted(domain.StageCleanup)
	log.Info("cleanup.begin")
	errA := uc.remove(log, "archive", uc.cfg.ArchivePath())
	errB := uc.remove(log, "extracted directory", uc.cfg.ExtractedPath())
	if errA != nil {
		uc.reporter.StageFinished(domain.StageCleanup, errA)
		return
	}
	uc.reporter.StageFinished(domain.StageCleanup, errB)
}

func (uc *SetupSDK) remove(log *slog.Logger, what, path string) error {
	removed, err := uc.store.Remove(path)
	if err != nil {
		log.Error("cleanup.remove_failed", "what", what, "path", path, "err", err)
		return err
	}
	if removed {
		log.Info("cleanup.removed", "what", what, "path", path)
	}
	return nil
}

func (uc *SetupSDK) workDir() string {
	if uc.cfg.WorkDir == "" {
		return "."
	}
	return uc.cfg.WorkDir
}

type nopReporter struct{}

func (nopReporter) StageStarted(domain.Stage)        {}
func (nopReporter) StageFinished(domain.Stage, error) {}
func (nopReporter) Transfer(int64, int64)             {}
