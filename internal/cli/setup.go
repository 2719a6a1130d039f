package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jugl/opencv-setup/internal/domain"
	"github.com/jugl/opencv-setup/internal/infra/fsmodule"
	"github.com/jugl/opencv-setup/internal/infra/httpclient"
	"github.com/jugl/opencv-setup/internal/infra/logger"
	"github.com/jugl/opencv-setup/internal/infra/sourcepatch"
	"github.com/jugl/opencv-setup/internal/infra/workspacefinder"
	"github.com/jugl/opencv-setup/internal/infra/ziparchive"
	"github.com/jugl/opencv-setup/internal/ui/console"
	"github.com/jugl/opencv-setup/internal/usecase"
)

func defaultDeps() usecase.Deps {
	return usecase.Deps{
		Preflight:  httpclient.NewTrustStorePreflight(),
		Downloader: httpclient.NewDownloader(httpclient.WithLogger(logger.L())),
		Archive:    ziparchive.NewExtractor(),
		Store:      fsmodule.NewStore(),
		Patcher:    sourcepatch.NewFilePatcher(),
	}
}

// resolveWorkDir returns the enclosing Gradle project root, or the current
// directory when none is found.
func resolveWorkDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}

	root, err := workspacefinder.NewFinder().FindRoot(wd)
	if err != nil {
		logger.L().Debug("project root not found, using current directory", "dir", wd, "err", err)
		return wd
	}
	if root != wd {
		logger.L().Info("using project root", "dir", root)
	}
	return root
}

func runSetup(ctx context.Context, out, errOut io.Writer, cfg domain.SetupConfig, deps usecase.Deps) error {
	log := logger.L()

	rules, err := sourcepatch.CameraRules()
	if err != nil {
		log.Error("rules.invalid", "err", err)
		fmt.Fprintf(errOut, "error: %s\n", console.UserMessage(err))
		return err
	}

	reporter := console.NewReporter(out, console.WithProgressBar(isTerminal(out)))
	deps.Reporter = reporter
	deps.Logger = log

	rep, err := usecase.NewSetupSDK(cfg, rules, deps).Execute(ctx)
	if err != nil {
		if domain.IsKind(err, domain.KindMissingDependency) {
			for _, hint := range httpclient.InstallHints {
				log.Error(hint)
			}
		}
		fmt.Fprintf(errOut, "error: %s\n", console.UserMessage(err))
		return err
	}

	reporter.Summary(rep)
	if p := logger.Path(); p != "" {
		fmt.Fprintf(out, "  log: %s\n", p)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
