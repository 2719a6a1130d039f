package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jugl/opencv-setup/internal/domain"
	"github.com/jugl/opencv-setup/internal/infra/logger"
)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool
	var logFormat string
	var logFile string

	cmd := &cobra.Command{
		Use:   "opencv-setup",
		Short: "Download the OpenCV Android SDK and install it as the patched opencv module",
		Long: "Downloads the OpenCV Android SDK release archive, moves its sdk folder into\n" +
			"the opencv module directory and patches JavaCameraView for fixed focus and\n" +
			"camera access. Run it from the project root.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Usage errors are printed by cobra; from here on runSetup reports.
			cmd.SilenceErrors = true

			cleanup, err := logger.Setup(logger.Config{
				Output: cmd.ErrOrStderr(),
				File:   logFile,
				Format: logFormat,
				Debug:  debug,
			})
			if err != nil {
				cmd.PrintErrln("error:", err)
				return err
			}
			defer func() { _ = cleanup() }()

			cfg := domain.DefaultConfig()
			cfg.WorkDir = resolveWorkDir()

			return runSetup(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, defaultDeps())
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", logger.FormatText, "Log format: text|json")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append logs to this file instead of stderr")

	cmd.AddCommand(versionCmd())
	return cmd
}
