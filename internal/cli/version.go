package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jugl/opencv-setup/internal/buildinfo"
	"github.com/jugl/opencv-setup/internal/domain"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information and the OpenCV release this tool installs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := domain.DefaultConfig()
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
			fmt.Fprintf(cmd.OutOrStdout(), "OpenCV %s from %s\n", cfg.Version, cfg.DownloadURL())
			return nil
		},
	}
}
