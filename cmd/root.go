package cmd

import (
	"fmt"
	"os"

	"media-catalog/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is stamped into every snapshot and the catalog config.
var Version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "media-catalog",
	Short: "Catalog of backup media",
	Long: `Media Catalog keeps track of what is stored on removable backup media.
Media are grouped into sectors within libraries; each medium is indexed into a
snapshot and sectors are compared to find what one holds that another lacks.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		code := ExitCode(err)

		// Console format at debug level gives readable timestamps on a terminal.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err), zap.Int("exit_code", code))
			_ = l.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(code)
	}
}
