package cmd

import (
	"fmt"
	"os"

	"storage-sample/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// configDir holds .env and config.yaml.
var configDir string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "storage-sample",
	Short: "Object storage sample client",
	Long: `storage-sample walks through the basic object storage operations against
an S3-compatible endpoint and can serve them as a small HTTP gateway.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with ISO8601 timestamps reads best on a terminal.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "dir", ".", "Directory holding .env and config.yaml")
}
