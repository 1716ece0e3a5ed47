package cmd

import (
	"fmt"
	"os"

	"github.com/mtrifilo/psychic-homily-web-sub009/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "psychic-homily",
	Short: "Show listing aggregation service",
	Long: `Psychic Homily aggregates live show listings from venue websites into a
canonical database and replicates them across environments.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// CLI errors go through the console encoder so they stay readable
		// without a log pipeline.
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
