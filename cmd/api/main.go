// Command api serves the listings API and runs aggregation and maintenance
// tasks from the command line.
package main

import (
	"fmt"
	"os"

	"vibejobs-backend/internal/config"
	"vibejobs-backend/internal/pkg/logger"

	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "api",
	Short:         "Job, tender and grant aggregation backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		logger.Setup(cfg.Env, cfg.LogLevel)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
