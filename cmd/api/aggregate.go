package main

import (
	"encoding/json"
	"os"

	"vibejobs-backend/internal/interfaces/router"

	"github.com/spf13/cobra"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Run one aggregation and print its summary",
	RunE: func(cmd *cobra.Command, _ []string) error {
		deps, err := router.NewDeps(cfg)
		if err != nil {
			return err
		}
		defer deps.Close()

		summary, err := deps.Aggregator.Run(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	rootCmd.AddCommand(aggregateCmd)
}
