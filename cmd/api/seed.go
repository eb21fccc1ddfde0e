package main

import (
	"fmt"
	"time"

	"vibejobs-backend/internal/application/seed"
	"vibejobs-backend/internal/interfaces/router"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all listings with the curated sample set",
	RunE: func(cmd *cobra.Command, _ []string) error {
		deps, err := router.NewDeps(cfg)
		if err != nil {
			return err
		}
		defer deps.Close()

		n, err := seed.Run(cmd.Context(), deps.Store, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d listings\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
