package main

import (
	"vibejobs-backend/internal/infrastructure/database"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the listing and run tables",
	RunE: func(_ *cobra.Command, _ []string) error {
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		if err := database.AutoMigrate(db); err != nil {
			return err
		}
		log.Info().Msg("migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
