package main

import (
	"github.com/spf13/cobra"

	"blogapi/config"
	"blogapi/internal/repository/postgres"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Long:  "Apply the embedded schema to DATABASE_URL. Safe to run repeatedly.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := config.NewLogger(cfg)

			db, err := postgres.Open(cmd.Context(), cfg.DBUrl)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			logger.Info("schema applied")
			return nil
		},
	}
}
