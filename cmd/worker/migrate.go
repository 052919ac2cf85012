package main

import (
	"fmt"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/config"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/bootstrap"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/graphstore"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the impact analysis schema to Postgres",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			pool, err := bootstrap.OpenDB(cmd.Context(), bootstrap.DBOptions{DSN: cfg.Database.PostgresDSN()})
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := graphstore.NewPostgresStore(pool).Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}
