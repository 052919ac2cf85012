package main

import (
	"fmt"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/config"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/bootstrap"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/sweeper"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/platform/logger"
	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Reclaim expired entries from the shared analysis cache once (postgres or redis; memory and none are per-process)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			switch cfg.Cache.Backend {
			case "memory", "none":
				return fmt.Errorf("sweep needs a shared cache backend, CACHE_BACKEND=%s lives only inside the api process", cfg.Cache.Backend)
			}
			log, err := logger.New(cfg.App.Environment, cfg.App.LogLevel)
			if err != nil {
				return err
			}
			defer log.Sync()

			rt, err := bootstrap.Open(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer rt.Close()

			n := sweeper.NewScheduler(rt.Service, log).RunOnce(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "reclaimed %d expired cache entries\n", n)
			return nil
		},
	}
}
