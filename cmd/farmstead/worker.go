package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"farmstead/internal/config"
	"farmstead/internal/game"
	"farmstead/internal/scheduler"

	"github.com/spf13/cobra"
)

// newWorkerCmd runs the milk scheduler out of process, for deployments where
// the API and the production loops are split. It rescans the store each
// interval so cows toggled on through the other process get picked up.
func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the milk production scheduler standalone",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := config.LoadFromEnv()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			st, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			svc := game.NewService(st, logger)

			runOnce := strings.EqualFold(strings.TrimSpace(os.Getenv("FARMSTEAD_WORKER_RUN_ONCE")), "true")
			if runOnce {
				ids, err := st.ActiveProducers(ctx)
				if err != nil {
					return err
				}
				for _, id := range ids {
					if _, err := svc.ApplyProductionTick(ctx, id); err != nil {
						logger.Error("production tick failed", "player_id", id, "err", err)
					}
				}
				logger.Info("worker run-once completed", "producers", len(ids))
				return nil
			}

			sched := scheduler.New(svc, st, logger, cfg.MilkTickEvery)
			svc.SetProducer(sched)
			if err := sched.Resume(ctx); err != nil {
				return err
			}

			rescan := time.NewTicker(cfg.MilkTickEvery)
			defer rescan.Stop()

			logger.Info("worker started", "tick_every", cfg.MilkTickEvery.String())
			for {
				select {
				case <-ctx.Done():
					sched.Shutdown()
					logger.Info("worker shutdown")
					return nil
				case <-rescan.C:
					if err := sched.Resume(ctx); err != nil {
						logger.Error("producer rescan failed", "err", err)
					}
				}
			}
		},
	}
}
