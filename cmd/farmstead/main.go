package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmstead/internal/api"
	"farmstead/internal/config"
	"farmstead/internal/game"
	"farmstead/internal/scheduler"
	"farmstead/internal/store"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "farmstead",
		Short:        "Farmstead economy engine",
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newWorkerCmd(),
		newTopCmd(),
		newBanCmd(),
		newUnbanCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newFarmCmd(),
		newSellCmd(),
		newDailyCmd(),
		newProfileCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// openStore picks the backend from config. The returned close func is safe to
// call once the server has finished with the store.
func openStore(ctx context.Context, cfg config.Config) (game.Store, func(), error) {
	switch cfg.StoreDriver {
	case "postgres":
		pg, err := store.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		sq, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sq, func() { sq.Close() }, nil
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with the in-process milk scheduler",
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
			sched := scheduler.New(svc, st, logger, cfg.MilkTickEvery)
			svc.SetProducer(sched)
			if err := sched.Resume(ctx); err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           api.New(logger, svc).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server started", "addr", cfg.Addr, "store", cfg.StoreDriver)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					sched.Shutdown()
					return err
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("server shutdown failed", "err", err)
			}
			sched.Shutdown()
			logger.Info("server stopped")
			return nil
		},
	}
}
