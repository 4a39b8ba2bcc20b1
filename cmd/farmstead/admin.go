package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"farmstead/internal/config"
	"farmstead/internal/game"

	"github.com/spf13/cobra"
)

func newTopCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:       "top [rebirths|money|daily_streak]",
		Short:     "Print a leaderboard",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"rebirths", "money", "daily_streak"},
		RunE: func(cmd *cobra.Command, args []string) error {
			category := "money"
			if len(args) == 1 {
				category = args[0]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := config.LoadFromEnv()
			if err != nil {
				return err
			}
			st, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			entries, err := st.Top(ctx, category, limit)
			if err != nil {
				return err
			}
			printLeaderboard(category, entries)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of rows")
	return cmd
}

func newBanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ban <player-id>",
		Short: "Ban a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setBanned(cmd, args[0], true)
		},
	}
}

func newUnbanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unban <player-id>",
		Short: "Lift a player's ban",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setBanned(cmd, args[0], false)
		},
	}
}

func setBanned(cmd *cobra.Command, playerID string, banned bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := game.NewService(st, newLogger(cfg))
	if err := svc.SetBanned(ctx, playerID, banned); err != nil {
		return err
	}
	if banned {
		printWarn(fmt.Sprintf("player %s banned", playerID))
	} else {
		printSuccess(fmt.Sprintf("player %s unbanned", playerID))
	}
	return nil
}
