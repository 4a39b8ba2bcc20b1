package main

import (
	"context"
	"strings"
	"time"

	cl "farmstead/internal/cli"
	"farmstead/internal/config"

	"github.com/spf13/cobra"
)

// The play subcommands talk to a running server over HTTP, so a shared host
// can be played from any shell with FARMSTEAD_API_BASE_URL set.

func sessionClient() (*cl.Client, error) {
	s, err := cl.LoadSession()
	if err != nil {
		return nil, err
	}
	cfg := config.LoadCLIFromEnv()
	return cl.NewClient(cfg.APIBaseURL, s.PlayerID), nil
}

func callCtx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

func newLoginCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "login <player-id>",
		Short: "Save a player identity and register it with the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID := strings.TrimSpace(args[0])
			ctx, cancel := callCtx(cmd)
			defer cancel()

			cfg := config.LoadCLIFromEnv()
			client := cl.NewClient(cfg.APIBaseURL, playerID)
			if _, err := client.Register(ctx, name); err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{PlayerID: playerID, DisplayName: name}); err != nil {
				return err
			}
			printSuccess("Logged in as " + playerID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the saved player identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.ClearSession(); err != nil {
				return err
			}
			printSuccess("Logged out.")
			return nil
		},
	}
}

func newFarmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "farm",
		Short: "Harvest the farm",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := sessionClient()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := client.Farm(ctx)
			if err != nil {
				return err
			}
			printPayload(out)
			return nil
		},
	}
}

func newSellCmd() *cobra.Command {
	var resource string
	var amount int64
	cmd := &cobra.Command{
		Use:   "sell",
		Short: "Sell harvested resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := sessionClient()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := client.Sell(ctx, resource, amount)
			if err != nil {
				return err
			}
			printPayload(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&resource, "resource", "", "resource to sell (empty sells everything)")
	cmd.Flags().Int64Var(&amount, "amount", 0, "amount to sell (0 sells all)")
	return cmd
}

func newDailyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Claim the daily reward",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := sessionClient()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := client.ClaimDaily(ctx)
			if err != nil {
				return err
			}
			printPayload(out)
			return nil
		},
	}
}

func newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the player profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := sessionClient()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := client.Profile(ctx)
			if err != nil {
				return err
			}
			printPayload(out)
			return nil
		},
	}
}
