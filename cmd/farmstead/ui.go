package main

import (
	"encoding/json"
	"fmt"
	"os"

	"farmstead/internal/game"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	neutral = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printPayload(payload map[string]any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

func printLeaderboard(category string, entries []game.LeaderboardEntry) {
	accent.Printf("Top players by %s\n", category)
	if len(entries) == 0 {
		neutral.Println("(no players yet)")
		return
	}
	for _, e := range entries {
		name := e.DisplayName
		if name == "" {
			name = e.PlayerID
		}
		value := humanize.Comma(e.Value)
		if category == "money" {
			value += " coins"
		}
		neutral.Println(fmt.Sprintf("%3d. %-24s %s", e.Rank, name, value))
	}
}
