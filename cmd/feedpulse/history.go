// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/feedpulse/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List URLs saved on previous runs",
	Long: `History prints the URLs recorded by earlier collect runs, newest day
first. These URLs are excluded from future shortlists.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("day", "", "show only the given day (YYYY-MM-DD)")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	day, _ := cmd.Flags().GetString("day")

	cfg := pipelineConfig()
	dataDir := filepath.Join(cfg.Storage.OutputDir, cfg.Storage.DataSubdir)

	store, err := history.NewStore(dataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Entries(context.Background(), day)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No history recorded.")
		return nil
	}

	currentDay := ""
	for _, e := range entries {
		if e.Day != currentDay {
			currentDay = e.Day
			fmt.Printf("\n%s:\n", currentDay)
		}
		fmt.Printf("  %s\n", e.URL)
	}
	fmt.Printf("\n%d URLs total\n", len(entries))
	return nil
}
