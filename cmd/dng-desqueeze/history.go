// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/dng-desqueeze/internal/journal"
	"github.com/pdiddy/dng-desqueeze/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent batch runs from the journal",
	Long: `History lists recent runs recorded in the journal database, newest
first. Use --run with a run ID to list that run's per-file records.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 10, "maximum number of runs to show")
	historyCmd.Flags().Int64("run", 0, "show per-file records for this run ID")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	dir := viper.GetString("journal.dir")
	if dir == "" {
		dir = defaultJournalDir
	}

	store, err := journal.NewStore(types.JournalConfig{Dir: dir})
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	if runID, _ := cmd.Flags().GetInt64("run"); runID != 0 {
		records, err := store.Files(ctx, runID)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintf(os.Stderr, "no file records for run %d\n", runID)
			return nil
		}
		for _, rec := range records {
			line := fmt.Sprintf("%-9s %s -> %s", rec.Status, rec.Source, rec.Output)
			if rec.LensModel != "" {
				line += fmt.Sprintf(" [%s]", rec.LensModel)
			}
			if rec.Detail != "" {
				line += " (" + rec.Detail + ")"
			}
			fmt.Println(line)
		}
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded yet")
		return nil
	}

	for _, r := range runs {
		fmt.Printf("run %d  %s  %s  processed=%d skipped=%d failed=%d\n",
			r.ID, r.StartedAt, r.InputDir, r.Processed, r.Skipped, r.Failed)
	}
	return nil
}
