// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/jobscout/internal/export"
	"github.com/pdiddy/jobscout/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse stored runs and their scores",
	Long: `History lists past runs from the history database, newest first. With
--run it shows one run's full record table, and with --scores the stored
relevance ranking for that run. --prune-seen removes seen-listing entries
older than the given duration.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	runID, _ := cmd.Flags().GetInt64("run")
	showScores, _ := cmd.Flags().GetBool("scores")
	limit, _ := cmd.Flags().GetInt("limit")
	pruneSeen, _ := cmd.Flags().GetDuration("prune-seen")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg := loadConfig()
	s, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()

	if pruneSeen > 0 {
		n, err := s.PruneSeen(ctx, time.Now().Add(-pruneSeen))
		if err != nil {
			return err
		}
		fmt.Printf("Pruned %d seen entries older than %s\n", n, pruneSeen)
		return nil
	}

	if runID != 0 {
		if showScores {
			scored, err := s.GetScores(ctx, runID)
			if err != nil {
				return err
			}
			if jsonOutput {
				return export.FormatJSON(scored, os.Stdout)
			}
			if len(scored) == 0 {
				fmt.Println("Run has no stored scores; run `jobscout score` first.")
				return nil
			}
			export.FormatScoredTable(scored, os.Stdout)
			return nil
		}

		result, err := s.GetRun(ctx, runID)
		if err != nil {
			return err
		}
		if jsonOutput {
			return export.FormatJSON(result, os.Stdout)
		}
		export.FormatTable(result, os.Stdout)
		return nil
	}

	infos, err := s.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return export.FormatJSON(infos, os.Stdout)
	}
	formatRunList(infos)
	return nil
}

func formatRunList(infos []store.RunInfo) {
	if len(infos) == 0 {
		fmt.Println("No stored runs.")
		return
	}

	fmt.Printf("%-5s  %-20s  %-35s  %-25s  %-8s  %s\n",
		"Run", "Date", "Employers", "Location", "Records", "Dups")
	fmt.Println(strings.Repeat("-", 110))
	for _, info := range infos {
		employers := strings.Join(info.Request.Employers, ", ")
		if len(employers) > 35 {
			employers = employers[:32] + "..."
		}
		fmt.Printf("%-5d  %-20s  %-35s  %-25s  %-8d  %d\n",
			info.ID, info.CreatedAt.Format("2006-01-02 15:04"),
			employers, info.Request.Location, info.Records, info.DuplicatesRemoved)
	}
	fmt.Printf("\n%d runs\n", len(infos))
}

func init() {
	historyCmd.Flags().Int64("run", 0, "show one run in full")
	historyCmd.Flags().Bool("scores", false, "show the stored relevance ranking (with --run)")
	historyCmd.Flags().Int("limit", 20, "maximum runs to list (0 = all)")
	historyCmd.Flags().Duration("prune-seen", 0, "remove seen entries older than this, e.g. 720h")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(historyCmd)
}
