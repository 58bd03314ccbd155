// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/jobscout/internal/dedup"
	"github.com/pdiddy/jobscout/internal/export"
	"github.com/pdiddy/jobscout/internal/pipeline"
	"github.com/pdiddy/jobscout/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Collect and deduplicate job postings for one or more employers",
	Long: `Search queries the upstream source once per employer. When a query returns
close to the per-query cap, the employer's postings are re-collected across a
schedule of recency windows and merged, so the cap does not silently truncate
the result set. Records are deduplicated by (listing URL, title) within each
employer and then across employers; the first-processed employer keeps the
surviving copy of a cross-listed posting.

The run is saved to the history database unless --no-save is given; the
printed run id can be passed to score and export.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	employers, _ := cmd.Flags().GetStringSlice("employers")
	location, _ := cmd.Flags().GetString("location")
	recency, _ := cmd.Flags().GetInt("recency-hours")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	csvOutput, _ := cmd.Flags().GetBool("csv")
	noSave, _ := cmd.Flags().GetBool("no-save")

	cfg := loadConfig()
	req := types.SearchRequest{
		Employers:    employers,
		Location:     location,
		RecencyHours: recency,
		ResultCap:    cfg.Scrape.ResultCap,
	}

	ctx := context.Background()
	if t := parseRunTimeout(cmd); t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	result, err := pipeline.Run(ctx, newCollector(cfg.Scrape), req, os.Stderr)
	if err != nil {
		return err
	}

	if !noSave {
		s, err := openStore(cfg.Store)
		if err != nil {
			return err
		}
		defer s.Close()
		id, newListings, err := s.SaveRun(ctx, result)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved run %d (%d listings not seen before)\n", id, newListings)
	}

	if csvOutput {
		path, err := export.WriteCSV(result, cfg.Export.Dir, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	}

	if jsonOutput {
		return export.FormatJSON(result, os.Stdout)
	}
	export.FormatTable(result, os.Stdout)

	if analyze, _ := cmd.Flags().GetBool("analyze"); analyze {
		a := dedup.Analyze(result.Records)
		fmt.Printf("\nResidual duplication: %d same-URL records, %d same title+location records (%.1f%%)\n",
			a.URLDuplicates, a.TitleLocationDuplicates, a.Rate(len(result.Records)))
	}

	if result.Outcome() == types.OutcomeEmployerFailures {
		return fmt.Errorf("no results: all contributing employers failed")
	}
	return nil
}

func init() {
	searchCmd.Flags().StringSlice("employers", nil, "employer identifiers to query (comma-separated)")
	searchCmd.Flags().String("location", "", "location filter, e.g. \"Austin, TX\"")
	searchCmd.Flags().Int("recency-hours", 0, "only postings at most this many hours old (0 = no limit)")
	searchCmd.Flags().Duration("timeout", 0, "overall deadline for the run (0 = none)")
	searchCmd.Flags().Bool("json", false, "output the full result as JSON")
	searchCmd.Flags().Bool("csv", false, "also write a CSV export")
	searchCmd.Flags().Bool("analyze", false, "print residual duplication statistics")
	searchCmd.Flags().Bool("no-save", false, "do not record the run in the history database")

	rootCmd.AddCommand(searchCmd)
}
