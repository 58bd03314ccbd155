// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/jobscout/internal/export"
	"github.com/pdiddy/jobscout/internal/relevance"
	"github.com/pdiddy/jobscout/pkg/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Rank a stored run's records against a relevance target",
	Long: `Score loads a run from the history database and ranks its records
against a target description. Lexical mode matches titles with tiered
substring containment plus synonym expansion; AI mode sends each record to
the scoring model and parses a structured score, falling back to the first
number in the reply when the model ignores the format.

Scores are stored with the run, so re-running export or history on the same
run shows them without rescoring.`,
	RunE: runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	runID, _ := cmd.Flags().GetInt64("run")
	target, _ := cmd.Flags().GetString("target")
	mode, _ := cmd.Flags().GetString("mode")
	minScore, _ := cmd.Flags().GetInt("min-score")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if runID == 0 {
		return fmt.Errorf("--run is required: run `jobscout history` to list stored runs")
	}
	if target == "" {
		return fmt.Errorf("--target is required, e.g. --target \"software engineer\"")
	}

	cfg := loadConfig()
	s, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	if t := parseRunTimeout(cmd); t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	result, err := s.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if len(result.Records) == 0 {
		fmt.Println("Run has no records to score.")
		return nil
	}

	if minScore == 0 {
		minScore = cfg.AI.MinScore
	}

	var scored []types.ScoredRecord
	switch mode {
	case "lexical":
		scored = relevance.Lexical(result.Records, target)
	case "ai":
		apiKey := cfg.AI.APIKey
		if apiKey == "" {
			return fmt.Errorf("AI scoring requires an API key: add .secrets/openai-api-key or set ai.api_key")
		}
		backend := &relevance.OpenAIBackend{
			APIKey: apiKey,
			Model:  cfg.AI.Model,
			Client: &http.Client{Timeout: cfg.AI.Timeout},
		}
		kept, summary := relevance.ScoreAI(ctx, backend, result.Records, target, minScore, os.Stderr)
		fmt.Fprintf(os.Stderr, "scored %d, kept %d, fallbacks %d, failed %d\n",
			summary.Scored, summary.Kept, summary.Fallbacks, summary.Failed)
		scored = kept
	default:
		return fmt.Errorf("unsupported mode %q: use lexical or ai", mode)
	}

	if err := s.SaveScores(ctx, runID, scored); err != nil {
		return err
	}

	if jsonOutput {
		return export.FormatJSON(scored, os.Stdout)
	}
	export.FormatScoredTable(scored, os.Stdout)
	return nil
}

func init() {
	scoreCmd.Flags().Int64("run", 0, "run id from the history database")
	scoreCmd.Flags().String("target", "", "relevance target, e.g. \"software engineer\"")
	scoreCmd.Flags().String("mode", "lexical", "scoring mode: lexical or ai")
	scoreCmd.Flags().Int("min-score", 0, "keep threshold for AI scoring (default from config)")
	scoreCmd.Flags().Duration("timeout", 0, "overall deadline for scoring (0 = none)")
	scoreCmd.Flags().Bool("json", false, "output scored records as JSON")

	rootCmd.AddCommand(scoreCmd)
}
