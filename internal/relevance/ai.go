// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/jobscout/pkg/types"
)

// ScoreBackend abstracts the model endpoint so the parsing and fallback
// logic can be unit-tested without a live model. Implementations take a
// rendered prompt and return the model's free-text reply.
type ScoreBackend interface {
	Score(ctx context.Context, prompt string) (string, error)
}

// DefaultMinScore is the keep threshold applied when the caller passes
// zero.
const DefaultMinScore = 50

// Response field patterns. The model is instructed to reply with exactly
// three lines; arbitrary free text around them still parses as long as
// all three fields appear.
var (
	scoreRe      = regexp.MustCompile(`SCORE:\s*(\d+)`)
	confidenceRe = regexp.MustCompile(`CONFIDENCE:\s*(HIGH|MEDIUM|LOW)`)
	reasoningRe  = regexp.MustCompile(`(?s)REASONING:\s*(.+)`)

	// firstNumberRe recovers a score from a reply that ignored the
	// format entirely.
	firstNumberRe = regexp.MustCompile(`\d+`)
)

// ScoreSummary counts per-record outcomes of one scoring pass.
type ScoreSummary struct {
	// Scored is the number of records that produced a usable score,
	// structured or fallback.
	Scored int

	// Kept is the number of scored records at or above the threshold.
	Kept int

	// Fallbacks is the number of scores recovered by numeric fallback.
	Fallbacks int

	// Failed is the number of records skipped because the model call
	// errored or the reply contained no number at all.
	Failed int
}

// ScoreAI scores every record against the target description and returns
// the records meeting minScore, sorted by score descending (ties keep
// input order). It is a pure function of its inputs: identical records,
// target, and backend replies produce identical output, so callers may
// memoize across invocations.
//
// Failures are isolated per record: a model error or an unparseable
// reply skips that record and scoring continues. Progress and warnings
// go to w.
func ScoreAI(ctx context.Context, backend ScoreBackend, records []types.JobRecord, target string, minScore int, w io.Writer) ([]types.ScoredRecord, ScoreSummary) {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	if w == nil {
		w = io.Discard
	}

	var kept []types.ScoredRecord
	var summary ScoreSummary

	for _, r := range records {
		prompt, err := buildPrompt(r, target)
		if err != nil {
			fmt.Fprintf(w, "warning: %s: building prompt: %v\n", r.Title, err)
			summary.Failed++
			continue
		}

		reply, err := backend.Score(ctx, prompt)
		if err != nil {
			fmt.Fprintf(w, "warning: %s: model call failed: %v\n", r.Title, err)
			summary.Failed++
			continue
		}

		rel, ok := parseStructured(reply)
		if !ok {
			rel, ok = parseFallback(reply)
			if !ok {
				fmt.Fprintf(w, "warning: %s: no score in model reply\n", r.Title)
				summary.Failed++
				continue
			}
			summary.Fallbacks++
			fmt.Fprintf(w, "%s: fallback parse, score %d\n", r.Title, rel.Score)
		} else {
			fmt.Fprintf(w, "%s: score %d (%s)\n", r.Title, rel.Score, rel.Confidence)
		}

		summary.Scored++
		if rel.Score >= minScore {
			summary.Kept++
			kept = append(kept, types.ScoredRecord{Record: r, Relevance: rel})
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Relevance.Score > kept[j].Relevance.Score
	})
	return kept, summary
}

// parseStructured matches the three expected fields. All three must be
// present for the reply to count as structured.
func parseStructured(reply string) (types.RelevanceScore, bool) {
	sm := scoreRe.FindStringSubmatch(reply)
	cm := confidenceRe.FindStringSubmatch(reply)
	rm := reasoningRe.FindStringSubmatch(reply)
	if sm == nil || cm == nil || rm == nil {
		return types.RelevanceScore{}, false
	}

	score, err := strconv.Atoi(sm[1])
	if err != nil || score < 0 || score > 100 {
		return types.RelevanceScore{}, false
	}

	return types.RelevanceScore{
		Score:      score,
		Confidence: types.Confidence(cm[1]),
		Reasoning:  trimReasoning(rm[1]),
		Method:     types.MethodAI,
	}, true
}

// parseFallback extracts the first standalone number as the score,
// clamped to 0-100, with confidence fixed to LOW.
func parseFallback(reply string) (types.RelevanceScore, bool) {
	m := firstNumberRe.FindString(reply)
	if m == "" {
		return types.RelevanceScore{}, false
	}
	score, err := strconv.Atoi(m)
	if err != nil {
		return types.RelevanceScore{}, false
	}
	if score > 100 {
		score = 100
	}

	return types.RelevanceScore{
		Score:      score,
		Confidence: types.ConfidenceLow,
		Reasoning:  "fallback parsing used",
		Method:     types.MethodAIFallback,
	}, true
}

func trimReasoning(s string) string {
	const max = 500
	s = strings.TrimSpace(s)
	if len(s) > max {
		s = s[:max]
	}
	return s
}
