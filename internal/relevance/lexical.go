// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relevance scores collected job records against a user-supplied
// target. Two interchangeable modes exist: a lexical matcher with synonym
// expansion, and an AI scorer backed by an injectable model endpoint.
package relevance

import (
	"sort"
	"strings"

	fuzz "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/pdiddy/jobscout/pkg/types"
)

// Tiered lexical scores. A title containing the query verbatim outranks
// one containing every query token, which outranks one containing any
// single token. Synonym-expansion matches are capped below the weakest
// containment tier.
const (
	scorePhrase    = 100
	scoreAllTokens = 95
	scoreAnyToken  = 85
	fuzzyCeiling   = 84

	// substringBonus rewards an expansion term appearing literally in
	// the title on top of its similarity score.
	substringBonus = 10
)

// Keep thresholds. PrimaryThreshold applies first; when it leaves
// nothing, FallbackThreshold is tried before returning an empty set.
const (
	PrimaryThreshold  = 80
	FallbackThreshold = 70
)

// Lexical scores records against query and returns the survivors sorted
// by score descending. Ties keep their original relative order, so the
// ordering produced by collection and dedup carries through.
func Lexical(records []types.JobRecord, query string) []types.ScoredRecord {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	tokens := strings.Fields(query)
	expansion := expandQuery(query)

	scored := make([]types.ScoredRecord, 0, len(records))
	for _, r := range records {
		score, method := scoreTitle(strings.ToLower(r.Title), query, tokens, expansion)
		scored = append(scored, types.ScoredRecord{
			Record: r,
			Relevance: types.RelevanceScore{
				Score:      score,
				Confidence: types.ConfidenceHigh,
				Method:     method,
			},
		})
	}

	kept := keepAbove(scored, PrimaryThreshold)
	if len(kept) == 0 {
		kept = keepAbove(scored, FallbackThreshold)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Relevance.Score > kept[j].Relevance.Score
	})
	return kept
}

// scoreTitle applies the containment tiers and falls back to synonym
// expansion with fuzzy similarity.
func scoreTitle(title, query string, tokens, expansion []string) (int, types.MatchMethod) {
	if strings.Contains(title, query) {
		return scorePhrase, types.MethodExact
	}

	if len(tokens) > 1 && allContained(title, tokens) {
		return scoreAllTokens, types.MethodExact
	}

	if anyContained(title, tokens) {
		return scoreAnyToken, types.MethodExact
	}

	return fuzzyScore(title, expansion), types.MethodFuzzy
}

// fuzzyScore rates title against every expansion term with two
// complementary measures (a character-level ratio and a token-order-
// insensitive ratio), taking the larger per term and the best across
// terms, plus a flat bonus when any term appears literally in the title.
// The result never reaches the containment tiers.
func fuzzyScore(title string, expansion []string) int {
	best := 0
	contained := false
	for _, term := range expansion {
		s := fuzz.Ratio(term, title)
		if ts := fuzz.TokenSortRatio(term, title); ts > s {
			s = ts
		}
		if s > best {
			best = s
		}
		if strings.Contains(title, term) {
			contained = true
		}
	}
	if contained {
		best += substringBonus
	}
	if best > fuzzyCeiling {
		best = fuzzyCeiling
	}
	return best
}

func allContained(title string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(title, tok) {
			return false
		}
	}
	return true
}

func anyContained(title string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(title, tok) {
			return true
		}
	}
	return false
}

func keepAbove(scored []types.ScoredRecord, threshold int) []types.ScoredRecord {
	var kept []types.ScoredRecord
	for _, s := range scored {
		if s.Relevance.Score >= threshold {
			kept = append(kept, s)
		}
	}
	return kept
}
