// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedup merges job record batches using a stable identity key and
// a first-seen-wins policy.
//
// The policy is deliberately order dependent: the pipeline feeds records
// in window order (most recent first) within an employer and in request
// order across employers, so the retained copy of a duplicated posting is
// the freshest window's copy and, across employers, the earliest-processed
// employer's copy. This is a stated tie-break, not a quality judgment.
package dedup

import "github.com/pdiddy/jobscout/pkg/types"

// Dedupe scans records in order, keeps the first occurrence of each
// (listing URL, title) identity key, and discards the rest. It returns
// the surviving records in their original relative order and the number
// removed.
func Dedupe(records []types.JobRecord) ([]types.JobRecord, int) {
	seen := make(map[string]bool, len(records))
	deduped := make([]types.JobRecord, 0, len(records))
	removed := 0

	for _, r := range records {
		key := r.IdentityKey()
		if seen[key] {
			removed++
			continue
		}
		seen[key] = true
		deduped = append(deduped, r)
	}
	return deduped, removed
}

// Analysis summarizes duplication in a record set without removing
// anything. URLDuplicates counts records sharing a listing URL with at
// least one other record; TitleLocationDuplicates does the same for the
// (title, location) pair, which catches cross-listed postings with
// distinct URLs.
type Analysis struct {
	URLDuplicates           int
	TitleLocationDuplicates int
}

// Total returns the combined duplicate count.
func (a Analysis) Total() int {
	return a.URLDuplicates + a.TitleLocationDuplicates
}

// Rate returns the combined duplicate count as a percentage of n records.
func (a Analysis) Rate(n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(a.Total()) / float64(n) * 100
}

// Analyze reports duplication statistics over records.
func Analyze(records []types.JobRecord) Analysis {
	byURL := make(map[string]int)
	byTitleLoc := make(map[string]int)
	for _, r := range records {
		if r.ListingURL != "" {
			byURL[r.ListingURL]++
		}
		byTitleLoc[r.Title+"\x00"+r.Location]++
	}

	var a Analysis
	for _, n := range byURL {
		if n > 1 {
			a.URLDuplicates += n
		}
	}
	for _, n := range byTitleLoc {
		if n > 1 {
			a.TitleLocationDuplicates += n
		}
	}
	return a
}
