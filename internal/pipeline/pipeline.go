// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates multi-employer collection: per-employer
// exhaustive collection, within-employer and cross-employer
// deduplication, and per-employer reporting.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/pdiddy/jobscout/internal/collect"
	"github.com/pdiddy/jobscout/internal/dedup"
	"github.com/pdiddy/jobscout/pkg/types"
)

// Run collects every employer in the request, one at a time in request
// order. An employer whose collection fails is reported and skipped; the
// remaining employers still run. Employer order decides which copy of a
// cross-listed posting survives the final deduplication pass. The merged
// set is sorted newest first. Progress and warnings go to w.
//
// A malformed request returns an error before any query is issued.
func Run(ctx context.Context, c *collect.Collector, req types.SearchRequest, w io.Writer) (types.RunResult, error) {
	if err := req.Validate(); err != nil {
		return types.RunResult{}, err
	}
	if w == nil {
		w = io.Discard
	}

	result := types.RunResult{Request: req}
	var merged []types.JobRecord

	for _, employer := range req.Employers {
		if err := ctx.Err(); err != nil {
			return types.RunResult{}, err
		}

		fmt.Fprintf(w, "collecting %s...\n", employer)
		cr, err := c.Collect(ctx, employer, req.Location, req.RecencyHours, req.Cap(), w)
		if err != nil {
			if ctx.Err() != nil {
				return types.RunResult{}, err
			}
			fmt.Fprintf(w, "warning: %s: %v\n", employer, err)
			result.Reports = append(result.Reports, types.EmployerReport{
				Employer: employer,
				Failure:  err.Error(),
			})
			continue
		}

		kept, removed := dedup.Dedupe(cr.Records)
		result.Reports = append(result.Reports, types.EmployerReport{
			Employer:         employer,
			Collected:        len(cr.Records),
			Kept:             len(kept),
			WindowDuplicates: removed,
			Saturated:        cr.Saturated,
			WindowsQueried:   len(cr.WindowsUsed),
			Accuracy:         collect.Accuracy(kept, employer),
			WindowErrors:     cr.Errors,
		})
		merged = append(merged, kept...)
	}

	final, removed := dedup.Dedupe(merged)
	result.DuplicatesRemoved = removed

	sort.SliceStable(final, func(i, j int) bool {
		return final[i].DatePosted.After(final[j].DatePosted)
	})
	result.Records = final

	return result, nil
}
