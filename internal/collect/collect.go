// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collect fetches the complete set of postings for an employer
// from an upstream source that caps each query at a fixed result count.
//
// A single query that returns close to the cap is presumed truncated.
// In that case the collector re-queries the employer once per recency
// window from the window schedule, accepting overlapping result sets and
// leaving duplicate removal to the dedup stage.
package collect

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/jobscout/internal/window"
	"github.com/pdiddy/jobscout/pkg/types"
)

// Scraper issues a single bounded query against the upstream source. It
// is the injection point for the real Indeed backend and for test mocks.
//
// maxAgeHours is the upstream "at most N hours old" recency filter; zero
// means no recency filter. Implementations must never return more than
// cap records, and must report failure only by returning an error.
type Scraper interface {
	Name() string
	Scrape(ctx context.Context, employer, location string, maxAgeHours, cap int) ([]types.JobRecord, error)
}

// saturationPercent is the fraction of the cap at which a single query's
// result set is presumed truncated. Observed upstream behavior: a query
// capped at 1000 that returns 950+ records almost always hides more.
const saturationPercent = 95

// saturated reports whether got results against cap trip the threshold.
func saturated(got, cap int) bool {
	if cap <= 0 {
		return false
	}
	return got*100 >= cap*saturationPercent
}

// Collector runs exhaustive collection for single employers.
type Collector struct {
	Scraper Scraper

	// InterQueryDelay is the pause between consecutive window queries.
	InterQueryDelay time.Duration
}

// Collect fetches all postings for one employer. It first issues a probe
// query with the caller's recency bound; if the result count stays under
// the saturation threshold the probe batch is final. Otherwise it walks
// the full window schedule, querying each window by its end bound and
// recording per-window failures without aborting the remaining windows.
//
// If every window fails or returns nothing, the probe batch is used so
// the employer is not silently dropped. An error is returned only when
// the probe itself fails; that is an employer-level failure the caller
// reports and recovers from.
func (c *Collector) Collect(ctx context.Context, employer, location string, recencyHours, cap int, w io.Writer) (types.CollectionResult, error) {
	probe, err := c.Scraper.Scrape(ctx, employer, location, recencyHours, cap)
	if err != nil {
		return types.CollectionResult{}, fmt.Errorf("querying %s: %w", employer, err)
	}

	if !saturated(len(probe), cap) {
		return types.CollectionResult{
			Records: tag(probe, employer, ""),
		}, nil
	}

	fmt.Fprintf(w, "%s returned %d of %d results, collecting by recency window\n", employer, len(probe), cap)

	result := types.CollectionResult{
		Saturated:   true,
		WindowsUsed: window.Schedule(),
	}

	for i, win := range result.WindowsUsed {
		if err := ctx.Err(); err != nil {
			return types.CollectionResult{}, err
		}
		if i > 0 && c.InterQueryDelay > 0 {
			time.Sleep(c.InterQueryDelay)
		}

		maxAge := 0
		if win.EndHours != nil {
			maxAge = *win.EndHours
		}

		batch, err := c.Scraper.Scrape(ctx, employer, location, maxAge, cap)
		if err != nil {
			result.Errors = append(result.Errors, types.WindowError{
				Window:  win.Label,
				Message: err.Error(),
			})
			fmt.Fprintf(w, "warning: %s window %q failed: %v\n", employer, win.Label, err)
			continue
		}

		fmt.Fprintf(w, "  %s: %d results\n", win.Label, len(batch))
		result.Records = append(result.Records, tag(batch, employer, win.Label)...)
	}

	// Windowed collection can come up empty when the source is flaky.
	// Fall back to the probe batch rather than dropping the employer.
	if len(result.Records) == 0 {
		fmt.Fprintf(w, "warning: windowed collection for %s yielded nothing, keeping initial batch\n", employer)
		result.Records = tag(probe, employer, "")
	}

	return result, nil
}

// tag attaches collection provenance to a batch.
func tag(records []types.JobRecord, employer, windowLabel string) []types.JobRecord {
	out := make([]types.JobRecord, len(records))
	for i, r := range records {
		r.SourceEmployer = employer
		r.WindowLabel = windowLabel
		out[i] = r
	}
	return out
}

// Accuracy returns the fraction, as a percentage, of records whose
// reported company name contains the queried employer identifier. Low
// accuracy usually means the upstream company filter matched a staffing
// agency or an unrelated employer.
func Accuracy(records []types.JobRecord, employer string) float64 {
	if len(records) == 0 {
		return 0
	}
	matched := 0
	needle := strings.ToLower(employer)
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Company), needle) {
			matched++
		}
	}
	return float64(matched) / float64(len(records)) * 100
}
