// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// SearchRequest describes one multi-employer collection run. Employer
// order is significant: it fixes both reporting order and which copy of a
// cross-listed posting survives deduplication.
type SearchRequest struct {
	// Employers is the ordered list of employer identifiers to query.
	Employers []string `json:"employers" yaml:"employers"`

	// Location is the location filter passed to the upstream source.
	Location string `json:"location" yaml:"location"`

	// RecencyHours bounds posting age for the initial query. Zero means
	// no recency filter.
	RecencyHours int `json:"recency_hours,omitempty" yaml:"recency_hours,omitempty"`

	// ResultCap is the per-query result limit the upstream source
	// enforces. Zero selects the default (1000).
	ResultCap int `json:"result_cap,omitempty" yaml:"result_cap,omitempty"`
}

// DefaultResultCap is the upstream source's per-query limit.
const DefaultResultCap = 1000

// Cap returns the effective per-query result limit.
func (r SearchRequest) Cap() int {
	if r.ResultCap > 0 {
		return r.ResultCap
	}
	return DefaultResultCap
}

// Validate checks the request invariants: a non-empty employer list with
// no blank entries, and a non-empty location.
func (r SearchRequest) Validate() error {
	if len(r.Employers) == 0 {
		return fmt.Errorf("invalid request: no employers given")
	}
	for i, e := range r.Employers {
		if e == "" {
			return fmt.Errorf("invalid request: employer %d is empty", i)
		}
	}
	if r.Location == "" {
		return fmt.Errorf("invalid request: location is empty")
	}
	if r.ResultCap < 0 {
		return fmt.Errorf("invalid request: negative result cap %d", r.ResultCap)
	}
	return nil
}

// TimeWindow is a recency band used to re-query an employer whose result
// set exceeds the upstream cap. StartHours and EndHours are posting-age
// bounds in hours; nil means unbounded on that side. The upstream source
// only accepts an upper bound, so window queries filter by EndHours alone
// and rely on dedup to discard the resulting overlap.
type TimeWindow struct {
	// StartHours is the exclusive lower age bound, nil for the first
	// (most recent) window.
	StartHours *int `json:"start_hours,omitempty" yaml:"start_hours,omitempty"`

	// EndHours is the inclusive upper age bound, nil for the final
	// open-ended window.
	EndHours *int `json:"end_hours,omitempty" yaml:"end_hours,omitempty"`

	// Label is a human-readable window name attached to collected
	// records as provenance.
	Label string `json:"label" yaml:"label"`
}

// WindowError records a single window query failure during windowed
// collection. Failures are isolated: one window's error never aborts the
// remaining windows.
type WindowError struct {
	// Window is the label of the window whose query failed.
	Window string `json:"window" yaml:"window"`

	// Message is the error text.
	Message string `json:"message" yaml:"message"`
}

// CollectionResult is the outcome of collecting one employer.
type CollectionResult struct {
	// Records are the collected postings, tagged with provenance. For a
	// saturated employer this is the concatenation of all window batches
	// in schedule order, before deduplication.
	Records []JobRecord `json:"records" yaml:"records"`

	// Saturated reports whether the initial probe hit the saturation
	// threshold and windowed collection ran.
	Saturated bool `json:"saturated" yaml:"saturated"`

	// WindowsUsed lists the windows queried, in order. Empty when a
	// single unsaturated query sufficed.
	WindowsUsed []TimeWindow `json:"windows_used,omitempty" yaml:"windows_used,omitempty"`

	// Errors lists per-window failures. A window that failed contributes
	// no records but does not invalidate the rest.
	Errors []WindowError `json:"errors,omitempty" yaml:"errors,omitempty"`
}
