// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// EmployerReport summarizes collection for one employer within a run.
type EmployerReport struct {
	// Employer is the queried employer identifier.
	Employer string `json:"employer" yaml:"employer"`

	// Collected is the record count before deduplication.
	Collected int `json:"collected" yaml:"collected"`

	// Kept is the record count after within-employer deduplication.
	Kept int `json:"kept" yaml:"kept"`

	// WindowDuplicates is the number of records dropped by
	// within-employer deduplication.
	WindowDuplicates int `json:"window_duplicates" yaml:"window_duplicates"`

	// Saturated reports whether windowed collection ran for this
	// employer.
	Saturated bool `json:"saturated" yaml:"saturated"`

	// WindowsQueried is the number of window queries issued, zero when
	// a single query sufficed.
	WindowsQueried int `json:"windows_queried" yaml:"windows_queried"`

	// Accuracy is the percentage of kept records whose company name
	// contains the queried employer.
	Accuracy float64 `json:"accuracy" yaml:"accuracy"`

	// WindowErrors lists isolated window failures.
	WindowErrors []WindowError `json:"window_errors,omitempty" yaml:"window_errors,omitempty"`

	// Failure carries the error text when the employer's collection
	// failed outright. Empty on success.
	Failure string `json:"failure,omitempty" yaml:"failure,omitempty"`
}

// Failed reports whether the employer contributed no records because its
// initial query errored.
func (r EmployerReport) Failed() bool {
	return r.Failure != ""
}

// Outcome classifies the end state of a run.
type Outcome string

const (
	// OutcomeFound means the final record set is non-empty.
	OutcomeFound Outcome = "found"

	// OutcomeNoResults means every employer was collected successfully
	// but the merged set is empty.
	OutcomeNoResults Outcome = "no_results"

	// OutcomeEmployerFailures means the merged set is empty and at
	// least one employer failed, so emptiness may reflect source
	// unavailability rather than a true absence of postings.
	OutcomeEmployerFailures Outcome = "employer_failures"
)

// RunResult is the full outcome of one pipeline run.
type RunResult struct {
	// Request is the request that produced this result.
	Request SearchRequest `json:"request" yaml:"request"`

	// Records is the merged, deduplicated record set, newest first.
	Records []JobRecord `json:"records" yaml:"records"`

	// Reports holds one entry per requested employer, in request order.
	Reports []EmployerReport `json:"reports" yaml:"reports"`

	// DuplicatesRemoved counts records dropped by cross-employer
	// deduplication.
	DuplicatesRemoved int `json:"duplicates_removed" yaml:"duplicates_removed"`
}

// Outcome distinguishes an empty result caused by employer failures from
// a genuinely empty match set.
func (r RunResult) Outcome() Outcome {
	if len(r.Records) > 0 {
		return OutcomeFound
	}
	for _, rep := range r.Reports {
		if rep.Failed() {
			return OutcomeEmployerFailures
		}
	}
	return OutcomeNoResults
}
