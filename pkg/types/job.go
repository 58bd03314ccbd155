// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the jobscout pipeline:
// job records collected from the upstream source, search requests, recency
// windows, collection results, and relevance scores.
package types

import "time"

// JobRecord is a single job posting as collected from the upstream source.
// Records are created only by the collector and never mutated afterwards;
// SourceEmployer and WindowLabel are provenance fields the collector
// attaches, not upstream data.
type JobRecord struct {
	// Title is the posting title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Company is the company name the source reports for the posting.
	// This can differ from SourceEmployer when the source returns
	// postings from subsidiaries or staffing agencies.
	Company string `json:"company" yaml:"company"`

	// Location is the formatted posting location.
	Location string `json:"location" yaml:"location"`

	// DatePosted is the posting date. Zero when the source omits it.
	DatePosted time.Time `json:"date_posted" yaml:"date_posted"`

	// CompensationMin and CompensationMax bound the advertised salary.
	// Zero when the posting carries no compensation data.
	CompensationMin float64 `json:"compensation_min,omitempty" yaml:"compensation_min,omitempty"`
	CompensationMax float64 `json:"compensation_max,omitempty" yaml:"compensation_max,omitempty"`

	// CompensationCurrency is the ISO currency code for the salary range.
	CompensationCurrency string `json:"compensation_currency,omitempty" yaml:"compensation_currency,omitempty"`

	// Description is the posting body, plain text or HTML as the source
	// returns it.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// DirectURL is the employer-side application link, when available.
	DirectURL string `json:"direct_url,omitempty" yaml:"direct_url,omitempty"`

	// ListingURL is the posting's canonical URL on the source. Together
	// with Title it forms the record's dedup identity.
	ListingURL string `json:"listing_url" yaml:"listing_url"`

	// JobType is the employment type label (e.g. "fulltime").
	JobType string `json:"job_type,omitempty" yaml:"job_type,omitempty"`

	// SourceEmployer is the employer identifier the collector was asked
	// to query when it fetched this record.
	SourceEmployer string `json:"source_employer" yaml:"source_employer"`

	// WindowLabel names the recency window the record was fetched in.
	// Empty for records from a single unsaturated query.
	WindowLabel string `json:"window_label,omitempty" yaml:"window_label,omitempty"`
}

// IdentityKey returns the dedup identity for the record: the
// (ListingURL, Title) pair. Two records sharing this key are treated as
// the same posting.
func (r JobRecord) IdentityKey() string {
	return r.ListingURL + "\x00" + r.Title
}

// Confidence is the model's self-reported confidence tier for an AI score.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// MatchMethod records which matching strategy produced a relevance score,
// for auditability.
type MatchMethod string

const (
	// MethodExact marks lexical containment matches (phrase or token).
	MethodExact MatchMethod = "exact"

	// MethodFuzzy marks synonym-expansion similarity matches.
	MethodFuzzy MatchMethod = "fuzzy"

	// MethodAI marks scores parsed from a structured model response.
	MethodAI MatchMethod = "ai"

	// MethodAIFallback marks scores recovered from a malformed model
	// response by extracting the first standalone number.
	MethodAIFallback MatchMethod = "ai_fallback"
)

// RelevanceScore is an annotation attached to a record by the relevance
// engine. It never modifies the underlying record.
type RelevanceScore struct {
	// Score is the relevance value, 0-100.
	Score int `json:"score" yaml:"score"`

	// Confidence is HIGH, MEDIUM, or LOW. Lexical matches always report
	// HIGH; AI fallback parsing always reports LOW.
	Confidence Confidence `json:"confidence" yaml:"confidence"`

	// Reasoning is a short free-text justification. Empty for lexical
	// matches.
	Reasoning string `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`

	// Method identifies the strategy that produced the score.
	Method MatchMethod `json:"method" yaml:"method"`
}

// ScoredRecord pairs a collected record with its relevance annotation.
type ScoredRecord struct {
	Record    JobRecord      `json:"record" yaml:"record"`
	Relevance RelevanceScore `json:"relevance" yaml:"relevance"`
}
