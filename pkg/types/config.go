package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "jobscout/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScrapeConfig holds settings for the collection stage.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline"`

	// ResultCap is the per-query result limit the upstream source
	// enforces (default 1000).
	ResultCap int `json:"result_cap" yaml:"result_cap"`

	// Country is the upstream country code (default "US").
	Country string `json:"country" yaml:"country"`

	// RadiusMiles is the location search radius (default 50).
	RadiusMiles int `json:"radius_miles" yaml:"radius_miles"`

	// InterQueryDelay is the pause between consecutive upstream queries.
	// The source is rate sensitive; queries are never issued concurrently.
	InterQueryDelay time.Duration `json:"inter_query_delay" yaml:"inter_query_delay"`
}

// AIConfig holds settings for the AI relevance scoring stage.
type AIConfig struct {
	HTTPConfig `yaml:",inline"`

	// Model is the scoring model identifier (default "gpt-4.1-nano").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the scoring API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MinScore is the default keep threshold for AI-scored records
	// (default 50).
	MinScore int `json:"min_score" yaml:"min_score"`
}

// StoreConfig holds settings for the run history store.
type StoreConfig struct {
	// Path is the SQLite database file (default "jobscout.db").
	Path string `json:"path" yaml:"path"`
}

// ExportConfig holds settings for CSV and report output.
type ExportConfig struct {
	// Dir is the directory CSV exports are written to (default "exports").
	Dir string `json:"dir" yaml:"dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Scrape ScrapeConfig `json:"scrape" yaml:"scrape"`
	AI     AIConfig     `json:"ai" yaml:"ai"`
	Store  StoreConfig  `json:"store" yaml:"store"`
	Export ExportConfig `json:"export" yaml:"export"`
}
