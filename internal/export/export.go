// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders run results for humans and files: console
// tables, indented JSON, CSV downloads, and YAML report files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/jobscout/pkg/types"
)

// FormatTable writes the merged record set as a human-readable table,
// followed by per-employer summary lines.
func FormatTable(result types.RunResult, w io.Writer) {
	if len(result.Records) == 0 {
		switch result.Outcome() {
		case types.OutcomeEmployerFailures:
			fmt.Fprintln(w, "No results; some employers failed.")
		default:
			fmt.Fprintln(w, "No results found.")
		}
		formatReports(result, w)
		return
	}

	fmt.Fprintf(w, "%-4s  %-45s  %-25s  %-25s  %-10s  %s\n",
		"#", "Title", "Company", "Location", "Posted", "Window")
	fmt.Fprintln(w, strings.Repeat("-", 125))

	for i, r := range result.Records {
		posted := ""
		if !r.DatePosted.IsZero() {
			posted = r.DatePosted.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%-4d  %-45s  %-25s  %-25s  %-10s  %s\n",
			i+1, truncate(r.Title, 45), truncate(r.Company, 25),
			truncate(r.Location, 25), posted, r.WindowLabel)
	}

	fmt.Fprintf(w, "\n%d records", len(result.Records))
	if result.DuplicatesRemoved > 0 {
		fmt.Fprintf(w, " (%d cross-employer duplicates removed)", result.DuplicatesRemoved)
	}
	fmt.Fprintln(w)
	formatReports(result, w)
}

// FormatScoredTable writes relevance-ranked records with their scores.
func FormatScoredTable(scored []types.ScoredRecord, w io.Writer) {
	if len(scored) == 0 {
		fmt.Fprintln(w, "No relevant records.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-5s  %-6s  %-11s  %-45s  %s\n",
		"#", "Score", "Conf", "Method", "Title", "Company")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, s := range scored {
		fmt.Fprintf(w, "%-4d  %-5d  %-6s  %-11s  %-45s  %s\n",
			i+1, s.Relevance.Score, s.Relevance.Confidence, s.Relevance.Method,
			truncate(s.Record.Title, 45), truncate(s.Record.Company, 30))
	}
	fmt.Fprintf(w, "\n%d records kept\n", len(scored))
}

func formatReports(result types.RunResult, w io.Writer) {
	for _, rep := range result.Reports {
		if rep.Failed() {
			fmt.Fprintf(w, "%s: failed: %s\n", rep.Employer, rep.Failure)
			continue
		}
		fmt.Fprintf(w, "%s: %d collected, %d kept", rep.Employer, rep.Collected, rep.Kept)
		if rep.Saturated {
			fmt.Fprintf(w, ", saturated (%d windows)", rep.WindowsQueried)
		}
		fmt.Fprintf(w, ", %.0f%% company accuracy", rep.Accuracy)
		if len(rep.WindowErrors) > 0 {
			fmt.Fprintf(w, ", %d window failures", len(rep.WindowErrors))
		}
		fmt.Fprintln(w)
	}
}

// FormatJSON writes v as indented JSON to w.
func FormatJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// csvHeader is the CSV column set, matching the table view plus the URL
// and compensation fields that do not fit a console.
var csvHeader = []string{
	"title", "company", "location", "date_posted",
	"compensation_min", "compensation_max", "compensation_currency",
	"job_type", "listing_url", "direct_url", "source_employer", "window",
}

// WriteCSV writes the record set to dir using the
// <employers>_<location>_<timestamp>.csv naming convention and returns
// the file path.
func WriteCSV(result types.RunResult, dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s_%s.csv",
		sanitize(strings.Join(result.Request.Employers, "_")),
		sanitize(result.Request.Location),
		now.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating CSV file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(csvHeader); err != nil {
		return "", fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range result.Records {
		posted := ""
		if !r.DatePosted.IsZero() {
			posted = r.DatePosted.Format(time.RFC3339)
		}
		row := []string{
			r.Title, r.Company, r.Location, posted,
			formatAmount(r.CompensationMin), formatAmount(r.CompensationMax),
			r.CompensationCurrency, r.JobType, r.ListingURL, r.DirectURL,
			r.SourceEmployer, r.WindowLabel,
		}
		if err := cw.Write(row); err != nil {
			return "", fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flushing CSV: %w", err)
	}
	return path, nil
}

// WriteYAMLReport writes the full run result, reports included, as a
// YAML file next to the CSV exports and returns the file path.
func WriteYAMLReport(result types.RunResult, dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	name := fmt.Sprintf("report_%s.yaml", now.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	data, err := yaml.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing YAML report: %w", err)
	}
	return path, nil
}

// sanitize replaces filesystem-hostile characters in a filename
// component.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	replacer := strings.NewReplacer(
		" ", "_", ",", "", "/", "-", "\\", "-", ":", "-",
	)
	return replacer.Replace(s)
}

func formatAmount(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
