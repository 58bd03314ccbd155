// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/jobscout/internal/collect"
	"github.com/pdiddy/jobscout/pkg/types"
)

// stubScraper serves canned batches per employer.
type stubScraper struct {
	batches map[string][]types.JobRecord
	errs    map[string]error
	calls   []string
}

func (s *stubScraper) Name() string { return "stub" }

func (s *stubScraper) Scrape(_ context.Context, employer, _ string, _, _ int) ([]types.JobRecord, error) {
	s.calls = append(s.calls, employer)
	if err := s.errs[employer]; err != nil {
		return nil, err
	}
	return s.batches[employer], nil
}

func record(title, url string, age time.Duration) types.JobRecord {
	return types.JobRecord{
		Title:      title,
		Company:    "Acme Corp",
		ListingURL: url,
		DatePosted: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).Add(-age),
	}
}

func request(employers ...string) types.SearchRequest {
	return types.SearchRequest{Employers: employers, Location: "Austin, TX"}
}

func TestRunValidationFailure(t *testing.T) {
	scraper := &stubScraper{}
	c := &collect.Collector{Scraper: scraper}

	_, err := Run(context.Background(), c, types.SearchRequest{Location: "Austin, TX"}, nil)
	if err == nil {
		t.Fatal("expected validation error for empty employer list")
	}
	if len(scraper.calls) != 0 {
		t.Errorf("no queries should run on a malformed request, got %d", len(scraper.calls))
	}
}

func TestRunCrossEmployerDedup(t *testing.T) {
	shared := record("Software Engineer", "https://x/shared", time.Hour)
	scraper := &stubScraper{batches: map[string][]types.JobRecord{
		"Acme":   {shared, record("Platform Engineer", "https://x/1", 2*time.Hour)},
		"Globex": {shared, record("Data Engineer", "https://x/2", 3*time.Hour)},
	}}
	c := &collect.Collector{Scraper: scraper}

	result, err := Run(context.Background(), c, request("Acme", "Globex"), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Records) != 3 {
		t.Fatalf("len(Records) = %d, want 3", len(result.Records))
	}
	if result.DuplicatesRemoved != 1 {
		t.Errorf("DuplicatesRemoved = %d, want 1", result.DuplicatesRemoved)
	}
	for _, r := range result.Records {
		if r.ListingURL == "https://x/shared" && r.SourceEmployer != "Acme" {
			t.Errorf("shared listing attributed to %q, want first-processed Acme", r.SourceEmployer)
		}
	}
	if result.Outcome() != types.OutcomeFound {
		t.Errorf("Outcome = %q, want found", result.Outcome())
	}
}

func TestRunReportsPerEmployer(t *testing.T) {
	dup := record("Software Engineer", "https://x/dup", time.Hour)
	scraper := &stubScraper{batches: map[string][]types.JobRecord{
		"Acme": {dup, dup, record("Platform Engineer", "https://x/1", 2*time.Hour)},
	}}
	c := &collect.Collector{Scraper: scraper}

	result, err := Run(context.Background(), c, request("Acme"), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Reports) != 1 {
		t.Fatalf("len(Reports) = %d, want 1", len(result.Reports))
	}
	rep := result.Reports[0]
	if rep.Employer != "Acme" || rep.Collected != 3 || rep.Kept != 2 || rep.WindowDuplicates != 1 {
		t.Errorf("report = %+v", rep)
	}
	if rep.Accuracy != 100 {
		t.Errorf("Accuracy = %v, want 100", rep.Accuracy)
	}
	// Within-employer duplicates never count toward the global number.
	if result.DuplicatesRemoved != 0 {
		t.Errorf("DuplicatesRemoved = %d, want 0", result.DuplicatesRemoved)
	}
}

func TestRunEmployerFailureIsolated(t *testing.T) {
	scraper := &stubScraper{
		batches: map[string][]types.JobRecord{
			"Globex": {record("Software Engineer", "https://x/1", time.Hour)},
		},
		errs: map[string]error{"Acme": errors.New("connection refused")},
	}
	c := &collect.Collector{Scraper: scraper}

	var out bytes.Buffer
	result, err := Run(context.Background(), c, request("Acme", "Globex"), &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !result.Reports[0].Failed() {
		t.Error("Acme report should be marked failed")
	}
	if result.Reports[1].Failed() {
		t.Error("Globex report should not be marked failed")
	}
	if len(result.Records) != 1 {
		t.Errorf("len(Records) = %d, want 1 from the surviving employer", len(result.Records))
	}
	if result.Outcome() != types.OutcomeFound {
		t.Errorf("Outcome = %q, want found", result.Outcome())
	}
	if !strings.Contains(out.String(), "Acme") {
		t.Errorf("progress output should mention the failed employer, got %q", out.String())
	}
}

func TestRunOutcomeNoResults(t *testing.T) {
	scraper := &stubScraper{batches: map[string][]types.JobRecord{}}
	c := &collect.Collector{Scraper: scraper}

	result, err := Run(context.Background(), c, request("Acme", "Globex"), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Outcome() != types.OutcomeNoResults {
		t.Errorf("Outcome = %q, want no_results", result.Outcome())
	}
}

func TestRunOutcomeEmployerFailures(t *testing.T) {
	scraper := &stubScraper{errs: map[string]error{"Acme": errors.New("boom")}}
	c := &collect.Collector{Scraper: scraper}

	result, err := Run(context.Background(), c, request("Acme"), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Outcome() != types.OutcomeEmployerFailures {
		t.Errorf("Outcome = %q, want employer_failures", result.Outcome())
	}
}

func TestRunSortsNewestFirst(t *testing.T) {
	scraper := &stubScraper{batches: map[string][]types.JobRecord{
		"Acme": {
			record("Old", "https://x/old", 72*time.Hour),
			record("New", "https://x/new", time.Hour),
			record("Mid", "https://x/mid", 24*time.Hour),
		},
	}}
	c := &collect.Collector{Scraper: scraper}

	result, err := Run(context.Background(), c, request("Acme"), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"New", "Mid", "Old"}
	for i, r := range result.Records {
		if r.Title != want[i] {
			t.Errorf("Records[%d] = %q, want %q", i, r.Title, want[i])
		}
	}
}

func TestRunCancelled(t *testing.T) {
	scraper := &stubScraper{batches: map[string][]types.JobRecord{}}
	c := &collect.Collector{Scraper: scraper}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, c, request("Acme"), nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
