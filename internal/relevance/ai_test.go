// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/jobscout/pkg/types"
)

// scriptedBackend returns canned replies keyed by the job title embedded
// in the prompt.
type scriptedBackend struct {
	replies map[string]string
	errs    map[string]error
	calls   int
}

func (b *scriptedBackend) Score(_ context.Context, prompt string) (string, error) {
	b.calls++
	for title, err := range b.errs {
		if strings.Contains(prompt, title) {
			return "", err
		}
	}
	for title, reply := range b.replies {
		if strings.Contains(prompt, title) {
			return reply, nil
		}
	}
	return "", errors.New("no scripted reply")
}

func aiRecords(titles ...string) []types.JobRecord {
	records := make([]types.JobRecord, len(titles))
	for i, t := range titles {
		records[i] = types.JobRecord{
			Title:       t,
			Company:     "Acme",
			Location:    "Austin, TX",
			Description: "Build things.",
			ListingURL:  "https://x/" + t,
		}
	}
	return records
}

func TestScoreAIStructuredReply(t *testing.T) {
	backend := &scriptedBackend{replies: map[string]string{
		"Platform Engineer": "SCORE: 85\nCONFIDENCE: HIGH\nREASONING: Direct title match with relevant stack.",
	}}

	kept, summary := ScoreAI(context.Background(), backend, aiRecords("Platform Engineer"), "software engineer", DefaultMinScore, nil)

	if len(kept) != 1 {
		t.Fatalf("len(kept) = %d, want 1", len(kept))
	}
	rel := kept[0].Relevance
	if rel.Score != 85 {
		t.Errorf("score = %d, want 85", rel.Score)
	}
	if rel.Confidence != types.ConfidenceHigh {
		t.Errorf("confidence = %q, want HIGH", rel.Confidence)
	}
	if rel.Method != types.MethodAI {
		t.Errorf("method = %q, want ai", rel.Method)
	}
	if !strings.Contains(rel.Reasoning, "Direct title match") {
		t.Errorf("reasoning = %q", rel.Reasoning)
	}
	if summary.Scored != 1 || summary.Kept != 1 || summary.Fallbacks != 0 || summary.Failed != 0 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestScoreAIBelowMinScoreExcluded(t *testing.T) {
	backend := &scriptedBackend{replies: map[string]string{
		"Line Cook": "SCORE: 45\nCONFIDENCE: HIGH\nREASONING: Unrelated field.",
	}}

	kept, summary := ScoreAI(context.Background(), backend, aiRecords("Line Cook"), "software engineer", DefaultMinScore, nil)

	if len(kept) != 0 {
		t.Fatalf("len(kept) = %d, want 0 below minimum score", len(kept))
	}
	if summary.Scored != 1 || summary.Kept != 0 || summary.Failed != 0 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestScoreAIFallbackParse(t *testing.T) {
	backend := &scriptedBackend{replies: map[string]string{
		"Backend Developer": "I would rate this position 72 out of 100 for your interests.",
	}}

	kept, summary := ScoreAI(context.Background(), backend, aiRecords("Backend Developer"), "software engineer", DefaultMinScore, nil)

	if len(kept) != 1 {
		t.Fatalf("len(kept) = %d, want 1", len(kept))
	}
	rel := kept[0].Relevance
	if rel.Score != 72 {
		t.Errorf("score = %d, want 72", rel.Score)
	}
	if rel.Confidence != types.ConfidenceLow {
		t.Errorf("confidence = %q, want LOW", rel.Confidence)
	}
	if rel.Method != types.MethodAIFallback {
		t.Errorf("method = %q, want ai_fallback", rel.Method)
	}
	if summary.Fallbacks != 1 {
		t.Errorf("summary.Fallbacks = %d, want 1", summary.Fallbacks)
	}
}

func TestScoreAIFallbackClampsOversizedNumber(t *testing.T) {
	backend := &scriptedBackend{replies: map[string]string{
		"Backend Developer": "Definitely a top pick, 150 percent relevant.",
	}}

	kept, _ := ScoreAI(context.Background(), backend, aiRecords("Backend Developer"), "software engineer", DefaultMinScore, nil)

	if len(kept) != 1 {
		t.Fatalf("len(kept) = %d, want 1", len(kept))
	}
	if kept[0].Relevance.Score != 100 {
		t.Errorf("score = %d, want clamped to 100", kept[0].Relevance.Score)
	}
}

func TestScoreAINoParsableScore(t *testing.T) {
	backend := &scriptedBackend{replies: map[string]string{
		"Backend Developer": "This looks like a fine opportunity.",
	}}

	var out bytes.Buffer
	kept, summary := ScoreAI(context.Background(), backend, aiRecords("Backend Developer"), "software engineer", DefaultMinScore, &out)

	if len(kept) != 0 {
		t.Fatalf("len(kept) = %d, want 0", len(kept))
	}
	if summary.Failed != 1 {
		t.Errorf("summary.Failed = %d, want 1", summary.Failed)
	}
	if !strings.Contains(out.String(), "Backend Developer") {
		t.Errorf("progress output should name the skipped record, got %q", out.String())
	}
}

func TestScoreAIBackendFailureIsolated(t *testing.T) {
	backend := &scriptedBackend{
		replies: map[string]string{
			"Platform Engineer": "SCORE: 90\nCONFIDENCE: HIGH\nREASONING: Strong match.",
		},
		errs: map[string]error{
			"Backend Developer": errors.New("rate limited"),
		},
	}

	kept, summary := ScoreAI(context.Background(), backend, aiRecords("Backend Developer", "Platform Engineer"), "software engineer", DefaultMinScore, nil)

	if len(kept) != 1 || kept[0].Record.Title != "Platform Engineer" {
		t.Fatalf("kept = %v, want only Platform Engineer", kept)
	}
	if summary.Failed != 1 || summary.Scored != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if backend.calls != 2 {
		t.Errorf("calls = %d, want 2", backend.calls)
	}
}

func TestScoreAISortsDescending(t *testing.T) {
	backend := &scriptedBackend{replies: map[string]string{
		"Support Engineer":  "SCORE: 60\nCONFIDENCE: MEDIUM\nREASONING: Some overlap.",
		"Platform Engineer": "SCORE: 95\nCONFIDENCE: HIGH\nREASONING: Excellent fit.",
		"Backend Developer": "SCORE: 75\nCONFIDENCE: HIGH\nREASONING: Decent fit.",
	}}

	kept, _ := ScoreAI(context.Background(), backend,
		aiRecords("Support Engineer", "Platform Engineer", "Backend Developer"),
		"software engineer", DefaultMinScore, nil)

	if len(kept) != 3 {
		t.Fatalf("len(kept) = %d, want 3", len(kept))
	}
	want := []string{"Platform Engineer", "Backend Developer", "Support Engineer"}
	for i, s := range kept {
		if s.Record.Title != want[i] {
			t.Errorf("kept[%d] = %q, want %q", i, s.Record.Title, want[i])
		}
	}
}

func TestScoreAIRejectsOutOfRangeStructuredScore(t *testing.T) {
	// A structured reply with an impossible score falls through to the
	// number scan, which clamps instead.
	backend := &scriptedBackend{replies: map[string]string{
		"Backend Developer": "SCORE: 300\nCONFIDENCE: HIGH\nREASONING: Broken reply.",
	}}

	kept, _ := ScoreAI(context.Background(), backend, aiRecords("Backend Developer"), "software engineer", DefaultMinScore, nil)

	if len(kept) != 1 {
		t.Fatalf("len(kept) = %d, want 1", len(kept))
	}
	rel := kept[0].Relevance
	if rel.Score != 100 || rel.Method != types.MethodAIFallback {
		t.Errorf("relevance = %+v, want clamped fallback", rel)
	}
}

func TestBuildPromptTruncatesDescription(t *testing.T) {
	record := aiRecords("Platform Engineer")[0]
	record.Description = strings.Repeat("x", maxDescriptionChars+500)

	prompt, err := buildPrompt(record, "software engineer")
	if err != nil {
		t.Fatalf("buildPrompt: %v", err)
	}

	if !strings.Contains(prompt, strings.Repeat("x", maxDescriptionChars)+"...") {
		t.Error("description should be truncated with an ellipsis")
	}
	if strings.Contains(prompt, strings.Repeat("x", maxDescriptionChars+1)) {
		t.Error("description exceeds the truncation limit")
	}
	if !strings.Contains(prompt, "software engineer") {
		t.Error("prompt should carry the user interest")
	}
	if !strings.Contains(prompt, "SCORE:") {
		t.Error("prompt should state the reply format")
	}
}
