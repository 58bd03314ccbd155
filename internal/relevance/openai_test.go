// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIBackendScore(t *testing.T) {
	var gotAuth string
	var gotReq openaiRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"SCORE: 85\nCONFIDENCE: HIGH\nREASONING: Good fit."}}]}`))
	}))
	defer server.Close()

	orig := openaiAPIBase
	openaiAPIBase = server.URL
	defer func() { openaiAPIBase = orig }()

	backend := &OpenAIBackend{APIKey: "test-key"}
	reply, err := backend.Score(context.Background(), "rate this job")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	if !strings.Contains(reply, "SCORE: 85") {
		t.Errorf("reply = %q", reply)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReq.Model != DefaultModel {
		t.Errorf("model = %q, want %q", gotReq.Model, DefaultModel)
	}
	if gotReq.MaxTokens != 200 || gotReq.Temperature != 0.1 {
		t.Errorf("max_tokens = %d, temperature = %v", gotReq.MaxTokens, gotReq.Temperature)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" || gotReq.Messages[0].Content != "rate this job" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
}

func TestOpenAIBackendHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer server.Close()

	orig := openaiAPIBase
	openaiAPIBase = server.URL
	defer func() { openaiAPIBase = orig }()

	backend := &OpenAIBackend{APIKey: "bad-key"}
	if _, err := backend.Score(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error on 401 response")
	}
}

func TestOpenAIBackendNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	orig := openaiAPIBase
	openaiAPIBase = server.URL
	defer func() { openaiAPIBase = orig }()

	backend := &OpenAIBackend{}
	if _, err := backend.Score(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error on empty choices")
	}
}
