// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/jobscout/internal/httputil"
)

// openaiAPIBase is the OpenAI chat completions endpoint. Package-level
// var for test substitution.
var openaiAPIBase = "https://api.openai.com/v1/chat/completions"

// DefaultModel is the scoring model used when none is configured.
const DefaultModel = "gpt-4.1-nano"

// OpenAIBackend calls the OpenAI chat completions API with a single user
// message and returns the reply text. Low temperature keeps scores
// reproducible across runs.
type OpenAIBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []struct {
		Message openaiMessage `json:"message"`
	} `json:"choices"`
}

// Score sends one prompt and returns the raw reply text.
func (b *OpenAIBackend) Score(ctx context.Context, prompt string) (string, error) {
	model := b.Model
	if model == "" {
		model = DefaultModel
	}

	reqBody := openaiRequest{
		Model:       model,
		Messages:    []openaiMessage{{Role: "user", Content: prompt}},
		MaxTokens:   200,
		Temperature: 0.1,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openaiAPIBase, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.APIKey)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return "", fmt.Errorf("calling scoring API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("scoring API returned %d: %s", resp.StatusCode, string(body))
	}

	var oResp openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return "", fmt.Errorf("decoding scoring response: %w", err)
	}
	if len(oResp.Choices) == 0 {
		return "", fmt.Errorf("scoring API returned no choices")
	}

	return oResp.Choices[0].Message.Content, nil
}
