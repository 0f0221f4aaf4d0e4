// Package llm summarizes extracted page text through the Hugging Face
// inference API, degrading to truncation when no token is configured or the
// call fails.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

const (
	defaultModelURL = "https://api-inference.huggingface.co/models/gpt2"
	maxInputChars   = 1000
	maxSummaryChars = 200
)

// Summarizer produces a short summary of arbitrary text.
type Summarizer struct {
	url    string
	token  string
	client *http.Client
}

func NewSummarizer(token string) *Summarizer {
	return &Summarizer{
		url:    defaultModelURL,
		token:  token,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// WithURL overrides the model endpoint, for tests.
func (s *Summarizer) WithURL(url string) *Summarizer {
	s.url = url
	return s
}

// WithClient swaps the HTTP client, for tests.
func (s *Summarizer) WithClient(c *http.Client) *Summarizer {
	s.client = c
	return s
}

// Summarize returns a summary no longer than 200 characters. Inference
// failures never surface; the truncated input is the fallback.
func (s *Summarizer) Summarize(ctx context.Context, text string) string {
	if s.token != "" {
		if summary, ok := s.generate(ctx, text); ok {
			return summary
		}
	}
	return Truncate(text, maxSummaryChars)
}

func (s *Summarizer) generate(ctx context.Context, text string) (string, bool) {
	input := text
	if len(input) > maxInputChars {
		input = input[:maxInputChars]
	}
	payload, err := json.Marshal(map[string]string{"inputs": input})
	if err != nil {
		return "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return "", false
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || resp.StatusCode != http.StatusOK {
		return "", false
	}

	var outputs []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &outputs); err != nil || len(outputs) == 0 {
		return "", false
	}
	generated := outputs[0].GeneratedText
	if generated == "" {
		return "", false
	}
	if len(generated) > maxSummaryChars {
		generated = generated[:maxSummaryChars]
	}
	return generated, true
}

// Truncate shortens text to at most max characters, marking the cut with an
// ellipsis.
func Truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max-3] + "..."
}
