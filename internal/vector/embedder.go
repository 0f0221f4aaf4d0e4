// Package vector provides semantic candidate retrieval backed by Postgres
// with the pgvector extension, with embeddings computed through the Hugging
// Face inference API.
package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrEmptyEmbedding is returned when the inference API answers with no
// usable vector.
var ErrEmptyEmbedding = errors.New("vector: empty embedding response")

const defaultEmbedderURL = "https://api-inference.huggingface.co/pipeline/feature-extraction/sentence-transformers/all-MiniLM-L6-v2"

// Embedder turns text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// HFEmbedder calls a Hugging Face feature-extraction endpoint.
type HFEmbedder struct {
	url    string
	token  string
	client *http.Client
}

func NewHFEmbedder(token string) *HFEmbedder {
	return &HFEmbedder{
		url:    defaultEmbedderURL,
		token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithURL overrides the inference endpoint, for tests.
func (e *HFEmbedder) WithURL(url string) *HFEmbedder {
	e.url = url
	return e
}

// WithClient swaps the HTTP client, for tests.
func (e *HFEmbedder) WithClient(c *http.Client) *HFEmbedder {
	e.client = c
	return e
}

// Embed returns the embedding for the text. The endpoint answers with either
// a flat vector or a single-row matrix depending on the pipeline.
func (e *HFEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	payload, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("vector: build embed request: %w", err)
	}
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vector: embed request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("vector: read embed response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vector: embed endpoint returned status %d", resp.StatusCode)
	}

	var flat []float32
	if err := json.Unmarshal(body, &flat); err == nil && len(flat) > 0 {
		return flat, nil
	}
	var matrix [][]float32
	if err := json.Unmarshal(body, &matrix); err == nil && len(matrix) > 0 && len(matrix[0]) > 0 {
		return matrix[0], nil
	}
	return nil, ErrEmptyEmbedding
}
