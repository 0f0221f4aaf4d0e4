// Package browseai calls the Browse.ai extraction API and normalizes the
// arbitrary rows an extractor returns into product cards.
package browseai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/example/commerce-agent/internal/card"
	"github.com/example/commerce-agent/internal/webcache"
)

// ErrNotConfigured is returned when the extractor id or API key is empty.
var ErrNotConfigured = errors.New("browseai: extractor id and api key required")

// ErrNoResults is returned when a run completes without producing rows.
var ErrNoResults = errors.New("browseai: run produced no results")

const (
	defaultBaseURL   = "https://api.browse.ai"
	maxPollAttempts  = 10
	pollInterval     = 2 * time.Second
	responseBodyCap  = 4 << 20
	maxDescriptionLn = 280
)

// Client triggers extractor runs and polls for their results. Normalized
// cards are cached per extractor so repeated chats do not re-run the robot.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	cache   webcache.Store
}

func NewClient(apiKey string, cache webcache.Store) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
	}
}

// WithBaseURL overrides the API base URL, for tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// WithClient swaps the HTTP client, for tests.
func (c *Client) WithClient(hc *http.Client) *Client {
	c.client = hc
	return c
}

// runResponse covers the shapes the run and poll endpoints return. Some
// plans answer with inline results, others hand back a run id to poll.
type runResponse struct {
	Results []map[string]json.RawMessage `json:"results"`
	Items   []map[string]json.RawMessage `json:"items"`
	Data    []map[string]json.RawMessage `json:"data"`
	RunID   string                       `json:"run_id"`
	ID      string                       `json:"id"`
}

func (r runResponse) rows() []map[string]json.RawMessage {
	if len(r.Results) > 0 {
		return r.Results
	}
	if len(r.Items) > 0 {
		return r.Items
	}
	return r.Data
}

// FetchProducts runs the extractor and returns its rows as product cards.
// force bypasses the cached result of a previous run.
func (c *Client) FetchProducts(ctx context.Context, extractorID string, force bool) ([]card.ProductCard, error) {
	if extractorID == "" || c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	cacheKey := "browseai:" + extractorID
	if c.cache != nil && !force {
		if data, ok, err := c.cache.Get(ctx, cacheKey); err == nil && ok {
			var cards []card.ProductCard
			if err := json.Unmarshal(data, &cards); err == nil {
				return cards, nil
			}
		}
	}

	run, err := c.do(ctx, http.MethodPost, fmt.Sprintf("%s/extractors/%s/run", c.baseURL, extractorID))
	if err != nil {
		return nil, err
	}

	rows := run.rows()
	if len(rows) == 0 {
		runID := run.RunID
		if runID == "" {
			runID = run.ID
		}
		if runID != "" {
			rows, err = c.poll(ctx, runID)
			if err != nil {
				return nil, err
			}
		}
	}
	if len(rows) == 0 {
		return nil, ErrNoResults
	}

	cards := make([]card.ProductCard, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, normalizeRow(row))
	}

	if c.cache != nil {
		if data, err := json.Marshal(cards); err == nil {
			if err := c.cache.Put(ctx, cacheKey, data); err != nil {
				log.Printf("[BrowseAI] cache write failed for extractor %s: %v", extractorID, err)
			}
		}
	}
	return cards, nil
}

func (c *Client) poll(ctx context.Context, runID string) ([]map[string]json.RawMessage, error) {
	pollURL := fmt.Sprintf("%s/runs/%s", c.baseURL, runID)
	for attempt := 0; attempt < maxPollAttempts; attempt++ {
		resp, err := c.do(ctx, http.MethodGet, pollURL)
		if err == nil {
			if rows := resp.rows(); len(rows) > 0 {
				return rows, nil
			}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
	return nil, ErrNoResults
}

func (c *Client) do(ctx context.Context, method, url string) (*runResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("browseai: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("browseai: %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyCap))
	if err != nil {
		return nil, fmt.Errorf("browseai: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("browseai: %s returned status %d", url, resp.StatusCode)
	}

	var run runResponse
	if err := json.Unmarshal(body, &run); err != nil {
		// Some endpoints answer with a bare array of rows.
		var rows []map[string]json.RawMessage
		if listErr := json.Unmarshal(body, &rows); listErr == nil {
			return &runResponse{Results: rows}, nil
		}
		return nil, fmt.Errorf("browseai: decode response: %w", err)
	}
	return &run, nil
}

// normalizeRow maps an extractor row with unknown field names onto a card.
// Field aliases follow what common product extractors emit.
func normalizeRow(row map[string]json.RawMessage) card.ProductCard {
	title := firstString(row, "title", "name", "product")
	if title == "" {
		title = "Product"
	}
	rawURL := firstString(row, "url", "link", "product_url")
	image := firstString(row, "image", "image_url", "img")

	description := firstString(row, "description", "desc", "summary")
	if len(description) > maxDescriptionLn {
		description = description[:maxDescriptionLn]
	}

	priceCents, currency := rowPrice(row)

	badges := []string{"browseai"}
	if brand := firstString(row, "brand"); brand != "" {
		badges = append([]string{brand}, badges...)
	}

	idSeed := rawURL
	if idSeed == "" {
		idSeed = title
	}
	sum := sha256.Sum256([]byte(idSeed))

	return card.ProductCard{
		ID:          "browse_" + hex.EncodeToString(sum[:])[:10],
		Title:       title,
		Image:       image,
		PriceCents:  priceCents,
		Currency:    currency,
		Category:    firstString(row, "category"),
		Description: description,
		Badges:      badges,
		Rationale:   description,
		Source:      card.SourceBrowseAI,
		URL:         rawURL,
	}
}

// rowPrice prefers structured price_data and falls back to parsing the
// price string.
func rowPrice(row map[string]json.RawMessage) (int, string) {
	if raw, ok := row["price_data"]; ok {
		var structured struct {
			CurrentPriceCents int    `json:"current_price_cents"`
			Currency          string `json:"currency"`
		}
		if err := json.Unmarshal(raw, &structured); err == nil && structured.CurrentPriceCents > 0 {
			if structured.Currency == "" {
				structured.Currency = "USD"
			}
			return structured.CurrentPriceCents, structured.Currency
		}
	}

	currency := firstString(row, "currency")
	if currency == "" {
		currency = "USD"
	}
	priceText := firstString(row, "price", "amount", "price_text", "current_price")
	if priceText == "" {
		if raw, ok := row["price"]; ok {
			var n float64
			if err := json.Unmarshal(raw, &n); err == nil {
				return int(n * 100), currency
			}
		}
		return 0, currency
	}
	return ParsePriceCents(priceText), currency
}

func firstString(row map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := row[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}
