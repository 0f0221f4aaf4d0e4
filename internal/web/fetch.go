package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/commerce-agent/internal/webcache"
)

// ErrDomainBlocked is returned for URLs outside the fetch allowlist.
var ErrDomainBlocked = errors.New("domain not in fetch allowlist")

// maxBodyBytes caps how much HTML a single fetch will read.
const maxBodyBytes = 2 << 20

// errorBodyLimit is how much of a failing response body is kept for
// diagnostics.
const errorBodyLimit = 512

// HTTPError is a non-2xx upstream response, carrying the status code and a
// truncated body excerpt.
type HTTPError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("fetch %s: status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Allowlist controls which domains the fetcher will touch.
type Allowlist struct {
	Domains  []string
	AllowAll bool
}

// DefaultAllowlist mirrors the demo's shipped domain set.
func DefaultAllowlist() Allowlist {
	return Allowlist{Domains: []string{"amazon.com", "walmart.com", "bestbuy.com"}}
}

// Allows reports whether the URL's host is covered, matching by suffix so
// subdomains of an allowed domain pass.
func (a Allowlist) Allows(rawURL string) bool {
	if a.AllowAll {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	for _, domain := range a.Domains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// Fetcher retrieves pages, extracts structured metadata, and caches results
// keyed by URL.
type Fetcher struct {
	client    *http.Client
	cache     webcache.Store
	allowlist Allowlist
}

func NewFetcher(cache webcache.Store, allowlist Allowlist) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: 5 * time.Second},
		cache:     cache,
		allowlist: allowlist,
	}
}

// WithClient swaps the HTTP client, for tests and custom transports.
func (f *Fetcher) WithClient(c *http.Client) *Fetcher {
	f.client = c
	return f
}

// FetchAndExtract fetches a URL and extracts its title, text, OpenGraph
// metadata, and JSON-LD blocks. Results are cached; force bypasses the
// cached copy.
func (f *Fetcher) FetchAndExtract(ctx context.Context, rawURL string, force bool) (*Page, error) {
	if !f.allowlist.Allows(rawURL) {
		log.Printf("[Web] blocked fetch to disallowed domain: %s", rawURL)
		return nil, ErrDomainBlocked
	}

	if f.cache != nil && !force {
		if data, ok, err := f.cache.Get(ctx, rawURL); err == nil && ok {
			var page Page
			if err := json.Unmarshal(data, &page); err == nil {
				return &page, nil
			}
			// Unreadable cache entries are refetched.
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt := string(body)
		if len(excerpt) > errorBodyLimit {
			excerpt = excerpt[:errorBodyLimit]
		}
		return nil, &HTTPError{URL: rawURL, StatusCode: resp.StatusCode, Body: excerpt}
	}

	page, err := ExtractPage(rawURL, strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if data, err := json.Marshal(page); err == nil {
			if err := f.cache.Put(ctx, rawURL, data); err != nil {
				log.Printf("[Web] cache write failed for %s: %v", rawURL, err)
			}
		}
	}
	return page, nil
}

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
