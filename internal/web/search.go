package web

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Searcher finds candidate product URLs for a query by scraping the
// DuckDuckGo HTML endpoint. Brittle by nature; every selector has a
// fallback and failures return an empty slice, never an error the agent
// path has to handle.
type Searcher struct {
	client    *http.Client
	endpoints []string
}

func NewSearcher() *Searcher {
	return &Searcher{
		client: &http.Client{Timeout: 6 * time.Second},
		endpoints: []string{
			"https://html.duckduckgo.com/html/",
			"https://duckduckgo.com/html/",
		},
	}
}

// WithClient swaps the HTTP client, for tests.
func (s *Searcher) WithClient(c *http.Client) *Searcher {
	s.client = c
	return s
}

// WithEndpoints overrides the search endpoints, for tests.
func (s *Searcher) WithEndpoints(endpoints ...string) *Searcher {
	s.endpoints = endpoints
	return s
}

// resultSelectors are tried in order against the results page.
var resultSelectors = []string{
	"a.result__a",
	`a[data-testid="result-title-a"]`,
	"div.result a",
	"a.result-link",
}

// Search returns up to limit result URLs for the query.
func (s *Searcher) Search(ctx context.Context, query string, limit int) []string {
	if limit <= 0 {
		return nil
	}

	doc := s.fetchResults(ctx, query)
	if doc == nil {
		return nil
	}

	var links []string
	for _, sel := range resultSelectors {
		doc.Find(sel).EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href, ok := a.Attr("href")
			if !ok || href == "" {
				return true
			}
			if real := decodeRedirect(href); real != "" {
				links = append(links, real)
			} else if strings.HasPrefix(href, "http") {
				links = append(links, href)
			}
			return len(links) < limit
		})
		if len(links) >= limit {
			break
		}
	}

	// Last resort: any absolute anchor on the page.
	if len(links) < limit {
		doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			if strings.HasPrefix(href, "http") && !contains(links, href) {
				links = append(links, href)
			}
			return len(links) < limit
		})
	}

	return filterAdLinks(links, limit)
}

func (s *Searcher) fetchResults(ctx context.Context, query string) *goquery.Document {
	for _, endpoint := range s.endpoints {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?q="+url.QueryEscape(query), nil)
		if err != nil {
			continue
		}
		req.Header.Set("User-Agent", browserUserAgent)

		resp, err := s.client.Do(req)
		if err != nil {
			log.Printf("[Web] search endpoint %s failed: %v", endpoint, err)
			continue
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		resp.Body.Close()
		if err != nil || resp.StatusCode != http.StatusOK || len(body) == 0 {
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
		if err != nil {
			continue
		}
		return doc
	}
	return nil
}

// decodeRedirect unwraps DuckDuckGo redirect links of the form
// /l/?kh=-1&uddg=<encoded url>.
func decodeRedirect(href string) string {
	if !strings.HasPrefix(href, "/l/?") && !strings.Contains(href, "uddg=") {
		return ""
	}
	_, query, ok := strings.Cut(href, "?")
	if !ok {
		return ""
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return ""
	}
	return values.Get("uddg")
}

// filterAdLinks drops DuckDuckGo internals, ad redirects, and javascript
// pseudo-links.
func filterAdLinks(links []string, limit int) []string {
	var out []string
	for _, href := range links {
		if href == "" {
			continue
		}
		low := strings.ToLower(href)
		if strings.Contains(low, "duckduckgo.com/y.js") ||
			strings.Contains(low, "duckduckgo.com/l/") ||
			low == "duckduckgo.com/" {
			continue
		}
		if strings.Contains(low, "aclick?") ||
			strings.Contains(low, "ad_provider") ||
			strings.Contains(low, "ad_domain") {
			continue
		}
		if strings.HasPrefix(low, "javascript:") {
			continue
		}
		out = append(out, href)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
