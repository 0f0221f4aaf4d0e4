// Package agent routes chat turns between smalltalk, catalog
// recommendations, image-driven search, and web enrichment.
package agent

import (
	"context"
	"log"
	"strings"

	"github.com/example/commerce-agent/internal/analytics"
	"github.com/example/commerce-agent/internal/card"
	"github.com/example/commerce-agent/internal/catalog"
	"github.com/example/commerce-agent/internal/imagesearch"
	"github.com/example/commerce-agent/internal/recommend"
	"github.com/example/commerce-agent/internal/web"
)

const (
	resultLimit = 6

	// searchLinkLimit caps how many search hits get fetched per turn.
	searchLinkLimit = 2
)

// ChatRequest is one inbound chat turn.
type ChatRequest struct {
	Message         string      `json:"message"`
	ImageB64        string      `json:"image_b64,omitempty"`
	WebURL          string      `json:"web_url,omitempty"`
	AllowWeb        bool        `json:"allow_web,omitempty"`
	BrowseExtractor string      `json:"browse_extractor,omitempty"`
	BrowseForce     bool        `json:"browse_force,omitempty"`
	SessionID       string      `json:"session_id,omitempty"`
	PriceRange      *PriceRange `json:"price_range,omitempty"`
}

// PriceRange bounds results in whole currency units, inclusive.
type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Response is the reply for one chat turn. Immutable once returned.
type Response struct {
	Intent           string             `json:"intent"`
	Text             string             `json:"text"`
	Products         []card.ProductCard `json:"products"`
	FollowUpQuestion string             `json:"follow_up_question,omitempty"`
}

// Recommender produces ranked catalog cards for a shopping goal.
type Recommender interface {
	Recommend(ctx context.Context, goal string, constraints catalog.Filters, limit int) ([]card.ProductCard, recommend.Debug, error)
}

// PageFetcher fetches and extracts a single product page.
type PageFetcher interface {
	FetchAndExtract(ctx context.Context, rawURL string, force bool) (*web.Page, error)
}

// Extractor runs a hosted extraction robot and returns normalized cards.
type Extractor interface {
	FetchProducts(ctx context.Context, extractorID string, force bool) ([]card.ProductCard, error)
}

// Summarizer condenses extracted page text into a short rationale.
type Summarizer interface {
	Summarize(ctx context.Context, text string) string
}

// LinkSearcher finds candidate product URLs for a query.
type LinkSearcher interface {
	Search(ctx context.Context, query string, limit int) []string
}

// Agent orchestrates a chat turn. Web and extractor collaborators are
// optional; when unset those enrichment paths are skipped.
type Agent struct {
	recommender      Recommender
	fetcher          PageFetcher
	extractor        Extractor
	publisher        analytics.Publisher
	summarizer       Summarizer
	searcher         LinkSearcher
	defaultExtractor string
}

func New(recommender Recommender, fetcher PageFetcher, extractor Extractor, publisher analytics.Publisher, defaultExtractor string) *Agent {
	if recommender == nil {
		recommender = recommend.New(nil)
	}
	if publisher == nil {
		publisher = analytics.NopPublisher{}
	}
	return &Agent{
		recommender:      recommender,
		fetcher:          fetcher,
		extractor:        extractor,
		publisher:        publisher,
		defaultExtractor: defaultExtractor,
	}
}

// WithSummarizer rewrites web-card rationales through the given summarizer.
func (a *Agent) WithSummarizer(s Summarizer) *Agent {
	a.summarizer = s
	return a
}

// WithSearcher enables web-search enrichment when a turn allows the web but
// gives no URL hint.
func (a *Agent) WithSearcher(s LinkSearcher) *Agent {
	a.searcher = s
	return a
}

// Chat handles one turn. Catalog paths either fully succeed or fail; web
// enrichment failures degrade to catalog-only results.
func (a *Agent) Chat(ctx context.Context, req ChatRequest) (*Response, error) {
	intent := DetectIntent(req.Message, req.ImageB64 != "")

	var resp *Response
	switch intent {
	case IntentSmalltalk:
		resp = &Response{
			Intent:   intent,
			Text:     smalltalkReply(req.Message),
			Products: []card.ProductCard{},
		}

	case IntentImageSearch:
		cards, _, err := imagesearch.Search(req.ImageB64, req.Message, catalog.Filters{}, resultLimit)
		if err != nil {
			return nil, err
		}
		resp = &Response{
			Intent:   intent,
			Text:     "Here are products that visually align with your request.",
			Products: cards,
		}

	default:
		cards, _, err := a.recommender.Recommend(ctx, req.Message, catalog.Filters{}, resultLimit)
		if err != nil {
			return nil, err
		}
		resp = &Response{
			Intent:   intent,
			Text:     "Here are some options I think you'll like.",
			Products: cards,
		}
		if !containsFold(req.Message, "size") {
			resp.FollowUpQuestion = "Do you have a preferred size?"
		}
	}

	if intent != IntentSmalltalk {
		resp.Products = a.enrich(ctx, req, resp.Products)
		if req.PriceRange != nil {
			resp.Products = card.FilterPriceRange(resp.Products, req.PriceRange.Min, req.PriceRange.Max)
		}
	}
	if resp.Products == nil {
		resp.Products = []card.ProductCard{}
	}

	a.record(ctx, req, intent, len(resp.Products))
	return resp, nil
}

// enrich appends web-sourced cards behind the catalog results. Any failure
// here is logged and leaves the catalog results untouched.
func (a *Agent) enrich(ctx context.Context, req ChatRequest, cards []card.ProductCard) []card.ProductCard {
	if req.WebURL != "" && a.fetcher != nil {
		page, err := a.fetcher.FetchAndExtract(ctx, req.WebURL, false)
		if err != nil {
			log.Printf("[Agent] web enrichment failed for %s: %v", req.WebURL, err)
		} else {
			cards = append(cards, a.webCard(ctx, page))
		}
	}

	// No URL hint but the web is allowed: search for candidate pages.
	if req.AllowWeb && req.WebURL == "" && a.searcher != nil && a.fetcher != nil {
		for _, link := range a.searcher.Search(ctx, req.Message, searchLinkLimit) {
			page, err := a.fetcher.FetchAndExtract(ctx, link, false)
			if err != nil {
				log.Printf("[Agent] search enrichment failed for %s: %v", link, err)
				continue
			}
			cards = append(cards, a.webCard(ctx, page))
		}
	}

	if req.AllowWeb && a.extractor != nil {
		extractorID := req.BrowseExtractor
		if extractorID == "" {
			extractorID = a.defaultExtractor
		}
		if extractorID != "" {
			extracted, err := a.extractor.FetchProducts(ctx, extractorID, req.BrowseForce)
			if err != nil {
				log.Printf("[Agent] extractor %s failed: %v", extractorID, err)
			} else {
				cards = append(cards, extracted...)
			}
		}
	}
	return cards
}

func (a *Agent) webCard(ctx context.Context, page *web.Page) card.ProductCard {
	c := web.ToProductCard(page)
	if a.summarizer != nil && page.Text != "" {
		c.Rationale = a.summarizer.Summarize(ctx, page.Text)
	}
	return c
}

func (a *Agent) record(ctx context.Context, req ChatRequest, intent string, productCount int) {
	event := analytics.NewEvent(analytics.EventChatTurn, req.SessionID, map[string]any{
		"intent":    intent,
		"products":  productCount,
		"has_image": req.ImageB64 != "",
		"web_url":   req.WebURL != "",
	})
	if err := a.publisher.Publish(ctx, event); err != nil {
		log.Printf("[Agent] analytics publish failed: %v", err)
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
