package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/example/commerce-agent/internal/agent"
	"github.com/example/commerce-agent/internal/analytics"
	"github.com/example/commerce-agent/internal/auth"
	"github.com/example/commerce-agent/internal/cart"
	"github.com/example/commerce-agent/internal/catalog"
	"github.com/example/commerce-agent/internal/imagesearch"
)

const (
	defaultSearchLimit    = 12
	maxSearchLimit        = 100
	defaultRecommendLimit = 8
	maxRecommendLimit     = 50
)

type Handlers struct {
	agent        *agent.Agent
	recommender  agent.Recommender
	carts        *cart.Store
	tokens       *auth.TokenService
	fetcher      agent.PageFetcher
	publisher    analytics.Publisher
	adminKeyHash string
}

func NewHandlers(a *agent.Agent, recommender agent.Recommender, carts *cart.Store, tokens *auth.TokenService, fetcher agent.PageFetcher, publisher analytics.Publisher, adminKeyHash string) *Handlers {
	if publisher == nil {
		publisher = analytics.NopPublisher{}
	}
	return &Handlers{
		agent:        a,
		recommender:  recommender,
		carts:        carts,
		tokens:       tokens,
		fetcher:      fetcher,
		publisher:    publisher,
		adminKeyHash: adminKeyHash,
	}
}

// Root and health

func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"service": "commerce-agent",
		"docs":    "POST /agent/chat, /recommend, /catalog/search, /catalog/image-search",
	})
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Product Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	products := catalog.MustLoad()
	respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")
	product, ok := catalog.ByID(id)
	if !ok {
		respondError(w, "Product not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// Catalog search Handlers

func (h *Handlers) SearchCatalog(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query   string           `json:"query"`
		Filters *catalog.Filters `json:"filters,omitempty"`
		Limit   int              `json:"limit,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	filters := catalog.Filters{}
	if req.Filters != nil {
		filters = *req.Filters
	}
	limit := clampLimit(req.Limit, defaultSearchLimit, maxSearchLimit)

	cards, err := catalog.Search(req.Query, filters, limit)
	if err != nil {
		log.Printf("[API] catalog search failed: %v", err)
		respondError(w, "search failed", http.StatusBadGateway)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"results": cards,
		"debug":   map[string]any{"matched": len(cards)},
	})
}

func (h *Handlers) ImageSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImageB64 string           `json:"image_b64"`
		Query    string           `json:"query,omitempty"`
		Filters  *catalog.Filters `json:"filters,omitempty"`
		Limit    int              `json:"limit,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	filters := catalog.Filters{}
	if req.Filters != nil {
		filters = *req.Filters
	}
	limit := clampLimit(req.Limit, defaultSearchLimit, maxSearchLimit)

	cards, analysis, err := imagesearch.Search(req.ImageB64, req.Query, filters, limit)
	if err != nil {
		log.Printf("[API] image search failed: %v", err)
		respondError(w, "image search failed", http.StatusBadGateway)
		return
	}

	debug := map[string]any{"matched": len(cards)}
	if analysis != nil {
		debug["image_analysis"] = analysis
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": cards, "debug": debug})
}

// Recommendation Handler

func (h *Handlers) Recommend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Goal        string           `json:"goal"`
		Constraints *catalog.Filters `json:"constraints,omitempty"`
		Limit       int              `json:"limit,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	constraints := catalog.Filters{}
	if req.Constraints != nil {
		constraints = *req.Constraints
	}
	limit := clampLimit(req.Limit, defaultRecommendLimit, maxRecommendLimit)

	cards, debug, err := h.recommender.Recommend(r.Context(), req.Goal, constraints, limit)
	if err != nil {
		log.Printf("[API] recommend failed: %v", err)
		respondError(w, "recommendation failed", http.StatusBadGateway)
		return
	}

	event := analytics.NewEvent(analytics.EventRecommendation, sessionFrom(r), map[string]any{
		"goal":    req.Goal,
		"results": len(cards),
	})
	if err := h.publisher.Publish(r.Context(), event); err != nil {
		log.Printf("[API] analytics publish failed: %v", err)
	}

	respondJSON(w, http.StatusOK, map[string]any{"results": cards, "debug": debug})
}

// Agent Handler

func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req agent.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = sessionFrom(r)
	}

	resp, err := h.agent.Chat(r.Context(), req)
	if err != nil {
		log.Printf("[API] chat turn failed: %v", err)
		respondError(w, "chat failed", http.StatusBadGateway)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Prefetch Handler (admin)

func (h *Handlers) Prefetch(w http.ResponseWriter, r *http.Request) {
	if h.adminKeyHash == "" || !auth.CheckAdminKey(r.Header.Get("X-Admin-Key"), h.adminKeyHash) {
		respondError(w, "forbidden", http.StatusForbidden)
		return
	}

	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		respondError(w, "url query parameter required", http.StatusBadRequest)
		return
	}

	go func(u string) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := h.fetcher.FetchAndExtract(ctx, u, true); err != nil {
			log.Printf("[API] prefetch failed for %s: %v", u, err)
		}
	}(rawURL)

	respondJSON(w, http.StatusOK, map[string]string{"status": "scheduled", "url": rawURL})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

func clampLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}
