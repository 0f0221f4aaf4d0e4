package catalog

import (
	"strings"

	"github.com/example/commerce-agent/internal/card"
)

// Product is a catalog entry. Cards are derived copies; mutating a card never
// touches the catalog.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Category    string   `json:"category,omitempty"`
	PriceCents  int      `json:"price_cents"`
	Currency    string   `json:"currency"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
	Tags        []string `json:"tags"`
	ImageURLs   []string `json:"image_urls"`
	Rating      float64  `json:"rating,omitempty"`
	NumReviews  int      `json:"num_reviews,omitempty"`
	InStock     bool     `json:"in_stock"`
}

// Card converts the product to its display card. Badges carry the brand and
// rationale defaults to the description, matching the catalog search path.
func (p Product) Card() card.ProductCard {
	c := card.ProductCard{
		ID:          p.ID,
		Title:       p.Title,
		PriceCents:  p.PriceCents,
		Currency:    p.Currency,
		Category:    p.Category,
		Description: p.Description,
		Badges:      []string{},
		Rationale:   p.Description,
		Source:      card.SourceCatalog,
	}
	if len(p.ImageURLs) > 0 {
		c.Image = p.ImageURLs[0]
	}
	if p.Brand != "" {
		c.Badges = []string{p.Brand}
	}
	return c
}

// Haystack is the lowercased text the lexical scorers match query terms
// against.
func (p Product) Haystack() string {
	parts := make([]string, 0, 5)
	for _, s := range []string{p.Title, p.Brand, p.Category, strings.Join(p.Tags, " "), p.Description} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}
