package imagesearch

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/example/commerce-agent/internal/card"
	"github.com/example/commerce-agent/internal/catalog"
)

// Search scores the catalog against an uploaded image plus optional query
// text. A broken or missing image degrades to text-only scoring; it is never
// an error for the caller.
func Search(imageB64, query string, filters catalog.Filters, limit int) ([]card.ProductCard, *Analysis, error) {
	products, err := catalog.Load()
	if err != nil {
		return nil, nil, err
	}
	filtered := filters.Apply(products)
	if len(filtered) == 0 {
		filtered = products
	}

	var analysis *Analysis
	if imageB64 != "" {
		analysis, err = Analyze(imageB64)
		if err != nil {
			log.Printf("[ImageSearch] image analysis failed, falling back to text: %v", err)
			analysis = nil
		}
	}
	hints := ColorHints(analysis)

	type scored struct {
		score     float64
		product   catalog.Product
		rationale string
	}
	ranked := make([]scored, 0, len(filtered))

	for _, p := range filtered {
		textScore := 0.0
		if query != "" {
			textScore = catalog.MatchScore(query, p.Haystack())
		}

		productColors := make(map[string]bool, len(p.Colors))
		for _, c := range p.Colors {
			productColors[strings.ToLower(c)] = true
		}

		var overlap []string
		for _, hint := range hints {
			// Navy uploads should still surface blue items.
			if productColors[hint] || (hint == "navy" && productColors["blue"]) {
				overlap = append(overlap, hint)
			}
		}
		colorScore := 0.0
		if len(hints) > 0 {
			colorScore = 0.6 * float64(len(overlap)) / float64(len(hints))
		}

		brightnessScore := 0.0
		if analysis.hasNote("mostly_dark") && (productColors["black"] || productColors["navy"]) {
			brightnessScore = 0.15
		} else if analysis.hasNote("mostly_light") && (productColors["white"] || productColors["gray"]) {
			brightnessScore = 0.1
		}

		stockBonus := 0.05
		if !p.InStock {
			stockBonus = -0.05
		}

		var rationaleParts []string
		if len(overlap) > 0 {
			rationaleParts = append(rationaleParts, "color match: "+strings.Join(overlap, ", "))
		} else if len(hints) > 0 {
			rationaleParts = append(rationaleParts, fmt.Sprintf("complements the %s tones in your image", hints[0]))
		}
		if textScore >= 0.4 {
			rationaleParts = append(rationaleParts, "aligns with your description")
		}
		if len(rationaleParts) == 0 && len(p.Tags) > 0 {
			rationaleParts = append(rationaleParts, p.Tags[0])
		}

		ranked = append(ranked, scored{
			score:     textScore + colorScore + brightnessScore + stockBonus,
			product:   p,
			rationale: strings.Join(rationaleParts, ", "),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if limit > len(ranked) {
		limit = len(ranked)
	}

	cards := make([]card.ProductCard, 0, limit)
	for _, s := range ranked[:limit] {
		c := s.product.Card()
		if s.rationale != "" {
			c.Rationale = s.rationale
		}
		cards = append(cards, c)
	}
	return cards, analysis, nil
}
