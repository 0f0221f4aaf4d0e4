package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/example/commerce-agent/internal/catalog"
)

type scoredProduct struct {
	product   catalog.Product
	score     float64
	baseline  float64
	rationale string
}

// attributeMatchScore is the fraction of set constraints the product
// satisfies. Only color, size, brand, and the price bounds participate.
func attributeMatchScore(p catalog.Product, c catalog.Filters) float64 {
	matches, total := 0, 0
	if len(c.Color) > 0 {
		total++
		if colorOverlap(c.Color, p.Colors) != nil {
			matches++
		}
	}
	if len(c.Size) > 0 {
		total++
		if sizeOverlap(c.Size, p.Sizes) != nil {
			matches++
		}
	}
	if c.Brand != "" {
		total++
		if strings.EqualFold(c.Brand, p.Brand) {
			matches++
		}
	}
	if c.PriceMax != nil {
		total++
		if p.PriceCents <= *c.PriceMax {
			matches++
		}
	}
	if c.PriceMin != nil {
		total++
		if p.PriceCents >= *c.PriceMin {
			matches++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matches) / float64(total)
}

// popularityScore blends rating with a dampened review count.
func popularityScore(p catalog.Product) float64 {
	if p.Rating == 0 {
		return 0
	}
	return p.Rating * (1 + math.Sqrt(float64(p.NumReviews))/10)
}

func colorOverlap(want, have []string) []string {
	var out []string
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(w, h) {
				out = append(out, strings.ToLower(w))
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

func sizeOverlap(want, have []string) []string {
	var out []string
	for _, w := range want {
		for _, h := range have {
			if w == h {
				out = append(out, w)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// scoreProducts applies the heuristic recipe: term-overlap baseline carries
// most of the weight (the doubled baseline term stands in for a semantic
// rerank score), with attribute fit, popularity, and stock nudges on top.
func scoreProducts(products []catalog.Product, goal string, constraints catalog.Filters) []scoredProduct {
	scored := make([]scoredProduct, 0, len(products))
	for _, p := range products {
		baseline := catalog.MatchScore(goal, p.Haystack())
		attribute := attributeMatchScore(p, constraints)
		popularity := popularityScore(p)
		stockBoost := 0.05
		if !p.InStock {
			stockBoost = -0.1
		}

		score := 0.55*baseline + 0.20*baseline + 0.10*attribute + 0.10*(popularity/10) + stockBoost

		scored = append(scored, scoredProduct{
			product:   p,
			score:     score,
			baseline:  baseline,
			rationale: buildRationale(p, constraints),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	return scored
}

func buildRationale(p catalog.Product, c catalog.Filters) string {
	var parts []string
	if c.PriceMax != nil && p.PriceCents <= *c.PriceMax {
		parts = append(parts, fmt.Sprintf("under $%d", *c.PriceMax/100))
	}
	if matched := colorOverlap(c.Color, p.Colors); len(matched) > 0 {
		parts = append(parts, "available in "+strings.Join(matched, ", "))
	}
	if matched := sizeOverlap(c.Size, p.Sizes); len(matched) > 0 {
		parts = append(parts, "sizes "+strings.Join(matched, ", "))
	}
	if len(p.Tags) > 0 {
		parts = append(parts, p.Tags[0])
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", ")
	}
	if p.Description != "" {
		return p.Description
	}
	return "Popular pick"
}

// diversify caps repeated brands so the top of the list is not one vendor,
// unless that would leave the page short.
func diversify(scored []scoredProduct, limit int) []scoredProduct {
	seenBrands := make(map[string]bool)
	diversified := make([]scoredProduct, 0, limit)
	for _, item := range scored {
		brand := item.product.Brand
		if seenBrands[brand] && len(diversified)+1 < limit {
			continue
		}
		diversified = append(diversified, item)
		seenBrands[brand] = true
		if len(diversified) == limit {
			break
		}
	}
	if len(diversified) == 0 {
		if limit > len(scored) {
			limit = len(scored)
		}
		return scored[:limit]
	}
	return diversified
}
