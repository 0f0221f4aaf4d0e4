package catalog

import "strings"

// Filters narrows a product list. Zero values mean "no constraint"; price
// bounds are in cents and use pointers so zero is a usable bound.
type Filters struct {
	Category  string   `json:"category,omitempty"`
	Brand     string   `json:"brand,omitempty"`
	Color     []string `json:"color,omitempty"`
	Size      []string `json:"size,omitempty"`
	PriceMin  *int     `json:"price_min,omitempty"`
	PriceMax  *int     `json:"price_max,omitempty"`
	InStock   *bool    `json:"in_stock,omitempty"`
	MinRating float64  `json:"min_rating,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// Matches reports whether the product satisfies every set constraint.
func (f Filters) Matches(p Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Brand != "" && p.Brand != f.Brand {
		return false
	}
	// in_stock=false explicitly excludes out-of-stock items, mirroring the
	// demo dataset semantics where the flag gates availability only.
	if f.InStock != nil && !*f.InStock && !p.InStock {
		return false
	}
	if f.PriceMin != nil && p.PriceCents < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && p.PriceCents > *f.PriceMax {
		return false
	}
	if f.MinRating > 0 && p.Rating < f.MinRating {
		return false
	}
	if len(f.Color) > 0 && !intersectsFold(f.Color, p.Colors) {
		return false
	}
	if len(f.Size) > 0 && !intersects(f.Size, p.Sizes) {
		return false
	}
	return true
}

// Apply returns the products that pass the filters, in input order.
func (f Filters) Apply(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func intersectsFold(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if strings.EqualFold(x, y) {
				return true
			}
		}
	}
	return false
}
