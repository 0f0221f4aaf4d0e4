package card

// ProductCard is the canonical display unit returned by every search and
// recommendation path, whether it came from the local catalog, a scraped web
// page, or a hosted extractor run.
type ProductCard struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Image       string   `json:"image,omitempty"`
	PriceCents  int      `json:"price_cents"`
	Currency    string   `json:"currency"`
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description,omitempty"`
	Badges      []string `json:"badges"`
	Rationale   string   `json:"rationale,omitempty"`
	Source      string   `json:"source"`
	URL         string   `json:"url,omitempty"`
}

// Card sources.
const (
	SourceCatalog  = "catalog"
	SourceWeb      = "web"
	SourceBrowseAI = "browseai"
)

// Unbounded marks one side of a price range as open.
const Unbounded = -1

// FilterPriceRange returns the ordered sublist of cards whose price falls
// within [min, max] inclusive, bounds given in whole currency units. Either
// bound may be Unbounded. The relative order of survivors is preserved and
// the input is never mutated, so filtering twice with the same range is a
// fixed point.
func FilterPriceRange(cards []ProductCard, min, max int) []ProductCard {
	out := make([]ProductCard, 0, len(cards))
	for _, c := range cards {
		// Compare in cents so fractional prices are not floored onto the
		// boundary: 1999 cents is outside a max of 19.
		if min != Unbounded && c.PriceCents < min*100 {
			continue
		}
		if max != Unbounded && c.PriceCents > max*100 {
			continue
		}
		out = append(out, c)
	}
	return out
}
