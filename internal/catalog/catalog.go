package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/example/commerce-agent/internal/card"
)

//go:embed products.json
var productsJSON []byte

var (
	loadOnce sync.Once
	loaded   []Product
	loadErr  error
)

// Load parses the embedded demo catalog once and returns it. Callers must
// not mutate the returned slice.
func Load() ([]Product, error) {
	loadOnce.Do(func() {
		var products []Product
		if err := json.Unmarshal(productsJSON, &products); err != nil {
			loadErr = fmt.Errorf("parse embedded catalog: %w", err)
			return
		}
		loaded = products
	})
	return loaded, loadErr
}

// MustLoad is Load for startup paths where a broken embedded catalog is
// unrecoverable.
func MustLoad() []Product {
	products, err := Load()
	if err != nil {
		panic(err)
	}
	return products
}

// ByID returns the catalog product with the given id.
func ByID(id string) (Product, bool) {
	products, err := Load()
	if err != nil {
		return Product{}, false
	}
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// MatchScore is the fraction of query terms found in the haystack. Empty
// queries score zero.
func MatchScore(query, haystack string) float64 {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return 0
	}
	matched := 0
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}

// Search filters the catalog and ranks the survivors by token overlap with
// the query. Ties keep catalog order, so results are deterministic.
func Search(query string, filters Filters, limit int) ([]card.ProductCard, error) {
	products, err := Load()
	if err != nil {
		return nil, err
	}
	filtered := filters.Apply(products)

	type scored struct {
		score   float64
		product Product
	}
	ranked := make([]scored, 0, len(filtered))
	for _, p := range filtered {
		ranked = append(ranked, scored{score: MatchScore(query, p.Haystack()), product: p})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if limit > len(ranked) {
		limit = len(ranked)
	}
	cards := make([]card.ProductCard, 0, limit)
	for _, s := range ranked[:limit] {
		cards = append(cards, s.product.Card())
	}
	return cards, nil
}
