package recommend

import (
	"context"
	"sort"

	"github.com/example/commerce-agent/internal/catalog"
)

// Retriever produces candidate products for a shopping goal. The lexical
// implementation is the default; a vector-backed one can be swapped in when
// an embeddings store is configured.
type Retriever interface {
	Retrieve(ctx context.Context, goal string, limit int) ([]catalog.Product, error)
}

// LexicalRetriever ranks the whole catalog by term overlap with the goal.
// Fast, deterministic, and dependency-free.
type LexicalRetriever struct{}

func (LexicalRetriever) Retrieve(_ context.Context, goal string, limit int) ([]catalog.Product, error) {
	products, err := catalog.Load()
	if err != nil {
		return nil, err
	}

	ranked := make([]catalog.Product, len(products))
	copy(ranked, products)
	sort.SliceStable(ranked, func(i, j int) bool {
		return catalog.MatchScore(goal, ranked[i].Haystack()) > catalog.MatchScore(goal, ranked[j].Haystack())
	})

	if limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
