package vector

import (
	"context"
	"fmt"

	"github.com/example/commerce-agent/internal/catalog"
)

// NearestSearcher is the slice of Store the retriever needs.
type NearestSearcher interface {
	Nearest(ctx context.Context, embedding []float32, limit int) ([]Match, error)
}

// Retriever resolves nearest-neighbor hits back to catalog products. Hits
// whose id is not in the catalog are dropped.
type Retriever struct {
	embedder Embedder
	store    NearestSearcher
}

func NewRetriever(embedder Embedder, store NearestSearcher) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Retrieve embeds the goal and returns the closest catalog products. An
// error here signals the caller to fall back to lexical retrieval.
func (r *Retriever) Retrieve(ctx context.Context, goal string, limit int) ([]catalog.Product, error) {
	embedding, err := r.embedder.Embed(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("embed goal: %w", err)
	}

	matches, err := r.store.Nearest(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("nearest neighbors: %w", err)
	}

	products := make([]catalog.Product, 0, len(matches))
	for _, m := range matches {
		if p, ok := catalog.ByID(m.ID); ok {
			products = append(products, p)
		}
	}
	return products, nil
}
