package vector

import (
	"context"
	"fmt"

	"github.com/example/commerce-agent/internal/catalog"
)

// Upserter is the slice of Store the ingester needs.
type Upserter interface {
	Upsert(ctx context.Context, id string, embedding []float32, metadata any) error
}

// IngestCatalog embeds every product and writes it to the store. Returns the
// number of products written; the first embed or write failure aborts the run
// so a partial index never passes for a complete one.
func IngestCatalog(ctx context.Context, embedder Embedder, store Upserter, products []catalog.Product) (int, error) {
	written := 0
	for _, p := range products {
		embedding, err := embedder.Embed(ctx, p.Haystack())
		if err != nil {
			return written, fmt.Errorf("embed %s: %w", p.ID, err)
		}

		metadata := map[string]any{
			"title":    p.Title,
			"brand":    p.Brand,
			"category": p.Category,
		}
		if err := store.Upsert(ctx, p.ID, embedding, metadata); err != nil {
			return written, fmt.Errorf("upsert %s: %w", p.ID, err)
		}
		written++
	}
	return written, nil
}
