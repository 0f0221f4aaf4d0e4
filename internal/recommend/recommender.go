package recommend

import (
	"context"
	"log"

	"github.com/example/commerce-agent/internal/card"
	"github.com/example/commerce-agent/internal/catalog"
)

// candidatePool is how many products the retriever may hand to the scorer.
const candidatePool = 200

// Debug carries pipeline counters surfaced in the response debug block.
type Debug struct {
	Scored         int     `json:"scored"`
	AfterDiversity int     `json:"after_diversity"`
	MaxBaseline    float64 `json:"max_baseline"`
	FallbackUsed   bool    `json:"fallback_used"`
}

// Recommender runs retrieval, constraint filtering, scoring, and brand
// diversification for a shopping goal.
type Recommender struct {
	retriever Retriever
}

func New(retriever Retriever) *Recommender {
	if retriever == nil {
		retriever = LexicalRetriever{}
	}
	return &Recommender{retriever: retriever}
}

// Recommend returns up to limit ranked cards with rationales. A retriever
// failure falls back to the lexical pass rather than failing the request.
func (r *Recommender) Recommend(ctx context.Context, goal string, constraints catalog.Filters, limit int) ([]card.ProductCard, Debug, error) {
	candidates, err := r.retriever.Retrieve(ctx, goal, candidatePool)
	if err != nil {
		log.Printf("[Recommend] retriever failed, using lexical fallback: %v", err)
		candidates, err = LexicalRetriever{}.Retrieve(ctx, goal, candidatePool)
		if err != nil {
			return nil, Debug{}, err
		}
	}

	filtered := constraints.Apply(candidates)
	scored := scoreProducts(filtered, goal, constraints)

	maxBaseline := 0.0
	for _, item := range scored {
		if item.baseline > maxBaseline {
			maxBaseline = item.baseline
		}
	}

	diversified := diversify(scored, limit)

	cards := make([]card.ProductCard, 0, len(diversified))
	for _, item := range diversified {
		c := item.product.Card()
		c.Rationale = item.rationale
		cards = append(cards, c)
	}

	debug := Debug{
		Scored:         len(scored),
		AfterDiversity: len(diversified),
		MaxBaseline:    maxBaseline,
		FallbackUsed:   len(scored) > 0 && maxBaseline == 0,
	}
	return cards, debug, nil
}
