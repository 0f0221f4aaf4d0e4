package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/commerce-agent/internal/catalog"
)

type failingRetriever struct{}

func (failingRetriever) Retrieve(context.Context, string, int) ([]catalog.Product, error) {
	return nil, errors.New("backend down")
}

func TestRecommend_ReturnsRankedCards(t *testing.T) {
	r := New(nil)

	cards, debug, err := r.Recommend(context.Background(), "noise cancelling headphones", catalog.Filters{}, 6)

	require.NoError(t, err)
	require.NotEmpty(t, cards)
	assert.Equal(t, "sku-001", cards[0].ID)
	assert.Equal(t, "catalog", cards[0].Source)
	assert.NotEmpty(t, cards[0].Rationale)
	assert.LessOrEqual(t, len(cards), 6)
	assert.Greater(t, debug.Scored, 0)
	assert.Greater(t, debug.MaxBaseline, 0.0)
	assert.False(t, debug.FallbackUsed)
}

func TestRecommend_Deterministic(t *testing.T) {
	r := New(nil)

	first, _, err := r.Recommend(context.Background(), "running shoes", catalog.Filters{}, 8)
	require.NoError(t, err)
	second, _, err := r.Recommend(context.Background(), "running shoes", catalog.Filters{}, 8)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRecommend_HonorsConstraints(t *testing.T) {
	r := New(nil)
	max := 10000

	cards, _, err := r.Recommend(context.Background(), "shoes", catalog.Filters{Category: "footwear", PriceMax: &max}, 8)

	require.NoError(t, err)
	require.NotEmpty(t, cards)
	for _, c := range cards {
		assert.Equal(t, "footwear", c.Category)
		assert.LessOrEqual(t, c.PriceCents, max)
	}
}

func TestRecommend_DiversifiesBrands(t *testing.T) {
	r := New(nil)

	cards, debug, err := r.Recommend(context.Background(), "running shoes trail", catalog.Filters{Category: "footwear"}, 4)

	require.NoError(t, err)
	assert.Equal(t, len(cards), debug.AfterDiversity)

	// With enough candidates, the first pages avoids duplicate brands.
	seen := map[string]int{}
	for _, c := range cards {
		if len(c.Badges) > 0 {
			seen[c.Badges[0]]++
		}
	}
	for brand, n := range seen {
		assert.LessOrEqual(t, n, 2, "brand %s dominates results", brand)
	}
}

func TestRecommend_FallsBackWhenRetrieverFails(t *testing.T) {
	r := New(failingRetriever{})

	cards, _, err := r.Recommend(context.Background(), "yoga mat", catalog.Filters{}, 5)

	require.NoError(t, err)
	require.NotEmpty(t, cards)
	assert.Equal(t, "sku-027", cards[0].ID)
}

func TestRecommend_FallbackFlagWhenNoTermMatches(t *testing.T) {
	r := New(nil)

	cards, debug, err := r.Recommend(context.Background(), "zzzzxq", catalog.Filters{}, 3)

	require.NoError(t, err)
	assert.NotEmpty(t, cards, "unmatched goals still return popular picks")
	assert.True(t, debug.FallbackUsed)
	assert.Zero(t, debug.MaxBaseline)
}

func TestAttributeMatchScore(t *testing.T) {
	p := catalog.Product{Brand: "Stride", Colors: []string{"red", "black"}, Sizes: []string{"9", "10"}, PriceCents: 12999}
	max := 15000

	full := attributeMatchScore(p, catalog.Filters{Brand: "stride", Color: []string{"Red"}, PriceMax: &max})
	assert.InDelta(t, 1.0, full, 1e-9)

	half := attributeMatchScore(p, catalog.Filters{Brand: "Other", Size: []string{"9"}})
	assert.InDelta(t, 0.5, half, 1e-9)

	none := attributeMatchScore(p, catalog.Filters{})
	assert.Zero(t, none)
}
