package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/commerce-agent/internal/card"
)

func p1() card.ProductCard {
	return card.ProductCard{ID: "p1", Title: "Tee", PriceCents: 1999, Currency: "USD", Source: "catalog"}
}

func p2() card.ProductCard {
	return card.ProductCard{ID: "p2", Title: "Boots", PriceCents: 8500, Currency: "USD", Source: "catalog"}
}

// ============================================
// Add Tests
// ============================================

func TestCart_Add_NewItem(t *testing.T) {
	c := New("s1")
	c.Add(p1())

	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, 1999, c.Total)
}

func TestCart_Add_SameItemTwice(t *testing.T) {
	c := New("s1")
	c.Add(p1())
	c.Add(p1())

	require.Len(t, c.Items, 1, "one entry per distinct product id")
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Equal(t, 3998, c.Total)
}

func TestCart_Add_KeepsInsertionOrder(t *testing.T) {
	c := New("s1")
	c.Add(p2())
	c.Add(p1())
	c.Add(p2())

	require.Len(t, c.Items, 2)
	assert.Equal(t, "p2", c.Items[0].ID)
	assert.Equal(t, "p1", c.Items[1].ID)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestCart_TotalAlwaysDerivedFromItems(t *testing.T) {
	c := New("s1")
	adds := []card.ProductCard{p1(), p2(), p1(), p1(), p2()}
	for _, p := range adds {
		c.Add(p)
	}

	want := 0
	for _, item := range c.Items {
		want += item.PriceCents * item.Quantity
	}
	assert.Equal(t, want, c.Total)
}

// ============================================
// Remove Tests
// ============================================

func TestCart_Remove_ExistingItem(t *testing.T) {
	c := New("s1")
	c.Add(p1())
	c.Add(p2())

	ok := c.Remove("p1")

	assert.True(t, ok)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "p2", c.Items[0].ID)
	assert.Equal(t, 8500, c.Total)
}

func TestCart_Remove_AbsentIDIsNoOp(t *testing.T) {
	c := New("s1")
	c.Add(p1())
	before := c.snapshot()

	ok := c.Remove("ghost")

	assert.False(t, ok)
	assert.Equal(t, before.Items, c.Items)
	assert.Equal(t, before.Total, c.Total)
}

func TestCart_Remove_OnEmptyCart(t *testing.T) {
	c := New("s1")

	ok := c.Remove("p1")

	assert.False(t, ok)
	assert.Empty(t, c.Items)
	assert.Equal(t, 0, c.Total)
}

// ============================================
// SetQuantity Tests
// ============================================

func TestCart_SetQuantity(t *testing.T) {
	c := New("s1")
	c.Add(p1())

	ok := c.SetQuantity("p1", 5)

	assert.True(t, ok)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.Equal(t, 9995, c.Total)
}

func TestCart_SetQuantity_AbsentIDIsNoOp(t *testing.T) {
	c := New("s1")
	c.Add(p1())

	ok := c.SetQuantity("ghost", 3)

	assert.False(t, ok)
	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, 1999, c.Total)
}

func TestCart_SetQuantity_RejectsNonPositive(t *testing.T) {
	c := New("s1")
	c.Add(p1())

	assert.False(t, c.SetQuantity("p1", 0))
	assert.False(t, c.SetQuantity("p1", -2))
	assert.Equal(t, 1, c.Items[0].Quantity)
}

// ============================================
// Clear Tests
// ============================================

func TestCart_Clear(t *testing.T) {
	c := New("s1")
	c.Add(p1())
	c.Add(p2())

	c.Clear()

	assert.Empty(t, c.Items)
	assert.Equal(t, 0, c.Total)
}

func TestCart_Clear_AlreadyEmpty(t *testing.T) {
	c := New("s1")
	c.Clear()

	assert.Empty(t, c.Items)
	assert.Equal(t, 0, c.Total)
}

// ============================================
// Scenario and snapshot semantics
// ============================================

func TestCart_Scenario(t *testing.T) {
	c := New("s1")

	c.Add(p1())
	assert.Equal(t, 1999, c.Total)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)

	c.Add(p1())
	assert.Equal(t, 3998, c.Total)
	assert.Equal(t, 2, c.Items[0].Quantity)

	c.SetQuantity("p1", 5)
	assert.Equal(t, 9995, c.Total)

	c.Remove("p1")
	assert.Empty(t, c.Items)
	assert.Equal(t, 0, c.Total)
}

func TestCart_PriceSnapshottedAtAddTime(t *testing.T) {
	c := New("s1")
	p := p1()
	c.Add(p)

	// Later catalog price changes must not affect the line already in the
	// cart.
	p.PriceCents = 9999
	c.Add(p2())

	assert.Equal(t, 1999, c.Items[0].PriceCents)
	assert.Equal(t, 1999+8500, c.Total)
}

// ============================================
// Store Tests
// ============================================

func TestStore_UnknownSessionGetsEmptyCart(t *testing.T) {
	s := NewStore()

	c := s.Get("nobody")

	assert.Equal(t, "nobody", c.ID)
	assert.Empty(t, c.Items)
	assert.Equal(t, 0, c.Total)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	s := NewStore()

	s.Add("a", p1())
	s.Add("b", p2())

	assert.Equal(t, 1999, s.Get("a").Total)
	assert.Equal(t, 8500, s.Get("b").Total)
}

func TestStore_SnapshotIsDetached(t *testing.T) {
	s := NewStore()
	got := s.Add("a", p1())

	got.Items[0].Quantity = 99

	assert.Equal(t, 1, s.Get("a").Items[0].Quantity)
}
