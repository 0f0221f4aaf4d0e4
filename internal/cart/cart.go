package cart

import (
	"sync"

	"github.com/example/commerce-agent/internal/card"
)

// Item is a cart line: the product card snapshotted at add time plus a
// quantity. Price changes in the catalog never reach an existing line.
type Item struct {
	card.ProductCard
	Quantity int `json:"quantity"`
}

// Cart holds one session's selections in insertion order. Total is always
// re-derived from the items after a mutation and is never stored on its own.
type Cart struct {
	ID    string `json:"id"`
	Items []Item `json:"items"`
	Total int    `json:"total"`
}

// New returns an empty cart for a session.
func New(id string) *Cart {
	return &Cart{ID: id, Items: []Item{}}
}

// Add puts the card in the cart. A card whose id is already present bumps
// that line's quantity by one; otherwise a new line is appended. Adding is
// always accepted.
func (c *Cart) Add(p card.ProductCard) {
	for i := range c.Items {
		if c.Items[i].ID == p.ID {
			c.Items[i].Quantity++
			c.recompute()
			return
		}
	}
	c.Items = append(c.Items, Item{ProductCard: p, Quantity: 1})
	c.recompute()
}

// Remove deletes the line with the given product id. Removing an absent id
// is a no-op, not an error.
func (c *Cart) Remove(productID string) bool {
	for i := range c.Items {
		if c.Items[i].ID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.recompute()
			return true
		}
	}
	return false
}

// SetQuantity sets the line's quantity to the given positive value. Absent
// ids and non-positive quantities leave the cart untouched.
func (c *Cart) SetQuantity(productID string, quantity int) bool {
	if quantity <= 0 {
		return false
	}
	for i := range c.Items {
		if c.Items[i].ID == productID {
			c.Items[i].Quantity = quantity
			c.recompute()
			return true
		}
	}
	return false
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []Item{}
	c.recompute()
}

// recompute re-derives the total from scratch. A full pass per mutation is
// cheap at cart sizes and keeps the total correct by construction.
func (c *Cart) recompute() {
	total := 0
	for _, item := range c.Items {
		total += item.PriceCents * item.Quantity
	}
	c.Total = total
}

// snapshot returns a deep copy safe to hand outside the store lock.
func (c *Cart) snapshot() Cart {
	items := make([]Item, len(c.Items))
	copy(items, c.Items)
	return Cart{ID: c.ID, Items: items, Total: c.Total}
}

// Store keeps one cart per session in memory. Mutations run under the lock,
// so each session sees a single logical writer. Carts live for the process
// lifetime; there is no cross-restart persistence.
type Store struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

func (s *Store) get(sessionID string) *Cart {
	c, ok := s.carts[sessionID]
	if !ok {
		c = New(sessionID)
		s.carts[sessionID] = c
	}
	return c
}

// Get returns a snapshot of the session's cart, creating an empty one for
// unknown sessions.
func (s *Store) Get(sessionID string) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(sessionID).snapshot()
}

// Add adds the card to the session's cart and returns the resulting state.
func (s *Store) Add(sessionID string, p card.ProductCard) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(sessionID)
	c.Add(p)
	return c.snapshot()
}

// Remove drops the product line if present.
func (s *Store) Remove(sessionID, productID string) (Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(sessionID)
	ok := c.Remove(productID)
	return c.snapshot(), ok
}

// SetQuantity updates a line's quantity if present.
func (s *Store) SetQuantity(sessionID, productID string, quantity int) (Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(sessionID)
	ok := c.SetQuantity(productID, quantity)
	return c.snapshot(), ok
}

// Clear empties the session's cart.
func (s *Store) Clear(sessionID string) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(sessionID)
	c.Clear()
	return c.snapshot()
}
