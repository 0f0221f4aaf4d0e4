package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/example/commerce-agent/internal/analytics"
	"github.com/example/commerce-agent/internal/api/middleware"
	"github.com/example/commerce-agent/internal/card"
	"github.com/example/commerce-agent/internal/cart"
)

// Cart Handlers

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFrom(r)
	respondJSON(w, http.StatusOK, h.carts.Get(sessionID))
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFrom(r)

	var product card.ProductCard
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if product.ID == "" {
		respondError(w, "product id required", http.StatusBadRequest)
		return
	}

	state := h.carts.Add(sessionID, product)

	h.publishCartEvent(r, cart.EventItemAdded, cart.ItemAdded{
		SessionID:  sessionID,
		ProductID:  product.ID,
		PriceCents: product.PriceCents,
		Source:     product.Source,
		Total:      state.Total,
		AddedAt:    time.Now(),
	})

	respondJSON(w, http.StatusOK, state)
}

func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFrom(r)
	productID := extractPathParam(r.URL.Path, "/cart/items/")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Quantity <= 0 {
		respondError(w, "quantity must be positive", http.StatusBadRequest)
		return
	}

	// Setting quantity for an id that is not in the cart is a no-op, not an
	// error.
	state, ok := h.carts.SetQuantity(sessionID, productID, req.Quantity)
	if !ok {
		log.Printf("[Cart] set-quantity for absent product %s in session %s", productID, sessionID)
	} else {
		h.publishCartEvent(r, cart.EventQuantitySet, cart.QuantitySet{
			SessionID: sessionID,
			ProductID: productID,
			Quantity:  req.Quantity,
			Total:     state.Total,
			SetAt:     time.Now(),
		})
	}

	respondJSON(w, http.StatusOK, state)
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFrom(r)
	productID := extractPathParam(r.URL.Path, "/cart/items/")

	state, ok := h.carts.Remove(sessionID, productID)
	if ok {
		h.publishCartEvent(r, cart.EventItemRemoved, cart.ItemRemoved{
			SessionID: sessionID,
			ProductID: productID,
			Total:     state.Total,
			RemovedAt: time.Now(),
		})
	}

	respondJSON(w, http.StatusOK, state)
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFrom(r)

	state := h.carts.Clear(sessionID)
	h.publishCartEvent(r, cart.EventCleared, cart.Cleared{
		SessionID: sessionID,
		ClearedAt: time.Now(),
	})

	respondJSON(w, http.StatusOK, state)
}

func (h *Handlers) publishCartEvent(r *http.Request, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return
	}

	event := analytics.NewEvent(eventType, sessionFrom(r), fields)
	if err := h.publisher.Publish(r.Context(), event); err != nil {
		log.Printf("[Cart] analytics publish failed: %v", err)
	}
}

// sessionFrom resolves the caller's session id, falling back to a shared
// default so unauthenticated demo traffic still gets a working cart.
func sessionFrom(r *http.Request) string {
	if id := middleware.SessionID(r.Context()); id != "" {
		return id
	}
	if id := r.Header.Get("X-Session-ID"); id != "" {
		return id
	}
	return "default-session"
}
