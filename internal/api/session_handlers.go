package api

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/example/commerce-agent/internal/analytics"
)

// Session Handlers

func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := uuid.New().String()

	token, expiresAt, err := h.tokens.GenerateSessionToken(sessionID)
	if err != nil {
		log.Printf("[API] session token generation failed: %v", err)
		respondError(w, "could not create session", http.StatusInternalServerError)
		return
	}

	event := analytics.NewEvent(analytics.EventSessionStarted, sessionID, nil)
	if err := h.publisher.Publish(r.Context(), event); err != nil {
		log.Printf("[API] analytics publish failed: %v", err)
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"session_id": sessionID,
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}
