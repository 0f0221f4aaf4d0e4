package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	before := time.Now()
	e := NewEvent(EventChatTurn, "sess-1", map[string]any{"intent": "text_recommendation"})

	require.NotEmpty(t, e.ID)
	assert.Equal(t, EventChatTurn, e.Type)
	assert.Equal(t, "sess-1", e.SessionID)
	assert.False(t, e.Timestamp.Before(before))
	assert.Equal(t, "text_recommendation", e.Data["intent"])
}

func TestNewEvent_UniqueIDs(t *testing.T) {
	a := NewEvent(EventImageSearch, "s", nil)
	b := NewEvent(EventImageSearch, "s", nil)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}

	assert.NoError(t, p.Publish(context.Background(), NewEvent(EventSessionStarted, "s", nil)))
	assert.NoError(t, p.Close())
}
