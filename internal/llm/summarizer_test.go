package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_UsesGeneratedText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer hf-token", r.Header.Get("Authorization"))
		w.Write([]byte(`[{"generated_text":"A concise product summary."}]`))
	}))
	t.Cleanup(srv.Close)
	s := NewSummarizer("hf-token").WithURL(srv.URL).WithClient(srv.Client())

	got := s.Summarize(context.Background(), "long page text")

	assert.Equal(t, "A concise product summary.", got)
}

func TestSummarize_CapsGeneratedLength(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"generated_text":"` + strings.Repeat("a", 400) + `"}]`))
	}))
	t.Cleanup(srv.Close)
	s := NewSummarizer("hf-token").WithURL(srv.URL).WithClient(srv.Client())

	got := s.Summarize(context.Background(), "text")

	assert.Len(t, got, maxSummaryChars)
}

func TestSummarize_NoTokenFallsBackToTruncation(t *testing.T) {
	s := NewSummarizer("")

	short := s.Summarize(context.Background(), "short text")
	assert.Equal(t, "short text", short)

	long := s.Summarize(context.Background(), strings.Repeat("x", 300))
	assert.Len(t, long, maxSummaryChars)
	assert.True(t, strings.HasSuffix(long, "..."))
}

func TestSummarize_UpstreamFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	s := NewSummarizer("hf-token").WithURL(srv.URL).WithClient(srv.Client())

	got := s.Summarize(context.Background(), strings.Repeat("y", 300))

	assert.Len(t, got, maxSummaryChars)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "abcd...", Truncate("abcdefgh", 7))
}
