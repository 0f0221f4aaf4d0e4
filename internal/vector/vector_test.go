package vector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/commerce-agent/internal/catalog"
)

// ============ Embedder ============

func newTestEmbedder(t *testing.T, body string, status int) *HFEmbedder {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer hf-token", r.Header.Get("Authorization"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewHFEmbedder("hf-token").WithURL(srv.URL).WithClient(srv.Client())
}

func TestHFEmbedder_FlatVector(t *testing.T) {
	e := newTestEmbedder(t, `[0.1, 0.2, 0.3]`, http.StatusOK)

	vec, err := e.Embed(context.Background(), "cozy blanket")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestHFEmbedder_MatrixResponse(t *testing.T) {
	e := newTestEmbedder(t, `[[0.5, 0.6]]`, http.StatusOK)

	vec, err := e.Embed(context.Background(), "cozy blanket")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.6}, vec)
}

func TestHFEmbedder_EmptyResponse(t *testing.T) {
	e := newTestEmbedder(t, `[]`, http.StatusOK)

	_, err := e.Embed(context.Background(), "x")

	assert.ErrorIs(t, err, ErrEmptyEmbedding)
}

func TestHFEmbedder_UpstreamError(t *testing.T) {
	e := newTestEmbedder(t, `{"error":"model loading"}`, http.StatusServiceUnavailable)

	_, err := e.Embed(context.Background(), "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

// ============ Vector literal ============

func TestVectorLiteral(t *testing.T) {
	assert.Equal(t, "[1,0.5,-0.25]", vectorLiteral([]float32{1, 0.5, -0.25}))
	assert.Equal(t, "[]", vectorLiteral(nil))
}

// ============ Retriever ============

type stubEmbedder struct {
	vec []float32
	err error
}

func (s *stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	return s.vec, s.err
}

type stubSearcher struct {
	matches []Match
	err     error
}

func (s *stubSearcher) Nearest(context.Context, []float32, int) ([]Match, error) {
	return s.matches, s.err
}

// ============ Ingest ============

type stubUpserter struct {
	ids []string
	err error
}

func (s *stubUpserter) Upsert(_ context.Context, id string, _ []float32, _ any) error {
	if s.err != nil {
		return s.err
	}
	s.ids = append(s.ids, id)
	return nil
}

func TestIngestCatalog(t *testing.T) {
	store := &stubUpserter{}

	written, err := IngestCatalog(context.Background(), &stubEmbedder{vec: []float32{0.1}}, store, catalog.MustLoad())

	require.NoError(t, err)
	assert.Equal(t, 50, written)
	require.Len(t, store.ids, 50)
	assert.Equal(t, "sku-001", store.ids[0])
}

func TestIngestCatalog_EmbedFailureAborts(t *testing.T) {
	store := &stubUpserter{}

	written, err := IngestCatalog(context.Background(), &stubEmbedder{err: errors.New("model loading")}, store, catalog.MustLoad())

	assert.Error(t, err)
	assert.Equal(t, 0, written)
	assert.Empty(t, store.ids)
}

func TestIngestCatalog_UpsertFailureAborts(t *testing.T) {
	store := &stubUpserter{err: errors.New("db down")}

	written, err := IngestCatalog(context.Background(), &stubEmbedder{vec: []float32{0.1}}, store, catalog.MustLoad())

	assert.Error(t, err)
	assert.Equal(t, 0, written)
}

func TestRetriever_MapsMatchesToCatalog(t *testing.T) {
	r := NewRetriever(
		&stubEmbedder{vec: []float32{0.1}},
		&stubSearcher{matches: []Match{
			{ID: "sku-002", Score: 0.9},
			{ID: "not-a-sku", Score: 0.8},
			{ID: "sku-001", Score: 0.7},
		}},
	)

	products, err := r.Retrieve(context.Background(), "smartwatch", 10)

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "sku-002", products[0].ID)
	assert.Equal(t, "sku-001", products[1].ID)
}

func TestRetriever_EmbedFailure(t *testing.T) {
	r := NewRetriever(&stubEmbedder{err: errors.New("down")}, &stubSearcher{})

	_, err := r.Retrieve(context.Background(), "goal", 5)

	assert.Error(t, err)
}

func TestRetriever_SearchFailure(t *testing.T) {
	r := NewRetriever(&stubEmbedder{vec: []float32{0.1}}, &stubSearcher{err: errors.New("db down")})

	_, err := r.Retrieve(context.Background(), "goal", 5)

	assert.Error(t, err)
}

func TestRetriever_EmptyMatches(t *testing.T) {
	r := NewRetriever(&stubEmbedder{vec: []float32{0.1}}, &stubSearcher{})

	products, err := r.Retrieve(context.Background(), "goal", 5)

	require.NoError(t, err)
	assert.Empty(t, products)
}
