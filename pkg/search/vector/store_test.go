package vector

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TrvKhanh/rag-mobile/pkg/catalog"
	"github.com/TrvKhanh/rag-mobile/pkg/embedding"
)

type stubSearcher struct {
	results []catalog.RankedResult
	err     error
}

func (s *stubSearcher) SearchSimilarWithScore(_ context.Context, _ []float32, _ int) ([]catalog.RankedResult, error) {
	return s.results, s.err
}

type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) Generate(_ string, _ string) (*embedding.EmbeddingResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2}},
	}, nil
}

func testLogger() *log.Logger {
	return log.New(os.Stderr, "[test] ", log.LstdFlags)
}

func TestSearchTagsResultsAsVector(t *testing.T) {
	searcher := &stubSearcher{results: []catalog.RankedResult{
		{
			Passage: catalog.Passage{
				ID:       "p1",
				Content:  "iPhone 16 chip A18",
				Metadata: catalog.Metadata{ProductID: "iphone-16"},
			},
			Score: 0.91,
		},
	}}
	store := NewStore(searcher, &stubEmbedder{}, testLogger())

	results, err := store.Search(context.Background(), "iphone 16", 5)
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, catalog.SourceVector, results[0].Source)
}

func TestSearchEmptyTableSurfacesWelcome(t *testing.T) {
	store := NewStore(&stubSearcher{}, &stubEmbedder{}, testLogger())

	results, err := store.Search(context.Background(), "iphone 16 giá bao nhiêu", 5)
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "default", results[0].Passage.Metadata.ProductID)
	assert.Equal(t, catalog.SourceVector, results[0].Source)
}

func TestSearchPropagatesEmbeddingFailure(t *testing.T) {
	store := NewStore(&stubSearcher{}, &stubEmbedder{err: assert.AnError}, testLogger())

	_, err := store.Search(context.Background(), "q", 5)
	assert.Error(t, err)
}
