package fusion

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TrvKhanh/rag-mobile/pkg/catalog"
	"github.com/TrvKhanh/rag-mobile/pkg/search/cache"
)

type stubLexical struct {
	results []catalog.RankedResult
	calls   int
}

func (s *stubLexical) Search(_ string, _ int) []catalog.RankedResult {
	s.calls++
	return s.results
}

type stubVector struct {
	results []catalog.RankedResult
	err     error
	calls   int
}

func (s *stubVector) Search(_ context.Context, _ string, _ int) ([]catalog.RankedResult, error) {
	s.calls++
	return s.results, s.err
}

func passage(id, productID string) catalog.Passage {
	return catalog.Passage{
		ID:       id,
		Content:  "content " + id,
		Metadata: catalog.Metadata{ProductID: productID, Title: productID},
	}
}

func ranked(id, productID string, score float64, src catalog.Source) catalog.RankedResult {
	return catalog.RankedResult{Passage: passage(id, productID), Score: score, Source: src}
}

func testLogger() *log.Logger {
	return log.New(os.Stderr, "[test] ", log.LstdFlags)
}

func TestFuseAccumulatesWeightsAcrossSources(t *testing.T) {
	lex := &stubLexical{results: []catalog.RankedResult{
		ranked("l1", "iphone-16", 8.2, catalog.SourceLexical),
		ranked("l2", "galaxy-s25", 5.1, catalog.SourceLexical),
	}}
	vec := &stubVector{results: []catalog.RankedResult{
		ranked("v1", "iphone-16", 0.91, catalog.SourceVector),
		ranked("v2", "xiaomi-15", 0.85, catalog.SourceVector),
	}}

	engine := NewEngine(lex, vec, cache.NewMemoryStore(), 0.5, testLogger())

	results, err := engine.Fuse(context.Background(), "điện thoại flagship", 5)
	assert.NoError(t, err)
	assert.Len(t, results, 3)

	// Present in both sources, so it carries both weights
	assert.Equal(t, "iphone-16", results[0].Passage.Metadata.ProductID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)

	// Single-source products score exactly one weight; lexical-first
	// order breaks the tie
	assert.Equal(t, "galaxy-s25", results[1].Passage.Metadata.ProductID)
	assert.InDelta(t, 0.5, results[1].Score, 1e-9)
	assert.Equal(t, "xiaomi-15", results[2].Passage.Metadata.ProductID)
	assert.InDelta(t, 0.5, results[2].Score, 1e-9)

	for _, r := range results {
		assert.Equal(t, catalog.SourceFused, r.Source)
	}
}

func TestFuseDeduplicatesByProductKeepingFirstPassage(t *testing.T) {
	lex := &stubLexical{results: []catalog.RankedResult{
		ranked("l1", "iphone-16", 9.0, catalog.SourceLexical),
		ranked("l2", "iphone-16", 7.0, catalog.SourceLexical),
	}}
	vec := &stubVector{}

	engine := NewEngine(lex, vec, cache.NewMemoryStore(), 0.5, testLogger())

	results, err := engine.Fuse(context.Background(), "iphone", 5)
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "l1", results[0].Passage.ID)
}

func TestFuseRespectsTopK(t *testing.T) {
	lex := &stubLexical{results: []catalog.RankedResult{
		ranked("l1", "a", 3, catalog.SourceLexical),
		ranked("l2", "b", 2, catalog.SourceLexical),
		ranked("l3", "c", 1, catalog.SourceLexical),
	}}
	engine := NewEngine(lex, &stubVector{}, cache.NewMemoryStore(), 0.5, testLogger())

	results, err := engine.Fuse(context.Background(), "q", 2)
	assert.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestFuseCacheHitSkipsSources(t *testing.T) {
	lex := &stubLexical{results: []catalog.RankedResult{
		ranked("l1", "iphone-16", 9.0, catalog.SourceLexical),
	}}
	vec := &stubVector{}
	engine := NewEngine(lex, vec, cache.NewMemoryStore(), 0.5, testLogger())

	ctx := context.Background()
	first, err := engine.Fuse(ctx, "iphone 16", 5)
	assert.NoError(t, err)

	second, err := engine.Fuse(ctx, "iphone 16", 5)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, lex.calls)
	assert.Equal(t, 1, vec.calls)
}

func TestFusePropagatesVectorFailure(t *testing.T) {
	vec := &stubVector{err: assert.AnError}
	engine := NewEngine(&stubLexical{}, vec, cache.NewMemoryStore(), 0.5, testLogger())

	_, err := engine.Fuse(context.Background(), "q", 5)
	assert.Error(t, err)
}
