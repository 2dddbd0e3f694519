package rerank

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TrvKhanh/rag-mobile/pkg/catalog"
	"github.com/TrvKhanh/rag-mobile/pkg/search/cache"
)

type stubScorer struct {
	scores map[string]float64
	calls  int
	err    error
}

func (s *stubScorer) Score(_ context.Context, _ string, passages []string) ([]float64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]float64, len(passages))
	for i, p := range passages {
		out[i] = s.scores[p]
	}
	return out, nil
}

func candidate(id, productID, content string) catalog.RankedResult {
	return catalog.RankedResult{
		Passage: catalog.Passage{
			ID:       id,
			Content:  content,
			Metadata: catalog.Metadata{ProductID: productID, Title: productID},
		},
		Score:  0.5,
		Source: catalog.SourceFused,
	}
}

func testLogger() *log.Logger {
	return log.New(os.Stderr, "[test] ", log.LstdFlags)
}

func TestRerankKeepsBestPassagePerProduct(t *testing.T) {
	scorer := &stubScorer{scores: map[string]float64{
		"camera tốt": 3.2,
		"pin trâu":   7.8,
		"màn đẹp":    6.1,
	}}
	r := NewReranker(scorer, cache.NewMemoryStore(), PolicyTopK, 0, testLogger())

	candidates := []catalog.RankedResult{
		candidate("p1", "iphone-16", "camera tốt"),
		candidate("p2", "iphone-16", "pin trâu"),
		candidate("p3", "galaxy-s25", "màn đẹp"),
	}

	results, err := r.Rerank(context.Background(), "pin", candidates, 5)
	assert.NoError(t, err)
	assert.Len(t, results, 2)

	assert.Equal(t, "p2", results[0].Passage.ID)
	assert.InDelta(t, 7.8, results[0].Score, 1e-9)
	assert.Equal(t, catalog.SourceReranked, results[0].Source)
	assert.Equal(t, "p3", results[1].Passage.ID)
}

func TestRerankEmptyCandidatesSkipsModel(t *testing.T) {
	scorer := &stubScorer{}
	r := NewReranker(scorer, cache.NewMemoryStore(), PolicyTopK, 0, testLogger())

	results, err := r.Rerank(context.Background(), "q", nil, 5)
	assert.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, scorer.calls)
}

func TestRerankThresholdPolicyFiltersLowScores(t *testing.T) {
	scorer := &stubScorer{scores: map[string]float64{
		"a": 6.5,
		"b": 4.9,
	}}
	r := NewReranker(scorer, cache.NewMemoryStore(), PolicyThreshold, 5.0, testLogger())

	candidates := []catalog.RankedResult{
		candidate("p1", "iphone-16", "a"),
		candidate("p2", "galaxy-s25", "b"),
	}

	results, err := r.Rerank(context.Background(), "q", candidates, 10)
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].Passage.ID)
}

func TestRerankCacheHitSkipsScorer(t *testing.T) {
	scorer := &stubScorer{scores: map[string]float64{"a": 1.0}}
	r := NewReranker(scorer, cache.NewMemoryStore(), PolicyTopK, 0, testLogger())

	candidates := []catalog.RankedResult{candidate("p1", "iphone-16", "a")}
	ctx := context.Background()

	first, err := r.Rerank(ctx, "iphone", candidates, 5)
	assert.NoError(t, err)

	second, err := r.Rerank(ctx, "iphone", candidates, 5)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, scorer.calls)
}

func TestRerankTruncatesLongContent(t *testing.T) {
	long := make([]rune, DefaultMaxContentLen+100)
	for i := range long {
		long[i] = 'a'
	}
	var seen string
	scorer := &scorerFunc{fn: func(passages []string) ([]float64, error) {
		seen = passages[0]
		return []float64{1.0}, nil
	}}
	r := NewReranker(scorer, cache.NewMemoryStore(), PolicyTopK, 0, testLogger())

	_, err := r.Rerank(context.Background(), "q", []catalog.RankedResult{
		candidate("p1", "iphone-16", string(long)),
	}, 5)
	assert.NoError(t, err)
	assert.Len(t, []rune(seen), DefaultMaxContentLen)
}

type scorerFunc struct {
	fn func(passages []string) ([]float64, error)
}

func (s *scorerFunc) Score(_ context.Context, _ string, passages []string) ([]float64, error) {
	return s.fn(passages)
}
