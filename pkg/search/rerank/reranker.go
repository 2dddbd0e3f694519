package rerank

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/TrvKhanh/rag-mobile/pkg/catalog"
	"github.com/TrvKhanh/rag-mobile/pkg/search/cache"
)

// Policy selects how scored candidates are cut down to a final list.
type Policy string

const (
	// PolicyTopK keeps the topK best products by score.
	PolicyTopK Policy = "topk"
	// PolicyThreshold keeps every product scoring above Threshold,
	// the legacy behavior.
	PolicyThreshold Policy = "threshold"
)

// DefaultThreshold is the legacy cut-off used under PolicyThreshold.
const DefaultThreshold = 5.0

// DefaultMaxContentLen bounds passage content sent to the model.
const DefaultMaxContentLen = 512

// Reranker re-scores fused candidates with a cross-encoder and keeps
// the best-scoring passage per product.
type Reranker struct {
	scorer        Scorer
	cache         cache.Store
	policy        Policy
	threshold     float64
	maxContentLen int
	logger        *log.Logger
}

func NewReranker(scorer Scorer, store cache.Store, policy Policy, threshold float64, logger *log.Logger) *Reranker {
	if policy != PolicyThreshold {
		policy = PolicyTopK
	}
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	return &Reranker{
		scorer:        scorer,
		cache:         store,
		policy:        policy,
		threshold:     threshold,
		maxContentLen: DefaultMaxContentLen,
		logger:        logger,
	}
}

// Rerank scores all candidates in one batched model call and aggregates
// to the single best passage per product. Inference runs on its own
// goroutine so a slow model never blocks the caller past ctx.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []catalog.RankedResult, topK int) ([]catalog.RankedResult, error) {
	if len(candidates) == 0 {
		return []catalog.RankedResult{}, nil
	}

	key := cache.RerankKey(query, topK)
	if hit, found := r.cache.Get(ctx, key); found {
		r.logger.Printf("[INFO] Rerank cache hit for query %q", query)
		return hit, nil
	}

	passages := make([]string, len(candidates))
	for i, c := range candidates {
		passages[i] = truncate(c.Passage.Content, r.maxContentLen)
	}

	scores, err := r.score(ctx, query, passages)
	if err != nil {
		return nil, fmt.Errorf("rerank scoring failed: %w", err)
	}

	// Best evidence per product: keep only the max-scoring passage,
	// ties broken by the incoming fusion order.
	type best struct {
		result catalog.RankedResult
		order  int
	}
	bests := make(map[string]*best, len(candidates))
	for i, c := range candidates {
		pid := c.Passage.Metadata.ProductID
		scored := catalog.RankedResult{
			Passage: c.Passage,
			Score:   scores[i],
			Source:  catalog.SourceReranked,
		}
		if existing, ok := bests[pid]; ok {
			if scored.Score > existing.result.Score {
				existing.result = scored
			}
			continue
		}
		bests[pid] = &best{result: scored, order: i}
	}

	results := make([]catalog.RankedResult, 0, len(bests))
	orders := make(map[string]int, len(bests))
	for pid, b := range bests {
		orders[pid] = b.order
		results = append(results, b.result)
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return orders[results[i].Passage.Metadata.ProductID] < orders[results[j].Passage.Metadata.ProductID]
	})

	switch r.policy {
	case PolicyThreshold:
		kept := results[:0]
		for _, res := range results {
			if res.Score > r.threshold {
				kept = append(kept, res)
			}
		}
		results = kept
	default:
		if len(results) > topK {
			results = results[:topK]
		}
	}

	r.cache.Set(ctx, key, results, cache.DefaultTTL)
	r.logger.Printf("[INFO] Reranked %d candidates into %d products for query %q", len(candidates), len(results), query)
	return results, nil
}

func (r *Reranker) score(ctx context.Context, query string, passages []string) ([]float64, error) {
	type outcome struct {
		scores []float64
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		scores, err := r.scorer.Score(ctx, query, passages)
		done <- outcome{scores: scores, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		return out.scores, out.err
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
