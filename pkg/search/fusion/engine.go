package fusion

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/TrvKhanh/rag-mobile/pkg/catalog"
	"github.com/TrvKhanh/rag-mobile/pkg/search/cache"
)

// LexicalSource is the term-overlap side of the hybrid query.
type LexicalSource interface {
	Search(query string, topK int) []catalog.RankedResult
}

// VectorSource is the embedding-similarity side of the hybrid query.
type VectorSource interface {
	Search(ctx context.Context, query string, topK int) ([]catalog.RankedResult, error)
}

// Engine runs both retrieval sources concurrently and merges their
// ranked lists into one deduplicated ranking per product. Each source a
// document shows up in contributes that source's weight to the
// product's fused score, so a product found by both sources outranks
// one found by a single source.
type Engine struct {
	lexical  LexicalSource
	vector   VectorSource
	cache    cache.Store
	wLexical float64
	wVector  float64
	logger   *log.Logger
}

func NewEngine(lexical LexicalSource, vector VectorSource, store cache.Store, wLexical float64, logger *log.Logger) *Engine {
	if wLexical <= 0 || wLexical >= 1 {
		wLexical = 0.5
	}
	return &Engine{
		lexical:  lexical,
		vector:   vector,
		cache:    store,
		wLexical: wLexical,
		wVector:  1 - wLexical,
		logger:   logger,
	}
}

type fusedEntry struct {
	passage catalog.Passage
	score   float64
	order   int
}

// Fuse answers (query, topK) from the cache when possible, otherwise
// joins both sources and caches the merged ranking for 24h.
func (e *Engine) Fuse(ctx context.Context, query string, topK int) ([]catalog.RankedResult, error) {
	key := cache.FusionKey(query, topK)
	if hit, found := e.cache.Get(ctx, key); found {
		e.logger.Printf("[INFO] Fusion cache hit for query %q", query)
		return hit, nil
	}

	var (
		wg         sync.WaitGroup
		lexResults []catalog.RankedResult
		vecResults []catalog.RankedResult
		vecErr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		lexResults = e.lexical.Search(query, topK)
	}()
	go func() {
		defer wg.Done()
		vecResults, vecErr = e.vector.Search(ctx, query, topK)
	}()
	wg.Wait()

	if vecErr != nil {
		return nil, fmt.Errorf("vector source failed: %w", vecErr)
	}

	// Lexical is accumulated first so first-seen order breaks ties
	// deterministically.
	entries := make(map[string]*fusedEntry)
	order := 0
	accumulate := func(results []catalog.RankedResult, weight float64) {
		for _, r := range results {
			pid := r.Passage.Metadata.ProductID
			if entry, ok := entries[pid]; ok {
				entry.score += weight
				continue
			}
			entries[pid] = &fusedEntry{passage: r.Passage, score: weight, order: order}
			order++
		}
	}
	accumulate(lexResults, e.wLexical)
	accumulate(vecResults, e.wVector)

	fused := make([]catalog.RankedResult, 0, len(entries))
	orders := make(map[string]int, len(entries))
	for pid, entry := range entries {
		orders[pid] = entry.order
		fused = append(fused, catalog.RankedResult{
			Passage: entry.passage,
			Score:   entry.score,
			Source:  catalog.SourceFused,
		})
	}

	sort.SliceStable(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		return orders[fused[i].Passage.Metadata.ProductID] < orders[fused[j].Passage.Metadata.ProductID]
	})

	if len(fused) > topK {
		fused = fused[:topK]
	}

	e.cache.Set(ctx, key, fused, cache.DefaultTTL)
	e.logger.Printf("[INFO] Fused %d lexical + %d vector results into %d products for query %q",
		len(lexResults), len(vecResults), len(fused), query)
	return fused, nil
}
