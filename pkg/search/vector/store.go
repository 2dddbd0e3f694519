package vector

import (
	"context"
	"fmt"
	"log"

	"github.com/TrvKhanh/rag-mobile/pkg/catalog"
	"github.com/TrvKhanh/rag-mobile/pkg/embedding"
)

// SimilaritySearcher is the persistence-side contract the store needs:
// nearest-neighbour search over stored passage embeddings, scores in
// [0,1] cosine similarity.
type SimilaritySearcher interface {
	SearchSimilarWithScore(ctx context.Context, queryEmbedding []float32, limit int) ([]catalog.RankedResult, error)
}

// Store answers semantic queries by embedding the query text and
// delegating the nearest-neighbour search to the database.
type Store struct {
	searcher SimilaritySearcher
	embedder embedding.EmbeddingProvider
	logger   *log.Logger
}

func NewStore(searcher SimilaritySearcher, embedder embedding.EmbeddingProvider, logger *log.Logger) *Store {
	return &Store{
		searcher: searcher,
		embedder: embedder,
		logger:   logger,
	}
}

// Search embeds the query and returns the topK most similar passages.
func (s *Store) Search(ctx context.Context, query string, topK int) ([]catalog.RankedResult, error) {
	resp, err := s.embedder.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := s.searcher.SearchSimilarWithScore(ctx, resp.Embedding.Values, topK)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	// Nearest-neighbour search only comes back empty when the table
	// holds no passages, so answer with the welcome sentinel.
	if len(results) == 0 {
		return []catalog.RankedResult{{
			Passage: catalog.WelcomePassage(),
			Score:   0,
			Source:  catalog.SourceVector,
		}}, nil
	}

	for i := range results {
		results[i].Source = catalog.SourceVector
	}
	return results, nil
}
