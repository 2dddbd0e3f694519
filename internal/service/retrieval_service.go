package service

import (
	"context"

	"github.com/TrvKhanh/rag-mobile/internal/pkg/logger"
	"github.com/TrvKhanh/rag-mobile/pkg/catalog"
	"github.com/TrvKhanh/rag-mobile/pkg/search/fusion"
	"github.com/TrvKhanh/rag-mobile/pkg/search/rerank"
)

type IRetrievalService interface {
	// Retrieve runs the full hybrid pipeline: fusion then rerank.
	Retrieve(ctx context.Context, query string, topK int) ([]catalog.RankedResult, error)
}

type retrievalService struct {
	fusionEngine *fusion.Engine
	reranker     *rerank.Reranker
	logger       logger.ILogger
}

func NewRetrievalService(fusionEngine *fusion.Engine, reranker *rerank.Reranker, log logger.ILogger) IRetrievalService {
	return &retrievalService{
		fusionEngine: fusionEngine,
		reranker:     reranker,
		logger:       log,
	}
}

func (s *retrievalService) Retrieve(ctx context.Context, query string, topK int) ([]catalog.RankedResult, error) {
	fused, err := s.fusionEngine.Fuse(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	reranked, err := s.reranker.Rerank(ctx, query, fused, topK)
	if err != nil {
		// Reranker unavailability degrades to the fused ranking
		s.logger.Warn("retrieval", "Rerank failed, serving fused results", map[string]interface{}{
			"error": err.Error(),
			"query": query,
		})
		return fused, nil
	}
	return reranked, nil
}
