package contract

import (
	"context"

	"github.com/TrvKhanh/rag-mobile/internal/model"
	"github.com/TrvKhanh/rag-mobile/pkg/catalog"
)

// PassageRepository persists catalog passages with their embeddings and
// answers similarity queries over them.
type PassageRepository interface {
	CreateBulk(ctx context.Context, passages []*model.PassageEmbedding) error
	LoadAll(ctx context.Context) ([]catalog.Passage, error)
	SearchSimilarWithScore(ctx context.Context, queryEmbedding []float32, limit int) ([]catalog.RankedResult, error)
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}
