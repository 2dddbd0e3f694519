package implementation

import (
	"context"

	"github.com/TrvKhanh/rag-mobile/internal/model"
	"github.com/TrvKhanh/rag-mobile/internal/repository/contract"
	"github.com/TrvKhanh/rag-mobile/pkg/catalog"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type PassageRepositoryImpl struct {
	db *gorm.DB
}

func NewPassageRepository(db *gorm.DB) contract.PassageRepository {
	return &PassageRepositoryImpl{db: db}
}

func (r *PassageRepositoryImpl) CreateBulk(ctx context.Context, passages []*model.PassageEmbedding) error {
	if len(passages) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(passages, 100).Error
}

func (r *PassageRepositoryImpl) LoadAll(ctx context.Context) ([]catalog.Passage, error) {
	var models []*model.PassageEmbedding
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}

	passages := make([]catalog.Passage, len(models))
	for i, m := range models {
		passages[i] = toPassage(m)
	}
	return passages, nil
}

// SearchSimilarWithScore ranks stored passages by cosine similarity.
// pgvector's <=> operator is cosine distance, so similarity is 1 - distance.
func (r *PassageRepositoryImpl) SearchSimilarWithScore(ctx context.Context, queryEmbedding []float32, limit int) ([]catalog.RankedResult, error) {
	if limit <= 0 {
		limit = 5
	}

	type row struct {
		model.PassageEmbedding
		Similarity float64
	}
	var rows []row

	queryVector := pgvector.NewVector(queryEmbedding)

	err := r.db.WithContext(ctx).
		Table("passage_embeddings").
		Select("passage_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("deleted_at IS NULL").
		Order("similarity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]catalog.RankedResult, len(rows))
	for i, row := range rows {
		results[i] = catalog.RankedResult{
			Passage: toPassage(&row.PassageEmbedding),
			Score:   row.Similarity,
			Source:  catalog.SourceVector,
		}
	}
	return results, nil
}

func (r *PassageRepositoryImpl) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Unscoped().Where("1 = 1").Delete(&model.PassageEmbedding{}).Error
}

func (r *PassageRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PassageEmbedding{}).Count(&count).Error
	return count, err
}

func toPassage(m *model.PassageEmbedding) catalog.Passage {
	return catalog.Passage{
		ID:      m.Id.String(),
		Content: m.Content,
		Metadata: catalog.Metadata{
			ProductID: m.ProductId,
			Title:     m.Title,
			URL:       m.Url,
			Price:     m.Price,
			ImageURL:  m.ImageUrl,
			Topic:     m.Topic,
		},
	}
}
