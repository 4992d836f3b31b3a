package implementation

import (
	"context"

	"ai-coursechat-be/internal/entity"
	"ai-coursechat-be/internal/mapper"
	"ai-coursechat-be/internal/model"
	"ai-coursechat-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type PassageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChunkMapper
}

func NewPassageRepository(db *gorm.DB) contract.PassageRepository {
	return &PassageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChunkMapper(),
	}
}

func (r *PassageRepositoryImpl) SimilaritySearch(ctx context.Context, queryVector []float32, filter entity.RetrievalFilter, limit int) ([]entity.RetrievedPassage, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding <=> query_vector) recovers the similarity score.
	type result struct {
		model.DocumentChunk
		Similarity float64
	}
	var results []result

	qv := pgvector.NewVector(queryVector)

	query := r.db.WithContext(ctx).
		Table("document_chunks").
		Select("document_chunks.*, 1 - (embedding <=> ?) as similarity", qv)

	if filter.DocPath != "" {
		query = query.Where("doc_path = ?", filter.DocPath)
	}
	if len(filter.Pages) > 0 {
		query = query.Where("page IN ?", filter.Pages)
	}

	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	passages := make([]entity.RetrievedPassage, len(results))
	for i, res := range results {
		passages[i] = r.mapper.ToPassage(&res.DocumentChunk, i, res.Similarity)
	}
	return passages, nil
}
