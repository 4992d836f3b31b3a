package retrieve

import (
	"context"
	"fmt"

	"ai-coursechat-be/internal/entity"
	"ai-coursechat-be/internal/repository/contract"
	"ai-coursechat-be/pkg/embedding"
)

// Retriever embeds a standalone query and fetches the most similar course
// passages, optionally narrowed by document path and page set. Zero matches
// is a normal outcome, not an error.
type Retriever struct {
	embedder embedding.EmbeddingProvider
	passages contract.PassageRepository
	topK     int
}

func NewRetriever(embedder embedding.EmbeddingProvider, passages contract.PassageRepository, topK int) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{
		embedder: embedder,
		passages: passages,
		topK:     topK,
	}
}

func (r *Retriever) Retrieve(ctx context.Context, standaloneQuery string, filter entity.RetrievalFilter) ([]entity.RetrievedPassage, error) {
	vector, err := r.embedder.Generate(ctx, standaloneQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	passages, err := r.passages.SimilaritySearch(ctx, vector, filter, r.topK)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	return passages, nil
}
