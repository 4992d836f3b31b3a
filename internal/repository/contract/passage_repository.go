package contract

import (
	"context"

	"ai-coursechat-be/internal/entity"
)

// PassageRepository is the vector-index port. Implementations translate the
// RetrievalFilter into their native predicate and bound the result count;
// similarity ranking itself is delegated to the index. Zero matches is a
// successful empty result, not an error.
type PassageRepository interface {
	SimilaritySearch(ctx context.Context, queryVector []float32, filter entity.RetrievalFilter, limit int) ([]entity.RetrievedPassage, error)
}
