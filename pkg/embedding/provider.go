package embedding

import "context"

// EmbeddingProvider defines the interface for generating text embeddings.
// Implementations return unit-normalized vectors so cosine distance in the
// index behaves consistently across providers.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}
