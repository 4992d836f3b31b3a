package mapper

import (
	"ai-coursechat-be/internal/entity"
	"ai-coursechat-be/internal/model"
)

type ChunkMapper struct{}

func NewChunkMapper() *ChunkMapper {
	return &ChunkMapper{}
}

// ToPassage converts a scored chunk row into a retrieval entity. Rank is the
// position of the row in the result order, not a stored attribute.
func (m *ChunkMapper) ToPassage(c *model.DocumentChunk, rank int, score float64) entity.RetrievedPassage {
	return entity.RetrievedPassage{
		Content: c.Content,
		DocPath: c.DocPath,
		Page:    c.Page,
		Rank:    rank,
		Score:   float32(score),
	}
}
