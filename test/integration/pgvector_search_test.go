package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-coursechat-be/internal/entity"
	"ai-coursechat-be/internal/model"
	"ai-coursechat-be/internal/repository/implementation"
	"ai-coursechat-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testDocPath = "integration_test/consent.pdf"

// axisVector builds a 1536-dim unit vector along one axis so cosine
// similarity between different chunks is exactly 0 and a matching query
// scores exactly 1.
func axisVector(axis int) []float32 {
	vec := make([]float32, 1536)
	vec[axis] = 1
	return vec
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("Skipping integration test: DATABASE_URL not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err, "failed to connect to DB")

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS vector;`).Error; err != nil {
		t.Skipf("Skipping integration test: pgvector extension unavailable: %v", err)
	}
	require.NoError(t, db.AutoMigrate(&model.DocumentChunk{}))

	return db
}

func seedChunk(t *testing.T, db *gorm.DB, page, axis int, content string) {
	t.Helper()
	chunk := &model.DocumentChunk{
		Id:        uuid.New(),
		DocPath:   testDocPath,
		Page:      page,
		Content:   content,
		Embedding: pgvector.NewVector(axisVector(axis)),
	}
	require.NoError(t, db.Create(chunk).Error)
}

func TestPgvectorSimilaritySearch(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	defer db.Where("doc_path = ?", testDocPath).Delete(&model.DocumentChunk{})

	seedChunk(t, db, 15, 0, "Informed consent requires disclosure of risks.")
	seedChunk(t, db, 16, 1, "Consent must be given voluntarily.")
	seedChunk(t, db, 42, 2, "Unrelated appendix material.")

	repo := implementation.NewPassageRepository(db)

	t.Run("Ranks Closest Chunk First", func(t *testing.T) {
		passages, err := repo.SimilaritySearch(ctx, axisVector(0), entity.RetrievalFilter{}, 3)
		require.NoError(t, err)
		require.NotEmpty(t, passages)

		assert.Equal(t, "Informed consent requires disclosure of risks.", passages[0].Content)
		assert.Equal(t, 0, passages[0].Rank)
		assert.InDelta(t, 1.0, float64(passages[0].Score), 0.001)
	})

	t.Run("DocPath And Pages Filter Restrict The Search", func(t *testing.T) {
		filter := entity.RetrievalFilter{DocPath: testDocPath, Pages: []int{15, 16}}
		passages, err := repo.SimilaritySearch(ctx, axisVector(2), filter, 10)
		require.NoError(t, err)

		for _, p := range passages {
			assert.Equal(t, testDocPath, p.DocPath)
			assert.Contains(t, []int{15, 16}, p.Page)
		}
		// The best match overall lives on page 42 and must be filtered out.
		for _, p := range passages {
			assert.NotEqual(t, "Unrelated appendix material.", p.Content)
		}
	})

	t.Run("Filter Matching Nothing Returns Empty Without Error", func(t *testing.T) {
		filter := entity.RetrievalFilter{DocPath: "no/such/doc.pdf", Pages: []int{999}}
		passages, err := repo.SimilaritySearch(ctx, axisVector(0), filter, 10)
		require.NoError(t, err)
		assert.Empty(t, passages)
	})

	t.Run("Limit Bounds The Result Count", func(t *testing.T) {
		passages, err := repo.SimilaritySearch(ctx, axisVector(0), entity.RetrievalFilter{DocPath: testDocPath}, 2)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(passages), 2)
	})
}
