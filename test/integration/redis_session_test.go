package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-coursechat-be/pkg/session"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("Skipping integration test: REDIS_URL not set")
	}

	opt, err := redis.ParseURL(redisURL)
	require.NoError(t, err, "REDIS_URL must be a valid redis URL")

	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		t.Skipf("Skipping integration test: Redis not reachable: %v", err)
	}
	return rdb
}

func TestRedisSessionStore(t *testing.T) {
	rdb := newRedisClient(t)
	store := session.NewRedisStore(rdb, "integration_test:chat_history:", time.Hour)
	ctx := context.Background()

	sessionID := "it-" + uuid.New().String()
	defer store.Delete(ctx, sessionID)

	t.Run("Load Unknown Session Returns Empty History", func(t *testing.T) {
		history, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Empty(t, history.Turns)
	})

	t.Run("Save And Load Round Trip", func(t *testing.T) {
		history := &session.History{}
		history.Append("user", "What is informed consent?")
		history.Append("assistant", "Informed consent is an agreement given with full knowledge.")

		require.NoError(t, store.Save(ctx, sessionID, history))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		require.Len(t, loaded.Turns, 2)

		assert.Equal(t, "user", loaded.Turns[0].Role)
		assert.Equal(t, "What is informed consent?", loaded.Turns[0].Content)
		assert.Equal(t, 0, loaded.Turns[0].Seq)
		assert.Equal(t, "assistant", loaded.Turns[1].Role)
		assert.Equal(t, 1, loaded.Turns[1].Seq)
	})

	t.Run("Append Continues Sequence Across Saves", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)

		loaded.Append("user", "Can you give an example?")
		loaded.Append("assistant", "Signing a surgery consent form after the risks are explained.")
		require.NoError(t, store.Save(ctx, sessionID, loaded))

		reloaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		require.Len(t, reloaded.Turns, 4)
		assert.Equal(t, 3, reloaded.Turns[3].Seq)
	})

	t.Run("Delete Is Idempotent And Clears History", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, sessionID))
		require.NoError(t, store.Delete(ctx, sessionID), "second delete must also succeed")

		history, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Empty(t, history.Turns)
	})
}

func TestRedisSessionStoreTTL(t *testing.T) {
	rdb := newRedisClient(t)
	store := session.NewRedisStore(rdb, "integration_test:chat_history:", time.Second)
	ctx := context.Background()

	sessionID := "it-ttl-" + uuid.New().String()
	defer store.Delete(ctx, sessionID)

	history := &session.History{}
	history.Append("user", "ephemeral")
	require.NoError(t, store.Save(ctx, sessionID, history))

	ttl, err := rdb.TTL(ctx, "integration_test:chat_history:"+sessionID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0), "key should carry the configured expiry")
}
