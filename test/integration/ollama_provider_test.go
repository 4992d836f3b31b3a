package integration

import (
	"context"
	"log"
	"math"
	"os"
	"testing"
	"time"

	"ai-coursechat-be/pkg/embedding"
	"ai-coursechat-be/pkg/llm"
	"ai-coursechat-be/pkg/llm/ollama"
	"ai-coursechat-be/pkg/rag/reformulate"
	"ai-coursechat-be/pkg/session"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Live suite against a local Ollama. Opt in by setting OLLAMA_BASE_URL;
// model load on the first request can take a while, hence the long timeouts.

func ollamaEnv(t *testing.T) (baseURL, chatModel, embedModel string) {
	t.Helper()

	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	baseURL = os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		t.Skip("Skipping integration test: OLLAMA_BASE_URL not set")
	}

	chatModel = os.Getenv("OLLAMA_CHAT_MODEL")
	if chatModel == "" {
		chatModel = "llama3.2"
	}
	embedModel = os.Getenv("OLLAMA_EMBEDDING_MODEL")
	if embedModel == "" {
		embedModel = "nomic-embed-text"
	}
	return baseURL, chatModel, embedModel
}

func TestOllamaChat(t *testing.T) {
	baseURL, chatModel, _ := ollamaEnv(t)
	provider := ollama.NewOllamaProvider(baseURL, chatModel)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	reply, err := provider.Chat(ctx, []llm.Message{
		{Role: "user", Content: "Reply with the single word: pong"},
	}, llm.WithMaxTokens(20))
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
	t.Logf("Reply: %s", reply)
}

func TestOllamaChatStreamAccumulates(t *testing.T) {
	baseURL, chatModel, _ := ollamaEnv(t)
	provider := ollama.NewOllamaProvider(baseURL, chatModel)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	chunks, err := provider.ChatStream(ctx, []llm.Message{
		{Role: "user", Content: "Count from 1 to 5, digits only."},
	}, llm.WithMaxTokens(50))
	require.NoError(t, err)

	var answer string
	var done bool
	for chunk := range chunks {
		require.NoError(t, chunk.Err)
		if chunk.Done {
			done = true
			break
		}
		answer += chunk.Content
	}

	assert.True(t, done, "stream must terminate with a done chunk")
	assert.NotEmpty(t, answer)
	t.Logf("Streamed answer: %s", answer)
}

func TestOllamaEmbeddingIsUnitNorm(t *testing.T) {
	baseURL, _, embedModel := ollamaEnv(t)
	provider := embedding.NewOllamaProvider(baseURL, embedModel)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	vec, err := provider.Generate(ctx, "informed consent in clinical research")
	require.NoError(t, err)
	require.NotEmpty(t, vec)

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 0.01, "vectors must come back unit-normalized")
}

func TestOllamaReformulation(t *testing.T) {
	baseURL, chatModel, _ := ollamaEnv(t)
	provider := ollama.NewOllamaProvider(baseURL, chatModel)
	reformulator := reformulate.NewReformulator(provider,
		"Rewrite the user's last question as a standalone search query using the chat history. Reply with the query only.")

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	history := &session.History{}
	history.Append("user", "What is informed consent?")
	history.Append("assistant", "Informed consent is a voluntary agreement made with full understanding of the risks.")

	standalone, err := reformulator.Standalone(ctx, history, "Can you give an example?")
	require.NoError(t, err)
	assert.NotEmpty(t, standalone)
	t.Logf("Standalone query: %s", standalone)
}
