package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Ai        AIConfig
	Retrieval RetrievalConfig
	Qdrant    QdrantConfig
	Session   SessionConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	LLMProvider     string // "openai" or "ollama"
	LLMTemperature  float64
	LLMMaxTokens    int
	OpenAIBaseURL   string
	OpenAIAPIKey    string
	OpenAIChatModel string
	OllamaBaseURL   string
	OllamaChatModel string

	EmbeddingProvider    string // "openai" or "ollama"
	OpenAIEmbeddingModel string
	OllamaEmbeddingModel string
}

type RetrievalConfig struct {
	VectorBackend string // "pgvector" or "qdrant"
	TopK          int
}

type QdrantConfig struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
}

type SessionConfig struct {
	Store     string // "redis" or "memory"
	KeyPrefix string
	TTLHours  int // 0 = no expiry
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("PORT", "3000"),
			Environment:        getEnv("APP_ENV", "development"),
			LogFilePath:        getEnv("LOG_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:4200,https://trainer-teacher.web.app"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DATABASE_URL", ""),
		},
		Ai: AIConfig{
			LLMProvider:     getEnv("LLM_PROVIDER", "openai"),
			LLMTemperature:  getEnvAsFloat("LLM_TEMPERATURE", 0.8),
			LLMMaxTokens:    getEnvAsInt("LLM_MAX_TOKENS", 300),
			OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
			OpenAIChatModel: getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			OllamaBaseURL:   getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaChatModel: getEnv("OLLAMA_CHAT_MODEL", "llama3.2"),

			EmbeddingProvider:    getEnv("EMBEDDING_PROVIDER", "openai"),
			OpenAIEmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			OllamaEmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		},
		Retrieval: RetrievalConfig{
			VectorBackend: getEnv("VECTOR_BACKEND", "pgvector"),
			TopK:          getEnvAsInt("RETRIEVAL_TOP_K", 14),
		},
		Qdrant: QdrantConfig{
			Host:       getEnv("QDRANT_HOST", "localhost"),
			Port:       getEnvAsInt("QDRANT_PORT", 6334),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			UseTLS:     getEnvAsBool("QDRANT_USE_TLS", false),
			Collection: getEnv("QDRANT_COLLECTION", "course_chunks"),
		},
		Session: SessionConfig{
			Store:     getEnv("SESSION_STORE", "redis"),
			KeyPrefix: getEnv("SESSION_KEY_PREFIX", "chat_history:"),
			TTLHours:  getEnvAsInt("SESSION_TTL_HOURS", 0),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
