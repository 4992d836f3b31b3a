package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-coursechat-be/internal/config"
	"ai-coursechat-be/internal/constant"
	"ai-coursechat-be/internal/controller"
	"ai-coursechat-be/internal/pkg/logger"
	"ai-coursechat-be/internal/repository/contract"
	"ai-coursechat-be/internal/repository/implementation"
	"ai-coursechat-be/internal/service"
	"ai-coursechat-be/internal/websocket"
	"ai-coursechat-be/pkg/embedding"
	"ai-coursechat-be/pkg/llm/factory"
	"ai-coursechat-be/pkg/rag/pipeline"
	"ai-coursechat-be/pkg/rag/reformulate"
	"ai-coursechat-be/pkg/rag/retrieve"
	"ai-coursechat-be/pkg/rag/stream"
	"ai-coursechat-be/pkg/session"
	"ai-coursechat-be/pkg/vectorindex/qdrant"

	pktNats "ai-coursechat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	// Initialize Embedding Provider based on Config
	var embedder embedding.EmbeddingProvider
	var embeddingModel string
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingModel = cfg.Ai.OllamaEmbeddingModel
		embedder = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, embeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", embeddingModel)
	} else {
		embeddingModel = cfg.Ai.OpenAIEmbeddingModel
		embedder = embedding.NewOpenAIProvider(cfg.Ai.OpenAIBaseURL, cfg.Ai.OpenAIAPIKey, embeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", embeddingModel)
	}
	cachedEmbedder := embedding.NewCachedProvider(embedder, embeddingModel)

	// Initialize LLM Provider based on Config
	chatModel := cfg.Ai.OpenAIChatModel
	chatBaseURL := cfg.Ai.OpenAIBaseURL
	chatAPIKey := cfg.Ai.OpenAIAPIKey
	if cfg.Ai.LLMProvider == "ollama" {
		chatModel = cfg.Ai.OllamaChatModel
		chatBaseURL = cfg.Ai.OllamaBaseURL
		chatAPIKey = ""
	}
	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, chatModel, chatBaseURL, chatAPIKey)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, chatModel)

	// 4. Vector Index
	var passages contract.PassageRepository
	if cfg.Retrieval.VectorBackend == "qdrant" {
		qdrantClient, err := qdrant.New(qdrant.Config{
			Host:           cfg.Qdrant.Host,
			Port:           cfg.Qdrant.Port,
			APIKey:         cfg.Qdrant.APIKey,
			UseTLS:         cfg.Qdrant.UseTLS,
			CollectionName: cfg.Qdrant.Collection,
		})
		if err != nil {
			log.Fatalf("[FATAL] Failed to connect to Qdrant: %v", err)
		}
		passages = qdrantClient
		log.Printf("[INFO] Using Vector Backend: QDRANT (%s)", cfg.Qdrant.Collection)
	} else {
		if db == nil {
			log.Fatalf("[FATAL] VECTOR_BACKEND=pgvector requires DATABASE_URL")
		}
		passages = implementation.NewPassageRepository(db)
		log.Printf("[INFO] Using Vector Backend: PGVECTOR")
	}

	// 5. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// Session Store
	var sessionStore session.Store
	if cfg.Session.Store == "memory" {
		sessionStore = session.NewMemoryStore()
		log.Printf("[INFO] Using Session Store: MEMORY")
	} else {
		ttl := time.Duration(cfg.Session.TTLHours) * time.Hour
		sessionStore = session.NewRedisStore(rdb, cfg.Session.KeyPrefix, ttl)
		log.Printf("[INFO] Using Session Store: REDIS")
	}

	// 6. Chat Pipeline
	reformulator := reformulate.NewReformulator(llmProvider, constant.ChatContextualizePromptV1)
	retriever := retrieve.NewRetriever(cachedEmbedder, passages, cfg.Retrieval.TopK)
	streamer := stream.NewStreamer(llmProvider, cfg.Ai.LLMTemperature, cfg.Ai.LLMMaxTokens)
	executor := pipeline.NewExecutor(sessionStore, reformulator, retriever, streamer, sysLogger)

	// 7. Services
	publisherService := service.NewPublisherService(pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		[]string{constant.TopicChatCompleted, constant.TopicSessionDeleted},
		natsPub,
	)

	chatService := service.NewChatService(executor, sessionStore, publisherService, sysLogger)

	// 8. WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/chat_ws.log")
	wsHub := websocket.NewHub(rdb, chatService, wsLogger)
	go wsHub.Run()

	// Session event fanout (Hub implements SessionEventDelivery)
	notifierService := service.NewChatNotifierService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifierService.Start()
	}

	// 9. Controllers
	return &Container{
		ChatController:  controller.NewChatController(chatService, wsHub, sysLogger),
		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
	}
}
