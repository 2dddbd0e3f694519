package bootstrap

import (
	"context"
	"log"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/TrvKhanh/rag-mobile/internal/config"
	"github.com/TrvKhanh/rag-mobile/internal/constant"
	"github.com/TrvKhanh/rag-mobile/internal/controller"
	"github.com/TrvKhanh/rag-mobile/internal/pkg/logger"
	"github.com/TrvKhanh/rag-mobile/internal/repository/implementation"
	"github.com/TrvKhanh/rag-mobile/internal/service"
	"github.com/TrvKhanh/rag-mobile/pkg/ai/router"
	"github.com/TrvKhanh/rag-mobile/pkg/embedding"
	"github.com/TrvKhanh/rag-mobile/pkg/llm"
	"github.com/TrvKhanh/rag-mobile/pkg/llm/factory"
	"github.com/TrvKhanh/rag-mobile/pkg/memory"
	pktNats "github.com/TrvKhanh/rag-mobile/pkg/nats"
	"github.com/TrvKhanh/rag-mobile/pkg/retry"
	"github.com/TrvKhanh/rag-mobile/pkg/search/cache"
	"github.com/TrvKhanh/rag-mobile/pkg/search/fusion"
	"github.com/TrvKhanh/rag-mobile/pkg/search/lexical"
	"github.com/TrvKhanh/rag-mobile/pkg/search/rerank"
	"github.com/TrvKhanh/rag-mobile/pkg/search/vector"
	"github.com/TrvKhanh/rag-mobile/pkg/tools"
)

// resultCache is what the pipeline needs from either cache backend.
type resultCache interface {
	cache.Store
	Invalidate(ctx context.Context)
}

type Container struct {
	// Controllers
	ChatController  controller.IChatController
	AdminController controller.IAdminController
	StoreController controller.IStoreController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	stdLogger := log.New(os.Stdout, "", log.LstdFlags)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}
	embeddingProvider = embedding.NewRetryableProvider(embeddingProvider, retry.DefaultPolicy())

	baseProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	var llmProvider llm.LLMProvider = llm.NewRetryableProvider(baseProvider, retry.DefaultPolicy())

	// 4. Infrastructure
	// NATS is optional analytics plumbing, chat works without it.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis-backed result cache with in-memory fallback
	var resultStore resultCache
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to in-memory cache", err)
		resultStore = cache.NewMemoryStore()
	} else {
		resultStore = cache.NewRedisStore(rdb, stdLogger)
	}

	// 5. Retrieval Pipeline
	passageRepo := implementation.NewPassageRepository(db)

	// Corpus load failure at startup is fatal, no degraded index mode.
	passages, err := passageRepo.LoadAll(context.Background())
	if err != nil {
		log.Fatalf("[FATAL] Failed to load catalog corpus: %v", err)
	}
	lexicalIndex := lexical.NewIndex(stdLogger)
	lexicalIndex.Rebuild(passages)
	log.Printf("[INFO] Catalog corpus loaded: %d passages", len(passages))

	vectorStore := vector.NewStore(passageRepo, embeddingProvider, stdLogger)
	fusionEngine := fusion.NewEngine(lexicalIndex, vectorStore, resultStore, cfg.Retrieval.LexicalWeight, stdLogger)

	scorer := rerank.NewHTTPScorer(cfg.Ai.RerankerURL)
	reranker := rerank.NewReranker(
		scorer,
		resultStore,
		rerank.Policy(cfg.Retrieval.RerankPolicy),
		cfg.Retrieval.RerankThreshold,
		stdLogger,
	)

	retrievalService := service.NewRetrievalService(fusionEngine, reranker, sysLogger)

	// 6. Conversation + Routing
	classifier := router.NewClassifier(llmProvider, stdLogger)
	threadStore := memory.NewCacheThreadStore()
	memoryManager := memory.NewManager(threadStore, llmProvider, cfg.Retrieval.SummaryThreshold, stdLogger)

	comparisonTool := tools.NewComparisonTool(retrievalService, stdLogger)
	storeLocator, err := tools.NewStoreLocatorTool()
	if err != nil {
		log.Fatalf("[FATAL] Failed to load store locator data: %v", err)
	}
	toolRegistry := tools.NewRegistry(comparisonTool, storeLocator)

	// 7. Services
	var eventPublisher service.EventPublisher
	if natsPub != nil {
		eventPublisher = natsPub
	}

	chatService := service.NewChatService(
		classifier,
		retrievalService,
		comparisonTool,
		memoryManager,
		llmProvider,
		eventPublisher,
		cfg.Retrieval.TopK,
		sysLogger,
	)

	publisherService := service.NewPublisherService(pubSub, constant.ReindexCatalogTopic, sysLogger)
	consumerService := service.NewConsumerService(
		pubSub,
		constant.ReindexCatalogTopic,
		passageRepo,
		lexicalIndex,
		resultStore,
		eventPublisher,
	)

	// 8. Controllers
	return &Container{
		ChatController:  controller.NewChatController(chatService, sysLogger),
		AdminController: controller.NewAdminController(publisherService),
		StoreController: controller.NewStoreController(toolRegistry),

		ConsumerService: consumerService,
	}
}
