package bootstrap

import (
	"log"
	"time"

	"ai-docchat-be/internal/config"
	"ai-docchat-be/internal/controller"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/repository/implementation"
	"ai-docchat-be/internal/repository/memory"
	"ai-docchat-be/internal/service"
	internalWS "ai-docchat-be/internal/websocket"
	"ai-docchat-be/pkg/embedding"
	"ai-docchat-be/pkg/llm/factory"
	pktNats "ai-docchat-be/pkg/nats"
	"ai-docchat-be/pkg/rag/answer"
	"ai-docchat-be/pkg/rag/condense"
	"ai-docchat-be/pkg/rag/pipeline"
	"ai-docchat-be/pkg/rag/retrieve"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

// Container wires every long-lived dependency once at startup. Anything that
// fails here is a startup fault; after New returns the service runs.
type Container struct {
	Logger             logger.ILogger
	ChatHandler        *internalWS.ChatHandler
	DocumentController controller.IDocumentController
	ConsumerService    service.IConsumerService
	NatsPublisher      *pktNats.Publisher
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
	embeddingProvider, err := embedding.NewProvider(
		cfg.Ai.EmbeddingProvider,
		cfg.Ai.EmbeddingModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenAIAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	log.Printf("[INFO] Using Embedding Provider: %s (%s)", cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingModel)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenAIAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	documentRepo := implementation.NewDocumentRepository(db)
	retrievalCache := memory.NewRetrievalCache(5 * time.Minute)

	// 5. Question Pipeline
	condenser := condense.NewCondenser(llmProvider, sysLogger)
	retriever := retrieve.NewRetriever(embeddingProvider, documentRepo, retrievalCache, cfg.Chat.TopK, sysLogger)
	synthesizer := answer.NewSynthesizer(llmProvider, sysLogger)
	questionPipeline := pipeline.NewPipeline(condenser, retriever, synthesizer, sysLogger)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Chat.IngestTopicName, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Chat.IngestTopicName,
		documentRepo,
		embeddingProvider,
		retrievalCache,
		sysLogger,
	)
	documentService := service.NewDocumentService(documentRepo, publisherService, sysLogger)

	// 7. Edges
	chatLogger := logger.NewIsolatedLogger("logs/chat.log")
	var eventPublisher internalWS.EventPublisher
	if natsPub != nil {
		eventPublisher = natsPub
	}
	chatHandler := internalWS.NewChatHandler(questionPipeline, eventPublisher, cfg.Chat.QuestionTimeout, chatLogger)
	documentController := controller.NewDocumentController(documentService)

	return &Container{
		Logger:             sysLogger,
		ChatHandler:        chatHandler,
		DocumentController: documentController,
		ConsumerService:    consumerService,
		NatsPublisher:      natsPub,
	}
}
