package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/repository/contract"
	"ai-docchat-be/internal/repository/memory"
	"ai-docchat-be/pkg/embedding"
	"ai-docchat-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// Chunking parameters: 1500 chars (~375 tokens) with 200 chars of overlap.
const (
	chunkSize    = 1500
	chunkOverlap = 200
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	repo              contract.DocumentRepository
	embeddingProvider embedding.EmbeddingProvider
	retrievalCache    *memory.RetrievalCache
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	repo contract.DocumentRepository,
	embeddingProvider embedding.EmbeddingProvider,
	retrievalCache *memory.RetrievalCache,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		repo:              repo,
		embeddingProvider: embeddingProvider,
		retrievalCache:    retrievalCache,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer_service", "failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	documentId, err := uuid.Parse(payload.DocumentId)
	if err != nil {
		cs.logger.Error("consumer_service", "invalid document id in message", map[string]interface{}{"document_id": payload.DocumentId})
		msg.Ack()
		return
	}

	doc, err := cs.repo.FindById(ctx, documentId)
	if err != nil {
		cs.logger.Error("consumer_service", "failed to load document", map[string]interface{}{"document_id": documentId, "error": err.Error()})
		msg.Nack()
		return
	}
	if doc == nil {
		// Deleted before we got to it.
		cs.logger.Warn("consumer_service", "document not found", map[string]interface{}{"document_id": documentId})
		msg.Ack()
		return
	}

	if err := cs.embedDocument(ctx, doc); err != nil {
		cs.logger.Error("consumer_service", "failed to embed document", map[string]interface{}{"document_id": documentId, "error": err.Error()})
		msg.Nack()
		return
	}

	// New evidence invalidates cached retrievals.
	cs.retrievalCache.Flush()

	cs.logger.Info("consumer_service", "document embedded", map[string]interface{}{"document_id": documentId})
	msg.Ack()
}

func (cs *consumerService) embedDocument(ctx context.Context, doc *entity.Document) error {
	content := fmt.Sprintf("Document Title: %s\n\n%s\n\nCreated At: %s",
		doc.Title,
		doc.Content,
		doc.CreatedAt.Format(time.RFC3339),
	)

	chunks := utils.SplitText(content, chunkSize, chunkOverlap)

	embeddings := make([]*entity.DocumentEmbedding, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(ctx, chunk, embedding.TaskTypeDocument)
		if err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}

		embeddings = append(embeddings, &entity.DocumentEmbedding{
			Id:         uuid.New(),
			Chunk:      chunk,
			Embedding:  res.Embedding.Values,
			DocumentId: doc.Id,
			ChunkIndex: i,
		})
	}

	// Re-ingest replaces older chunks of the same document.
	if err := cs.repo.DeleteEmbeddingsByDocumentId(ctx, doc.Id); err != nil {
		return fmt.Errorf("delete stale embeddings: %w", err)
	}
	if err := cs.repo.CreateEmbeddings(ctx, embeddings); err != nil {
		return fmt.Errorf("store embeddings: %w", err)
	}

	return nil
}
