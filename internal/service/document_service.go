package service

import (
	"context"
	"fmt"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/repository/contract"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Create(ctx context.Context, req dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error)
}

type documentService struct {
	repo      contract.DocumentRepository
	publisher IPublisherService
	logger    logger.ILogger
}

func NewDocumentService(repo contract.DocumentRepository, publisher IPublisherService, log logger.ILogger) IDocumentService {
	return &documentService{
		repo:      repo,
		publisher: publisher,
		logger:    log,
	}
}

// Create stores the document and queues it for chunking and embedding. The
// document is searchable once the consumer has processed it.
func (ds *documentService) Create(ctx context.Context, req dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error) {
	doc := &entity.Document{
		Id:        uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		SourceURL: req.SourceURL,
	}

	if err := ds.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	if err := ds.publisher.PublishEmbedDocument(ctx, dto.PublishEmbedDocumentMessage{
		DocumentId: doc.Id.String(),
	}); err != nil {
		// The document exists but won't be searchable until re-ingested.
		ds.logger.Error("document_service", "failed to queue document for embedding", map[string]interface{}{
			"document_id": doc.Id,
			"error":       err.Error(),
		})
	}

	return &dto.CreateDocumentResponse{
		Id:        doc.Id.String(),
		Title:     doc.Title,
		SourceURL: doc.SourceURL,
	}, nil
}
