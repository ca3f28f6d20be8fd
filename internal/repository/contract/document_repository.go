package contract

import (
	"context"

	"ai-docchat-be/internal/entity"

	"github.com/google/uuid"
)

// ScoredChunk is a similarity-search hit joined with its parent document.
type ScoredChunk struct {
	Chunk      string
	Title      string
	SourceURL  string
	DocumentId uuid.UUID
	Similarity float64
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	CreateEmbeddings(ctx context.Context, embeddings []*entity.DocumentEmbedding) error
	DeleteEmbeddingsByDocumentId(ctx context.Context, documentId uuid.UUID) error

	// SearchSimilar returns the top-limit chunks by cosine similarity to the
	// query embedding, most similar first.
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*ScoredChunk, error)
}
