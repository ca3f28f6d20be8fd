package implementation

import (
	"context"
	"errors"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/model"
	"ai-docchat-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentRepositoryImpl struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) contract.DocumentRepository {
	return &DocumentRepositoryImpl{db: db}
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, doc *entity.Document) error {
	m := &model.Document{
		Id:        doc.Id,
		Title:     doc.Title,
		Content:   doc.Content,
		SourceURL: doc.SourceURL,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	doc.Id = m.Id
	doc.CreatedAt = m.CreatedAt
	return nil
}

func (r *DocumentRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	var m model.Document
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	updatedAt := m.UpdatedAt
	return &entity.Document{
		Id:        m.Id,
		Title:     m.Title,
		Content:   m.Content,
		SourceURL: m.SourceURL,
		CreatedAt: m.CreatedAt,
		UpdatedAt: &updatedAt,
	}, nil
}

func (r *DocumentRepositoryImpl) CreateEmbeddings(ctx context.Context, embeddings []*entity.DocumentEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := make([]*model.DocumentEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = &model.DocumentEmbedding{
			Id:             e.Id,
			Chunk:          e.Chunk,
			EmbeddingValue: pgvector.NewVector(e.Embedding),
			DocumentId:     e.DocumentId,
			ChunkIndex:     e.ChunkIndex,
		}
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		embeddings[i].Id = m.Id
		embeddings[i].CreatedAt = m.CreatedAt
	}
	return nil
}

func (r *DocumentRepositoryImpl) DeleteEmbeddingsByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("document_id = ?", documentId).Delete(&model.DocumentEmbedding{}).Error
}

func (r *DocumentRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredChunk, error) {
	if limit <= 0 {
		limit = 1
	}

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding_value <=> query_vector) = cosine_similarity.
	// Join with documents to carry title and source link alongside each chunk.
	type result struct {
		Chunk      string
		Title      string
		SourceURL  string
		DocumentId uuid.UUID
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("document_embeddings").
		Select("document_embeddings.chunk, documents.title, documents.source_url, document_embeddings.document_id, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN documents ON documents.id = document_embeddings.document_id").
		Where("document_embeddings.deleted_at IS NULL").
		Where("documents.deleted_at IS NULL").
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	chunks := make([]*contract.ScoredChunk, len(results))
	for i, res := range results {
		chunks[i] = &contract.ScoredChunk{
			Chunk:      res.Chunk,
			Title:      res.Title,
			SourceURL:  res.SourceURL,
			DocumentId: res.DocumentId,
			Similarity: res.Similarity,
		}
	}
	return chunks, nil
}
