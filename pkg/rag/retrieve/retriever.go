package retrieve

import (
	"context"
	"fmt"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/repository/contract"
	"ai-docchat-be/internal/repository/memory"
	"ai-docchat-be/pkg/embedding"
)

// Retriever adapts the pgvector-backed document store to the pipeline:
// embed the standalone question, run a top-K similarity search, and map the
// hits into read-only evidence documents.
type Retriever struct {
	embeddingProvider embedding.EmbeddingProvider
	repo              contract.DocumentRepository
	cache             *memory.RetrievalCache
	topK              int
	logger            logger.ILogger
}

func NewRetriever(
	embeddingProvider embedding.EmbeddingProvider,
	repo contract.DocumentRepository,
	cache *memory.RetrievalCache,
	topK int,
	log logger.ILogger,
) *Retriever {
	if topK <= 0 {
		topK = 1
	}
	return &Retriever{
		embeddingProvider: embeddingProvider,
		repo:              repo,
		cache:             cache,
		topK:              topK,
		logger:            log,
	}
}

// Retrieve returns the top-K documents for the standalone question, most
// similar first. Zero hits is a valid result, not a fault.
func (r *Retriever) Retrieve(ctx context.Context, standaloneQuestion string) ([]entity.RetrievedDocument, error) {
	if r.cache != nil {
		if docs, found := r.cache.Get(standaloneQuestion); found {
			return docs, nil
		}
	}

	resp, err := r.embeddingProvider.Generate(ctx, standaloneQuestion, embedding.TaskTypeQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := r.repo.SearchSimilar(ctx, resp.Embedding.Values, r.topK)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	docs := make([]entity.RetrievedDocument, len(hits))
	for i, hit := range hits {
		docs[i] = entity.RetrievedDocument{
			Content: hit.Chunk,
			Metadata: map[string]string{
				"title":                  hit.Title,
				"document_id":            hit.DocumentId.String(),
				entity.MetadataSourceURL: hit.SourceURL,
			},
		}
	}

	r.logger.Debug("Retriever", "Retrieved documents", map[string]interface{}{
		"question": standaloneQuestion,
		"count":    len(docs),
	})

	if r.cache != nil {
		r.cache.Save(standaloneQuestion, docs)
	}
	return docs, nil
}
