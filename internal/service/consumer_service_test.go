package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/repository/contract"
	"ai-docchat-be/internal/repository/memory"
	"ai-docchat-be/pkg/embedding"
)

type stubEmbedder struct{}

func (stubEmbedder) Generate(_ context.Context, _ string, _ string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type recordingRepo struct {
	mu         sync.Mutex
	documents  map[uuid.UUID]*entity.Document
	created    []*entity.Document
	embeddings []*entity.DocumentEmbedding
	deletedFor []uuid.UUID
	createErr  error
}

func newRecordingRepo() *recordingRepo {
	return &recordingRepo{documents: make(map[uuid.UUID]*entity.Document)}
}

func (r *recordingRepo) Create(_ context.Context, doc *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, doc)
	r.documents[doc.Id] = doc
	return nil
}

func (r *recordingRepo) FindById(_ context.Context, id uuid.UUID) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.documents[id], nil
}

func (r *recordingRepo) CreateEmbeddings(_ context.Context, embeddings []*entity.DocumentEmbedding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.embeddings = append(r.embeddings, embeddings...)
	return nil
}

func (r *recordingRepo) DeleteEmbeddingsByDocumentId(_ context.Context, documentId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletedFor = append(r.deletedFor, documentId)
	return nil
}

func (r *recordingRepo) SearchSimilar(_ context.Context, _ []float32, _ int) ([]*contract.ScoredChunk, error) {
	return nil, nil
}

func (r *recordingRepo) embeddingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.embeddings)
}

func TestDocumentIngestionEndToEnd(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	repo := newRecordingRepo()
	cache := memory.NewRetrievalCache(time.Minute)
	cache.Save("warm", []entity.RetrievedDocument{{Content: "stale"}})

	topic := "EMBED_DOCUMENT_TEST"
	consumer := NewConsumerService(pubSub, topic, repo, stubEmbedder{}, cache, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(context.Background()))

	publisher := NewPublisherService(topic, pubSub)
	docService := NewDocumentService(repo, publisher, logger.NewNopLogger())

	res, err := docService.Create(context.Background(), dto.CreateDocumentRequest{
		Title:     "Widget Guide",
		Content:   strings.Repeat("Widgets are things. ", 200),
		SourceURL: "https://docs.example.com/widgets",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Id)

	assert.Eventually(t, func() bool {
		return repo.embeddingCount() > 0
	}, 5*time.Second, 10*time.Millisecond, "consumer should store embeddings")

	repo.mu.Lock()
	defer repo.mu.Unlock()

	docId := repo.created[0].Id
	assert.Contains(t, repo.deletedFor, docId)
	for i, emb := range repo.embeddings {
		assert.Equal(t, docId, emb.DocumentId)
		assert.Equal(t, i, emb.ChunkIndex)
		assert.NotEmpty(t, emb.Embedding)
	}

	// Ingestion invalidates cached retrievals.
	_, found := cache.Get("warm")
	assert.False(t, found)
}

func TestDocumentServiceCreateFailure(t *testing.T) {
	repo := newRecordingRepo()
	repo.createErr = errors.New("database down")
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	publisher := NewPublisherService("topic", pubSub)
	docService := NewDocumentService(repo, publisher, logger.NewNopLogger())

	_, err := docService.Create(context.Background(), dto.CreateDocumentRequest{
		Title:     "t",
		Content:   "c",
		SourceURL: "https://example.com",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database down")
}
