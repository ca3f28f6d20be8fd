package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/repository/contract"
	"ai-docchat-be/pkg/embedding"
	"ai-docchat-be/pkg/llm"
	"ai-docchat-be/pkg/rag/answer"
	"ai-docchat-be/pkg/rag/condense"
	"ai-docchat-be/pkg/rag/retrieve"
)

type fakeLLM struct {
	generateResponse string
	generateCalls    int
	streamChunks     []llm.StreamChunk
}

func (f *fakeLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeLLM) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	f.generateCalls++
	return f.generateResponse, nil
}

func (f *fakeLLM) ChatStream(_ context.Context, _ []llm.Message, _ ...llm.Option) (<-chan llm.StreamChunk, error) {
	out := make(chan llm.StreamChunk, len(f.streamChunks))
	for _, c := range f.streamChunks {
		out <- c
	}
	close(out)
	return out, nil
}

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Generate(_ context.Context, _ string, _ string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2}},
	}, nil
}

type fakeRepo struct {
	hits []*contract.ScoredChunk
	err  error
}

func (f *fakeRepo) Create(_ context.Context, _ *entity.Document) error { return nil }
func (f *fakeRepo) FindById(_ context.Context, _ uuid.UUID) (*entity.Document, error) {
	return nil, nil
}
func (f *fakeRepo) CreateEmbeddings(_ context.Context, _ []*entity.DocumentEmbedding) error {
	return nil
}
func (f *fakeRepo) DeleteEmbeddingsByDocumentId(_ context.Context, _ uuid.UUID) error { return nil }
func (f *fakeRepo) SearchSimilar(_ context.Context, _ []float32, _ int) ([]*contract.ScoredChunk, error) {
	return f.hits, f.err
}

func newTestPipeline(model *fakeLLM, embedder *fakeEmbedder, repo *fakeRepo) *Pipeline {
	log := logger.NewNopLogger()
	return NewPipeline(
		condense.NewCondenser(model, log),
		retrieve.NewRetriever(embedder, repo, nil, 1, log),
		answer.NewSynthesizer(model, log),
		log,
	)
}

func drain(run *Run) []string {
	var fragments []string
	for f := range run.Stream.Fragments {
		fragments = append(fragments, f)
	}
	return fragments
}

func TestAskFreshSession(t *testing.T) {
	model := &fakeLLM{
		generateResponse: "unused rewrite",
		streamChunks: []llm.StreamChunk{
			{Content: "A widget "},
			{Content: "is a thing."},
			{Done: true},
		},
	}
	repo := &fakeRepo{hits: []*contract.ScoredChunk{
		{Chunk: "Widgets are things.", Title: "Widgets", SourceURL: "https://docs.example.com/widgets", DocumentId: uuid.New(), Similarity: 0.92},
	}}

	p := newTestPipeline(model, &fakeEmbedder{}, repo)
	run, err := p.Ask(context.Background(), "what is a widget?", nil)
	require.NoError(t, err)

	// First question stands alone: no condense call.
	assert.Equal(t, 0, model.generateCalls)
	assert.Equal(t, "what is a widget?", run.StandaloneQuestion)

	fragments := drain(run)
	assert.Equal(t, []string{"A widget ", "is a thing."}, fragments)
	assert.NoError(t, run.Stream.Err())
	assert.Equal(t, "A widget is a thing.", run.Stream.Text())
	assert.Equal(t, []string{"https://docs.example.com/widgets"}, run.CitationURLs())
}

func TestAskFollowUpCondenses(t *testing.T) {
	model := &fakeLLM{
		generateResponse: "What color is a widget?",
		streamChunks:     []llm.StreamChunk{{Content: "Blue."}, {Done: true}},
	}
	p := newTestPipeline(model, &fakeEmbedder{}, &fakeRepo{})

	history := []entity.ChatTurn{{Question: "what is a widget?", Answer: "A thing."}}
	run, err := p.Ask(context.Background(), "what color is it?", history)
	require.NoError(t, err)

	assert.Equal(t, 1, model.generateCalls)
	assert.Equal(t, "What color is a widget?", run.StandaloneQuestion)
	drain(run)
}

func TestAskNoHitsStillAnswers(t *testing.T) {
	model := &fakeLLM{streamChunks: []llm.StreamChunk{{Content: "I don't know."}, {Done: true}}}
	p := newTestPipeline(model, &fakeEmbedder{}, &fakeRepo{})

	run, err := p.Ask(context.Background(), "unknown topic?", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"I don't know."}, drain(run))
	assert.Empty(t, run.CitationURLs())
}

func TestAskRetrievalFault(t *testing.T) {
	model := &fakeLLM{}
	p := newTestPipeline(model, &fakeEmbedder{err: errors.New("embedding service down")}, &fakeRepo{})

	_, err := p.Ask(context.Background(), "q", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding service down")
}

func TestAskSearchFault(t *testing.T) {
	model := &fakeLLM{}
	p := newTestPipeline(model, &fakeEmbedder{}, &fakeRepo{err: errors.New("connection refused")})

	_, err := p.Ask(context.Background(), "q", nil)

	require.Error(t, err)
}

func TestAskMidStreamFault(t *testing.T) {
	model := &fakeLLM{streamChunks: []llm.StreamChunk{
		{Content: "partial "},
		{Err: errors.New("connection reset")},
	}}
	p := newTestPipeline(model, &fakeEmbedder{}, &fakeRepo{})

	run, err := p.Ask(context.Background(), "q", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"partial "}, drain(run))
	require.Error(t, run.Stream.Err())
}

func TestCitationURLsDeduplicate(t *testing.T) {
	docId := uuid.New()
	repo := &fakeRepo{hits: []*contract.ScoredChunk{
		{Chunk: "one", SourceURL: "https://docs.example.com/page", DocumentId: docId},
		{Chunk: "two", SourceURL: "https://docs.example.com/page", DocumentId: docId},
		{Chunk: "three", SourceURL: "", DocumentId: docId},
	}}
	model := &fakeLLM{streamChunks: []llm.StreamChunk{{Done: true}}}
	p := NewPipeline(
		condense.NewCondenser(model, logger.NewNopLogger()),
		retrieve.NewRetriever(&fakeEmbedder{}, repo, nil, 3, logger.NewNopLogger()),
		answer.NewSynthesizer(model, logger.NewNopLogger()),
		logger.NewNopLogger(),
	)

	run, err := p.Ask(context.Background(), "q", nil)
	require.NoError(t, err)
	drain(run)

	assert.Equal(t, []string{"https://docs.example.com/page"}, run.CitationURLs())
}
