package pipeline

import (
	"context"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/rag/answer"
	"ai-docchat-be/pkg/rag/condense"
	"ai-docchat-be/pkg/rag/retrieve"
)

// Pipeline wires the per-question flow: condense the follow-up into a
// standalone question, retrieve supporting documents, then stream a grounded
// answer. One Pipeline instance is shared by all sessions; it holds no
// per-question state.
type Pipeline struct {
	condenser   *condense.Condenser
	retriever   *retrieve.Retriever
	synthesizer *answer.Synthesizer
	logger      logger.ILogger
}

func NewPipeline(
	condenser *condense.Condenser,
	retriever *retrieve.Retriever,
	synthesizer *answer.Synthesizer,
	log logger.ILogger,
) *Pipeline {
	return &Pipeline{
		condenser:   condenser,
		retriever:   retriever,
		synthesizer: synthesizer,
		logger:      log,
	}
}

// Run is one in-flight question: the rewritten question, the evidence it
// retrieved, and the live answer stream. It is consumed by exactly one
// session handler and discarded once the turn is committed.
type Run struct {
	Question           string
	StandaloneQuestion string
	Documents          []entity.RetrievedDocument
	Stream             *answer.Stream
}

// CitationURLs returns the distinct source links of the retrieved documents.
// Order is unspecified (set semantics).
func (r *Run) CitationURLs() []string {
	seen := make(map[string]struct{}, len(r.Documents))
	for _, doc := range r.Documents {
		url := doc.SourceURL()
		if url == "" {
			continue
		}
		seen[url] = struct{}{}
	}
	urls := make([]string, 0, len(seen))
	for url := range seen {
		urls = append(urls, url)
	}
	return urls
}

// Ask starts processing one question. Faults in condensing, retrieval, or
// opening the answer stream are returned here, before any fragment exists;
// later synthesizer faults surface through Run.Stream.Err.
func (p *Pipeline) Ask(ctx context.Context, question string, history []entity.ChatTurn) (*Run, error) {
	standalone, err := p.condenser.Condense(ctx, history, question)
	if err != nil {
		return nil, err
	}

	docs, err := p.retriever.Retrieve(ctx, standalone)
	if err != nil {
		return nil, err
	}

	stream, err := p.synthesizer.Synthesize(ctx, standalone, docs)
	if err != nil {
		return nil, err
	}

	return &Run{
		Question:           question,
		StandaloneQuestion: standalone,
		Documents:          docs,
		Stream:             stream,
	}, nil
}
