package answer

import (
	"context"
	"fmt"
	"strings"

	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/llm"
)

// Stream is a lazy, finite, single-consumption sequence of answer fragments.
// Fragments is closed once generation completes or fails; Text and Err are
// valid only after that.
type Stream struct {
	Fragments <-chan string

	full *strings.Builder
	err  *error
}

// Text returns the concatenation of all fragments delivered so far. After
// Fragments closes it is the full answer text.
func (s *Stream) Text() string {
	return s.full.String()
}

// Err reports the fault that ended the stream, or nil on clean completion.
// Only meaningful after Fragments has closed.
func (s *Stream) Err() error {
	return *s.err
}

// Resolved returns a Stream that replays the given fragments and then
// finishes with err.
func Resolved(fragmentList []string, err error) *Stream {
	fragments := make(chan string, len(fragmentList))
	full := &strings.Builder{}
	streamErr := err
	for _, fragment := range fragmentList {
		full.WriteString(fragment)
		fragments <- fragment
	}
	close(fragments)
	return &Stream{
		Fragments: fragments,
		full:      full,
		err:       &streamErr,
	}
}

// Synthesizer produces a grounded answer as a fragment stream.
type Synthesizer struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewSynthesizer(llmProvider llm.LLMProvider, log logger.ILogger) *Synthesizer {
	return &Synthesizer{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// Synthesize issues one streaming generation call conditioned on the
// standalone question and the retrieved documents. The returned stream must
// be consumed exactly once; with zero documents the model is still asked and
// will say it cannot find relevant information.
func (s *Synthesizer) Synthesize(ctx context.Context, standaloneQuestion string, docs []entity.RetrievedDocument) (*Stream, error) {
	prompt := fmt.Sprintf(constant.AnswerPromptV1, contextBlock(docs), standaloneQuestion)

	chunks, err := s.llmProvider.ChatStream(ctx,
		[]llm.Message{{Role: constant.ChatMessageRoleUser, Content: prompt}},
		llm.WithTemperature(0),
	)
	if err != nil {
		return nil, fmt.Errorf("open answer stream: %w", err)
	}

	fragments := make(chan string)
	full := &strings.Builder{}
	var streamErr error

	go func() {
		defer close(fragments)
		completed := false
		for chunk := range chunks {
			if chunk.Err != nil {
				streamErr = chunk.Err
				return
			}
			if chunk.Done {
				completed = true
				continue
			}
			if chunk.Content == "" {
				continue
			}
			full.WriteString(chunk.Content)
			select {
			case fragments <- chunk.Content:
			case <-ctx.Done():
				streamErr = ctx.Err()
				// The provider goroutine still owes us a terminal chunk and
				// holds its response body open until someone receives it.
				go func() {
					for range chunks {
					}
				}()
				return
			}
		}
		if !completed {
			// Provider closed the channel without a completion marker.
			streamErr = fmt.Errorf("answer stream truncated")
		}
	}()

	return &Stream{
		Fragments: fragments,
		full:      full,
		err:       &streamErr,
	}, nil
}

func contextBlock(docs []entity.RetrievedDocument) string {
	parts := make([]string, len(docs))
	for i, doc := range docs {
		parts[i] = doc.Content
	}
	return strings.Join(parts, "\n\n")
}
