package condense

import (
	"context"
	"fmt"
	"strings"

	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/llm"
)

// Condenser rewrites follow-up questions into standalone questions so the
// retriever can match them without conversational context.
type Condenser struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewCondenser(llmProvider llm.LLMProvider, log logger.ILogger) *Condenser {
	return &Condenser{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// Condense returns a standalone form of question. With no prior turns the
// question already stands alone and is passed through without a model call.
func (c *Condenser) Condense(ctx context.Context, history []entity.ChatTurn, question string) (string, error) {
	if len(history) == 0 {
		return question, nil
	}

	prompt := fmt.Sprintf(constant.CondenseQuestionPromptV1, Transcript(history), question)

	standalone, err := c.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0))
	if err != nil {
		return "", fmt.Errorf("condense question: %w", err)
	}

	standalone = strings.TrimSpace(standalone)
	if standalone == "" {
		// A blank rewrite would retrieve nothing; fall back to the raw question.
		c.logger.Warn("Condenser", "Model returned empty standalone question, using raw question", nil)
		return question, nil
	}

	c.logger.Debug("Condenser", "Condensed follow-up question", map[string]interface{}{
		"question":   question,
		"standalone": standalone,
	})
	return standalone, nil
}

// Transcript serializes chat history into the textual form the condense
// prompt expects.
func Transcript(history []entity.ChatTurn) string {
	var b strings.Builder
	for _, turn := range history {
		b.WriteString("Human: ")
		b.WriteString(turn.Question)
		b.WriteString("\nAssistant: ")
		b.WriteString(turn.Answer)
		b.WriteString("\n")
	}
	return b.String()
}
