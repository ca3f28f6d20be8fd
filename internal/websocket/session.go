package websocket

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/events"
	"ai-docchat-be/pkg/rag/pipeline"
)

// Asker is the slice of the question pipeline the session drives.
type Asker interface {
	Ask(ctx context.Context, question string, history []entity.ChatTurn) (*pipeline.Run, error)
}

// EventPublisher pushes analytics events. A nil publisher disables analytics.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Session is one websocket conversation. It owns the connection, the chat
// history, and the emitter; questions are processed strictly one at a time
// on the connection's goroutine.
type Session struct {
	id              uuid.UUID
	conn            Conn
	emitter         *Emitter
	pipeline        Asker
	publisher       EventPublisher
	logger          logger.ILogger
	questionTimeout time.Duration
	history         []entity.ChatTurn
}

func NewSession(conn Conn, asker Asker, publisher EventPublisher, questionTimeout time.Duration, log logger.ILogger) *Session {
	return &Session{
		id:              uuid.New(),
		conn:            conn,
		emitter:         NewEmitter(conn),
		pipeline:        asker,
		publisher:       publisher,
		logger:          log,
		questionTimeout: questionTimeout,
	}
}

// History returns the committed turns of this session.
func (s *Session) History() []entity.ChatTurn {
	return s.history
}

// Run reads questions until the client disconnects. Pipeline faults are
// reported to the client and the session keeps going; transport faults end
// the session.
func (s *Session) Run() {
	s.logger.Info("chat_session", "session started", map[string]interface{}{
		"session_id": s.id.String(),
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			s.logger.Info("chat_session", "session closed", map[string]interface{}{
				"session_id": s.id.String(),
				"reason":     err.Error(),
			})
			return
		}

		question := strings.TrimSpace(string(raw))
		if question == "" {
			continue
		}

		if err := s.handleQuestion(question); err != nil {
			s.logger.Warn("chat_session", "session aborted on write failure", map[string]interface{}{
				"session_id": s.id.String(),
				"error":      err.Error(),
			})
			return
		}
	}
}

// handleQuestion runs one question through the pipeline and narrates it to
// the client. The returned error is non-nil only when the connection itself
// failed; pipeline faults are absorbed into an error frame.
func (s *Session) handleQuestion(question string) error {
	if err := s.emitter.Emit(UserEcho{Question: question}); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.questionTimeout)
	defer cancel()

	run, err := s.pipeline.Ask(ctx, question, s.history)
	if err != nil {
		s.logger.Error("chat_session", "question pipeline failed", map[string]interface{}{
			"session_id": s.id.String(),
			"question":   question,
			"error":      err.Error(),
		})
		return s.emitter.Emit(ErrorEvent{})
	}

	if err := s.emitter.Emit(AnswerStart{}); err != nil {
		return err
	}

	for fragment := range run.Stream.Fragments {
		if err := s.emitter.Emit(AnswerFragment{Text: fragment}); err != nil {
			return err
		}
	}

	if streamErr := run.Stream.Err(); streamErr != nil {
		s.logger.Error("chat_session", "answer stream failed", map[string]interface{}{
			"session_id": s.id.String(),
			"question":   question,
			"error":      streamErr.Error(),
		})
		return s.emitter.Emit(ErrorEvent{})
	}

	citations := run.CitationURLs()
	for _, url := range citations {
		if err := s.emitter.Emit(Citation{URL: url}); err != nil {
			return err
		}
	}

	if err := s.emitter.Emit(AnswerEnd{}); err != nil {
		return err
	}

	answer := run.Stream.Text()
	s.history = append(s.history, entity.ChatTurn{Question: question, Answer: answer})

	s.publishAnswered(question, len(answer), len(citations))
	return nil
}

func (s *Session) publishAnswered(question string, answerLength, citationCount int) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := events.NewQuestionAnswered(s.id.String(), question, answerLength, citationCount)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("chat_session", "failed to publish analytics event", map[string]interface{}{
			"session_id": s.id.String(),
			"error":      err.Error(),
		})
	}
}
