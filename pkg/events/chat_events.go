package events

import "time"

const TypeQuestionAnswered = "question_answered"

// QuestionAnsweredEvent is emitted after a chat turn has been committed.
type QuestionAnsweredEvent struct {
	SessionId     string
	Question      string
	AnswerLength  int
	CitationCount int
	OccurredAt    time.Time
}

func NewQuestionAnswered(sessionId, question string, answerLength, citationCount int) QuestionAnsweredEvent {
	return QuestionAnsweredEvent{
		SessionId:     sessionId,
		Question:      question,
		AnswerLength:  answerLength,
		CitationCount: citationCount,
		OccurredAt:    time.Now(),
	}
}

func (e QuestionAnsweredEvent) EventType() string {
	return TypeQuestionAnswered
}

func (e QuestionAnsweredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id":     e.SessionId,
		"question":       e.Question,
		"answer_length":  e.AnswerLength,
		"citation_count": e.CitationCount,
		"occurred_at":    e.OccurredAt,
	}
}

func (e QuestionAnsweredEvent) Timestamp() time.Time {
	return e.OccurredAt
}
