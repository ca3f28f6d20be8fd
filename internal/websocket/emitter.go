package websocket

import (
	"fmt"

	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/dto"
)

// StreamEvent is the closed set of things a session can say to its client.
// The unexported method keeps the set closed to this package.
type StreamEvent interface {
	streamEvent()
}

type UserEcho struct{ Question string }
type AnswerStart struct{}
type AnswerFragment struct{ Text string }
type Citation struct{ URL string }
type AnswerEnd struct{}
type ErrorEvent struct{}

func (UserEcho) streamEvent()       {}
func (AnswerStart) streamEvent()    {}
func (AnswerFragment) streamEvent() {}
func (Citation) streamEvent()       {}
func (AnswerEnd) streamEvent()      {}
func (ErrorEvent) streamEvent()     {}

type emitterState int

const (
	stateIdle emitterState = iota
	stateEchoed
	stateAnswering
	stateCiting
	stateDone
	stateFailed
)

// Emitter serializes StreamEvents onto the wire and enforces the per-question
// frame order: echo, start, fragments, citations, end. Out-of-order events
// are programming errors and are rejected; write failures mean the client is
// gone and abort the session.
type Emitter struct {
	conn  Conn
	state emitterState
}

func NewEmitter(conn Conn) *Emitter {
	return &Emitter{conn: conn, state: stateIdle}
}

func (e *Emitter) Emit(event StreamEvent) error {
	switch ev := event.(type) {
	case UserEcho:
		if e.state != stateIdle && e.state != stateDone && e.state != stateFailed {
			return e.badTransition(event)
		}
		e.state = stateEchoed
		return e.write(dto.ChatSenderYou, ev.Question, dto.ChatTypeStream)

	case AnswerStart:
		if e.state != stateEchoed {
			return e.badTransition(event)
		}
		e.state = stateAnswering
		return e.write(dto.ChatSenderBot, "", dto.ChatTypeStart)

	case AnswerFragment:
		if e.state != stateAnswering {
			return e.badTransition(event)
		}
		return e.write(dto.ChatSenderBot, ev.Text, dto.ChatTypeStream)

	case Citation:
		switch e.state {
		case stateAnswering:
			// The first citation is preceded by its own intro frame.
			e.state = stateCiting
			if err := e.write(dto.ChatSenderBot, constant.CitationIntroMessage, dto.ChatTypeStream); err != nil {
				return err
			}
		case stateCiting:
		default:
			return e.badTransition(event)
		}
		return e.write(dto.ChatSenderBot, citationLink(ev.URL), dto.ChatTypeStream)

	case AnswerEnd:
		if e.state != stateAnswering && e.state != stateCiting {
			return e.badTransition(event)
		}
		e.state = stateDone
		return e.write(dto.ChatSenderBot, "", dto.ChatTypeEnd)

	case ErrorEvent:
		// A failure frame always follows an echo; it never opens a question.
		if e.state != stateEchoed && e.state != stateAnswering && e.state != stateCiting {
			return e.badTransition(event)
		}
		e.state = stateFailed
		return e.write(dto.ChatSenderBot, constant.GenericErrorMessage, dto.ChatTypeError)

	default:
		return fmt.Errorf("unknown stream event %T", event)
	}
}

func (e *Emitter) write(sender, message, messageType string) error {
	frame := dto.ChatResponse{Sender: sender, Message: message, Type: messageType}
	if err := e.conn.WriteJSON(frame); err != nil {
		return fmt.Errorf("failed to write chat frame: %w", err)
	}
	return nil
}

func (e *Emitter) badTransition(event StreamEvent) error {
	return fmt.Errorf("stream event %T not allowed in state %d", event, e.state)
}

func citationLink(url string) string {
	return fmt.Sprintf("<a target='_blank' href='%s'>%s</a>", url, url)
}
