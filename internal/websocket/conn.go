package websocket

// Conn is the slice of *websocket.Conn the chat session needs. Narrowing the
// surface keeps the session loop testable with an in-memory fake.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	Close() error
}
