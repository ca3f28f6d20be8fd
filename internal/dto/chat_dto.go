package dto

// Wire protocol of the chat websocket. Every frame the server pushes is a
// ChatResponse; the client sends bare text questions.

const (
	ChatSenderYou = "you"
	ChatSenderBot = "bot"

	ChatTypeStream = "stream"
	ChatTypeStart  = "start"
	ChatTypeEnd    = "end"
	ChatTypeError  = "error"
)

type ChatResponse struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
	Type    string `json:"type"`
}
