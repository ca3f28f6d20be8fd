package websocket

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"ai-docchat-be/internal/pkg/logger"
)

// ChatHandler upgrades /chat requests and runs one Session per connection.
type ChatHandler struct {
	pipeline        Asker
	publisher       EventPublisher
	logger          logger.ILogger
	questionTimeout time.Duration
}

func NewChatHandler(asker Asker, publisher EventPublisher, questionTimeout time.Duration, log logger.ILogger) *ChatHandler {
	return &ChatHandler{
		pipeline:        asker,
		publisher:       publisher,
		logger:          log,
		questionTimeout: questionTimeout,
	}
}

func (h *ChatHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/chat", h.ServeWs)
}

// ServeWs handles websocket requests from the peer.
func (h *ChatHandler) ServeWs(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			session := NewSession(conn, h.pipeline, h.publisher, h.questionTimeout, h.logger)
			session.Run()
		})(c)
	}
	return fiber.ErrUpgradeRequired
}
