package handler

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"community-resources-be/internal/pkg/logger"
	"community-resources-be/internal/pkg/serverutils"
	"community-resources-be/internal/service"
	internalWS "community-resources-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const (
	wsModule = "ChatWsHandler"

	FrameReply   = "reply"
	FrameError   = "error"
	FrameSession = "session"

	turnTimeout = 30 * time.Second
)

// inboundFrame is the JSON form of a query frame. Plain text frames are
// read as the query itself.
type inboundFrame struct {
	Text string `json:"text"`
}

type ChatWsHandler struct {
	chat   service.IChatService
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewChatWsHandler(chat service.IChatService, hub *internalWS.Hub, log logger.ILogger) *ChatWsHandler {
	return &ChatWsHandler{
		chat:   chat,
		hub:    hub,
		logger: log,
	}
}

// RegisterRoutes registers the websocket route on the app root.
func (h *ChatWsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/chat/:id", h.ServeWs)
}

// ServeWs resumes or starts the session named in the path and answers
// every text frame as a chat turn.
func (h *ChatWsHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	sessionID := strings.TrimSpace(c.Params("id"))
	snapshot, err := h.chat.ConnectSession(c.Context(), sessionID)
	if err != nil {
		return err
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info(wsModule, "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
		if greeting, err := json.Marshal(internalWS.Frame{Type: FrameSession, Data: snapshot}); err == nil {
			_ = conn.WriteMessage(websocket.TextMessage, greeting)
		}
		internalWS.ServeWs(h.hub, conn, sessionID, h.handleMessage)
		h.logger.Info(wsModule, "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
	})(c)
}

func (h *ChatWsHandler) handleMessage(sessionID string, payload []byte) []byte {
	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	defer cancel()

	frame := internalWS.Frame{Type: FrameReply}
	reply, err := h.chat.SubmitQuery(ctx, sessionID, parseText(payload))
	if err != nil {
		frame = internalWS.Frame{Type: FrameError, Data: serverutils.ErrorFor(err)}
	} else {
		frame.Data = reply
	}

	out, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error(wsModule, "Failed to encode frame", map[string]interface{}{"session_id": sessionID, "error": err.Error()})
		return nil
	}
	return out
}

func parseText(payload []byte) string {
	var in inboundFrame
	trimmed := strings.TrimSpace(string(payload))
	if strings.HasPrefix(trimmed, "{") && json.Unmarshal(payload, &in) == nil {
		return in.Text
	}
	return trimmed
}
