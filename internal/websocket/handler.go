package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches a connection to the hub and blocks until it closes.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID string, handle MessageHandler) {
	client := NewClient(hub, c, sessionID, handle)
	if !hub.Register(client) {
		hub.logger.Warn(hubModule, "Hub stopped, refusing connection", map[string]interface{}{"session_id": sessionID})
		_ = c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
