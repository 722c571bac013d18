package handler

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"community-resources-be/internal/dto"
	"community-resources-be/internal/pkg/logger"
	"community-resources-be/internal/service"
	internalWS "community-resources-be/internal/websocket"
	"community-resources-be/pkg/chat/session"

	fastws "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoChat struct {
	service.IChatService
}

func (echoChat) ConnectSession(_ context.Context, id string) (*dto.ChatSessionResponse, error) {
	return &dto.ChatSessionResponse{Id: id, State: "IDLE"}, nil
}

func (echoChat) SubmitQuery(_ context.Context, id string, text string) (*dto.ChatReplyResponse, error) {
	if text == "fail" {
		return nil, session.ErrSessionNotFound
	}
	return &dto.ChatReplyResponse{SessionId: id, Kind: "results", Message: "echo: " + text}, nil
}

type wsFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func dial(t *testing.T) (*fastws.Conn, *internalWS.Hub) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := internalWS.NewHub(nil, "test", logger.NewNopLogger())
	go hub.Run(ctx)

	app := fiber.New()
	NewChatWsHandler(echoChat{}, hub, logger.NewNopLogger()).RegisterRoutes(app)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	conn, _, err := fastws.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws/chat/s1", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, hub
}

func read(t *testing.T, conn *fastws.Conn) wsFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var f wsFrame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func TestChatWsHandler_Turns(t *testing.T) {
	conn, _ := dial(t)

	hello := read(t, conn)
	assert.Equal(t, FrameSession, hello.Type)

	tests := []struct {
		name     string
		frame    string
		wantType string
		contains string
	}{
		{name: "plain text", frame: "dental 60629", wantType: FrameReply, contains: "echo: dental 60629"},
		{name: "json frame", frame: `{"text":"more"}`, wantType: FrameReply, contains: "echo: more"},
		{name: "error frame", frame: "fail", wantType: FrameError, contains: `"code":404`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, conn.WriteMessage(fastws.TextMessage, []byte(tt.frame)))
			f := read(t, conn)
			assert.Equal(t, tt.wantType, f.Type)
			assert.Contains(t, string(f.Data), tt.contains)
		})
	}
}

func TestChatWsHandler_RequiresUpgrade(t *testing.T) {
	app := fiber.New()
	hub := internalWS.NewHub(nil, "test", logger.NewNopLogger())
	NewChatWsHandler(echoChat{}, hub, logger.NewNopLogger()).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws/chat/s1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
