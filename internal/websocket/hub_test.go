package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"community-resources-be/internal/pkg/logger"
	"community-resources-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := NewHub(nil, "node-a", logger.NewNopLogger())
	go h.Run(ctx)
	return h
}

func attach(t *testing.T, h *Hub, sessionID string, buffer int) *Client {
	t.Helper()
	c := &Client{Hub: h, SessionID: sessionID, Send: make(chan []byte, buffer)}
	require.True(t, h.Register(c))
	require.Eventually(t, func() bool {
		h.mu.RLock()
		defer h.mu.RUnlock()
		for _, got := range h.clients[sessionID] {
			if got == c {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
	return c
}

func receive(t *testing.T, c *Client) Frame {
	t.Helper()
	select {
	case data := <-c.Send:
		var f Frame
		require.NoError(t, json.Unmarshal(data, &f))
		return f
	case <-time.After(time.Second):
		t.Fatal("no frame received")
		return Frame{}
	}
}

func TestHub_PublishReachesEverySession(t *testing.T) {
	h := startHub(t)
	a := attach(t, h, "s1", 4)
	b := attach(t, h, "s2", 4)

	require.NoError(t, h.Publish(context.Background(), events.NewDatasetInvalidated("education", "node-a", events.ReasonRefresh, time.Now())))

	for _, c := range []*Client{a, b} {
		f := receive(t, c)
		assert.Equal(t, events.TypeDatasetInvalidated, f.Type)
		assert.Equal(t, "education", f.Data.(map[string]interface{})["category"])
	}
}

func TestHub_SendToTargetsOneSession(t *testing.T) {
	h := startHub(t)
	tab1 := attach(t, h, "s1", 4)
	tab2 := attach(t, h, "s1", 4)
	other := attach(t, h, "s2", 4)

	require.NoError(t, h.SendTo(context.Background(), "s1", Frame{Type: "reply", Data: "hi"}))

	assert.Equal(t, "reply", receive(t, tab1).Type)
	assert.Equal(t, "reply", receive(t, tab2).Type)
	assert.Empty(t, other.Send)
	assert.Equal(t, 3, h.ClientCount())
}

func TestHub_RegisterAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(nil, "node-a", logger.NewNopLogger())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	attached := attach(t, h, "s1", 4)

	cancel()
	<-stopped

	registered := make(chan bool, 1)
	go func() { registered <- h.Register(NewClient(h, nil, "s2", nil)) }()
	select {
	case ok := <-registered:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Register blocked on a stopped hub")
	}

	require.NoError(t, h.SendTo(context.Background(), "s1", Frame{Type: "reply"}))
	assert.Equal(t, "reply", receive(t, attached).Type)
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	h := startHub(t)
	slow := attach(t, h, "s1", 1)

	require.NoError(t, h.SendTo(context.Background(), "s1", Frame{Type: "reply"}))
	require.NoError(t, h.SendTo(context.Background(), "s1", Frame{Type: "reply"}))

	assert.Zero(t, h.ClientCount())
	<-slow.Send
	_, open := <-slow.Send
	assert.False(t, open, "send channel is closed once the client is dropped")

	// Dropping again is a no-op.
	h.drop(slow)
}
