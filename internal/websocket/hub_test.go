package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditrisk/internal/modelcache"
	"creditrisk/internal/shared/testutil"
)

func dial(t *testing.T, srv *httptest.Server, origin string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	return websocket.DefaultDialer.Dial(url, header)
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHubStartStop(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub(logger)

	hub.Start()
	hub.Start()
	assert.Equal(t, true, hub.GetHubMetrics()["running"])

	hub.Stop()
	hub.Stop()
	assert.Equal(t, false, hub.GetHubMetrics()["running"])
}

func TestHub_BroadcastsModelEvents(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub(logger)
	hub.Start()
	defer hub.Stop()

	srv := httptest.NewServer(Handler(hub, Upgrader(nil, 1024, 1024), logger))
	defer srv.Close()

	conn, _, err := dial(t, srv, "")
	require.NoError(t, err)
	defer conn.Close()

	hello := readMessage(t, conn)
	assert.Equal(t, TypeConnection, hello.Type)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.BroadcastModelEvent(modelcache.Event{Type: modelcache.EventTrainingCompleted, Key: "abc"})

	msg := readMessage(t, conn)
	assert.Equal(t, TypeModelEvent, msg.Type)
	data, ok := msg.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, string(modelcache.EventTrainingCompleted), data["type"])
	assert.Equal(t, "abc", data["key"])

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 1, hub.GetHubMetrics()["total_connections"])
}

func TestUpgrader_RejectsForeignOrigin(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub(logger)
	hub.Start()
	defer hub.Stop()

	srv := httptest.NewServer(Handler(hub, Upgrader([]string{"http://localhost:8080"}, 1024, 1024), logger))
	defer srv.Close()

	_, resp, err := dial(t, srv, "http://evil.test")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := dial(t, srv, "http://localhost:8080")
	require.NoError(t, err)
	conn.Close()
}

func TestHub_BroadcastDropsWhenQueueFull(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	hub := NewHub(logger) // not started, nothing drains the queue

	for i := 0; i < broadcastBuffer+1; i++ {
		hub.Broadcast(context.Background(), TypeModelEvent, i)
	}
	assert.EqualValues(t, 1, hub.GetHubMetrics()["messages_dropped"])
	assert.True(t, handler.ContainsMessage("Broadcast queue full, message dropped"))
}

func TestClient_WritePump(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	conn := newFakeConn()
	client := NewClient(NewHub(logger), conn, "trace-1", logger)
	assert.Equal(t, "127.0.0.1:8080", client.remoteAddr)

	client.send <- []byte(`{"type":"model:event"}`)
	close(client.send)
	client.WritePump()

	written := conn.frames()
	require.Len(t, written, 2)
	assert.Equal(t, websocket.TextMessage, written[0].kind)
	assert.JSONEq(t, `{"type":"model:event"}`, string(written[0].data))
	assert.Equal(t, websocket.CloseMessage, written[1].kind)
	assert.True(t, conn.isClosed())
}

func TestClient_ReadPumpUnregisters(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub(logger)
	hub.Start()
	defer hub.Stop()

	conn := newFakeConn()
	client := NewClient(hub, conn, "", logger)
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	// Nothing is queued, so the first read fails.
	client.ReadPump()

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(maxMessageSize), conn.limit())
}

func TestWithHeartbeat(t *testing.T) {
	tests := []struct {
		name     string
		ping     time.Duration
		pong     time.Duration
		wantPing time.Duration
		wantPong time.Duration
	}{
		{"defaults", 0, 0, defaultPingPeriod, defaultPongWait},
		{"override both", 10 * time.Second, 20 * time.Second, 10 * time.Second, 20 * time.Second},
		{"ping clamped below pong", 30 * time.Second, 20 * time.Second, 18 * time.Second, 20 * time.Second},
	}
	logger, _ := testutil.NewTestLogger(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(NewHub(logger), newFakeConn(), "", logger, WithHeartbeat(tt.ping, tt.pong))
			assert.Equal(t, tt.wantPing, client.pingPeriod)
			assert.Equal(t, tt.wantPong, client.pongWait)
		})
	}
}
