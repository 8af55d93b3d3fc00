package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainchat "thriftee/internal/domain/chat"
)

func dialTestHub(t *testing.T, hub *Hub, roomID string) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	joined := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error(err)
			return
		}
		hub.Join(roomID, conn)
		close(joined)
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	<-joined
	return client
}

func TestBroadcastSerializesConcurrentWrites(t *testing.T) {
	hub := NewHub(nil)
	client := dialTestHub(t, hub, "room-1")

	const frames = 50
	var wg sync.WaitGroup
	wg.Add(frames)
	for i := 0; i < frames; i++ {
		go func() {
			defer wg.Done()
			hub.Broadcast("room-1", []byte(`{"content":"ping"}`))
		}()
	}

	for i := 0; i < frames; i++ {
		require.NoError(t, client.SetReadDeadline(time.Now().Add(5*time.Second)))
		_, payload, err := client.ReadMessage()
		require.NoError(t, err)
		assert.JSONEq(t, `{"content":"ping"}`, string(payload))
	}
	wg.Wait()
}

func TestMessageSentFansOutFeedPayload(t *testing.T) {
	hub := NewHub(nil)
	client := dialTestHub(t, hub, "room-1")

	sent := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	hub.MessageSent(context.Background(), &domainchat.Message{
		ID:        "msg-1",
		RoomID:    "room-1",
		SenderID:  "buyer-1",
		Content:   "still available?",
		CreatedAt: sent,
	})

	require.NoError(t, client.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, payload, err := client.ReadMessage()
	require.NoError(t, err)

	var frame feedMessage
	require.NoError(t, json.Unmarshal(payload, &frame))
	assert.Equal(t, "msg-1", frame.MessageID)
	assert.Equal(t, "room-1", frame.RoomID)
	assert.Equal(t, "buyer-1", frame.SenderID)
	assert.Equal(t, "still available?", frame.Content)
	assert.Equal(t, sent.UnixMilli(), frame.At)
}
