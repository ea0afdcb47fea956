package api_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/avrlang/rpnc/api"
)

func TestWebSocket_ReceivesCompileEventsPublishedByHandleCompile(t *testing.T) {
	srv := api.NewServer(0)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the server's Subscribe() goroutine time to register before the
	// compile request fires broadcast events.
	time.Sleep(50 * time.Millisecond)

	go func() {
		_, _ = ts.Client().Post(ts.URL+"/api/v1/compile", "application/json",
			strings.NewReader(`{"source":"(3 5 +)"}`))
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var evt api.Event
	require.NoError(t, json.Unmarshal(payload, &evt))
	require.NotEmpty(t, evt.Phase)
}
