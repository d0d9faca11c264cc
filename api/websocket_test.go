package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/openweb3/wallet-core/wallet"
	"github.com/stretchr/testify/require"
)

func readMsg(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg WSMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestWSHubRelaysSessionState(t *testing.T) {
	hub := NewWSHub()
	hub.SetStateProvider(func() wallet.Snapshot {
		return wallet.Snapshot{State: "locked", IsInitialized: true, IsLocked: true}
	})
	go hub.Run()
	defer hub.Stop()

	srv := httptest.NewServer(HandleWebSocket(hub))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Equal(t, EventConnected, readMsg(t, conn).Event)

	greeting := readMsg(t, conn)
	require.Equal(t, EventSessionState, greeting.Event)
	require.Equal(t, "locked", greeting.Data.(map[string]interface{})["state"])

	require.Eventually(t, func() bool { return hub.GetClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.BroadcastSessionState(wallet.Snapshot{State: "unlocked", IsInitialized: true})
	update := readMsg(t, conn)
	require.Equal(t, EventSessionState, update.Event)
	require.Equal(t, "unlocked", update.Data.(map[string]interface{})["state"])
}

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://localhost:3000", true},
		{"http://127.0.0.1:8547", true},
		{"http://[::1]:8547", true},
		{"chrome-extension://abcdef", true},
		{"moz-extension://abcdef", true},
		{"https://example.com", false},
		{"https://localhost.example.com", false},
		{"file://localhost/index.html", false},
		{"null", false},
	}
	for _, tt := range tests {
		if tt.origin != "" && AllowedOrigin(tt.origin) != tt.want {
			t.Errorf("AllowedOrigin(%q) = %v, want %v", tt.origin, !tt.want, tt.want)
		}

		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := checkOrigin(r); got != tt.want {
			t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}
