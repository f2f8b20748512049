/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seednode/imprompt/room"
)

type wireEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func readType(t *testing.T, conn *websocket.Conn, kind string) wireEnvelope {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(waitFor)))

	for {
		var env wireEnvelope
		require.NoError(t, conn.ReadJSON(&env))

		if env.Type == kind {
			return env
		}
	}
}

func TestServeWS(t *testing.T) {
	h := newHarness(t)

	srv := httptest.NewServer(http.HandlerFunc(h.gw.ServeWS))
	defer srv.Close()

	alice := dial(t, srv)
	bob := dial(t, srv)

	require.NoError(t, alice.WriteJSON(ClientMessage{Type: IntentCreateRoom, PlayerName: "Alice"}))

	var created room.RoomCreated
	require.NoError(t, json.Unmarshal(readType(t, alice, room.EventRoomCreated).Data, &created))
	assert.Len(t, created.RoomID, 6)
	assert.True(t, created.IsCreator)

	require.NoError(t, bob.WriteJSON(ClientMessage{Type: IntentJoinRoom, RoomID: strings.ToLower(created.RoomID), PlayerName: "Bob"}))

	var update room.RoomUpdate
	require.NoError(t, json.Unmarshal(readType(t, alice, room.EventRoomUpdate).Data, &update))
	assert.Len(t, update.Players, 2)

	require.NoError(t, bob.WriteMessage(websocket.TextMessage, []byte("nonsense")))

	var notice room.ErrorNotice
	require.NoError(t, json.Unmarshal(readType(t, bob, room.EventError).Data, &notice))
	assert.Equal(t, "invalid_message", notice.Code)

	_ = bob.Close()

	var left room.PlayerLeft
	require.NoError(t, json.Unmarshal(readType(t, alice, room.EventPlayerLeft).Data, &left))
	assert.Equal(t, "Bob", left.PlayerName)

	_ = alice.Close()

	require.Eventually(t, func() bool { return h.gw.Rooms() == 0 }, waitFor, 10*time.Millisecond)
}
