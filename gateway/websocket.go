/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package gateway

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeWS upgrades the request and pumps messages between the socket and a
// new session until either side goes away.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Debug().Err(err).Msg("websocket upgrade failed")

		return
	}

	s := g.Connect(uuid.NewString())

	go writePump(conn, s)

	g.readPump(conn, s)
}

func (g *Gateway) readPump(conn *websocket.Conn, s *Session) {
	defer func() {
		g.Disconnect(s)
		_ = conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.log.Debug().Str("session", s.id).Err(err).Msg("read failed")
			}

			return
		}

		g.Handle(s, data)
	}
}

func writePump(conn *websocket.Conn, s *Session) {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case env := <-s.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := conn.WriteJSON(env); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-s.done:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

			return
		}
	}
}
