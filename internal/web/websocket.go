package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const pingInterval = 30 * time.Second

// LookupRequest is one message sent by a WebSocket client.
type LookupRequest struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			allowed := s.config.AllowedOrigin
			origin := r.Header.Get("Origin")
			return allowed == "*" || origin == "" || origin == allowed
		},
	}
}

// handleWebSocket answers each lookup message with the body the HTTP
// endpoint would have returned. Lookups on one connection run in order.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := s.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// The request context outlives a dropped client once hijacked, so
	// lookups use one that ends with the reader.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	requests := make(chan LookupRequest)
	done := make(chan struct{})
	quit := make(chan struct{})
	defer close(quit)

	go func() {
		defer close(done)
		defer cancel()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.logger.Debug("WebSocket read failed: %v", err)
				}
				return
			}
			// An undecodable message is answered like a lookup with no fields.
			var req LookupRequest
			if err := json.Unmarshal(data, &req); err != nil {
				req = LookupRequest{}
			}
			select {
			case requests <- req:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second))
			return

		case <-done:
			return

		case req := <-requests:
			_, body := s.lookup(ctx, req.Title, req.Artist)
			if err := conn.WriteJSON(body); err != nil {
				s.logger.Error("Failed to write WebSocket message: %v", err)
				return
			}

		case <-ticker.C:
			// Send ping to keep connection alive
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
