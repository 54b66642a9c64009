package handlers

import (
	"net/http"
	"sync"

	"github.com/finpal/finpal-be/internal/auth"
	ws "github.com/finpal/finpal-be/internal/websocket"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler upgrades HTTP connections to the per-user expense
// event feed.
type WebSocketHandler struct {
	hub *ws.Hub
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins (consider tightening this in production).
		return true
	},
}

// Serve handles the WebSocket connection request. The access-control
// middleware has already authenticated the caller; the connection is
// subscribed to that user's expense events only.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing auth token")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn, user.ID)
	h.hub.Register <- client

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		client.WritePump()
	}()
	go func() {
		defer wg.Done()
		// The feed is push-only; inbound frames are drained so pings
		// and close handshakes work, and anything else gets an error
		// reply.
		client.ReadPump(func(c *ws.Client, message []byte) {
			c.Send <- ws.NewErrorMessage("This endpoint does not accept messages")
		})
	}()

	go func() {
		wg.Wait()
		h.hub.Unregister <- client
	}()
}
