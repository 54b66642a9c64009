package websocket

import "github.com/rs/zerolog/log"

// Hub maintains the set of active clients and pushes expense change
// events to the clients belonging to the affected user.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Inbound messages for global broadcast.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Messages targeted at a single user's clients. All map access
	// stays on the Run goroutine.
	targeted chan targetedMessage

	// A map of user IDs to the set of clients authenticated as them.
	subscriptions map[string]map[*Client]bool
}

type targetedMessage struct {
	userID string
	data   []byte
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:     make(chan []byte),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		targeted:      make(chan targetedMessage),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			h.addSubscription(client, client.UserID)
			log.Info().Int("total_clients", len(h.clients)).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.removeSubscription(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
					h.removeSubscription(client)
				}
			}
		case msg := <-h.targeted:
			for client := range h.subscriptions[msg.userID] {
				select {
				case client.Send <- msg.data:
				default:
					close(client.Send)
					delete(h.clients, client)
					delete(h.subscriptions[msg.userID], client)
				}
			}
		}
	}
}

// BroadcastTo sends a message to all clients authenticated as the
// given user. Events never cross user boundaries.
func (h *Hub) BroadcastTo(userID string, message []byte) {
	h.targeted <- targetedMessage{userID: userID, data: message}
}

func (h *Hub) addSubscription(client *Client, userID string) {
	if userID == "" {
		return
	}
	if h.subscriptions[userID] == nil {
		h.subscriptions[userID] = make(map[*Client]bool)
	}
	h.subscriptions[userID][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	for userID, subs := range h.subscriptions {
		if _, ok := subs[client]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.subscriptions, userID)
			}
		}
	}
}
