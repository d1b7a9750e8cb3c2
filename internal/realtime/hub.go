// Package realtime pushes pipeline events to browsers over websockets.
// Clients join a room per project; the service layer broadcasts after each
// committed change. Delivery is best-effort: the database is the source of
// truth and slow clients are dropped rather than buffered without bound.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Event is the wire format pushed to room members.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type envelope struct {
	projectID string
	payload   []byte
}

// Hub maintains project rooms and fans broadcast payloads out to members.
type Hub struct {
	rooms      map[string]map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client

	// done is closed when Run returns; register and unregister senders
	// select on it so they cannot block once the hub has stopped.
	done chan struct{}
}

// NewHub creates a Hub. Run must be started before clients connect.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan envelope, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run owns the room map; all mutations happen on this goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for _, room := range h.rooms {
				for client := range room {
					close(client.send)
				}
			}
			close(h.done)
			return

		case client := <-h.register:
			room := h.rooms[client.projectID]
			if room == nil {
				room = make(map[*Client]bool)
				h.rooms[client.projectID] = room
			}
			room[client] = true

		case client := <-h.unregister:
			if room, ok := h.rooms[client.projectID]; ok {
				if _, ok := room[client]; ok {
					delete(room, client)
					close(client.send)
					if len(room) == 0 {
						delete(h.rooms, client.projectID)
					}
				}
			}

		case msg := <-h.broadcast:
			for client := range h.rooms[msg.projectID] {
				select {
				case client.send <- msg.payload:
				default:
					delete(h.rooms[msg.projectID], client)
					close(client.send)
				}
			}
		}
	}
}

// Broadcast sends an event to every client in the project room.
func (h *Hub) Broadcast(projectID, eventType string, data any) {
	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		slog.Error("failed to marshal realtime event", "type", eventType, "error", err)
		return
	}

	select {
	case h.broadcast <- envelope{projectID: projectID, payload: payload}:
	default:
		slog.Warn("realtime broadcast queue full, dropping event", "type", eventType, "project_id", projectID)
	}
}
