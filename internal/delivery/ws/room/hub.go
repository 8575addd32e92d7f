package ws_room

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/humanbelnik/scrumpoker/internal/model"
	"github.com/samber/lo"
)

// Hub is the connection transport. It keeps the room code <-> connection
// association in both directions.
type Hub struct {
	mu sync.RWMutex

	clients map[model.ConnID]*Client
	groups  map[model.RoomCode]map[model.ConnID]struct{}
	joined  map[model.ConnID]map[model.RoomCode]struct{}

	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[model.ConnID]*Client),
		groups:  make(map[model.RoomCode]map[model.ConnID]struct{}),
		joined:  make(map[model.ConnID]map[model.RoomCode]struct{}),
		logger:  logger,
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.id] = client
	h.logger.Info("client registered", "conn", client.id)
}

// Unregister forgets the client and every group it was bound to.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.id] != client {
		return
	}
	h.dropLocked(client)
	h.logger.Info("client unregistered", "conn", client.id)
}

func (h *Hub) Bind(conn model.ConnID, code model.RoomCode) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[conn]; !ok {
		return
	}
	if _, ok := h.groups[code]; !ok {
		h.groups[code] = make(map[model.ConnID]struct{})
	}
	h.groups[code][conn] = struct{}{}
	if _, ok := h.joined[conn]; !ok {
		h.joined[conn] = make(map[model.RoomCode]struct{})
	}
	h.joined[conn][code] = struct{}{}
}

func (h *Hub) Unbind(conn model.ConnID, code model.RoomCode) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.unbindLocked(conn, code)
}

func (h *Hub) unbindLocked(conn model.ConnID, code model.RoomCode) {
	if members, ok := h.groups[code]; ok {
		delete(members, conn)
		if len(members) == 0 {
			delete(h.groups, code)
		}
	}
	if rooms, ok := h.joined[conn]; ok {
		delete(rooms, code)
		if len(rooms) == 0 {
			delete(h.joined, conn)
		}
	}
}

// Broadcast enqueues event for every connection of the room. A connection
// that cannot keep up is dropped.
func (h *Hub) Broadcast(code model.RoomCode, event model.Event) {
	message, err := json.Marshal(Frame{Type: string(event.Type), Payload: event.Payload})
	if err != nil {
		h.logger.Error("failed to encode event", "room", code, "event", event.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.groups[code] {
		h.enqueueLocked(h.clients[conn], message)
	}
}

// Send enqueues frame for a single connection.
func (h *Hub) Send(conn model.ConnID, frame Frame) {
	message, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error("failed to encode frame", "conn", conn, "type", frame.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.enqueueLocked(h.clients[conn], message)
}

func (h *Hub) enqueueLocked(client *Client, message []byte) {
	if client == nil {
		return
	}
	select {
	case client.send <- message:
	default:
		h.logger.Warn("client send buffer full, dropping", "conn", client.id)
		h.dropLocked(client)
	}
}

func (h *Hub) dropLocked(client *Client) {
	for code := range h.joined[client.id] {
		h.unbindLocked(client.id, code)
	}
	delete(h.clients, client.id)
	client.closeSend()
}

// Members lists the connections bound to the room.
func (h *Hub) Members(code model.RoomCode) []model.ConnID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return lo.Keys(h.groups[code])
}

// Rooms lists the room groups the connection is bound to.
func (h *Hub) Rooms(conn model.ConnID) []model.RoomCode {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return lo.Keys(h.joined[conn])
}
