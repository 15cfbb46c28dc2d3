// Package realtime implements room-scoped websocket fanout for storefront
// change events. Delivery is fire-and-forget: the REST response is always
// authoritative and a lost event never corrupts state.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Shared rooms. Authenticated sessions additionally join per-user rooms named
// by the helpers below.
const (
	RoomAllUsers      = "all-users"
	RoomAuthenticated = "authenticated-users"
	RoomAnonymous     = "anonymous-users"
)

// UserRoom names the personal notification room of a user.
func UserRoom(userID string) string { return "user:" + userID }

// CartRoom names the cart-updates room of a user.
func CartRoom(userID string) string { return "cart:" + userID }

// WishlistRoom names the wishlist-updates room of a user.
func WishlistRoom(userID string) string { return "wishlist:" + userID }

// OrdersRoom names the order-updates room of a user.
func OrdersRoom(userID string) string { return "orders:" + userID }

// ProductRoom names the public per-product room any session may subscribe to.
func ProductRoom(productID string) string { return "product:" + productID }

// Event is the wire format for every pushed message.
type Event struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// Publisher is the fanout contract services depend on. The Hub is the live
// implementation; tests substitute a recording fake.
type Publisher interface {
	Publish(room, event string, data interface{})
}

// Hub tracks which sessions are in which rooms and delivers events to room
// members. All methods are safe for concurrent use.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Session]struct{}
	log   *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		rooms: make(map[string]map[*Session]struct{}),
		log:   log,
	}
}

// Join adds a session to a room, creating the room on first use.
func (h *Hub) Join(s *Session, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Session]struct{})
		h.rooms[room] = members
	}
	members[s] = struct{}{}
}

// Leave removes a session from a room, dropping the room when it empties.
func (h *Hub) Leave(s *Session, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[room]; ok {
		delete(members, s)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Remove drops a session from every room it joined. Called on disconnect.
func (h *Hub) Remove(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, members := range h.rooms {
		delete(members, s)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// RoomSize reports the current number of sessions in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Publish delivers an event to every session currently in the room. Sessions
// whose buffers are full are skipped; slow consumers must re-fetch state over
// REST.
func (h *Hub) Publish(room, event string, data interface{}) {
	payload, err := json.Marshal(Event{
		Event:     event,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		h.log.Warn("failed to marshal realtime event",
			zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.RLock()
	members := make([]*Session, 0, len(h.rooms[room]))
	for s := range h.rooms[room] {
		members = append(members, s)
	}
	h.mu.RUnlock()

	for _, s := range members {
		if !s.enqueue(payload) {
			h.log.Debug("dropped realtime event for slow session",
				zap.String("room", room), zap.String("event", event))
		}
	}
}
