package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// sendBuffer bounds per-session backlog; events beyond it are dropped.
const sendBuffer = 64

// controlMessage is a client request to join or leave a concern's room.
type controlMessage struct {
	Event      string   `json:"event"`
	ProductIDs []string `json:"productIds,omitempty"`
}

// Session is one websocket connection. Anonymous sessions (empty userID) may
// only subscribe to product rooms and shared broadcast rooms.
type Session struct {
	hub      *Hub
	conn     *websocket.Conn
	userID   string
	userName string

	send      chan []byte
	closeOnce sync.Once
	done      chan struct{}
}

// NewSession wraps an upgraded connection. userID is empty for anonymous
// sessions.
func NewSession(hub *Hub, conn *websocket.Conn, userID, userName string) *Session {
	return &Session{
		hub:      hub,
		conn:     conn,
		userID:   userID,
		userName: userName,
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
	}
}

// UserID returns the authenticated owner identity, or "" when anonymous.
func (s *Session) UserID() string { return s.userID }

// enqueue hands an already-marshaled event to the write loop without blocking.
func (s *Session) enqueue(payload []byte) bool {
	select {
	case s.send <- payload:
		return true
	case <-s.done:
		return false
	default:
		return false
	}
}

// emit marshals and queues an event addressed to this session only.
func (s *Session) emit(event string, data interface{}) {
	payload, err := json.Marshal(Event{
		Event:     event,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	s.enqueue(payload)
}

// Run joins the default rooms, starts the write loop and reads control
// messages until the connection drops. It blocks until disconnect.
func (s *Session) Run() {
	s.hub.Join(s, RoomAllUsers)
	if s.userID != "" {
		s.hub.Join(s, UserRoom(s.userID))
		s.hub.Join(s, RoomAuthenticated)
		s.emit("welcome", map[string]string{
			"message": "Welcome " + s.userName + "! You're now connected to real-time updates.",
		})
	} else {
		s.hub.Join(s, RoomAnonymous)
	}

	go s.writeLoop()
	s.readLoop()

	s.hub.Remove(s)
	s.close()
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

func (s *Session) writeLoop() {
	for {
		select {
		case payload := <-s.send:
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.close()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *Session) readLoop() {
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg controlMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		s.handleControl(msg)
	}
}

// handleControl processes join/leave requests. Owner-scoped rooms require an
// authenticated session; product subscriptions are open to everyone.
func (s *Session) handleControl(msg controlMessage) {
	switch msg.Event {
	case "cart:join":
		if s.userID != "" {
			s.hub.Join(s, CartRoom(s.userID))
		}
	case "cart:leave":
		if s.userID != "" {
			s.hub.Leave(s, CartRoom(s.userID))
		}
	case "wishlist:join":
		if s.userID != "" {
			s.hub.Join(s, WishlistRoom(s.userID))
		}
	case "wishlist:leave":
		if s.userID != "" {
			s.hub.Leave(s, WishlistRoom(s.userID))
		}
	case "orders:join":
		if s.userID != "" {
			s.hub.Join(s, OrdersRoom(s.userID))
		}
	case "orders:leave":
		if s.userID != "" {
			s.hub.Leave(s, OrdersRoom(s.userID))
		}
	case "products:subscribe":
		for _, id := range msg.ProductIDs {
			s.hub.Join(s, ProductRoom(id))
		}
	case "products:unsubscribe":
		for _, id := range msg.ProductIDs {
			s.hub.Leave(s, ProductRoom(id))
		}
	case "ping":
		s.emit("pong", nil)
	}
}
