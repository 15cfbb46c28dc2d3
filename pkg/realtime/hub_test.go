package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

// testSession builds a session without a live connection; events land in the
// send channel where the tests read them back.
func testSession(hub *Hub, userID string) *Session {
	return NewSession(hub, nil, userID, "")
}

func receive(t *testing.T, s *Session) Event {
	t.Helper()
	select {
	case payload := <-s.send:
		var ev Event
		assert.NoError(t, json.Unmarshal(payload, &ev))
		return ev
	default:
		t.Fatal("no event queued")
		return Event{}
	}
}

func TestHub_JoinLeave(t *testing.T) {
	hub := NewHub(nil)
	s := testSession(hub, "u1")

	hub.Join(s, CartRoom("u1"))
	assert.Equal(t, 1, hub.RoomSize(CartRoom("u1")))

	// Joining twice is idempotent.
	hub.Join(s, CartRoom("u1"))
	assert.Equal(t, 1, hub.RoomSize(CartRoom("u1")))

	hub.Leave(s, CartRoom("u1"))
	assert.Equal(t, 0, hub.RoomSize(CartRoom("u1")))

	// Leaving a room never joined is a no-op.
	hub.Leave(s, CartRoom("u1"))
	assert.Equal(t, 0, hub.RoomSize(CartRoom("u1")))
}

func TestHub_PublishTargetsRoomMembersOnly(t *testing.T) {
	hub := NewHub(nil)
	owner := testSession(hub, "u1")
	other := testSession(hub, "u2")

	hub.Join(owner, CartRoom("u1"))
	hub.Join(other, CartRoom("u2"))

	hub.Publish(CartRoom("u1"), "cart:updated", map[string]int{"totalItems": 3})

	ev := receive(t, owner)
	assert.Equal(t, "cart:updated", ev.Event)
	assert.NotEmpty(t, ev.Timestamp)
	assert.Empty(t, other.send)
}

func TestHub_PublishToEmptyRoom(t *testing.T) {
	hub := NewHub(nil)
	// Must not panic or create the room.
	hub.Publish(CartRoom("nobody"), "cart:updated", nil)
	assert.Equal(t, 0, hub.RoomSize(CartRoom("nobody")))
}

func TestHub_BroadcastReachesAllMembers(t *testing.T) {
	hub := NewHub(nil)
	a := testSession(hub, "u1")
	b := testSession(hub, "")

	hub.Join(a, RoomAllUsers)
	hub.Join(b, RoomAllUsers)

	hub.Publish(RoomAllUsers, "system:maintenance", map[string]string{"message": "tonight"})

	assert.Equal(t, "system:maintenance", receive(t, a).Event)
	assert.Equal(t, "system:maintenance", receive(t, b).Event)
}

func TestHub_RemoveDropsAllMemberships(t *testing.T) {
	hub := NewHub(nil)
	s := testSession(hub, "u1")

	hub.Join(s, RoomAllUsers)
	hub.Join(s, CartRoom("u1"))
	hub.Join(s, OrdersRoom("u1"))

	hub.Remove(s)

	assert.Equal(t, 0, hub.RoomSize(RoomAllUsers))
	assert.Equal(t, 0, hub.RoomSize(CartRoom("u1")))
	assert.Equal(t, 0, hub.RoomSize(OrdersRoom("u1")))
}

func TestHub_SlowSessionEventsDropped(t *testing.T) {
	hub := NewHub(nil)
	s := testSession(hub, "u1")
	hub.Join(s, CartRoom("u1"))

	// Fill the send buffer and one more; the overflow must be dropped without
	// blocking the publisher.
	for i := 0; i < sendBuffer+10; i++ {
		hub.Publish(CartRoom("u1"), "cart:updated", i)
	}
	assert.Len(t, s.send, sendBuffer)
}

func TestSession_ControlMessages(t *testing.T) {
	hub := NewHub(nil)
	authed := testSession(hub, "u1")
	anon := testSession(hub, "")

	authed.handleControl(controlMessage{Event: "cart:join"})
	assert.Equal(t, 1, hub.RoomSize(CartRoom("u1")))
	authed.handleControl(controlMessage{Event: "cart:leave"})
	assert.Equal(t, 0, hub.RoomSize(CartRoom("u1")))

	// Owner-scoped rooms are ignored for anonymous sessions.
	anon.handleControl(controlMessage{Event: "orders:join"})
	assert.Equal(t, 0, hub.RoomSize(OrdersRoom("")))

	// Product subscriptions are open to everyone, several at a time.
	anon.handleControl(controlMessage{Event: "products:subscribe", ProductIDs: []string{"p1", "p2"}})
	assert.Equal(t, 1, hub.RoomSize(ProductRoom("p1")))
	assert.Equal(t, 1, hub.RoomSize(ProductRoom("p2")))
	anon.handleControl(controlMessage{Event: "products:unsubscribe", ProductIDs: []string{"p1"}})
	assert.Equal(t, 0, hub.RoomSize(ProductRoom("p1")))
	assert.Equal(t, 1, hub.RoomSize(ProductRoom("p2")))

	anon.handleControl(controlMessage{Event: "ping"})
	assert.Equal(t, "pong", receive(t, anon).Event)
}

func TestEmitter_RoutesToOwnerRooms(t *testing.T) {
	hub := NewHub(nil)
	s := testSession(hub, "u1")
	hub.Join(s, OrdersRoom("u1"))

	emitter := NewEmitter(hub)
	emitter.OrderStatusUpdated("u1", "order-1", "shipped", "TRACK-9")

	ev := receive(t, s)
	assert.Equal(t, "order:status-updated", ev.Event)
	data := ev.Data.(map[string]interface{})
	assert.Equal(t, "order-1", data["orderId"])
	assert.Equal(t, "shipped", data["status"])
	assert.Equal(t, "TRACK-9", data["trackingNumber"])
}
