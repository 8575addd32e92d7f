package ws_room

import (
	"encoding/json"
	"testing"

	"github.com/humanbelnik/scrumpoker/internal/model"
	"github.com/stretchr/testify/require"
)

func testClient(id model.ConnID, buffer int) *Client {
	return &Client{id: id, send: make(chan []byte, buffer)}
}

func drain(c *Client) []Frame {
	var frames []Frame
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return frames
			}
			var f Frame
			_ = json.Unmarshal(msg, &f)
			frames = append(frames, f)
		default:
			return frames
		}
	}
}

func TestHub_Broadcast_Reaches_Group_Only(t *testing.T) {
	req := require.New(t)
	hub := NewHub(nil)
	alice, bob, carol := testClient("a", 4), testClient("b", 4), testClient("c", 4)
	hub.Register(alice)
	hub.Register(bob)
	hub.Register(carol)

	hub.Bind("a", "ROOM1")
	hub.Bind("b", "ROOM1")
	hub.Bind("c", "ROOM2")

	hub.Broadcast("ROOM1", model.Event{Type: model.EventUpdateUsers, Payload: []string{"Alice", "Bob"}})

	req.Len(drain(alice), 1)
	frames := drain(bob)
	req.Len(frames, 1)
	req.Equal(string(model.EventUpdateUsers), frames[0].Type)
	req.Empty(drain(carol))
	req.ElementsMatch([]model.ConnID{"a", "b"}, hub.Members("ROOM1"))
	req.ElementsMatch([]model.RoomCode{"ROOM1"}, hub.Rooms("a"))
}

func TestHub_Unbind_Stops_Delivery(t *testing.T) {
	req := require.New(t)
	hub := NewHub(nil)
	alice := testClient("a", 4)
	hub.Register(alice)
	hub.Bind("a", "ROOM1")

	hub.Unbind("a", "ROOM1")
	hub.Broadcast("ROOM1", model.Event{Type: model.EventUpdateVotes})

	req.Empty(drain(alice))
	req.Empty(hub.Members("ROOM1"))
	req.Empty(hub.Rooms("a"))
}

func TestHub_Bind_Ignores_Unknown_Connection(t *testing.T) {
	hub := NewHub(nil)

	hub.Bind("ghost", "ROOM1")

	require.Empty(t, hub.Members("ROOM1"))
}

func TestHub_Unregister_Leaves_Every_Group(t *testing.T) {
	req := require.New(t)
	hub := NewHub(nil)
	alice := testClient("a", 4)
	hub.Register(alice)
	hub.Bind("a", "ROOM1")
	hub.Bind("a", "ROOM2")

	hub.Unregister(alice)
	hub.Unregister(alice)

	req.Empty(hub.Members("ROOM1"))
	req.Empty(hub.Members("ROOM2"))
	_, open := <-alice.send
	req.False(open)
}

func TestHub_Drops_Slow_Client(t *testing.T) {
	req := require.New(t)
	hub := NewHub(nil)
	slow, fast := testClient("slow", 1), testClient("fast", 8)
	hub.Register(slow)
	hub.Register(fast)
	hub.Bind("slow", "ROOM1")
	hub.Bind("fast", "ROOM1")

	hub.Broadcast("ROOM1", model.Event{Type: model.EventUpdateUsers})
	hub.Broadcast("ROOM1", model.Event{Type: model.EventUpdateVotes})
	hub.Broadcast("ROOM1", model.Event{Type: model.EventRevealVotes})

	req.ElementsMatch([]model.ConnID{"fast"}, hub.Members("ROOM1"))
	req.Len(drain(slow), 1)
	req.Len(drain(fast), 3)
}

func TestHub_Send_Targets_One_Connection(t *testing.T) {
	req := require.New(t)
	hub := NewHub(nil)
	alice, bob := testClient("a", 4), testClient("b", 4)
	hub.Register(alice)
	hub.Register(bob)

	hub.Send("a", Frame{ID: "1", Type: FrameCompletion, Payload: true})
	hub.Send("nobody", Frame{Type: FrameCompletion})

	frames := drain(alice)
	req.Len(frames, 1)
	req.Equal("1", frames[0].ID)
	req.Equal(true, frames[0].Payload)
	req.Empty(drain(bob))
}
