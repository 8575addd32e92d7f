package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func vote(v Vote) *Vote { return &v }

func TestRoom_Put_Keeps_Join_Order(t *testing.T) {
	req := require.New(t)
	room := NewRoom("ABCDE")

	room.Put(&Participant{Name: "Bob", Conn: "c1"})
	room.Put(&Participant{Name: "Alice", Conn: "c2"})
	room.Put(&Participant{Name: "carol", Conn: "c3"})

	req.Equal([]string{"Bob", "Alice", "carol"}, room.Names())
	req.Equal(3, room.Len())
}

func TestRoom_Put_Overwrites_In_Place(t *testing.T) {
	req := require.New(t)
	room := NewRoom("ABCDE")
	room.Put(&Participant{Name: "Bob", Conn: "c1", Vote: vote("5")})
	room.Put(&Participant{Name: "Alice", Conn: "c2"})

	prev, replaced := room.Put(&Participant{Name: "Bob", Conn: "c9"})

	req.True(replaced)
	req.Equal(ConnID("c1"), prev.Conn)
	req.Equal([]string{"Bob", "Alice"}, room.Names())
	p, _ := room.Participant("Bob")
	req.Equal(ConnID("c9"), p.Conn)
	req.Nil(p.Vote)
}

func TestRoom_Names_Are_Case_Sensitive(t *testing.T) {
	req := require.New(t)
	room := NewRoom("ABCDE")

	room.Put(&Participant{Name: "bob"})
	room.Put(&Participant{Name: "Bob"})

	req.Equal(2, room.Len())
}

func TestRoom_Remove(t *testing.T) {
	req := require.New(t)
	room := NewRoom("ABCDE")
	room.Put(&Participant{Name: "Bob"})
	room.Put(&Participant{Name: "Alice"})

	_, ok := room.Remove("Bob")
	req.True(ok)
	_, ok = room.Remove("Bob")
	req.False(ok)

	req.Equal([]string{"Alice"}, room.Names())
	room.Remove("Alice")
	req.True(room.Empty())
}

func TestRoom_Rename_Keeps_Position_Conn_And_Vote(t *testing.T) {
	req := require.New(t)
	room := NewRoom("ABCDE")
	room.Put(&Participant{Name: "Bob", Conn: "c1", Vote: vote("8")})
	room.Put(&Participant{Name: "Alice", Conn: "c2"})

	req.True(room.Rename("Bob", "Robert"))

	req.Equal([]string{"Robert", "Alice"}, room.Names())
	p, ok := room.Participant("Robert")
	req.True(ok)
	req.Equal("Robert", p.Name)
	req.Equal(ConnID("c1"), p.Conn)
	req.Equal(Vote("8"), *p.Vote)
	_, ok = room.Participant("Bob")
	req.False(ok)
}

func TestRoom_Rename_Rejects_Unknown_And_Taken(t *testing.T) {
	req := require.New(t)
	room := NewRoom("ABCDE")
	room.Put(&Participant{Name: "Bob"})
	room.Put(&Participant{Name: "Alice"})

	req.False(room.Rename("Zed", "Zoe"))
	req.False(room.Rename("Bob", "Alice"))
	req.Equal([]string{"Bob", "Alice"}, room.Names())
}

func TestRoom_Votes_And_Reset(t *testing.T) {
	req := require.New(t)
	room := NewRoom("ABCDE")
	room.Put(&Participant{Name: "Bob", Vote: vote("13")})
	room.Put(&Participant{Name: "Alice"})

	votes := room.Votes()
	req.Len(votes, 2)
	req.Equal(Vote("13"), *votes["Bob"])
	req.Nil(votes["Alice"])

	// The snapshot is detached from the room
	*votes["Bob"] = "1"
	p, _ := room.Participant("Bob")
	req.Equal(Vote("13"), *p.Vote)

	room.ResetVotes()
	for _, v := range room.Votes() {
		req.Nil(v)
	}
}

func TestParseRoomCode(t *testing.T) {
	require.Equal(t, RoomCode("AB2CD"), ParseRoomCode("  ab2cd "))
}
