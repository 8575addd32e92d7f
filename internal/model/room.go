package model

import (
	"strings"

	"github.com/samber/lo"
)

type RoomCode string

// ParseRoomCode normalises a user-typed code.
func ParseRoomCode(s string) RoomCode {
	return RoomCode(strings.ToUpper(strings.TrimSpace(s)))
}

// ConnID identifies a transport connection.
type ConnID string

type Participant struct {
	Name string
	Conn ConnID
	Vote *Vote
}

// Room owns its participants. Names are case-sensitive and kept in join order.
type Room struct {
	Code RoomCode

	order        []string
	participants map[string]*Participant
}

func NewRoom(code RoomCode) *Room {
	return &Room{
		Code:         code,
		participants: make(map[string]*Participant),
	}
}

func (r *Room) Len() int {
	return len(r.order)
}

func (r *Room) Empty() bool {
	return len(r.order) == 0
}

func (r *Room) Participant(name string) (*Participant, bool) {
	p, ok := r.participants[name]
	return p, ok
}

// Put inserts p or overwrites the entry with the same name in place.
// The overwritten participant is returned.
func (r *Room) Put(p *Participant) (*Participant, bool) {
	prev, ok := r.participants[p.Name]
	if !ok {
		r.order = append(r.order, p.Name)
	}
	r.participants[p.Name] = p
	return prev, ok
}

func (r *Room) Remove(name string) (*Participant, bool) {
	p, ok := r.participants[name]
	if !ok {
		return nil, false
	}
	delete(r.participants, name)
	r.order = lo.Without(r.order, name)
	return p, true
}

// Rename moves oldName to newName keeping the position, connection and vote.
func (r *Room) Rename(oldName, newName string) bool {
	p, ok := r.participants[oldName]
	if !ok {
		return false
	}
	if _, taken := r.participants[newName]; taken {
		return false
	}

	delete(r.participants, oldName)
	p.Name = newName
	r.participants[newName] = p
	r.order[lo.IndexOf(r.order, oldName)] = newName
	return true
}

func (r *Room) Names() []string {
	return append([]string(nil), r.order...)
}

// Votes maps every participant to its vote, nil when not voted.
func (r *Room) Votes() map[string]*Vote {
	return lo.SliceToMap(r.order, func(name string) (string, *Vote) {
		v := r.participants[name].Vote
		if v == nil {
			return name, nil
		}
		cp := *v
		return name, &cp
	})
}

func (r *Room) ResetVotes() {
	for _, p := range r.participants {
		p.Vote = nil
	}
}
