package model

type EventType string

const (
	EventRoomNotFound EventType = "RoomNotFound"
	EventUpdateUsers  EventType = "UpdateUsers"
	EventUpdateVotes  EventType = "UpdateVotes"
	EventRevealVotes  EventType = "RevealVotes"
)

// Event is a named notification addressed to a room group or a single connection.
type Event struct {
	Type    EventType
	Payload any
}
