package usecase_room

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/humanbelnik/scrumpoker/internal/model"
)

var (
	ErrRoomNotFound = errors.New("room not found")
)

const DefaultGracePeriod = 30 * time.Second

// Transport delivers events to connection groups. One group per room code.
//
//go:generate mockery --name=Transport --output=./mocks/room/transport --filename=transport.go
type Transport interface {
	Bind(conn model.ConnID, code model.RoomCode)
	Unbind(conn model.ConnID, code model.RoomCode)
	Broadcast(code model.RoomCode, event model.Event)
}

// Mirror receives a copy of every group broadcast. Must not block.
//
//go:generate mockery --name=Mirror --output=./mocks/room/mirror --filename=mirror.go
type Mirror interface {
	Publish(code model.RoomCode, event model.Event)
}

// Recorder is told about room lifecycle transitions. Must not block.
//
//go:generate mockery --name=Recorder --output=./mocks/room/recorder --filename=recorder.go
type Recorder interface {
	RoomCreated(code model.RoomCode)
	RoomReclaimed(code model.RoomCode)
}

type seat struct {
	code model.RoomCode
	name string
}

// Usecase is the room coordinator. Every exported method is one critical
// section over the whole room table, broadcasts included.
type Usecase struct {
	mu sync.Mutex

	rooms   map[model.RoomCode]*model.Room
	pending map[model.RoomCode]*cleanup

	// name -> room currently holding it
	names map[string]model.RoomCode
	// connection -> seats it occupies
	seats map[model.ConnID]map[seat]struct{}

	transport   Transport
	mirror      Mirror
	recorder    Recorder
	gracePeriod time.Duration
	newCode     func() model.RoomCode
	logger      *slog.Logger
}

type Option func(*Usecase)

func WithLogger(logger *slog.Logger) Option {
	return func(u *Usecase) {
		u.logger = logger
	}
}

func WithGracePeriod(d time.Duration) Option {
	return func(u *Usecase) {
		if d > 0 {
			u.gracePeriod = d
		}
	}
}

func WithMirror(m Mirror) Option {
	return func(u *Usecase) {
		u.mirror = m
	}
}

func WithRecorder(r Recorder) Option {
	return func(u *Usecase) {
		u.recorder = r
	}
}

func New(transport Transport, opts ...Option) *Usecase {
	u := &Usecase{
		rooms:       make(map[model.RoomCode]*model.Room),
		pending:     make(map[model.RoomCode]*cleanup),
		names:       make(map[string]model.RoomCode),
		seats:       make(map[model.ConnID]map[seat]struct{}),
		transport:   transport,
		mirror:      nopSink{},
		recorder:    nopSink{},
		gracePeriod: DefaultGracePeriod,
		newCode:     randomCode,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *Usecase) ValidVotes() []model.Vote {
	return model.ValidVotes()
}

func (u *Usecase) RoomExists(code model.RoomCode) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	_, ok := u.rooms[code]
	return ok
}

// CreateRoom registers an empty room under a fresh code. The room is reclaimed
// after the grace period unless somebody joins it.
func (u *Usecase) CreateRoom() model.RoomCode {
	u.mu.Lock()
	defer u.mu.Unlock()

	code := u.newCode()
	for u.taken(code) {
		code = u.newCode()
	}

	u.rooms[code] = model.NewRoom(code)
	u.scheduleCleanup(code)
	u.recorder.RoomCreated(code)

	u.logger.Info("room created", "room", code)
	return code
}

func (u *Usecase) taken(code model.RoomCode) bool {
	_, ok := u.rooms[code]
	return ok
}

// JoinRoom seats userName in the room bound to conn. The same name held in any
// other room is evicted first.
func (u *Usecase) JoinRoom(conn model.ConnID, code model.RoomCode, userName string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	room, ok := u.rooms[code]
	if !ok {
		return ErrRoomNotFound
	}

	u.evict(userName, code)

	if prev, ok := room.Participant(userName); ok && prev.Conn != conn {
		u.releaseSeat(prev.Conn, seat{code: code, name: userName})
	}

	u.transport.Bind(conn, code)
	room.Put(&model.Participant{Name: userName, Conn: conn})
	u.names[userName] = code
	u.holdSeat(conn, seat{code: code, name: userName})

	u.cancelCleanup(code)
	u.broadcastRoster(room)

	u.logger.Info("user joined", "room", code, "user", userName, "conn", conn)
	return nil
}

func (u *Usecase) LeaveRoom(code model.RoomCode, userName string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	room, ok := u.rooms[code]
	if !ok {
		return
	}
	if !u.removeParticipant(room, userName) {
		return
	}
	u.settle(room)

	u.logger.Info("user left", "room", code, "user", userName)
}

// ChangeUserName renames oldName within the room. It reports false when
// oldName is not seated there or newName already is.
func (u *Usecase) ChangeUserName(code model.RoomCode, oldName, newName string) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	room, ok := u.rooms[code]
	if !ok {
		return false, ErrRoomNotFound
	}
	p, ok := room.Participant(oldName)
	if !ok {
		return false, nil
	}
	if _, taken := room.Participant(newName); taken {
		return false, nil
	}

	u.evict(newName, code)

	room.Rename(oldName, newName)
	delete(u.names, oldName)
	u.names[newName] = code
	if seats, ok := u.seats[p.Conn]; ok {
		delete(seats, seat{code: code, name: oldName})
		seats[seat{code: code, name: newName}] = struct{}{}
	}

	u.broadcastRoster(room)

	u.logger.Info("user renamed", "room", code, "from", oldName, "to", newName)
	return true, nil
}

func (u *Usecase) SubmitVote(code model.RoomCode, userName string, vote model.Vote) {
	if !vote.Valid() {
		return
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	room, ok := u.rooms[code]
	if !ok {
		return
	}
	p, ok := room.Participant(userName)
	if !ok {
		return
	}

	p.Vote = &vote
	u.broadcast(code, model.Event{Type: model.EventUpdateVotes, Payload: room.Votes()})
}

func (u *Usecase) RevealVotes(code model.RoomCode) {
	u.mu.Lock()
	defer u.mu.Unlock()

	room, ok := u.rooms[code]
	if !ok {
		return
	}
	u.broadcast(code, model.Event{Type: model.EventRevealVotes, Payload: room.Votes()})
}

func (u *Usecase) ResetVotes(code model.RoomCode) {
	u.mu.Lock()
	defer u.mu.Unlock()

	room, ok := u.rooms[code]
	if !ok {
		return
	}
	room.ResetVotes()
	u.broadcast(code, model.Event{Type: model.EventUpdateVotes, Payload: room.Votes()})
}

// Disconnect drops every participant still bound to conn.
func (u *Usecase) Disconnect(conn model.ConnID) {
	u.mu.Lock()
	defer u.mu.Unlock()

	seats, ok := u.seats[conn]
	if !ok {
		return
	}

	touched := make([]model.RoomCode, 0, len(seats))
	for s := range seats {
		room, ok := u.rooms[s.code]
		if !ok {
			continue
		}
		if !u.removeParticipant(room, s.name) {
			continue
		}
		if !slices.Contains(touched, s.code) {
			touched = append(touched, s.code)
		}
		u.logger.Info("user disconnected", "room", s.code, "user", s.name, "conn", conn)
	}
	delete(u.seats, conn)

	slices.Sort(touched)
	for _, code := range touched {
		u.settle(u.rooms[code])
	}
}

// Close stops all pending cleanups. Rooms stay in place.
func (u *Usecase) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()

	for code := range u.pending {
		u.cancelCleanup(code)
	}
}

// evict removes userName from whichever room other than keep holds it.
func (u *Usecase) evict(userName string, keep model.RoomCode) {
	code, ok := u.names[userName]
	if !ok || code == keep {
		return
	}
	room, ok := u.rooms[code]
	if !ok {
		delete(u.names, userName)
		return
	}
	if u.removeParticipant(room, userName) {
		u.logger.Info("user evicted", "room", code, "user", userName, "to", keep)
		u.settle(room)
	}
}

func (u *Usecase) removeParticipant(room *model.Room, userName string) bool {
	p, ok := room.Remove(userName)
	if !ok {
		return false
	}
	if u.names[userName] == room.Code {
		delete(u.names, userName)
	}
	u.releaseSeat(p.Conn, seat{code: room.Code, name: userName})
	return true
}

// settle applies the post-removal branch: an empty room waits for reclamation,
// a populated one gets the new roster.
func (u *Usecase) settle(room *model.Room) {
	if room.Empty() {
		u.scheduleCleanup(room.Code)
		return
	}
	u.cancelCleanup(room.Code)
	u.broadcastRoster(room)
}

func (u *Usecase) holdSeat(conn model.ConnID, s seat) {
	seats, ok := u.seats[conn]
	if !ok {
		seats = make(map[seat]struct{})
		u.seats[conn] = seats
	}
	seats[s] = struct{}{}
}

// releaseSeat forgets s and unbinds conn from the room group once it holds no
// other seat there.
func (u *Usecase) releaseSeat(conn model.ConnID, s seat) {
	seats := u.seats[conn]
	delete(seats, s)
	if len(seats) == 0 {
		delete(u.seats, conn)
	}
	for other := range seats {
		if other.code == s.code {
			return
		}
	}
	u.transport.Unbind(conn, s.code)
}

func (u *Usecase) broadcastRoster(room *model.Room) {
	u.broadcast(room.Code, model.Event{Type: model.EventUpdateUsers, Payload: room.Names()})
	u.broadcast(room.Code, model.Event{Type: model.EventUpdateVotes, Payload: room.Votes()})
}

func (u *Usecase) broadcast(code model.RoomCode, event model.Event) {
	u.transport.Broadcast(code, event)
	u.mirror.Publish(code, event)
}

type nopSink struct{}

func (nopSink) Publish(model.RoomCode, model.Event) {}
func (nopSink) RoomCreated(model.RoomCode)          {}
func (nopSink) RoomReclaimed(model.RoomCode)        {}
