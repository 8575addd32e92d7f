package ws_room

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/humanbelnik/scrumpoker/internal/model"
	usecase_room "github.com/humanbelnik/scrumpoker/internal/usecase/room"
	"github.com/samber/lo"
)

var (
	ErrUnknownInvocation = errors.New("unknown invocation")
	ErrInvalidPayload    = errors.New("invalid payload")
)

const (
	InvokeGetValidVotes  = "GetValidVotes"
	InvokeRoomExists     = "RoomExists"
	InvokeCreateRoom     = "CreateRoom"
	InvokeJoinRoom       = "JoinRoom"
	InvokeLeaveRoom      = "LeaveRoom"
	InvokeChangeUserName = "ChangeUserName"
	InvokeSubmitVote     = "SubmitVote"
	InvokeRevealVotes    = "RevealVotes"
	InvokeResetVotes     = "ResetVotes"

	FrameCompletion = "Completion"
	FrameError      = "Error"
)

const defaultSendBuffer = 16

type RoomRequestDTO struct {
	RoomCode string `json:"room_code" validate:"required"`
}

type MemberRequestDTO struct {
	RoomCode string `json:"room_code" validate:"required"`
	UserName string `json:"user_name" validate:"required,max=64"`
}

type RenameRequestDTO struct {
	RoomCode string `json:"room_code" validate:"required"`
	OldName  string `json:"old_name" validate:"required"`
	NewName  string `json:"new_name" validate:"required,max=64"`
}

type VoteRequestDTO struct {
	RoomCode string `json:"room_code" validate:"required"`
	UserName string `json:"user_name" validate:"required"`
	Vote     string `json:"vote" validate:"required"`
}

type Controller struct {
	hub     *Hub
	usecase *usecase_room.Usecase

	upgrader   websocket.Upgrader
	validate   *validator.Validate
	sendBuffer int

	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithSendBuffer(n int) ControllerOption {
	return func(c *Controller) {
		if n > 0 {
			c.sendBuffer = n
		}
	}
}

// WithAllowedOrigins restricts the websocket handshake. "*" allows any origin.
func WithAllowedOrigins(origins []string) ControllerOption {
	return func(c *Controller) {
		c.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || lo.Contains(origins, "*") || lo.Contains(origins, origin)
		}
	}
}

func NewController(hub *Hub, usecase *usecase_room.Usecase, opts ...ControllerOption) *Controller {
	c := &Controller{
		hub:        hub,
		usecase:    usecase,
		validate:   validator.New(),
		sendBuffer: defaultSendBuffer,
		logger:     slog.Default(),
	}
	WithAllowedOrigins([]string{"*"})(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ws", c.serve)
}

func (c *Controller) serve(ctx *gin.Context) {
	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error("failed to upgrade connection", slog.String("error", err.Error()))
		return
	}

	client := NewClient(conn, c.sendBuffer)
	c.hub.Register(client)
	go client.StartClientWriting()

	client.StartClientReading(func(inv Invocation) {
		c.dispatch(client, inv)
	})

	c.hub.Unregister(client)
	c.usecase.Disconnect(client.ID())
}

func (c *Controller) dispatch(client *Client, inv Invocation) {
	if err := c.handle(client, inv); err != nil {
		c.logger.Warn("invocation rejected",
			"conn", client.ID(),
			"type", inv.Type,
			"error", err)
		c.hub.Send(client.ID(), Frame{ID: inv.ID, Type: FrameError, Payload: err.Error()})
	}
}

func (c *Controller) handle(client *Client, inv Invocation) error {
	if err := c.validate.Struct(inv); err != nil {
		return errors.Join(ErrInvalidPayload, err)
	}

	switch inv.Type {
	case InvokeGetValidVotes:
		c.complete(client, inv.ID, c.usecase.ValidVotes())

	case InvokeRoomExists:
		var req RoomRequestDTO
		if err := c.decode(inv, &req); err != nil {
			return err
		}
		c.complete(client, inv.ID, c.usecase.RoomExists(model.ParseRoomCode(req.RoomCode)))

	case InvokeCreateRoom:
		c.complete(client, inv.ID, c.usecase.CreateRoom())

	case InvokeJoinRoom:
		var req MemberRequestDTO
		if err := c.decode(inv, &req); err != nil {
			return err
		}
		code := model.ParseRoomCode(req.RoomCode)
		err := c.usecase.JoinRoom(client.ID(), code, req.UserName)
		c.notFound(client, code, err)
		c.complete(client, inv.ID, err == nil)

	case InvokeLeaveRoom:
		var req MemberRequestDTO
		if err := c.decode(inv, &req); err != nil {
			return err
		}
		c.usecase.LeaveRoom(model.ParseRoomCode(req.RoomCode), req.UserName)
		c.ack(client, inv.ID)

	case InvokeChangeUserName:
		var req RenameRequestDTO
		if err := c.decode(inv, &req); err != nil {
			return err
		}
		code := model.ParseRoomCode(req.RoomCode)
		ok, err := c.usecase.ChangeUserName(code, req.OldName, req.NewName)
		c.notFound(client, code, err)
		c.complete(client, inv.ID, ok)

	case InvokeSubmitVote:
		var req VoteRequestDTO
		if err := c.decode(inv, &req); err != nil {
			return err
		}
		c.usecase.SubmitVote(model.ParseRoomCode(req.RoomCode), req.UserName, model.Vote(req.Vote))
		c.ack(client, inv.ID)

	case InvokeRevealVotes:
		var req RoomRequestDTO
		if err := c.decode(inv, &req); err != nil {
			return err
		}
		c.usecase.RevealVotes(model.ParseRoomCode(req.RoomCode))
		c.ack(client, inv.ID)

	case InvokeResetVotes:
		var req RoomRequestDTO
		if err := c.decode(inv, &req); err != nil {
			return err
		}
		c.usecase.ResetVotes(model.ParseRoomCode(req.RoomCode))
		c.ack(client, inv.ID)

	default:
		return ErrUnknownInvocation
	}

	return nil
}

func (c *Controller) decode(inv Invocation, dst any) error {
	if err := json.Unmarshal(inv.Payload, dst); err != nil {
		return errors.Join(ErrInvalidPayload, err)
	}
	if err := c.validate.Struct(dst); err != nil {
		return errors.Join(ErrInvalidPayload, err)
	}
	return nil
}

// notFound tells the caller alone that the room is gone.
func (c *Controller) notFound(client *Client, code model.RoomCode, err error) {
	if !errors.Is(err, usecase_room.ErrRoomNotFound) {
		return
	}
	c.hub.Send(client.ID(), Frame{Type: string(model.EventRoomNotFound), Payload: code})
}

func (c *Controller) complete(client *Client, id string, result any) {
	c.hub.Send(client.ID(), Frame{ID: id, Type: FrameCompletion, Payload: result})
}

// ack confirms a void invocation when the caller asked for a reply.
func (c *Controller) ack(client *Client, id string) {
	if id == "" {
		return
	}
	c.complete(client, id, nil)
}
