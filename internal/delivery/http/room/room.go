package http_room

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/humanbelnik/scrumpoker/internal/model"
	usecase_room "github.com/humanbelnik/scrumpoker/internal/usecase/room"
)

type Controller struct {
	usecase *usecase_room.Usecase
}

func New(usecase *usecase_room.Usecase) *Controller {
	return &Controller{
		usecase: usecase,
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/votes", c.votes)

	rooms := router.Group("/rooms")
	{
		rooms.POST("", c.create)
		rooms.GET("/:room_code", c.exists)
	}
}

type VotesResponseDTO struct {
	Votes []model.Vote `json:"votes"`
}

// votes returns the deck in display order.
func (c *Controller) votes(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, VotesResponseDTO{
		Votes: c.usecase.ValidVotes(),
	})
}

type CreateResponseDTO struct {
	RoomCode string `json:"room_code"`
}

func (c *Controller) create(ctx *gin.Context) {
	code := c.usecase.CreateRoom()

	ctx.JSON(http.StatusCreated, CreateResponseDTO{
		RoomCode: string(code),
	})
}

type ExistsResponseDTO struct {
	RoomCode string `json:"room_code"`
	Exists   bool   `json:"exists"`
}

func (c *Controller) exists(ctx *gin.Context) {
	code := model.ParseRoomCode(ctx.Param("room_code"))

	ctx.JSON(http.StatusOK, ExistsResponseDTO{
		RoomCode: string(code),
		Exists:   c.usecase.RoomExists(code),
	})
}

// ShareController serves the shareable room link and liveness probe at the root.
type ShareController struct {
	landing string
}

func NewShare(landing string) *ShareController {
	if landing == "" {
		landing = "/"
	}
	return &ShareController{landing: landing}
}

func (c *ShareController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/room/:room_code", c.redirect)
	router.GET("/healthz", c.health)
}

func (c *ShareController) redirect(ctx *gin.Context) {
	code := model.ParseRoomCode(ctx.Param("room_code"))
	ctx.Redirect(http.StatusFound, c.landing+"?roomId="+url.QueryEscape(string(code)))
}

func (c *ShareController) health(ctx *gin.Context) {
	ctx.Status(http.StatusNoContent)
}
