package http_room

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	http_init "github.com/humanbelnik/scrumpoker/internal/delivery/http/init"
	http_cors_middleware "github.com/humanbelnik/scrumpoker/internal/delivery/http/middleware/cors"
	"github.com/humanbelnik/scrumpoker/internal/model"
	usecase_room "github.com/humanbelnik/scrumpoker/internal/usecase/room"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopTransport struct{}

func (nopTransport) Bind(model.ConnID, model.RoomCode)     {}
func (nopTransport) Unbind(model.ConnID, model.RoomCode)   {}
func (nopTransport) Broadcast(model.RoomCode, model.Event) {}

type HTTPRoomSuite struct {
	suite.Suite

	usecase *usecase_room.Usecase
	handler http.Handler
}

func (s *HTTPRoomSuite) BeforeEach(t provider.T) {
	gin.SetMode(gin.TestMode)

	s.usecase = usecase_room.New(nopTransport{})
	pool := http_init.NewControllerPool(http_cors_middleware.AllowOrigins([]string{"*"}))
	pool.Add(New(s.usecase))
	pool.AddRoot(NewShare("/"))
	pool.Register()
	s.handler = pool.Handler()
}

func (s *HTTPRoomSuite) AfterEach(t provider.T) {
	s.usecase.Close()
}

func (s *HTTPRoomSuite) do(method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *HTTPRoomSuite) TestVotes(t provider.T) {
	rec := s.do(http.MethodGet, "/api/v1/votes", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp VotesResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.ValidVotes(), resp.Votes)
}

func (s *HTTPRoomSuite) TestCreateAndExists(t provider.T) {
	t.Run("Should create a room", func(t provider.T) {
		rec := s.do(http.MethodPost, "/api/v1/rooms", nil)

		require.Equal(t, http.StatusCreated, rec.Code)
		var created CreateResponseDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Len(t, created.RoomCode, usecase_room.CodeLength)

		rec = s.do(http.MethodGet, "/api/v1/rooms/"+created.RoomCode, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var exists ExistsResponseDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exists))
		assert.True(t, exists.Exists)
	})

	t.Run("Should report unknown room", func(t provider.T) {
		rec := s.do(http.MethodGet, "/api/v1/rooms/zzzzz", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var exists ExistsResponseDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exists))
		assert.False(t, exists.Exists)
		assert.Equal(t, "ZZZZZ", exists.RoomCode)
	})
}

func (s *HTTPRoomSuite) TestShareLink(t provider.T) {
	rec := s.do(http.MethodGet, "/room/ab2cd", nil)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?roomId=AB2CD", rec.Header().Get("Location"))
}

func (s *HTTPRoomSuite) TestHealth(t provider.T) {
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodGet, "/healthz", nil).Code)
}

func (s *HTTPRoomSuite) TestCORS(t provider.T) {
	header := http.Header{
		"Origin":                        []string{"https://poker.example"},
		"Access-Control-Request-Method": []string{"POST"},
	}

	rec := s.do(http.MethodOptions, "/api/v1/rooms", header)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = s.do(http.MethodGet, "/api/v1/votes", header)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHTTPRoomSuite(t *testing.T) {
	suite.RunSuite(t, new(HTTPRoomSuite))
}
