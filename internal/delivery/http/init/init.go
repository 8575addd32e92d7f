package http_init

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	apiPrefix       = "/api/v1"
	shutdownTimeout = 5 * time.Second
)

type Controller interface {
	RegisterRoutes(router *gin.RouterGroup)
}

type ControllerPool struct {
	pool   []Controller
	root   []Controller
	rg     *gin.RouterGroup
	engine *gin.Engine
}

func NewControllerPool(middleware ...gin.HandlerFunc) *ControllerPool {
	engine := gin.Default()
	engine.Use(middleware...)
	rg := engine.Group(apiPrefix)
	return &ControllerPool{
		pool:   make([]Controller, 0, 10),
		rg:     rg,
		engine: engine,
	}
}

// Add mounts c under the API prefix.
func (pool *ControllerPool) Add(c Controller) {
	pool.pool = append(pool.pool, c)
}

// AddRoot mounts c at the server root.
func (pool *ControllerPool) AddRoot(c Controller) {
	pool.root = append(pool.root, c)
}

func (pool *ControllerPool) Register() {
	for _, c := range pool.pool {
		c.RegisterRoutes(pool.rg)
	}
	for _, c := range pool.root {
		c.RegisterRoutes(&pool.engine.RouterGroup)
	}
}

func (pool *ControllerPool) Handler() http.Handler {
	return pool.engine
}

// RunAll serves until ctx is done, then shuts down gracefully.
func (pool *ControllerPool) RunAll(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:    addr,
		Handler: pool.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
