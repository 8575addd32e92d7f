package app

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/humanbelnik/scrumpoker/internal/config"
	http_init "github.com/humanbelnik/scrumpoker/internal/delivery/http/init"
	http_cors_middleware "github.com/humanbelnik/scrumpoker/internal/delivery/http/middleware/cors"
	http_room "github.com/humanbelnik/scrumpoker/internal/delivery/http/room"
	ws_room "github.com/humanbelnik/scrumpoker/internal/delivery/ws/room"
	infra_pg_init "github.com/humanbelnik/scrumpoker/internal/infra/postgres/init"
	infra_postgres_audit "github.com/humanbelnik/scrumpoker/internal/infra/postgres/audit"
	infra_redis_init "github.com/humanbelnik/scrumpoker/internal/infra/redis/init"
	infra_redis_mirror "github.com/humanbelnik/scrumpoker/internal/infra/redis/mirror"
	usecase_room "github.com/humanbelnik/scrumpoker/internal/usecase/room"
)

const (
	sinkBuffer     = 256
	migrateTimeout = 10 * time.Second
)

func Go(cfg *config.Config) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var sinks sync.WaitGroup
	hub := ws_room.NewHub(logger)
	opts := []usecase_room.Option{
		usecase_room.WithLogger(logger),
		usecase_room.WithGracePeriod(cfg.Room.GracePeriod),
	}

	if cfg.Redis.Enabled() {
		redisConn := infra_redis_init.MustEstablishConn(cfg.Redis)
		defer redisConn.Close()

		mirror := infra_redis_mirror.New(redisConn, cfg.Redis.ChannelPrefix, sinkBuffer)
		sinks.Add(1)
		go func() {
			defer sinks.Done()
			mirror.Run(ctx)
		}()
		opts = append(opts, usecase_room.WithMirror(mirror))
	}

	if cfg.Postgres.Enabled() {
		pgConn := infra_pg_init.MustEstablishConn(ctx, cfg.Postgres)
		defer pgConn.Close()

		audit := infra_postgres_audit.New(pgConn, sinkBuffer)
		migrateCtx, cancel := context.WithTimeout(ctx, migrateTimeout)
		if err := audit.Migrate(migrateCtx); err != nil {
			log.Fatalf("[postgres] audit migration failed: %v", err)
		}
		cancel()

		sinks.Add(1)
		go func() {
			defer sinks.Done()
			audit.Run(ctx)
		}()
		opts = append(opts, usecase_room.WithRecorder(audit))
	}

	roomUC := usecase_room.New(hub, opts...)

	controllerPool := http_init.NewControllerPool(http_cors_middleware.AllowOrigins(cfg.HTTP.AllowedOrigins))
	controllerPool.Add(http_room.New(roomUC))
	controllerPool.Add(ws_room.NewController(hub, roomUC,
		ws_room.WithLogger(logger),
		ws_room.WithSendBuffer(cfg.WebSocket.SendBuffer),
		ws_room.WithAllowedOrigins(cfg.HTTP.AllowedOrigins),
	))
	controllerPool.AddRoot(http_room.NewShare("/"))

	controllerPool.Register()
	if err := controllerPool.RunAll(ctx, cfg.Addr()); err != nil {
		logger.Error("http server stopped", "error", err)
	}

	stop()
	roomUC.Close()
	sinks.Wait()
	logger.Info("shutdown complete")
}
