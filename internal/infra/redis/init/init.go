package infra_redis_init

import (
	"fmt"
	"log"
	"net"
	"time"

	"github.com/go-redis/redis"
	"github.com/humanbelnik/scrumpoker/internal/config"
)

const (
	dialTimeout  = 5 * time.Second
	writeTimeout = 3 * time.Second
)

// Connect dials redis and checks it answers PING. The client only publishes,
// so reads use the library defaults.
func Connect(cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DialTimeout:  dialTimeout,
		WriteTimeout: writeTimeout,
	})

	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", client.Options().Addr, err)
	}
	return client, nil
}

func MustEstablishConn(cfg config.Redis) *redis.Client {
	client, err := Connect(cfg)
	if err != nil {
		log.Fatalf("[redis] %v", err)
	}
	return client
}
