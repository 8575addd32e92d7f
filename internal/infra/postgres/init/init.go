package infra_pg_init

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/humanbelnik/scrumpoker/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const (
	connectTimeout = 10 * time.Second

	// The audit writer is a single goroutine.
	maxOpenConns    = 4
	maxIdleConns    = 2
	connMaxLifetime = 30 * time.Minute
)

// DSN renders cfg as a lib/pq keyword/value connection string.
func DSN(cfg config.Postgres) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.SSLMode,
		int(connectTimeout.Seconds()),
	)
}

func Connect(ctx context.Context, cfg config.Postgres) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("connect postgres at %s:%s: %w", cfg.Host, cfg.Port, err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	return db, nil
}

func MustEstablishConn(ctx context.Context, cfg config.Postgres) *sqlx.DB {
	db, err := Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("[postgres] %v", err)
	}
	return db
}
