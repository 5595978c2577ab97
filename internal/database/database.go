package database

import (
	"context"
	"fmt"
	"time"

	"github.com/dkovac/chatter/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pingTimeout bounds the startup connectivity check so a wrong DB_HOST fails
// fast instead of hanging the server boot.
const pingTimeout = 5 * time.Second

// Connect opens the pool backing the chat store and verifies it is reachable.
func Connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("creating chat store pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging chat store: %w", err)
	}

	return pool, nil
}
