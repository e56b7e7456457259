package db

import (
	"context"
	"fmt"
	"time"

	"richman_server/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pool and checks it answers a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	stat := db.Stat()
	logger.Info("database connected", "max_conns", stat.MaxConns())
	return db, nil
}
