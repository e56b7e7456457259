package main

import (
	"context"
	"flag"

	"richman_server/internal/config"
	"richman_server/internal/db"
	"richman_server/internal/domain"
	"richman_server/internal/logger"
	"richman_server/internal/repository"
)

func main() {
	id := flag.String("id", "test-player", "player id")
	name := flag.String("name", "Tester", "display name")
	flag.Parse()

	// expects DATABASE_URL env var
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("connect", "error", err)
	}
	defer pool.Close()

	repo := repository.NewPlayerRepository(pool)

	if existing, err := repo.Lookup(ctx, *id); err == nil {
		logger.Info("player already exists", "id", existing.ID, "display_name", existing.DisplayName)
	}

	p := &domain.PlayerProfile{ID: *id, DisplayName: *name}
	if err := repo.Upsert(ctx, p); err != nil {
		logger.Fatal("upsert player failed", "error", err)
	}

	// verify read
	got, err := repo.Lookup(ctx, p.ID)
	if err != nil {
		logger.Fatal("lookup failed", "error", err)
	}
	logger.Info("player ready",
		"id", got.ID,
		"display_name", got.DisplayName,
		"games_played", got.GamesPlayed,
		"games_won", got.GamesWon,
		"created_at", got.CreatedAt,
	)
}
