package repository

import (
	"context"

	"richman_server/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PlayerRepository struct {
	db *pgxpool.Pool
}

func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Lookup returns ErrNotFound for unknown ids.
func (r *PlayerRepository) Lookup(ctx context.Context, id string) (*domain.PlayerProfile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, display_name, COALESCE(avatar_url, ''), games_played, games_won, created_at
		 FROM players
		 WHERE id = $1`,
		id,
	)

	var p domain.PlayerProfile
	if err := row.Scan(
		&p.ID,
		&p.DisplayName,
		&p.AvatarURL,
		&p.GamesPlayed,
		&p.GamesWon,
		&p.CreatedAt,
	); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// Upsert creates the profile or updates its display fields. Counters are
// left alone.
func (r *PlayerRepository) Upsert(ctx context.Context, p *domain.PlayerProfile) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO players (id, display_name, avatar_url)
		 VALUES ($1, $2, NULLIF($3, ''))
		 ON CONFLICT (id) DO UPDATE
			SET display_name = EXCLUDED.display_name, avatar_url = EXCLUDED.avatar_url
		 RETURNING games_played, games_won, created_at`,
		p.ID,
		p.DisplayName,
		p.AvatarURL,
	).Scan(&p.GamesPlayed, &p.GamesWon, &p.CreatedAt)
}

// TopByWins returns players ordered by wins, then games played.
func (r *PlayerRepository) TopByWins(ctx context.Context, limit int) ([]*domain.PlayerProfile, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, display_name, COALESCE(avatar_url, ''), games_played, games_won, created_at
		 FROM players
		 ORDER BY games_won DESC, games_played DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.PlayerProfile
	for rows.Next() {
		var p domain.PlayerProfile
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.AvatarURL, &p.GamesPlayed, &p.GamesWon, &p.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &p)
	}
	return res, rows.Err()
}
