package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"richman_server/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ArchiveRepository struct {
	db *pgxpool.Pool
}

func NewArchiveRepository(db *pgxpool.Pool) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

// Save пишет итоги партии и обновляет счётчики игроков в одной транзакции.
// Повторное сохранение той же партии ничего не меняет.
func (r *ArchiveRepository) Save(ctx context.Context, sum domain.GameSummary) error {
	playersJSON, err := json.Marshal(sum.Players)
	if err != nil {
		return fmt.Errorf("marshal players: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO game_archive
			(game_id, room_id, winner_id, winner_name, reason, rounds, player_count, players, started_at, ended_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (game_id) DO NOTHING
		 RETURNING id`,
		sum.GameID,
		sum.RoomID,
		sum.WinnerID,
		sum.WinnerName,
		sum.Reason,
		sum.Rounds,
		sum.PlayerCount,
		playersJSON,
		sum.StartedAt,
		sum.EndedAt,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	// счётчики только для начатых партий
	if sum.StartedAt != nil && len(sum.Players) > 0 {
		ids := make([]string, 0, len(sum.Players))
		for _, p := range sum.Players {
			ids = append(ids, p.PlayerID)
		}
		if _, err := tx.Exec(ctx,
			`UPDATE players SET games_played = games_played + 1 WHERE id = ANY($1)`,
			ids,
		); err != nil {
			return err
		}
		if sum.WinnerID != nil {
			if _, err := tx.Exec(ctx,
				`UPDATE players SET games_won = games_won + 1 WHERE id = $1`,
				*sum.WinnerID,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

func (r *ArchiveRepository) Get(ctx context.Context, gameID string) (*domain.GameSummary, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, game_id, room_id, winner_id, winner_name, reason, rounds, player_count,
				players, started_at, ended_at, created_at
		 FROM game_archive
		 WHERE game_id = $1`,
		gameID,
	)
	sum, err := scanSummary(row)
	if err != nil {
		return nil, notFound(err)
	}
	return sum, nil
}

// ListByPlayer возвращает последние партии игрока
func (r *ArchiveRepository) ListByPlayer(ctx context.Context, playerID string, limit int) ([]*domain.GameSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	filter, err := json.Marshal([]map[string]string{{"player_id": playerID}})
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, game_id, room_id, winner_id, winner_name, reason, rounds, player_count,
				players, started_at, ended_at, created_at
		 FROM game_archive
		 WHERE players @> $1::jsonb
		 ORDER BY ended_at DESC
		 LIMIT $2`,
		string(filter), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.GameSummary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, sum)
	}
	return result, rows.Err()
}

func (r *ArchiveRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM game_archive`).Scan(&n)
	return n, err
}

func scanSummary(row pgx.Row) (*domain.GameSummary, error) {
	var (
		sum         domain.GameSummary
		playersJSON []byte
	)
	if err := row.Scan(
		&sum.ID, &sum.GameID, &sum.RoomID, &sum.WinnerID, &sum.WinnerName,
		&sum.Reason, &sum.Rounds, &sum.PlayerCount, &playersJSON,
		&sum.StartedAt, &sum.EndedAt, &sum.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(playersJSON) > 0 {
		if err := json.Unmarshal(playersJSON, &sum.Players); err != nil {
			return nil, fmt.Errorf("decode players: %w", err)
		}
	}
	return &sum, nil
}
