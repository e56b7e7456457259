package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"richman_server/internal/domain"
)

// MemoryArchive is the archive used when no database is configured. When
// players is set, saved games bump the players' counters there.
type MemoryArchive struct {
	mu      sync.RWMutex
	seq     int64
	games   map[string]domain.GameSummary
	players *MemoryDirectory
}

func NewMemoryArchive(players *MemoryDirectory) *MemoryArchive {
	return &MemoryArchive{games: make(map[string]domain.GameSummary), players: players}
}

func (a *MemoryArchive) Save(ctx context.Context, sum domain.GameSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.games[sum.GameID]; ok {
		return nil
	}
	a.seq++
	sum.ID = a.seq
	sum.CreatedAt = time.Now()
	sum.Players = append([]domain.PlayerSummary(nil), sum.Players...)
	a.games[sum.GameID] = sum
	if a.players != nil && sum.StartedAt != nil {
		a.players.record(sum)
	}
	return nil
}

func (a *MemoryArchive) Get(ctx context.Context, gameID string) (*domain.GameSummary, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	sum, ok := a.games[gameID]
	if !ok {
		return nil, ErrNotFound
	}
	sum.Players = append([]domain.PlayerSummary(nil), sum.Players...)
	return &sum, nil
}

// ListByPlayer returns the player's games, newest first.
func (a *MemoryArchive) ListByPlayer(ctx context.Context, playerID string, limit int) ([]*domain.GameSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	a.mu.RLock()
	var res []*domain.GameSummary
	for _, sum := range a.games {
		for _, p := range sum.Players {
			if p.PlayerID == playerID {
				s := sum
				res = append(res, &s)
				break
			}
		}
	}
	a.mu.RUnlock()

	sort.Slice(res, func(i, j int) bool { return res[i].EndedAt.After(res[j].EndedAt) })
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (a *MemoryArchive) Count(ctx context.Context) (int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.games), nil
}

// MemoryDirectory is the player directory used when no database is
// configured.
type MemoryDirectory struct {
	mu      sync.RWMutex
	players map[string]domain.PlayerProfile
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{players: make(map[string]domain.PlayerProfile)}
}

func (d *MemoryDirectory) Lookup(ctx context.Context, id string) (*domain.PlayerProfile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (d *MemoryDirectory) Upsert(ctx context.Context, p *domain.PlayerProfile) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	cur, ok := d.players[p.ID]
	if ok {
		p.GamesPlayed = cur.GamesPlayed
		p.GamesWon = cur.GamesWon
		p.CreatedAt = cur.CreatedAt
	} else {
		p.CreatedAt = time.Now()
	}
	d.players[p.ID] = *p
	return nil
}

func (d *MemoryDirectory) record(sum domain.GameSummary) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, ps := range sum.Players {
		p, ok := d.players[ps.PlayerID]
		if !ok {
			continue
		}
		p.GamesPlayed++
		if sum.WinnerID != nil && *sum.WinnerID == p.ID {
			p.GamesWon++
		}
		d.players[p.ID] = p
	}
}

func (d *MemoryDirectory) TopByWins(ctx context.Context, limit int) ([]*domain.PlayerProfile, error) {
	if limit <= 0 {
		limit = 50
	}
	d.mu.RLock()
	res := make([]*domain.PlayerProfile, 0, len(d.players))
	for _, p := range d.players {
		p := p
		res = append(res, &p)
	}
	d.mu.RUnlock()

	sort.Slice(res, func(i, j int) bool {
		if res[i].GamesWon != res[j].GamesWon {
			return res[i].GamesWon > res[j].GamesWon
		}
		if res[i].GamesPlayed != res[j].GamesPlayed {
			return res[i].GamesPlayed > res[j].GamesPlayed
		}
		return res[i].ID < res[j].ID
	})
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}
