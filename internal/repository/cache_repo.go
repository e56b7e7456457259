package repository

import (
	"context"
	"strconv"
	"time"

	"richman_server/internal/domain"

	redis "github.com/redis/go-redis/v9"
)

// ProfileSource is the backing store a CachedDirectory reads through to.
type ProfileSource interface {
	Lookup(ctx context.Context, id string) (*domain.PlayerProfile, error)
}

// NewRedisClient connects and pings. An empty addr returns nil, nil and
// callers run without the cache.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// CachedDirectory keeps profiles in redis hashes with a TTL. Redis errors
// fall through to the source.
type CachedDirectory struct {
	rdb    *redis.Client
	source ProfileSource
	ttl    time.Duration
}

func NewCachedDirectory(rdb *redis.Client, source ProfileSource, ttl time.Duration) *CachedDirectory {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedDirectory{rdb: rdb, source: source, ttl: ttl}
}

func profileKey(id string) string { return "player:" + id }

func (d *CachedDirectory) Lookup(ctx context.Context, id string) (*domain.PlayerProfile, error) {
	if d.rdb == nil {
		return d.source.Lookup(ctx, id)
	}

	key := profileKey(id)
	if vals, err := d.rdb.HGetAll(ctx, key).Result(); err == nil && len(vals) > 0 {
		if p, ok := decodeProfile(id, vals); ok {
			return p, nil
		}
	}

	p, err := d.source.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	pipe := d.rdb.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"display_name": p.DisplayName,
		"avatar_url":   p.AvatarURL,
		"games_played": p.GamesPlayed,
		"games_won":    p.GamesWon,
		"created_at":   p.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key, d.ttl)
	_, _ = pipe.Exec(ctx)

	return p, nil
}

// Invalidate drops the cached profile, e.g. after an archive write bumped
// its counters.
func (d *CachedDirectory) Invalidate(ctx context.Context, id string) error {
	if d.rdb == nil {
		return nil
	}
	return d.rdb.Del(ctx, profileKey(id)).Err()
}

func decodeProfile(id string, vals map[string]string) (*domain.PlayerProfile, bool) {
	name, ok := vals["display_name"]
	if !ok {
		return nil, false
	}
	p := &domain.PlayerProfile{
		ID:          id,
		DisplayName: name,
		AvatarURL:   vals["avatar_url"],
	}
	p.GamesPlayed, _ = strconv.ParseInt(vals["games_played"], 10, 64)
	p.GamesWon, _ = strconv.ParseInt(vals["games_won"], 10, 64)
	if t, err := time.Parse(time.RFC3339Nano, vals["created_at"]); err == nil {
		p.CreatedAt = t
	}
	return p, true
}
