package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"richman_server/internal/domain"
)

type countingSource struct {
	dir   *MemoryDirectory
	calls int
}

func (s *countingSource) Lookup(ctx context.Context, id string) (*domain.PlayerProfile, error) {
	s.calls++
	return s.dir.Lookup(ctx, id)
}

func TestCachedDirectoryWithoutRedis(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{dir: NewMemoryDirectory()}
	require.NoError(t, src.dir.Upsert(ctx, &domain.PlayerProfile{ID: "alice", DisplayName: "Alice"}))

	d := NewCachedDirectory(nil, src, 0)
	p, err := d.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.DisplayName)
	_, err = d.Lookup(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, src.calls)
	assert.NoError(t, d.Invalidate(ctx, "alice"))
}

func TestDecodeProfile(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p, ok := decodeProfile("alice", map[string]string{
		"display_name": "Alice",
		"games_played": "4",
		"games_won":    "2",
		"created_at":   created.Format(time.RFC3339Nano),
	})
	require.True(t, ok)
	assert.Equal(t, "alice", p.ID)
	assert.Equal(t, int64(4), p.GamesPlayed)
	assert.Equal(t, int64(2), p.GamesWon)
	assert.True(t, created.Equal(p.CreatedAt))

	_, ok = decodeProfile("alice", map[string]string{"games_won": "2"})
	assert.False(t, ok)
}

func TestCachedDirectoryRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb, err := NewRedisClient(addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	defer rdb.Close()

	ctx := context.Background()
	id := "test-" + uuid.NewString()
	src := &countingSource{dir: NewMemoryDirectory()}
	require.NoError(t, src.dir.Upsert(ctx, &domain.PlayerProfile{ID: id, DisplayName: "Cached"}))

	d := NewCachedDirectory(rdb, src, time.Minute)
	defer d.Invalidate(ctx, id)

	for i := 0; i < 3; i++ {
		p, err := d.Lookup(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Cached", p.DisplayName)
	}
	assert.Equal(t, 1, src.calls)

	ttl, err := rdb.TTL(ctx, profileKey(id)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, d.Invalidate(ctx, id))
	_, err = d.Lookup(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}
