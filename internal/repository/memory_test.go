package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"richman_server/internal/domain"
)

func summary(gameID string, ended time.Time, winner string, players ...string) domain.GameSummary {
	started := ended.Add(-time.Hour)
	sum := domain.GameSummary{
		GameID:      gameID,
		RoomID:      "room-" + gameID,
		Reason:      domain.EndReasonWinner,
		Rounds:      7,
		PlayerCount: len(players),
		StartedAt:   &started,
		EndedAt:     ended,
	}
	if winner != "" {
		sum.WinnerID = &winner
	}
	for _, id := range players {
		sum.Players = append(sum.Players, domain.PlayerSummary{PlayerID: id, DisplayName: id})
	}
	return sum
}

func TestMemoryArchiveSaveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dir := NewMemoryDirectory()
	require.NoError(t, dir.Upsert(ctx, &domain.PlayerProfile{ID: "alice", DisplayName: "Alice"}))
	require.NoError(t, dir.Upsert(ctx, &domain.PlayerProfile{ID: "bob", DisplayName: "Bob"}))
	a := NewMemoryArchive(dir)

	sum := summary("g1", time.Now(), "alice", "alice", "bob")
	require.NoError(t, a.Save(ctx, sum))
	require.NoError(t, a.Save(ctx, sum))

	n, err := a.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := a.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "alice", *got.WinnerID)
	assert.Len(t, got.Players, 2)
	assert.False(t, got.CreatedAt.IsZero())

	alice, err := dir.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), alice.GamesPlayed)
	assert.Equal(t, int64(1), alice.GamesWon)
	bob, err := dir.Lookup(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), bob.GamesPlayed)
	assert.Zero(t, bob.GamesWon)
}

func TestMemoryArchiveGetMissing(t *testing.T) {
	_, err := NewMemoryArchive(nil).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryArchiveListByPlayer(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryArchive(nil)
	now := time.Now()
	require.NoError(t, a.Save(ctx, summary("old", now.Add(-2*time.Hour), "", "alice", "bob")))
	require.NoError(t, a.Save(ctx, summary("new", now, "", "alice", "carol")))
	require.NoError(t, a.Save(ctx, summary("other", now, "", "bob", "carol")))

	list, err := a.ListByPlayer(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].GameID)
	assert.Equal(t, "old", list[1].GameID)

	list, err = a.ListByPlayer(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMemoryDirectoryUpsertKeepsCounters(t *testing.T) {
	ctx := context.Background()
	dir := NewMemoryDirectory()
	_, err := dir.Lookup(ctx, "alice")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, dir.Upsert(ctx, &domain.PlayerProfile{ID: "alice", DisplayName: "Alice"}))
	a := NewMemoryArchive(dir)
	require.NoError(t, a.Save(ctx, summary("g1", time.Now(), "alice", "alice")))

	p := &domain.PlayerProfile{ID: "alice", DisplayName: "Alice II"}
	require.NoError(t, dir.Upsert(ctx, p))
	assert.Equal(t, int64(1), p.GamesWon)

	got, err := dir.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice II", got.DisplayName)
	assert.Equal(t, int64(1), got.GamesPlayed)
}
