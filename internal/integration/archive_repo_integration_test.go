package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"richman_server/internal/domain"
	"richman_server/internal/repository"
)

func TestArchiveRepository_SaveAndRead(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	archive := repository.NewArchiveRepository(db)
	players := repository.NewPlayerRepository(db)

	// уникальные id, чтобы тест можно было гонять повторно на той же базе
	alice := "alice-" + uuid.NewString()
	bob := "bob-" + uuid.NewString()
	require.NoError(t, players.Upsert(ctx, &domain.PlayerProfile{ID: alice, DisplayName: "Alice"}))
	require.NoError(t, players.Upsert(ctx, &domain.PlayerProfile{ID: bob, DisplayName: "Bob"}))

	started := time.Now().Add(-10 * time.Minute).UTC().Truncate(time.Microsecond)
	sum := domain.GameSummary{
		GameID:      uuid.NewString(),
		RoomID:      "room-it",
		WinnerID:    &bob,
		WinnerName:  "Bob",
		Reason:      domain.EndReasonWinner,
		Rounds:      12,
		PlayerCount: 2,
		Players: []domain.PlayerSummary{
			{PlayerID: alice, DisplayName: "Alice", Bankrupt: true, RentPaid: 300},
			{PlayerID: bob, DisplayName: "Bob", FinalMoney: 1800, RentCollected: 300},
		},
		StartedAt: &started,
		EndedAt:   time.Now().UTC(),
	}
	require.NoError(t, archive.Save(ctx, sum))
	// second save is a no-op
	require.NoError(t, archive.Save(ctx, sum))

	got, err := archive.Get(ctx, sum.GameID)
	require.NoError(t, err)
	assert.Equal(t, "room-it", got.RoomID)
	require.NotNil(t, got.WinnerID)
	assert.Equal(t, bob, *got.WinnerID)
	assert.Equal(t, 12, got.Rounds)
	require.Len(t, got.Players, 2)
	assert.Equal(t, 300, got.Players[0].RentPaid)

	list, err := archive.ListByPlayer(ctx, alice, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, sum.GameID, list[0].GameID)

	a, err := players.Lookup(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 1, a.GamesPlayed)
	assert.EqualValues(t, 0, a.GamesWon)

	b, err := players.Lookup(ctx, bob)
	require.NoError(t, err)
	assert.EqualValues(t, 1, b.GamesPlayed)
	assert.EqualValues(t, 1, b.GamesWon)

	n, err := archive.Count(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)
}

func TestArchiveRepository_NotFound(t *testing.T) {
	db := connect(t)
	ctx := context.Background()

	_, err := repository.NewArchiveRepository(db).Get(ctx, uuid.NewString())
	assert.True(t, errors.Is(err, repository.ErrNotFound))

	_, err = repository.NewPlayerRepository(db).Lookup(ctx, uuid.NewString())
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestArchiveRepository_UnstartedGameKeepsCounters(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	players := repository.NewPlayerRepository(db)

	id := "lonely-" + uuid.NewString()
	require.NoError(t, players.Upsert(ctx, &domain.PlayerProfile{ID: id, DisplayName: "Lonely"}))

	require.NoError(t, repository.NewArchiveRepository(db).Save(ctx, domain.GameSummary{
		GameID:      uuid.NewString(),
		Reason:      domain.EndReasonNoPlayers,
		PlayerCount: 1,
		Players:     []domain.PlayerSummary{{PlayerID: id}},
		EndedAt:     time.Now(),
	}))

	p, err := players.Lookup(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 0, p.GamesPlayed)
}
