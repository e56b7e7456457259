package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"richman_server/internal/domain"
	"richman_server/internal/game"
	"richman_server/internal/repository"
)

type fixture struct {
	m       *GameManager
	archive *repository.MemoryArchive
	dir     *repository.MemoryDirectory
	dice    *game.ScriptedDice
}

func newFixture(t *testing.T, mutate func(*ManagerOptions)) *fixture {
	t.Helper()
	dir := repository.NewMemoryDirectory()
	f := &fixture{
		archive: repository.NewMemoryArchive(dir),
		dir:     dir,
		dice:    game.NewScriptedDice(),
	}
	opts := ManagerOptions{
		Logger:        zaptest.NewLogger(t),
		Archive:       f.archive,
		Directory:     dir,
		Seed:          7,
		EngineOptions: []game.Option{game.WithDice(f.dice)},
	}
	if mutate != nil {
		mutate(&opts)
	}
	f.m = NewGameManager(opts)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = f.m.Close(ctx)
	})
	return f
}

// waitEvent reads the manager channel until an event of type typ shows up.
func waitEvent(t *testing.T, m *GameManager, typ game.EventType) game.Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-m.Events():
			require.True(t, ok, "events channel closed")
			if ev.Type == typ {
				return ev
			}
		case <-deadline:
			t.Fatalf("no %s event", typ)
		}
	}
}

func (f *fixture) startTwoPlayerGame(t *testing.T) (gameID string, first, second string) {
	t.Helper()
	ctx := context.Background()
	id, err := f.m.CreateGame(ctx, "room-1", nil)
	require.NoError(t, err)
	require.NoError(t, f.m.JoinGame(ctx, id, "alice"))
	require.NoError(t, f.m.JoinGame(ctx, id, "bob"))
	require.NoError(t, f.m.StartGame(ctx, id, "alice"))

	st, err := f.m.GetGameState(ctx, id)
	require.NoError(t, err)
	first = st.CurrentPlayerID
	second = "bob"
	if first == "bob" {
		second = "alice"
	}
	return id, first, second
}

func TestJoinRules(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	g1, err := f.m.CreateGame(ctx, "room-1", nil)
	require.NoError(t, err)
	g2, err := f.m.CreateGame(ctx, "room-2", nil)
	require.NoError(t, err)
	assert.NotEqual(t, g1, g2)

	require.NoError(t, f.m.JoinGame(ctx, g1, "alice"))
	assert.ErrorIs(t, f.m.JoinGame(ctx, g1, "alice"), game.ErrAlreadyJoined)
	assert.ErrorIs(t, f.m.JoinGame(ctx, g2, "alice"), ErrPlayerInAnotherGame)
	assert.ErrorIs(t, f.m.JoinGame(ctx, "missing", "bob"), ErrGameNotFound)

	id, ok := f.m.GameIDForPlayer("alice")
	require.True(t, ok)
	assert.Equal(t, g1, id)

	st := f.m.Status()
	assert.Equal(t, 2, st.ActiveGames)
	assert.Equal(t, 2, st.TotalGames)
	assert.Equal(t, 1, st.PlayersInGame)
}

func TestJoinFullGameDoesNotMap(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id, err := f.m.CreateGame(ctx, "room-1", &game.Settings{MaxPlayers: 2})
	require.NoError(t, err)
	require.NoError(t, f.m.JoinGame(ctx, id, "alice"))
	require.NoError(t, f.m.JoinGame(ctx, id, "bob"))

	assert.ErrorIs(t, f.m.JoinGame(ctx, id, "carol"), game.ErrGameFull)
	_, ok := f.m.GameIDForPlayer("carol")
	assert.False(t, ok)
}

func TestDisplayNameFromDirectory(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.dir.Upsert(ctx, &domain.PlayerProfile{ID: "alice", DisplayName: "Alice"}))

	id, err := f.m.CreateGame(ctx, "room-1", nil)
	require.NoError(t, err)
	require.NoError(t, f.m.JoinGame(ctx, id, "alice"))
	require.NoError(t, f.m.JoinGame(ctx, id, "bob"))

	st, err := f.m.GetGameState(ctx, id)
	require.NoError(t, err)
	names := map[string]string{}
	for _, p := range st.Players {
		names[p.ID] = p.Name
	}
	assert.Equal(t, "Alice", names["alice"])
	assert.Equal(t, "bob", names["bob"])
}

func TestHandlePlayerActionRouting(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.m.HandlePlayerAction(ctx, "nobody", game.Action{Type: game.ActionRollDice})
	assert.ErrorIs(t, err, ErrPlayerNotInGame)

	id, first, second := f.startTwoPlayerGame(t)
	waitEvent(t, f.m, game.EventGameStarted)

	res, err := f.m.HandlePlayerAction(ctx, second, game.Action{Type: game.ActionRollDice})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, game.ErrNotYourTurn)

	f.dice.Push([2]int{1, 2})
	res, err = f.m.HandlePlayerAction(ctx, first, game.Action{Type: game.ActionRollDice})
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 3, res.Result["new_position"])

	ev := waitEvent(t, f.m, game.EventPropertyOffered)
	assert.Equal(t, id, ev.GameID)
	assert.Equal(t, first, ev.PlayerID)

	res, err = f.m.HandlePlayerAction(ctx, first, game.Action{
		Type: game.ActionBuyProperty,
		Data: map[string]any{"property_id": 3},
	})
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)

	st, err := f.m.GetGameState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, game.PhasePlayerTurn, st.Phase)
	p, ok := st.Player(first)
	require.True(t, ok)
	assert.Equal(t, 1500-60, p.Money)
}

func TestForfeitEndsAndArchivesGame(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id, first, second := f.startTwoPlayerGame(t)

	require.NoError(t, f.m.LeaveGame(ctx, first))
	ev := waitEvent(t, f.m, game.EventGameEnded)
	assert.Equal(t, second, ev.Data["winner_id"])

	require.Eventually(t, func() bool {
		sum, err := f.m.ArchivedSummary(ctx, id)
		return err == nil && sum.WinnerID != nil && *sum.WinnerID == second &&
			f.m.Status().ArchivedGames == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, ok := f.m.GameIDForPlayer(second)
	assert.False(t, ok)
	_, err := f.m.GetGameState(ctx, id)
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = f.m.HandlePlayerAction(ctx, second, game.Action{Type: game.ActionRollDice})
	assert.ErrorIs(t, err, ErrPlayerNotInGame)

	assert.Zero(t, f.m.Status().ActiveGames)
}

func TestLeavingEmptyWaitingGameCleansUp(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id, err := f.m.CreateGame(ctx, "room-1", nil)
	require.NoError(t, err)
	require.NoError(t, f.m.JoinGame(ctx, id, "alice"))
	require.NoError(t, f.m.JoinGame(ctx, id, "bob"))

	require.NoError(t, f.m.LeaveGame(ctx, "alice"))
	_, err = f.m.GetGameState(ctx, id)
	require.NoError(t, err, "bob is still seated")

	require.NoError(t, f.m.LeaveGame(ctx, "bob"))
	_, err = f.m.GetGameState(ctx, id)
	assert.ErrorIs(t, err, ErrGameNotFound)

	require.Eventually(t, func() bool {
		sum, err := f.m.ArchivedSummary(ctx, id)
		return err == nil && sum.Reason == domain.EndReasonNoPlayers
	}, 2*time.Second, 10*time.Millisecond)

	assert.ErrorIs(t, f.m.LeaveGame(ctx, "bob"), ErrPlayerNotInGame)
}

func TestSweepRemovesIdleGames(t *testing.T) {
	f := newFixture(t, func(o *ManagerOptions) { o.IdleTimeout = time.Minute })
	ctx := context.Background()
	idle, err := f.m.CreateGame(ctx, "room-1", nil)
	require.NoError(t, err)
	require.NoError(t, f.m.JoinGame(ctx, idle, "alice"))

	assert.Zero(t, f.m.Sweep(time.Now()))
	assert.Equal(t, 1, f.m.Sweep(time.Now().Add(2*time.Minute)))

	_, ok := f.m.GameIDForPlayer("alice")
	assert.False(t, ok)
	_, err = f.m.GetGameState(ctx, idle)
	assert.ErrorIs(t, err, ErrGameNotFound)
	require.Eventually(t, func() bool {
		sum, err := f.m.ArchivedSummary(ctx, idle)
		return err == nil && sum.Reason == domain.EndReasonIdle
	}, 2*time.Second, 10*time.Millisecond)
}

func TestTurnTimerRunsOnWorker(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id, err := f.m.CreateGame(ctx, "room-1", &game.Settings{TurnTimeLimit: 30 * time.Millisecond})
	require.NoError(t, err)
	require.NoError(t, f.m.JoinGame(ctx, id, "alice"))
	require.NoError(t, f.m.JoinGame(ctx, id, "bob"))
	before := testutil.ToFloat64(turnTimeouts)
	require.NoError(t, f.m.StartGame(ctx, id, ""))

	ev := waitEvent(t, f.m, game.EventTurnTimeout)
	assert.Equal(t, id, ev.GameID)
	next := waitEvent(t, f.m, game.EventTurnStarted)
	assert.NotEqual(t, ev.PlayerID, next.PlayerID)
	assert.GreaterOrEqual(t, testutil.ToFloat64(turnTimeouts)-before, 1.0)
}

func TestConcurrentActionsAreSerialized(t *testing.T) {
	f := newFixture(t, func(o *ManagerOptions) {
		o.Defaults = game.Settings{StartingMoney: 1_000_000}
		o.EngineOptions = nil
	})
	ctx := context.Background()
	id, _, _ := f.startTwoPlayerGame(t)

	var wg sync.WaitGroup
	for _, pid := range []string{"alice", "bob"} {
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(pid string) {
				defer wg.Done()
				for j := 0; j < 25; j++ {
					_, err := f.m.HandlePlayerAction(ctx, pid, game.Action{Type: game.ActionRollDice})
					assert.NoError(t, err)
					_, err = f.m.HandlePlayerAction(ctx, pid, game.Action{Type: game.ActionEndTurn})
					assert.NoError(t, err)
				}
			}(pid)
		}
	}
	// events are not asserted here; keep the channel from filling
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-f.m.Events():
			case <-stop:
				return
			}
		}
	}()
	wg.Wait()
	close(stop)

	st, err := f.m.GetGameState(ctx, id)
	require.NoError(t, err)
	assert.True(t, st.Phase.Active())
	assert.Greater(t, st.RoundNumber, 1)
	for _, p := range st.Players {
		assert.GreaterOrEqual(t, p.Position, 0)
		assert.Less(t, p.Position, 40)
	}
}

func TestEventsDroppedWhenChannelFull(t *testing.T) {
	f := newFixture(t, func(o *ManagerOptions) { o.EventBuffer = 1 })
	ctx := context.Background()
	before := testutil.ToFloat64(eventsDropped)

	id, err := f.m.CreateGame(ctx, "room-1", nil)
	require.NoError(t, err)
	require.NoError(t, f.m.JoinGame(ctx, id, "alice"))
	require.NoError(t, f.m.JoinGame(ctx, id, "bob"))

	assert.Equal(t, 1.0, testutil.ToFloat64(eventsDropped)-before)
	ev := <-f.m.Events()
	assert.Equal(t, game.EventPlayerJoined, ev.Type)
	assert.Equal(t, "alice", ev.PlayerID)
}

func TestCloseArchivesRunningGames(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id, _, _ := f.startTwoPlayerGame(t)

	require.NoError(t, f.m.Close(ctx))
	for range f.m.Events() {
	}

	sum, err := f.archive.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.EndReasonShutdown, sum.Reason)
	assert.Equal(t, 2, sum.PlayerCount)

	_, err = f.m.CreateGame(ctx, "room-2", nil)
	assert.ErrorIs(t, err, ErrManagerClosed)
	_, err = f.m.HandlePlayerAction(ctx, "alice", game.Action{Type: game.ActionRollDice})
	assert.ErrorIs(t, err, ErrManagerClosed)
	assert.NoError(t, f.m.Close(ctx))
}

func TestCloseRightAfterGameOverKeepsWinner(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id, first, second := f.startTwoPlayerGame(t)

	require.NoError(t, f.m.LeaveGame(ctx, first))
	require.NoError(t, f.m.Close(ctx))

	sum, err := f.archive.Get(ctx, id)
	require.NoError(t, err, "archive written before Close returns")
	assert.Equal(t, domain.EndReasonWinner, sum.Reason)
	require.NotNil(t, sum.WinnerID)
	assert.Equal(t, second, *sum.WinnerID)
}

func TestPartialSettingsKeepDefaults(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id, err := f.m.CreateGame(ctx, "room-1", &game.Settings{MaxPlayers: 3})
	require.NoError(t, err)

	st, err := f.m.GetGameState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Settings.MaxPlayers)
	assert.Equal(t, 200, st.Settings.Salary)
	assert.Equal(t, 1500, st.Settings.StartingMoney)
	require.NotNil(t, st.Settings.RollAgainOnDoubles)
	assert.True(t, *st.Settings.RollAgainOnDoubles)
	require.NotNil(t, st.Settings.EvenBuilding)
	assert.True(t, *st.Settings.EvenBuilding)
}
