package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"richman_server/internal/domain"
	"richman_server/internal/game"
	"richman_server/internal/repository"
)

// Archive stores summaries of finished or swept games.
type Archive interface {
	Save(ctx context.Context, sum domain.GameSummary) error
	Get(ctx context.Context, gameID string) (*domain.GameSummary, error)
}

// Directory resolves a player id to display attributes.
type Directory interface {
	Lookup(ctx context.Context, playerID string) (*domain.PlayerProfile, error)
}

type ManagerOptions struct {
	Logger      *zap.Logger
	Archive     Archive
	Directory   Directory
	Defaults    game.Settings
	IdleTimeout time.Duration
	EventBuffer int
	InboxSize   int
	Seed        int64
	// EngineOptions are applied to every engine after the manager's own.
	EngineOptions []game.Option
}

// ServerStatus aggregates manager bookkeeping for the status endpoint.
type ServerStatus struct {
	ActiveGames   int           `json:"active_games"`
	TotalGames    int           `json:"total_games"`
	PlayersInGame int           `json:"players_in_game"`
	ArchivedGames int           `json:"archived_games"`
	Uptime        time.Duration `json:"uptime"`
	Games         []GameInfo    `json:"games"`
}

// GameManager routes player actions to per-game workers and republishes
// their events on a single channel.
type GameManager struct {
	mu       sync.RWMutex
	games    map[string]*room
	players  map[string]string // player id -> game id
	closed   bool
	total    int
	archived int

	factory     *game.Factory
	archive     Archive
	directory   Directory
	logger      *zap.Logger
	events      chan game.Event
	idleTimeout time.Duration
	inboxSize   int
	engineOpts  []game.Option
	startedAt   time.Time

	workers sync.WaitGroup
	saving  sync.WaitGroup
}

func NewGameManager(opts ManagerOptions) *GameManager {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = time.Hour
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = 1024
	}
	if opts.InboxSize <= 0 {
		opts.InboxSize = 64
	}
	defaults := opts.Defaults
	if defaults == (game.Settings{}) {
		defaults = game.DefaultSettings()
	}
	return &GameManager{
		games:       make(map[string]*room),
		players:     make(map[string]string),
		factory:     game.NewFactory(defaults, opts.Logger, opts.Seed),
		archive:     opts.Archive,
		directory:   opts.Directory,
		logger:      opts.Logger,
		events:      make(chan game.Event, opts.EventBuffer),
		idleTimeout: opts.IdleTimeout,
		inboxSize:   opts.InboxSize,
		engineOpts:  opts.EngineOptions,
		startedAt:   time.Now(),
	}
}

// Events is closed by Close once every worker has stopped.
func (m *GameManager) Events() <-chan game.Event { return m.events }

func (m *GameManager) publish(ev game.Event) {
	select {
	case m.events <- ev:
		eventsPublished.WithLabelValues(string(ev.Type)).Inc()
	default:
		eventsDropped.Inc()
		m.logger.Warn("event dropped, channel full",
			zap.String("game_id", ev.GameID),
			zap.String("type", string(ev.Type)))
	}
}

// CreateGame registers a new engine and starts its worker. A nil settings
// uses the manager defaults.
func (m *GameManager) CreateGame(ctx context.Context, roomID string, settings *game.Settings) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", ErrManagerClosed
	}

	id := uuid.NewString()
	r := newRoom(m, id, m.inboxSize)
	opts := append([]game.Option{game.WithTimer(r)}, m.engineOpts...)
	r.engine = m.factory.CreateGame(id, roomID, settings, opts...)
	r.refresh()

	m.games[id] = r
	m.total++
	activeGames.Inc()
	gamesCreated.Inc()
	m.workers.Add(1)
	go func() {
		defer m.workers.Done()
		r.Run()
	}()

	m.logger.Info("game created", zap.String("game_id", id), zap.String("room_id", roomID))
	return id, nil
}

func (m *GameManager) room(gameID string) (*room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrManagerClosed
	}
	r, ok := m.games[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	return r, nil
}

func (m *GameManager) roomForPlayer(playerID string) (*room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrManagerClosed
	}
	gameID, ok := m.players[playerID]
	if !ok {
		return nil, ErrPlayerNotInGame
	}
	r, ok := m.games[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	return r, nil
}

// JoinGame seats playerID in gameID. A player can sit in one game at a time.
func (m *GameManager) JoinGame(ctx context.Context, gameID, playerID string) error {
	r, err := m.room(gameID)
	if err != nil {
		return err
	}
	name := m.displayName(ctx, playerID)

	// резервируем слот до вызова движка, чтобы параллельный join не прошёл
	m.mu.Lock()
	if cur, ok := m.players[playerID]; ok {
		m.mu.Unlock()
		if cur == gameID {
			return game.ErrAlreadyJoined
		}
		return ErrPlayerInAnotherGame
	}
	m.players[playerID] = gameID
	m.mu.Unlock()

	err, callErr := call(ctx, r, func(e *game.Engine) error { return e.AddPlayer(playerID, name) })
	if callErr != nil {
		err = callErr
	}
	if err != nil {
		m.unmap(playerID, gameID)
		return err
	}
	m.logger.Info("player joined", zap.String("game_id", gameID), zap.String("player_id", playerID))
	return nil
}

func (m *GameManager) displayName(ctx context.Context, playerID string) string {
	if m.directory == nil {
		return playerID
	}
	p, err := m.directory.Lookup(ctx, playerID)
	if err != nil || p == nil || p.DisplayName == "" {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			m.logger.Warn("directory lookup failed", zap.String("player_id", playerID), zap.Error(err))
		}
		return playerID
	}
	return p.DisplayName
}

func (m *GameManager) unmap(playerID, gameID string) {
	m.mu.Lock()
	if m.players[playerID] == gameID {
		delete(m.players, playerID)
	}
	m.mu.Unlock()
}

// LeaveGame removes the player from their game. Mid-game this is a
// forfeit. The game is cleaned up when no mapped players remain.
func (m *GameManager) LeaveGame(ctx context.Context, playerID string) error {
	r, err := m.roomForPlayer(playerID)
	if err != nil {
		return err
	}
	err, callErr := call(ctx, r, func(e *game.Engine) error { return e.RemovePlayer(playerID) })
	if callErr != nil {
		err = callErr
	}
	if err != nil && !errors.Is(err, game.ErrPlayerNotFound) {
		return err
	}

	m.mu.Lock()
	if m.players[playerID] == r.id {
		delete(m.players, playerID)
	}
	empty := true
	for _, gid := range m.players {
		if gid == r.id {
			empty = false
			break
		}
	}
	m.mu.Unlock()

	m.logger.Info("player left", zap.String("game_id", r.id), zap.String("player_id", playerID))
	if empty {
		m.closeGame(ctx, r, domain.EndReasonNoPlayers)
	}
	return nil
}

func (m *GameManager) StartGame(ctx context.Context, gameID, hostID string) error {
	r, err := m.room(gameID)
	if err != nil {
		return err
	}
	err, callErr := call(ctx, r, func(e *game.Engine) error { return e.StartGame(hostID) })
	if callErr != nil {
		return callErr
	}
	if err == nil {
		gamesStarted.Inc()
	}
	return err
}

// HandlePlayerAction forwards an action to the player's game. Rule
// violations come back in the result; the error covers routing only.
func (m *GameManager) HandlePlayerAction(ctx context.Context, playerID string, action game.Action) (game.ActionResult, error) {
	r, err := m.roomForPlayer(playerID)
	if err != nil {
		return game.ActionResult{}, err
	}
	start := time.Now()
	res, err := call(ctx, r, func(e *game.Engine) game.ActionResult {
		return e.ProcessPlayerAction(playerID, action)
	})
	if err != nil {
		return game.ActionResult{}, err
	}
	outcome := "ok"
	if !res.Success {
		outcome = "rejected"
	}
	actionsTotal.WithLabelValues(string(action.Type), outcome).Inc()
	actionDuration.Observe(time.Since(start).Seconds())
	return res, nil
}

func (m *GameManager) GetGameState(ctx context.Context, gameID string) (game.GameState, error) {
	r, err := m.room(gameID)
	if err != nil {
		return game.GameState{}, err
	}
	return call(ctx, r, func(e *game.Engine) game.GameState { return e.Snapshot() })
}

func (m *GameManager) GameIDForPlayer(playerID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.players[playerID]
	return id, ok
}

func (m *GameManager) Status() ServerStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := ServerStatus{
		ActiveGames:   len(m.games),
		TotalGames:    m.total,
		PlayersInGame: len(m.players),
		ArchivedGames: m.archived,
		Uptime:        time.Since(m.startedAt),
		Games:         make([]GameInfo, 0, len(m.games)),
	}
	for _, r := range m.games {
		st.Games = append(st.Games, r.Info())
	}
	return st
}

// ArchivedSummary returns the stored summary of a game that has ended.
func (m *GameManager) ArchivedSummary(ctx context.Context, gameID string) (*domain.GameSummary, error) {
	if m.archive == nil {
		return nil, ErrGameNotFound
	}
	sum, err := m.archive.Get(ctx, gameID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("archive get: %w", err)
	}
	return sum, nil
}

// Sweep closes games idle past the idle timeout and returns how many it
// removed.
func (m *GameManager) Sweep(now time.Time) int {
	m.mu.RLock()
	var stale []*room
	for _, r := range m.games {
		if now.Sub(r.Info().UpdatedAt) > m.idleTimeout {
			stale = append(stale, r)
		}
	}
	m.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, r := range stale {
		m.logger.Info("sweeping idle game", zap.String("game_id", r.id))
		m.closeGame(ctx, r, domain.EndReasonIdle)
	}
	return len(stale)
}

func (m *GameManager) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := m.Sweep(now); n > 0 {
					m.logger.Info("cleanup done", zap.Int("removed", n))
				}
			}
		}
	}()
}

// closeGame archives a game that did not reach GAME_OVER on its own.
func (m *GameManager) closeGame(ctx context.Context, r *room, reason domain.GameEndReason) {
	sum, err := r.summary(ctx, reason)
	if err != nil {
		// worker already gone; the game-over path owns the archive
		return
	}
	m.retire(r, sum)
}

// retire unregisters the game, stops its worker and archives sum. Safe to
// call more than once; only the first call has effect.
func (m *GameManager) retire(r *room, sum domain.GameSummary) {
	r.retireOnce.Do(func() {
		m.mu.Lock()
		if m.games[r.id] == r {
			delete(m.games, r.id)
			activeGames.Dec()
		}
		for pid, gid := range m.players {
			if gid == r.id {
				delete(m.players, pid)
			}
		}
		m.mu.Unlock()
		r.stop()

		m.logger.Info("game retired",
			zap.String("game_id", r.id),
			zap.String("reason", string(sum.Reason)),
			zap.Int("rounds", sum.Rounds))

		if m.archive == nil {
			return
		}
		m.saving.Add(1)
		go func() {
			defer m.saving.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := m.archive.Save(ctx, sum); err != nil {
				archiveFailures.Inc()
				m.logger.Error("archive save failed", zap.String("game_id", sum.GameID), zap.Error(err))
				return
			}
			m.mu.Lock()
			m.archived++
			m.mu.Unlock()
			gamesArchived.WithLabelValues(string(sum.Reason)).Inc()
		}()
	})
}

// Close archives every running game with reason shutdown, waits for the
// workers and archive writes, then closes the event channel.
func (m *GameManager) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	rooms := make([]*room, 0, len(m.games))
	for _, r := range m.games {
		rooms = append(rooms, r)
	}
	m.mu.Unlock()

	for _, r := range rooms {
		m.closeGame(ctx, r, domain.EndReasonShutdown)
		r.stop()
	}

	waited := make(chan struct{})
	go func() {
		m.workers.Wait()
		m.saving.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-ctx.Done():
		return ctx.Err()
	}
	close(m.events)
	m.logger.Info("game manager closed", zap.Int("games", len(rooms)))
	return nil
}
