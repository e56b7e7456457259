package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"richman_server/internal/game"
	"richman_server/internal/service"
)

const requestTimeout = 5 * time.Second

// Games is the part of the game manager the transport needs.
type Games interface {
	Events() <-chan game.Event
	CreateGame(ctx context.Context, roomID string, settings *game.Settings) (string, error)
	JoinGame(ctx context.Context, gameID, playerID string) error
	LeaveGame(ctx context.Context, playerID string) error
	StartGame(ctx context.Context, gameID, hostID string) error
	HandlePlayerAction(ctx context.Context, playerID string, action game.Action) (game.ActionResult, error)
	GetGameState(ctx context.Context, gameID string) (game.GameState, error)
	GameIDForPlayer(playerID string) (string, bool)
}

// Hub tracks connected players and fans game events out to the clients
// watching each game.
type Hub struct {
	games  Games
	logger *zap.Logger

	conns sync.WaitGroup // running Client.Run calls

	mu       sync.RWMutex
	clients  map[string]*Client            // player id -> client
	watchers map[string]map[string]*Client // game id -> player id -> client
}

func NewHub(games Games, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		games:    games,
		logger:   logger,
		clients:  make(map[string]*Client),
		watchers: make(map[string]map[string]*Client),
	}
}

// Run forwards manager events until the channel closes or ctx is done.
func (h *Hub) Run(ctx context.Context) {
	events := h.games.Events()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			h.dispatch(ev)
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) dispatch(ev game.Event) {
	b, err := json.Marshal(Outbound{Type: MsgEvent, Payload: ev})
	if err != nil {
		h.logger.Error("marshal event", zap.String("type", string(ev.Type)), zap.Error(err))
		return
	}

	h.mu.Lock()
	// игрок мог зайти через REST, подписываем его по событию
	if ev.Type == game.EventPlayerJoined {
		if c, ok := h.clients[ev.PlayerID]; ok {
			h.watchLocked(c, ev.GameID)
		}
	}
	targets := make([]*Client, 0, len(h.watchers[ev.GameID]))
	for _, c := range h.watchers[ev.GameID] {
		targets = append(targets, c)
	}
	if ev.Type == game.EventGameEnded {
		for _, c := range h.watchers[ev.GameID] {
			c.gameID = ""
		}
		delete(h.watchers, ev.GameID)
	}
	h.mu.Unlock()

	for _, c := range targets {
		c.send(b)
	}
}

// register adds c and, when the player already sits in a game, subscribes
// it there. A second connection for the same player replaces the first.
func (h *Hub) register(c *Client) string {
	gameID, _ := h.games.GameIDForPlayer(c.PlayerID)

	h.mu.Lock()
	old := h.clients[c.PlayerID]
	if old != nil {
		h.unwatchLocked(old)
	}
	h.clients[c.PlayerID] = c
	if gameID != "" {
		h.watchLocked(c, gameID)
	}
	h.mu.Unlock()

	if old != nil {
		h.logger.Info("replacing connection", zap.String("player_id", c.PlayerID))
		_ = old.Conn.Close()
	}
	return gameID
}

// unregister drops c. A player whose last connection goes away leaves
// their game, which forfeits it once started.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	current := h.clients[c.PlayerID] == c
	if current {
		delete(h.clients, c.PlayerID)
		h.unwatchLocked(c)
	}
	h.mu.Unlock()
	if !current {
		return
	}

	if _, ok := h.games.GameIDForPlayer(c.PlayerID); !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if err := h.games.LeaveGame(ctx, c.PlayerID); err != nil && !errors.Is(err, service.ErrPlayerNotInGame) {
		h.logger.Warn("leave on disconnect failed", zap.String("player_id", c.PlayerID), zap.Error(err))
		return
	}
	h.logger.Info("player disconnected, left game", zap.String("player_id", c.PlayerID))
}

func (h *Hub) watch(c *Client, gameID string) {
	h.mu.Lock()
	h.watchLocked(c, gameID)
	h.mu.Unlock()
}

func (h *Hub) unwatch(c *Client) {
	h.mu.Lock()
	h.unwatchLocked(c)
	h.mu.Unlock()
}

func (h *Hub) watchLocked(c *Client, gameID string) {
	if c.gameID == gameID {
		return
	}
	h.unwatchLocked(c)
	set, ok := h.watchers[gameID]
	if !ok {
		set = make(map[string]*Client)
		h.watchers[gameID] = set
	}
	set[c.PlayerID] = c
	c.gameID = gameID
}

func (h *Hub) unwatchLocked(c *Client) {
	if c.gameID == "" {
		return
	}
	if set, ok := h.watchers[c.gameID]; ok {
		if set[c.PlayerID] == c {
			delete(set, c.PlayerID)
		}
		if len(set) == 0 {
			delete(h.watchers, c.gameID)
		}
	}
	c.gameID = ""
}

// Connected reports the number of live connections.
func (h *Hub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) handleMessage(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.sendMessage(MsgError, ErrorPayload{Message: "invalid message", Code: "bad_message"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	switch env.Type {
	case MsgPing:
		c.sendMessage(MsgPong, nil)

	case MsgCreate:
		var p CreatePayload
		if !decode(c, env.Payload, &p) {
			return
		}
		gameID, err := h.games.CreateGame(ctx, p.RoomID, p.Settings)
		if err != nil {
			c.sendError(err, service.ErrorCode(err))
			return
		}
		h.join(ctx, c, gameID)

	case MsgJoin:
		var p GamePayload
		if !decode(c, env.Payload, &p) {
			return
		}
		h.join(ctx, c, p.GameID)

	case MsgStart:
		var p GamePayload
		if !decode(c, env.Payload, &p) {
			return
		}
		gameID := h.resolveGame(c, p.GameID)
		if err := h.games.StartGame(ctx, gameID, c.PlayerID); err != nil {
			c.sendError(err, service.ErrorCode(err))
		}

	case MsgLeave:
		if err := h.games.LeaveGame(ctx, c.PlayerID); err != nil {
			c.sendError(err, service.ErrorCode(err))
			return
		}
		h.unwatch(c)
		c.sendMessage(MsgLeft, nil)

	case MsgAction:
		var p ActionPayload
		if !decode(c, env.Payload, &p) {
			return
		}
		res, err := h.games.HandlePlayerAction(ctx, c.PlayerID, game.Action{Type: p.Type, Data: p.Data})
		if err != nil {
			c.sendError(err, service.ErrorCode(err))
			return
		}
		out := ActionResultPayload{
			Action:  p.Type,
			Success: res.Success,
			Result:  res.Result,
			Message: res.Message,
		}
		if res.Err != nil {
			out.Code = service.ErrorCode(res.Err)
		}
		c.sendMessage(MsgActionResult, out)

	case MsgState:
		var p GamePayload
		if !decode(c, env.Payload, &p) {
			return
		}
		gameID := h.resolveGame(c, p.GameID)
		st, err := h.games.GetGameState(ctx, gameID)
		if err != nil {
			c.sendError(err, service.ErrorCode(err))
			return
		}
		h.watch(c, gameID)
		c.sendMessage(MsgState, st)

	default:
		c.sendMessage(MsgError, ErrorPayload{Message: "unknown message type: " + env.Type, Code: "unknown_message"})
	}
}

func (h *Hub) join(ctx context.Context, c *Client, gameID string) {
	if err := h.games.JoinGame(ctx, gameID, c.PlayerID); err != nil {
		c.sendError(err, service.ErrorCode(err))
		return
	}
	h.watch(c, gameID)
	c.sendMessage(MsgJoined, JoinedPayload{GameID: gameID, PlayerID: c.PlayerID})
}

func (h *Hub) resolveGame(c *Client, gameID string) string {
	if gameID != "" {
		return gameID
	}
	id, _ := h.games.GameIDForPlayer(c.PlayerID)
	return id
}

// decode accepts an empty payload as the zero value.
func decode(c *Client, raw json.RawMessage, v any) bool {
	if len(raw) == 0 {
		return true
	}
	if err := json.Unmarshal(raw, v); err != nil {
		c.sendMessage(MsgError, ErrorPayload{Message: "invalid payload", Code: "bad_payload"})
		return false
	}
	return true
}
