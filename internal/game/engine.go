package game

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"richman_server/internal/board"
)

// Engine owns the authoritative state of one game. It is not safe for
// concurrent use: the caller serializes every method call.
type Engine struct {
	id       string
	roomID   string
	settings Settings

	logger *zap.Logger
	rng    *rand.Rand
	dice   Roller
	timer  TurnTimer
	oracle CardOracle
	now    func() time.Time

	players    []*Player
	phase      Phase
	current    int
	round      int
	lastDice   *DiceResult
	lastAction *LastAction
	pending    *PendingOffer
	hasRolled  bool
	doubles    int
	turnSeq    uint64
	pot        int
	winnerID   string

	decks  map[board.DeckType]*deck
	events []Event

	createdAt time.Time
	startedAt *time.Time
	endedAt   *time.Time
	updatedAt time.Time
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRand sets the source used for turn order and deck shuffles, and for
// dice unless WithDice is also given.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

func WithDice(d Roller) Option {
	return func(e *Engine) { e.dice = d }
}

func WithTimer(t TurnTimer) Option {
	return func(e *Engine) {
		if t != nil {
			e.timer = t
		}
	}
}

func WithCardOracle(o CardOracle) Option {
	return func(e *Engine) { e.oracle = o }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func NewEngine(id, roomID string, settings Settings, opts ...Option) *Engine {
	e := &Engine{
		id:       id,
		roomID:   roomID,
		settings: settings.normalize(),
		logger:   zap.NewNop(),
		timer:    noopTimer{},
		now:      time.Now,
		phase:    PhaseWaiting,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.dice == nil {
		e.dice = NewRandomDice(e.rng)
	}
	e.logger = e.logger.With(zap.String("game_id", id))
	e.decks = map[board.DeckType]*deck{
		board.DeckChance:         newDeck(board.DeckChance, e.rng),
		board.DeckCommunityChest: newDeck(board.DeckCommunityChest, e.rng),
	}
	e.createdAt = e.now()
	e.updatedAt = e.createdAt
	return e
}

func (e *Engine) ID() string { return e.id }
func (e *Engine) RoomID() string { return e.roomID }
func (e *Engine) Phase() Phase { return e.phase }
func (e *Engine) Settings() Settings { return e.settings }
func (e *Engine) RoundNumber() int { return e.round }
func (e *Engine) TurnSeq() uint64 { return e.turnSeq }
func (e *Engine) WinnerID() string { return e.winnerID }
func (e *Engine) IsOver() bool { return e.phase == PhaseGameOver }
func (e *Engine) UpdatedAt() time.Time { return e.updatedAt }
func (e *Engine) CreatedAt() time.Time { return e.createdAt }
func (e *Engine) PlayerCount() int { return len(e.players) }

// ActivePlayers returns the number of players not yet bankrupt.
func (e *Engine) ActivePlayers() int {
	n := 0
	for _, p := range e.players {
		if !p.IsBankrupt {
			n++
		}
	}
	return n
}

func (e *Engine) CurrentPlayerID() string {
	if p := e.currentPlayer(); p != nil {
		return p.ID
	}
	return ""
}

func (e *Engine) currentPlayer() *Player {
	if e.current < 0 || e.current >= len(e.players) {
		return nil
	}
	return e.players[e.current]
}

func (e *Engine) player(id string) (*Player, int) {
	for i, p := range e.players {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

func (e *Engine) touch() { e.updatedAt = e.now() }

// AddPlayer seats a new player. Only allowed while waiting.
func (e *Engine) AddPlayer(id, name string) error {
	if e.phase != PhaseWaiting {
		return ErrGameStarted
	}
	if p, _ := e.player(id); p != nil {
		return ErrAlreadyJoined
	}
	if len(e.players) >= e.settings.MaxPlayers {
		return ErrGameFull
	}
	if name == "" {
		name = id
	}
	p := &Player{
		ID:         id,
		Name:       name,
		Money:      e.settings.StartingMoney,
		Position:   board.GoPosition,
		Properties: []PropertyOwnership{},
		IsActive:   true,
		JoinedAt:   e.now(),
	}
	e.players = append(e.players, p)
	e.touch()
	e.emit(EventPlayerJoined, id, map[string]any{
		"player_name":  name,
		"player_count": len(e.players),
	})
	e.logger.Info("player joined", zap.String("player_id", id), zap.Int("players", len(e.players)))
	return nil
}

// RemovePlayer drops a player before the game starts. Once the game is
// running the player forfeits: they go bankrupt to the bank and keep
// their seat so turn indices stay stable.
func (e *Engine) RemovePlayer(id string) error {
	p, idx := e.player(id)
	if p == nil {
		return ErrPlayerNotFound
	}
	e.touch()

	if e.phase == PhaseWaiting {
		e.players = append(e.players[:idx], e.players[idx+1:]...)
		if idx < e.current || e.current >= len(e.players) {
			e.current = max(0, e.current-1)
		}
		e.emit(EventPlayerLeft, id, map[string]any{"player_count": len(e.players)})
		e.logger.Info("player left", zap.String("player_id", id))
		return nil
	}

	if e.phase == PhaseGameOver || p.IsBankrupt {
		p.IsActive = false
		e.emit(EventPlayerLeft, id, map[string]any{"forfeit": false})
		return nil
	}

	wasCurrent := idx == e.current
	e.emit(EventPlayerLeft, id, map[string]any{"forfeit": true})
	e.bankrupt(p, nil, "forfeit", p.Money)
	if wasCurrent && !e.IsOver() {
		e.endTurn("forfeit")
	}
	return nil
}

// StartGame shuffles the seating order and starts the first turn.
func (e *Engine) StartGame(hostID string) error {
	if e.phase != PhaseWaiting {
		return ErrGameStarted
	}
	if hostID != "" {
		if p, _ := e.player(hostID); p == nil {
			return ErrPlayerNotFound
		}
	}
	if len(e.players) < MinPlayers {
		return ErrNotEnoughPlayers
	}

	e.phase = PhaseStarting
	e.rng.Shuffle(len(e.players), func(i, j int) {
		e.players[i], e.players[j] = e.players[j], e.players[i]
	})
	now := e.now()
	e.startedAt = &now
	e.round = 1
	e.current = 0

	order := make([]string, len(e.players))
	for i, p := range e.players {
		order[i] = p.ID
	}
	e.emit(EventGameStarted, "", map[string]any{
		"player_count": len(e.players),
		"start_time":   now,
		"turn_order":   order,
		"host_id":      hostID,
	})
	e.logger.Info("game started", zap.Int("players", len(e.players)), zap.Strings("order", order))

	e.startTurn()
	return nil
}

func (e *Engine) startTurn() {
	p := e.currentPlayer()
	if p == nil {
		return
	}
	e.hasRolled = false
	e.doubles = 0
	e.pending = nil
	e.lastDice = nil
	e.turnSeq++
	if p.Jail.IsInJail {
		e.phase = PhaseJail
	} else {
		e.phase = PhasePlayerTurn
	}
	e.timer.Arm(e.settings.TurnTimeLimit, e.turnSeq)
	e.emit(EventTurnStarted, p.ID, map[string]any{
		"round_number": e.round,
		"turn_seq":     e.turnSeq,
		"in_jail":      p.Jail.IsInJail,
		"time_limit":   e.settings.TurnTimeLimit.Seconds(),
	})
	e.logger.Debug("turn started",
		zap.String("player_id", p.ID),
		zap.Int("round", e.round),
		zap.Uint64("seq", e.turnSeq))
}

// endTurn finishes the current turn and hands over to the next solvent
// player. The round counter moves when the seat index wraps to 0.
func (e *Engine) endTurn(reason string) {
	if e.IsOver() {
		return
	}
	e.timer.Stop()
	if p := e.currentPlayer(); p != nil {
		if e.pending != nil {
			e.declineOffer(p)
		}
		e.emit(EventTurnEnded, p.ID, map[string]any{
			"round_number": e.round,
			"reason":       reason,
		})
	}
	if e.ActivePlayers() == 0 {
		return
	}
	next := e.current
	for {
		next = (next + 1) % len(e.players)
		if next == 0 {
			e.round++
		}
		if !e.players[next].IsBankrupt {
			break
		}
	}
	e.current = next
	e.startTurn()
}

// HandleTurnTimeout forces the end of turn seq. Stale sequences are
// ignored and reported with false. A forced timeout is not player
// activity and leaves UpdatedAt alone, so abandoned games still go idle.
func (e *Engine) HandleTurnTimeout(seq uint64) bool {
	if !e.phase.Active() || seq != e.turnSeq {
		return false
	}
	p := e.currentPlayer()
	e.emit(EventTurnTimeout, p.ID, map[string]any{
		"round_number": e.round,
		"turn_seq":     seq,
	})
	e.logger.Info("turn timed out", zap.String("player_id", p.ID), zap.Uint64("seq", seq))
	e.endTurn("timeout")
	return true
}

// ProcessPlayerAction validates and applies one action. It never panics:
// internal faults come back as a failed result.
func (e *Engine) ProcessPlayerAction(playerID string, action Action) (res ActionResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("action panicked",
				zap.String("player_id", playerID),
				zap.String("action", string(action.Type)),
				zap.Any("panic", r),
				zap.Stack("stack"))
			res = ActionResult{Success: false, Message: "internal error", Err: ErrInternal}
		}
	}()

	if err := e.checkTurn(playerID); err != nil {
		e.logger.Debug("action rejected",
			zap.String("player_id", playerID),
			zap.String("action", string(action.Type)),
			zap.Error(err))
		return reject(err)
	}

	p := e.currentPlayer()
	result, err := e.dispatch(p, action)
	if err != nil {
		e.logger.Debug("action rejected",
			zap.String("player_id", playerID),
			zap.String("action", string(action.Type)),
			zap.Error(err))
		return reject(err)
	}

	e.lastAction = &LastAction{PlayerID: playerID, Type: action.Type, At: e.now()}
	e.touch()
	if p.IsBankrupt && !e.IsOver() && e.currentPlayer() == p {
		e.endTurn("bankrupt")
	}
	return succeed(result)
}

func (e *Engine) checkTurn(playerID string) error {
	switch e.phase {
	case PhaseGameOver:
		return ErrGameOver
	case PhaseWaiting, PhaseStarting:
		if p, _ := e.player(playerID); p == nil {
			return ErrPlayerNotFound
		}
		return ErrWrongPhase
	}
	p, _ := e.player(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if e.currentPlayer() != p {
		return ErrNotYourTurn
	}
	return nil
}

func (e *Engine) dispatch(p *Player, action Action) (map[string]any, error) {
	switch action.Type {
	case ActionRollDice:
		return e.handleRoll(p)
	case ActionBuyProperty:
		return e.handleBuy(p, action)
	case ActionDeclineProperty:
		return e.handleDecline(p)
	case ActionBuildHouse:
		return e.handleBuildHouse(p, action)
	case ActionBuildHotel:
		return e.handleBuildHotel(p, action)
	case ActionMortgageProperty:
		return e.handleMortgage(p, action)
	case ActionUnmortgageProperty:
		return e.handleUnmortgage(p, action)
	case ActionPayJailFine:
		return e.handlePayJailFine(p)
	case ActionUseJailCard:
		return e.handleUseJailCard(p)
	case ActionEndTurn:
		return e.handleEndTurn(p)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAction, action.Type)
}

func (e *Engine) handleRoll(p *Player) (map[string]any, error) {
	if e.phase != PhasePlayerTurn && e.phase != PhaseJail {
		return nil, ErrWrongPhase
	}
	if e.hasRolled {
		return nil, ErrAlreadyRolled
	}

	dice := e.rollDice()
	e.phase = PhaseDiceRolling
	e.lastDice = &dice
	e.hasRolled = true
	p.Stats.DiceRolls++
	e.emit(EventDiceRolled, p.ID, map[string]any{
		"dice_result": dice,
		"dice1":       dice.Dice1,
		"dice2":       dice.Dice2,
		"total":       dice.Total,
		"is_double":   dice.IsDouble,
	})
	e.logger.Debug("dice rolled",
		zap.String("player_id", p.ID),
		zap.Int("dice1", dice.Dice1),
		zap.Int("dice2", dice.Dice2))

	oldPos := p.Position
	if p.Jail.IsInJail {
		e.rollInJail(p, dice)
	} else {
		if dice.IsDouble && e.settings.rollAgain() {
			e.doubles++
			if e.doubles >= 3 {
				e.sendToJail(p, "three_doubles")
				e.settle()
				return rollResult(dice, oldPos, p, false), nil
			}
		}
		e.movePlayer(p, dice.Total, landing{diceTotal: dice.Total})
	}

	again := dice.IsDouble && e.settings.rollAgain() &&
		e.doubles > 0 && !p.Jail.IsInJail && !p.IsBankrupt && !e.IsOver()
	if again {
		e.hasRolled = false
	}
	e.settle()
	return rollResult(dice, oldPos, p, again), nil
}

func rollResult(dice DiceResult, oldPos int, p *Player, again bool) map[string]any {
	return map[string]any{
		"dice_result":    dice,
		"old_position":   oldPos,
		"new_position":   p.Position,
		"can_roll_again": again,
	}
}

// settle returns the engine to PLAYER_TURN unless a decision is pending
// or the game ended.
func (e *Engine) settle() {
	switch e.phase {
	case PhaseGameOver, PhasePropertyAction:
		return
	}
	e.phase = PhasePlayerTurn
}

func (e *Engine) handleEndTurn(p *Player) (map[string]any, error) {
	switch e.phase {
	case PhasePlayerTurn, PhasePropertyAction, PhaseJail:
	default:
		return nil, ErrWrongPhase
	}
	if !e.hasRolled {
		return nil, ErrMustRoll
	}
	round := e.round
	e.endTurn("end_turn")
	return map[string]any{
		"ended_player_id":   p.ID,
		"round_number":      e.round,
		"round_advanced":    e.round != round,
		"current_player_id": e.CurrentPlayerID(),
	}, nil
}
