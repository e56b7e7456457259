package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"richman_server/internal/domain"
	"richman_server/internal/game"
)

// GameInfo is the lock-free view of a game used by Status and the sweep.
type GameInfo struct {
	ID          string     `json:"id"`
	RoomID      string     `json:"room_id"`
	Phase       game.Phase `json:"phase"`
	PlayerCount int        `json:"player_count"`
	Round       int        `json:"round_number"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// room owns one engine. Every engine call runs on the room's worker
// goroutine, so the engine itself needs no locking.
type room struct {
	id      string
	engine  *game.Engine
	manager *GameManager
	logger  *zap.Logger

	inbox chan func()
	quit  chan struct{}
	done  chan struct{}

	// worker only
	timer    *time.Timer
	finished bool

	info       atomic.Pointer[GameInfo]
	stopOnce   sync.Once
	retireOnce sync.Once
}

func newRoom(m *GameManager, id string, inboxSize int) *room {
	return &room{
		id:      id,
		manager: m,
		logger:  m.logger.With(zap.String("game_id", id)),
		inbox:   make(chan func(), inboxSize),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (r *room) Run() {
	defer close(r.done)
	for {
		select {
		case fn := <-r.inbox:
			fn()
		case <-r.quit:
			r.stopTimer()
			return
		}
	}
}

func (r *room) stop() {
	r.stopOnce.Do(func() { close(r.quit) })
}

// submit queues fn for the worker. It blocks while the inbox is full.
// Closures that touch the engine must end with flush.
func (r *room) submit(ctx context.Context, fn func()) error {
	select {
	case <-r.quit:
		return ErrGameNotFound
	default:
	}
	select {
	case r.inbox <- fn:
		return nil
	case <-r.quit:
		return ErrGameNotFound
	case <-ctx.Done():
		return ctx.Err()
	}
}

// call runs fn on the worker and waits for its result.
func call[T any](ctx context.Context, r *room, fn func(*game.Engine) T) (T, error) {
	var zero T
	reply := make(chan T, 1)
	err := r.submit(ctx, func() {
		v := fn(r.engine)
		r.flush()
		reply <- v
	})
	if err != nil {
		return zero, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-r.done:
		select {
		case v := <-reply:
			return v, nil
		default:
			return zero, ErrGameNotFound
		}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// flush publishes buffered events and refreshes the cached info. Callers
// see the events of their action published before the result.
func (r *room) flush() {
	for _, ev := range r.engine.DrainEvents() {
		r.manager.publish(ev)
	}
	r.refresh()
	if r.engine.IsOver() && !r.finished {
		r.finished = true
		sum := r.engine.Stats()
		// retire stops this worker, so it runs elsewhere; Close must wait for it
		m := r.manager
		m.saving.Add(1)
		go func() {
			defer m.saving.Done()
			m.retire(r, sum)
		}()
	}
}

func (r *room) refresh() {
	e := r.engine
	r.info.Store(&GameInfo{
		ID:          e.ID(),
		RoomID:      e.RoomID(),
		Phase:       e.Phase(),
		PlayerCount: e.PlayerCount(),
		Round:       e.RoundNumber(),
		CreatedAt:   e.CreatedAt(),
		UpdatedAt:   e.UpdatedAt(),
	})
}

func (r *room) Info() GameInfo {
	if i := r.info.Load(); i != nil {
		return *i
	}
	return GameInfo{ID: r.id}
}

// Arm implements game.TurnTimer. The engine calls it from the worker.
func (r *room) Arm(d time.Duration, seq uint64) {
	r.stopTimer()
	r.timer = time.AfterFunc(d, func() {
		err := r.submit(context.Background(), func() {
			if r.engine.HandleTurnTimeout(seq) {
				turnTimeouts.Inc()
			}
			r.flush()
		})
		if err != nil {
			r.logger.Debug("turn timeout after stop", zap.Uint64("turn_seq", seq))
		}
	})
}

// Stop implements game.TurnTimer.
func (r *room) Stop() { r.stopTimer() }

func (r *room) stopTimer() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// summary reads the engine's statistics, tagging games that did not end
// with a winner.
func (r *room) summary(ctx context.Context, reason domain.GameEndReason) (domain.GameSummary, error) {
	return call(ctx, r, func(e *game.Engine) domain.GameSummary {
		sum := e.Stats()
		if !e.IsOver() {
			sum.Reason = reason
		}
		return sum
	})
}
