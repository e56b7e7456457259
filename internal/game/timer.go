package game

import "time"

// TurnTimer schedules the turn timeout. Arm replaces any armed timer.
// When it fires, the owner must call Engine.HandleTurnTimeout(seq) on
// the goroutine that owns the engine.
type TurnTimer interface {
	Arm(d time.Duration, seq uint64)
	Stop()
}

type noopTimer struct{}

func (noopTimer) Arm(time.Duration, uint64) {}
func (noopTimer) Stop()                     {}
