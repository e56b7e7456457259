package game

import (
	"math/rand"
	"sync"
)

const DiceSides = 6

// Roller produces two die faces per call, each in 1..6.
type Roller interface {
	Roll() (int, int)
}

// RandomDice rolls with the engine's seeded source.
type RandomDice struct {
	rng *rand.Rand
}

func NewRandomDice(rng *rand.Rand) *RandomDice {
	return &RandomDice{rng: rng}
}

func (d *RandomDice) Roll() (int, int) {
	return d.rng.Intn(DiceSides) + 1, d.rng.Intn(DiceSides) + 1
}

// ScriptedDice replays a fixed list of rolls and then cycles through it.
// Used for demos and deterministic tests.
type ScriptedDice struct {
	mu    sync.Mutex
	rolls [][2]int
	next  int
}

func NewScriptedDice(rolls ...[2]int) *ScriptedDice {
	return &ScriptedDice{rolls: rolls}
}

// Push appends more rolls to the script.
func (d *ScriptedDice) Push(rolls ...[2]int) {
	d.mu.Lock()
	d.rolls = append(d.rolls, rolls...)
	d.mu.Unlock()
}

func (d *ScriptedDice) Roll() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.rolls) == 0 {
		return 1, 2
	}
	r := d.rolls[d.next%len(d.rolls)]
	d.next++
	return clampDie(r[0]), clampDie(r[1])
}

func clampDie(v int) int {
	if v < 1 {
		return 1
	}
	if v > DiceSides {
		return DiceSides
	}
	return v
}

func (e *Engine) rollDice() DiceResult {
	d1, d2 := e.dice.Roll()
	return DiceResult{
		Dice1:    d1,
		Dice2:    d2,
		Total:    d1 + d2,
		IsDouble: d1 == d2,
		RolledAt: e.now(),
	}
}
