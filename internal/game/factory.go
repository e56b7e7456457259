package game

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Factory builds engines that share default settings, a logger and a
// seed stream. Safe for concurrent use.
type Factory struct {
	defaults Settings
	logger   *zap.Logger
	oracle   CardOracle

	mu   sync.Mutex
	seed *rand.Rand
}

func NewFactory(defaults Settings, logger *zap.Logger, seed int64) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{
		defaults: defaults.normalize(),
		logger:   logger,
		seed:     rand.New(rand.NewSource(seed)),
	}
}

// SetCardOracle makes every engine built afterwards consult o.
func (f *Factory) SetCardOracle(o CardOracle) {
	f.mu.Lock()
	f.oracle = o
	f.mu.Unlock()
}

func (f *Factory) Defaults() Settings { return f.defaults }

// CreateGame builds an engine. Fields left unset in settings (or a nil
// settings) take the factory defaults. Extra options are applied after the
// factory's own.
func (f *Factory) CreateGame(id, roomID string, settings *Settings, opts ...Option) *Engine {
	s := f.defaults
	if settings != nil {
		s = settings.withDefaults(f.defaults)
	}
	f.mu.Lock()
	rng := rand.New(rand.NewSource(f.seed.Int63()))
	oracle := f.oracle
	f.mu.Unlock()

	base := []Option{
		WithLogger(f.logger),
		WithRand(rng),
		WithCardOracle(oracle),
	}
	return NewEngine(id, roomID, s, append(base, opts...)...)
}
