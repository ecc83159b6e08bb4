package bot

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"tictactoe/internal/domain"
)

// Option customizes a brain built by NewBrain.
type Option func(*options)

type options struct {
	rng    *rand.Rand
	tuning Tuning
	now    func() time.Time
}

// WithRand makes the brain draw from r instead of a time-seeded source.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithTimeBudget overrides the hard-mode search budget.
func WithTimeBudget(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.tuning.TimeBudget = d
		}
	}
}

// WithClock replaces time.Now for elapsed-time measurement.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithEasyRandomRate overrides the chance that easy mode plays a uniformly random move.
func WithEasyRandomRate(rate float64) Option {
	return func(o *options) {
		if rate >= 0 && rate <= 1 {
			o.tuning.EasyRandomRate = rate
		}
	}
}

// NewBrain creates a new AI brain for the given difficulty.
func NewBrain(d Difficulty, opts ...Option) (Brain, error) {
	o := options{tuning: DefaultTuning, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	rng := &lockedRand{r: o.rng}

	switch d {
	case DifficultyEasy:
		return &EasyBot{rng: rng, randomRate: o.tuning.EasyRandomRate, now: o.now}, nil
	case DifficultyHard:
		return &HardBot{rng: rng, tuning: o.tuning, now: o.now}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDifficulty, d)
	}
}

// ChooseMove builds a fresh brain for difficulty and asks it for searcher's move.
func ChooseMove(board domain.Board, searcher domain.Mark, difficulty Difficulty, opts ...Option) (Result, error) {
	if !searcher.IsPlayer() {
		return Result{}, ErrNoSearcher
	}
	brain, err := NewBrain(difficulty, opts...)
	if err != nil {
		return Result{}, err
	}
	return brain.ChooseMove(board, searcher), nil
}

// lockedRand lets one brain be shared between goroutines.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) pick(moves []domain.Move) domain.Move {
	return moves[l.Intn(len(moves))]
}
