package bot

import "time"

// Tuning holds the knobs shared by all brains.
type Tuning struct {
	// EasyRandomRate is the chance that easy mode ignores the center/corner preference.
	EasyRandomRate float64
	// TimeBudget bounds one hard-mode search.
	TimeBudget time.Duration
	// CheckInterval is how many nodes are visited between clock reads.
	CheckInterval int
}

// DefaultTuning matches the shipped game feel. The easy rate and the
// first-line-wins rule in the domain are arbitrary tunables.
var DefaultTuning = Tuning{
	EasyRandomRate: 0.7,
	TimeBudget:     500 * time.Millisecond,
	CheckInterval:  100,
}
