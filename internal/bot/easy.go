package bot

import (
	"slices"
	"time"

	botinternal "tictactoe/internal/bot/internal"
	"tictactoe/internal/domain"
)

// EasyBot plays mostly at random with a mild preference for the center and corners.
type EasyBot struct {
	rng        *lockedRand
	randomRate float64
	now        func() time.Time
}

// ChooseMove picks a random move, or the center or a corner when it skips the random draw.
func (b *EasyBot) ChooseMove(board domain.Board, searcher domain.Mark) (res Result) {
	start := b.now()
	res = Result{Strategy: StrategyRandom, Nodes: 1}
	defer func() { res.Elapsed = b.now().Sub(start) }()

	if !searcher.IsPlayer() || domain.IsGameOver(board) {
		res.Strategy = StrategyNone
		return res
	}
	available := slices.Collect(domain.AvailableMoves(board))

	switch {
	case b.rng.Float64() < b.randomRate:
		res.Move = b.rng.pick(available)
	default:
		if center, ok := botinternal.FreeCenter(board); ok {
			res.Move = center
		} else if corners := botinternal.FreeCorners(board); len(corners) > 0 {
			res.Move = b.rng.pick(corners)
		} else {
			res.Move = b.rng.pick(available)
		}
	}
	res.HasMove = true
	return res
}
