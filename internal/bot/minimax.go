package bot

import (
	"math"
	"time"

	"tictactoe/internal/domain"
)

// searchContext carries the counters of one top-level search. It is created per
// call and never shared, so concurrent searches cannot disturb each other.
type searchContext struct {
	nodes    int
	start    time.Time
	budget   time.Duration
	interval int
	now      func() time.Time
	aborted  bool
}

func newSearchContext(start time.Time, tuning Tuning, now func() time.Time) *searchContext {
	interval := tuning.CheckInterval
	if interval < 1 {
		interval = 1
	}
	return &searchContext{start: start, budget: tuning.TimeBudget, interval: interval, now: now}
}

// enter counts a node and reads the clock every interval nodes.
// It reports false once the budget has run out.
func (sc *searchContext) enter() bool {
	sc.nodes++
	if !sc.aborted && sc.nodes%sc.interval == 0 && sc.now().Sub(sc.start) > sc.budget {
		sc.aborted = true
	}
	return !sc.aborted
}

// searchRoot scores every candidate move for searcher and keeps the first one with
// the highest score. On abort the partial candidate is returned and the
// interrupted subtree is ignored; found is false if no candidate completed.
func (sc *searchContext) searchRoot(b domain.Board, searcher domain.Mark, depthCap int) (best domain.Move, bestScore int, found bool) {
	alpha, beta := math.MinInt, math.MaxInt
	for m := range domain.AvailableMoves(b) {
		child, err := domain.ApplyMove(b, m.Row, m.Col, searcher)
		if err != nil {
			continue
		}
		score := sc.minimax(child, searcher, 0, false, alpha, beta, depthCap)
		if sc.aborted {
			break
		}
		if !found || score > bestScore {
			best, bestScore, found = m, score, true
		}
		alpha = max(alpha, bestScore)
	}
	return best, bestScore, found
}

// minimax scores b from searcher's side. depth counts plies below the root
// candidate; depthCap 0 searches to terminal positions.
func (sc *searchContext) minimax(b domain.Board, searcher domain.Mark, depth int, maximizing bool, alpha, beta, depthCap int) int {
	if !sc.enter() {
		return 0
	}
	if win := domain.CheckWinner(b); win.HasWinner() {
		if win.Mark == searcher {
			return domain.WinScore - depth
		}
		return -domain.WinScore + depth
	}
	if domain.IsBoardFull(b) {
		return 0
	}
	if depthCap > 0 && depth >= depthCap {
		return domain.Evaluate(b, searcher)
	}

	mark := searcher
	best := math.MinInt
	if !maximizing {
		mark = searcher.Opponent()
		best = math.MaxInt
	}
	for m := range domain.AvailableMoves(b) {
		child, err := domain.ApplyMove(b, m.Row, m.Col, mark)
		if err != nil {
			continue
		}
		score := sc.minimax(child, searcher, depth+1, !maximizing, alpha, beta, depthCap)
		if sc.aborted {
			return 0
		}
		if maximizing {
			best = max(best, score)
			alpha = max(alpha, best)
		} else {
			best = min(best, score)
			beta = min(beta, best)
		}
		if beta <= alpha {
			break
		}
	}
	return best
}
