package bot

import (
	"fmt"
	"time"

	"tictactoe/internal/domain"
)

// Strategy names the routine that produced a Result.
type Strategy string

const (
	// StrategyNone means the board was finished or the searcher invalid.
	StrategyNone Strategy = "none"
	// StrategyRandom is the easy bot's pick.
	StrategyRandom Strategy = "random"
	// StrategyOpening is the hard bot's center move on an empty board.
	StrategyOpening Strategy = "opening"
	// StrategyMinimax is a full or depth-limited alpha-beta search.
	StrategyMinimax Strategy = "minimax"
	// StrategyHeuristic is the rule chain used on large boards and after an abort.
	StrategyHeuristic Strategy = "heuristic"
)

// Result is the decision made by the AI plus the diagnostics of how it was reached.
// HasMove is false when the board offers no move; that is not an error.
type Result struct {
	Move     domain.Move
	HasMove  bool
	Score    int
	Nodes    int
	Elapsed  time.Duration
	Strategy Strategy
	// Rule is the heuristic rule that fired, if any.
	Rule     string
	DepthCap int
	Aborted  bool
}

func (r Result) String() string {
	if !r.HasMove {
		return fmt.Sprintf("no move (strategy=%s nodes=%d elapsed=%s)", r.Strategy, r.Nodes, r.Elapsed)
	}
	s := fmt.Sprintf("move=(%d,%d) score=%d nodes=%d elapsed=%s strategy=%s",
		r.Move.Row, r.Move.Col, r.Score, r.Nodes, r.Elapsed, r.Strategy)
	if r.Rule != "" {
		s += " rule=" + r.Rule
	}
	if r.DepthCap > 0 {
		s += fmt.Sprintf(" depth_cap=%d", r.DepthCap)
	}
	if r.Aborted {
		s += " aborted"
	}
	return s
}

// Summary converts the diagnostics into the form kept on the game state.
func (r Result) Summary() domain.SearchSummary {
	return domain.SearchSummary{
		Nodes:    r.Nodes,
		Score:    r.Score,
		Elapsed:  r.Elapsed,
		Strategy: string(r.Strategy),
		Aborted:  r.Aborted,
	}
}

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	ChooseMove(board domain.Board, searcher domain.Mark) Result
}
