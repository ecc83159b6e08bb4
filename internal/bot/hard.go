package bot

import (
	"time"

	botinternal "tictactoe/internal/bot/internal"
	"tictactoe/internal/domain"
)

// HardBot searches with minimax and alpha-beta on small boards and falls back
// to the heuristic pipeline on large ones or when the time budget runs out.
type HardBot struct {
	rng    *lockedRand
	tuning Tuning
	now    func() time.Time
}

// ChooseMove searches, or applies the rule chain, according to the board size.
func (b *HardBot) ChooseMove(board domain.Board, searcher domain.Mark) (res Result) {
	start := b.now()
	defer func() { res.Elapsed = b.now().Sub(start) }()

	if !searcher.IsPlayer() || domain.IsGameOver(board) {
		return Result{Strategy: StrategyNone}
	}
	if domain.IsBoardEmpty(board) {
		ctx := b.selection(board, searcher)
		rule := runPipeline([]SelectionRule{OpeningRule{}}, ctx)
		return Result{Move: ctx.Move, HasMove: true, Strategy: StrategyOpening, Rule: rule}
	}

	plan := botinternal.PlanFor(board.Size(), domain.CountAvailable(board))
	if plan.Kind == botinternal.SearchHeuristic {
		return b.heuristic(board, searcher)
	}

	sc := newSearchContext(start, b.tuning, b.now)
	move, score, found := sc.searchRoot(board, searcher, plan.DepthCap)
	if !found {
		fallback := b.heuristic(board, searcher)
		fallback.Nodes += sc.nodes
		fallback.DepthCap = plan.DepthCap
		fallback.Aborted = sc.aborted
		return fallback
	}
	return Result{
		Move:     move,
		HasMove:  true,
		Score:    score,
		Nodes:    sc.nodes,
		Strategy: StrategyMinimax,
		DepthCap: plan.DepthCap,
		Aborted:  sc.aborted,
	}
}

func (b *HardBot) heuristic(board domain.Board, mover domain.Mark) Result {
	ctx := b.selection(board, mover)
	rule := runPipeline(DefaultRules, ctx)
	return Result{
		Move:     ctx.Move,
		HasMove:  ctx.Selected,
		Nodes:    ctx.Probes,
		Strategy: StrategyHeuristic,
		Rule:     rule,
	}
}

func (b *HardBot) selection(board domain.Board, mover domain.Mark) *SelectionContext {
	return &SelectionContext{Board: board, Mover: mover, rng: b.rng}
}
