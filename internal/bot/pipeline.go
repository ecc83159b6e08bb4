package bot

import (
	botinternal "tictactoe/internal/bot/internal"
	"tictactoe/internal/domain"
)

// SelectionContext holds the state for the heuristic move selection pipeline.
type SelectionContext struct {
	Board  domain.Board
	Mover  domain.Mark
	Probes int

	Move     domain.Move
	Selected bool

	rng *lockedRand
}

func (ctx *SelectionContext) choose(m domain.Move) bool {
	ctx.Move = m
	ctx.Selected = true
	return true
}

// SelectionRule is one tier of the heuristic. Apply reports whether it picked a move;
// the pipeline stops at the first rule that does.
type SelectionRule interface {
	Name() string
	Apply(ctx *SelectionContext) bool
}

// DefaultRules is the heuristic in priority order.
var DefaultRules = []SelectionRule{
	OpeningRule{},
	ImmediateWinRule{},
	BlockRule{},
	StrategicRule{},
	CenterCornerRule{},
	RandomRule{},
}

// runPipeline applies rules in order and returns the name of the rule that fired.
func runPipeline(rules []SelectionRule, ctx *SelectionContext) string {
	for _, rule := range rules {
		if rule.Apply(ctx) {
			return rule.Name()
		}
	}
	return ""
}

// OpeningRule plays the center on an empty board.
type OpeningRule struct{}

func (OpeningRule) Name() string { return "opening" }

func (OpeningRule) Apply(ctx *SelectionContext) bool {
	if !domain.IsBoardEmpty(ctx.Board) {
		return false
	}
	return ctx.choose(domain.Center(ctx.Board.Size()))
}

// ImmediateWinRule completes a line for the mover.
type ImmediateWinRule struct{}

func (ImmediateWinRule) Name() string { return "win" }

func (ImmediateWinRule) Apply(ctx *SelectionContext) bool {
	moves, probes := botinternal.WinningMoves(ctx.Board, ctx.Mover)
	ctx.Probes += probes
	if len(moves) == 0 {
		return false
	}
	return ctx.choose(moves[0])
}

// BlockRule takes the cell the opponent would win on next turn.
type BlockRule struct{}

func (BlockRule) Name() string { return "block" }

func (BlockRule) Apply(ctx *SelectionContext) bool {
	moves, probes := botinternal.BlockingMoves(ctx.Board, ctx.Mover)
	ctx.Probes += probes
	if len(moves) == 0 {
		return false
	}
	return ctx.choose(moves[0])
}

// StrategicRule plays a random fork.
type StrategicRule struct{}

func (StrategicRule) Name() string { return "strategic" }

func (StrategicRule) Apply(ctx *SelectionContext) bool {
	moves, probes := botinternal.StrategicMoves(ctx.Board, ctx.Mover)
	ctx.Probes += probes
	if len(moves) == 0 {
		return false
	}
	return ctx.choose(ctx.rng.pick(moves))
}

// CenterCornerRule prefers the center, then a random free corner.
type CenterCornerRule struct{}

func (CenterCornerRule) Name() string { return "center-corner" }

func (CenterCornerRule) Apply(ctx *SelectionContext) bool {
	if center, ok := botinternal.FreeCenter(ctx.Board); ok {
		return ctx.choose(center)
	}
	if corners := botinternal.FreeCorners(ctx.Board); len(corners) > 0 {
		return ctx.choose(ctx.rng.pick(corners))
	}
	return false
}

// RandomRule plays any free cell.
type RandomRule struct{}

func (RandomRule) Name() string { return "random" }

func (RandomRule) Apply(ctx *SelectionContext) bool {
	var free []domain.Move
	for m := range domain.AvailableMoves(ctx.Board) {
		free = append(free, m)
	}
	if len(free) == 0 {
		return false
	}
	return ctx.choose(ctx.rng.pick(free))
}
