package internal

import "tictactoe/internal/domain"

// WinningMoves returns the empty cells that complete a line for mark, in row-major order.
// probes is the number of trial boards built.
func WinningMoves(b domain.Board, mark domain.Mark) (moves []domain.Move, probes int) {
	for m := range domain.AvailableMoves(b) {
		probes++
		if completesLine(b, m, mark) {
			moves = append(moves, m)
		}
	}
	return moves, probes
}

// BlockingMoves returns the cells where the opponent of mover would win if they played there.
func BlockingMoves(b domain.Board, mover domain.Mark) (moves []domain.Move, probes int) {
	return WinningMoves(b, mover.Opponent())
}

// StrategicMoves returns the cells that leave mover with at least two distinct
// winning follow-ups, i.e. forks the opponent cannot cover with one move.
func StrategicMoves(b domain.Board, mover domain.Mark) (moves []domain.Move, probes int) {
	for m := range domain.AvailableMoves(b) {
		next, err := domain.ApplyMove(b, m.Row, m.Col, mover)
		if err != nil {
			continue
		}
		probes++
		threats := 0
		for follow := range domain.AvailableMoves(next) {
			probes++
			if completesLine(next, follow, mover) {
				threats++
				if threats >= 2 {
					break
				}
			}
		}
		if threats >= 2 {
			moves = append(moves, m)
		}
	}
	return moves, probes
}

// FreeCenter returns the center cell if it is empty.
func FreeCenter(b domain.Board) (domain.Move, bool) {
	c := domain.Center(b.Size())
	return c, domain.IsLegalMove(b, c.Row, c.Col)
}

// FreeCorners returns the empty corners in top-left, top-right, bottom-left, bottom-right order.
func FreeCorners(b domain.Board) []domain.Move {
	var free []domain.Move
	for _, c := range domain.Corners(b.Size()) {
		if domain.IsLegalMove(b, c.Row, c.Col) {
			free = append(free, c)
		}
	}
	return free
}

func completesLine(b domain.Board, m domain.Move, mark domain.Mark) bool {
	next, err := domain.ApplyMove(b, m.Row, m.Col, mark)
	if err != nil {
		return false
	}
	win := domain.CheckWinner(next)
	return win.Mark == mark
}
