package domain

import (
	"iter"
	"slices"
)

// WinScore is the magnitude Evaluate reports for a decided board.
const WinScore = 10

// Move is a (row, col) placement. Its legality depends on the board it is applied to.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Win is the result of CheckWinner. Mark is Empty when nobody has completed a line.
type Win struct {
	Mark Mark
	Line Line
}

// HasWinner reports whether a line was completed.
func (w Win) HasWinner() bool {
	return w.Mark != Empty
}

// IsLegalMove reports whether (row, col) is on the board and unoccupied.
func IsLegalMove(b Board, row, col int) bool {
	return b.InBounds(row, col) && b.At(row, col) == Empty
}

// ApplyMove returns a new board with mark placed at (row, col).
// It returns a *MoveError wrapping ErrIllegalMove when the cell is off-board
// or occupied, or when mark is not a player mark. The input board is unchanged.
func ApplyMove(b Board, row, col int, mark Mark) (Board, error) {
	if !mark.IsPlayer() {
		return Board{}, illegalMove(row, col, mark, "no player mark")
	}
	if !b.InBounds(row, col) {
		return Board{}, illegalMove(row, col, mark, "out of bounds")
	}
	if b.At(row, col) != Empty {
		return Board{}, illegalMove(row, col, mark, "occupied")
	}
	return b.with(row, col, mark), nil
}

// AvailableMoves yields every empty cell in row-major order.
// Each range over the sequence rescans the board.
func AvailableMoves(b Board) iter.Seq[Move] {
	return func(yield func(Move) bool) {
		for r := 0; r < b.size; r++ {
			for c := 0; c < b.size; c++ {
				if b.cells[b.index(r, c)] != Empty {
					continue
				}
				if !yield(Move{Row: r, Col: c}) {
					return
				}
			}
		}
	}
}

// CountAvailable returns the number of empty cells.
func CountAvailable(b Board) int {
	count := 0
	for _, cell := range b.cells {
		if cell == Empty {
			count++
		}
	}
	return count
}

// IsBoardEmpty reports whether no mark has been placed yet.
func IsBoardEmpty(b Board) bool {
	return CountAvailable(b) == len(b.cells)
}

// CheckWinner scans lines in generation order and reports the first one filled
// by a single mark. Simultaneous completions are not distinguished.
func CheckWinner(b Board) Win {
	for _, line := range linesFor(b.size) {
		first := b.At(line[0].Row, line[0].Col)
		if first == Empty {
			continue
		}
		complete := true
		for _, coord := range line[1:] {
			if b.At(coord.Row, coord.Col) != first {
				complete = false
				break
			}
		}
		if complete {
			return Win{Mark: first, Line: slices.Clone(line)}
		}
	}
	return Win{}
}

// IsBoardFull reports whether no empty cell remains.
func IsBoardFull(b Board) bool {
	return CountAvailable(b) == 0
}

// IsGameOver reports whether the board has a winner or no moves left.
func IsGameOver(b Board) bool {
	return CheckWinner(b).HasWinner() || IsBoardFull(b)
}

// Evaluate scores a board from perspective's side: +WinScore if perspective
// has won, -WinScore if the opponent has, 0 for draws and unfinished games.
func Evaluate(b Board, perspective Mark) int {
	win := CheckWinner(b)
	switch {
	case !win.HasWinner():
		return 0
	case win.Mark == perspective:
		return WinScore
	default:
		return -WinScore
	}
}
