package domain

import (
	"fmt"
	"strings"
)

// Mark is the content of a single cell: empty or one of the two player symbols.
type Mark int8

const (
	// Empty marks an unoccupied cell.
	Empty Mark = iota
	// X is the first player's symbol.
	X
	// O is the second player's symbol.
	O
)

// Opponent returns the other player's mark. Empty has no opponent and returns Empty.
func (m Mark) Opponent() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// IsPlayer reports whether m is X or O.
func (m Mark) IsPlayer() bool {
	return m == X || m == O
}

func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return "."
	}
}

// MarshalText encodes X and O as their letters and Empty as an empty string.
func (m Mark) MarshalText() ([]byte, error) {
	if !m.IsPlayer() {
		return []byte{}, nil
	}
	return []byte(m.String()), nil
}

// UnmarshalText accepts the forms produced by ParseMark.
func (m *Mark) UnmarshalText(text []byte) error {
	parsed, err := ParseMark(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMark converts "X"/"O" (any case) to a player mark; "", ".", "_", "-" and " " are Empty.
func ParseMark(s string) (Mark, error) {
	switch strings.ToUpper(s) {
	case "X":
		return X, nil
	case "O":
		return O, nil
	case "", ".", "_", "-", " ":
		return Empty, nil
	default:
		return Empty, fmt.Errorf("%w: %q", ErrInvalidMark, s)
	}
}

// Board is a square grid of marks stored row-major.
// A Board is never modified after construction; ApplyMove returns a new one.
type Board struct {
	size  int
	cells []Mark
}

// NewBoard returns an empty size×size board.
func NewBoard(size int) (Board, error) {
	if size < 1 {
		return Board{}, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return Board{size: size, cells: make([]Mark, size*size)}, nil
}

// ParseBoard builds a board from text rows such as "XO.", one rune per cell.
// The number of rows sets the size and every row must have that many cells.
func ParseBoard(rows []string) (Board, error) {
	b, err := NewBoard(len(rows))
	if err != nil {
		return Board{}, err
	}
	for r, row := range rows {
		cells := []rune(row)
		if len(cells) != b.size {
			return Board{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidSize, r, len(cells), b.size)
		}
		for c, ch := range cells {
			mark, err := ParseMark(string(ch))
			if err != nil {
				return Board{}, fmt.Errorf("row %d col %d: %w", r, c, err)
			}
			b.cells[b.index(r, c)] = mark
		}
	}
	return b, nil
}

// Size returns the side length N.
func (b Board) Size() int {
	return b.size
}

// InBounds reports whether (row, col) lies on the board.
func (b Board) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < b.size && col < b.size
}

// At returns the mark at (row, col). Off-board coordinates read as Empty.
func (b Board) At(row, col int) Mark {
	if !b.InBounds(row, col) {
		return Empty
	}
	return b.cells[b.index(row, col)]
}

// Clone returns an independent copy of the board.
func (b Board) Clone() Board {
	clone := Board{size: b.size}
	clone.cells = make([]Mark, len(b.cells))
	copy(clone.cells, b.cells)
	return clone
}

// Rows renders each row as a string of X, O and '.' characters.
func (b Board) Rows() []string {
	rows := make([]string, b.size)
	var sb strings.Builder
	for r := 0; r < b.size; r++ {
		sb.Reset()
		for c := 0; c < b.size; c++ {
			sb.WriteString(b.cells[b.index(r, c)].String())
		}
		rows[r] = sb.String()
	}
	return rows
}

// String renders the board on one line with rows separated by '/'.
func (b Board) String() string {
	return strings.Join(b.Rows(), "/")
}

func (b Board) with(row, col int, mark Mark) Board {
	next := b.Clone()
	next.cells[next.index(row, col)] = mark
	return next
}

func (b Board) index(row, col int) int {
	return row*b.size + col
}
