package domain

import "sync"

// Coord is a (row, col) position on the board.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Line is an ordered set of N coordinates that wins when one mark fills all of them.
type Line []Coord

// lineCache maps board size to its generated lines. Entries are never mutated.
var lineCache sync.Map

// GenerateLines returns the 2N+2 winnable lines of an N×N board in the order
// rows, columns, main diagonal, anti-diagonal. Sizes below 1 have no lines.
// The result is a copy the caller may modify.
func GenerateLines(size int) []Line {
	cached := linesFor(size)
	if cached == nil {
		return nil
	}
	out := make([]Line, len(cached))
	for i, line := range cached {
		out[i] = append(Line(nil), line...)
	}
	return out
}

// linesFor returns the shared, read-only lines for size, building them on first use.
func linesFor(size int) []Line {
	if size < 1 {
		return nil
	}
	if cached, ok := lineCache.Load(size); ok {
		return cached.([]Line)
	}
	actual, _ := lineCache.LoadOrStore(size, buildLines(size))
	return actual.([]Line)
}

func buildLines(size int) []Line {
	lines := make([]Line, 0, 2*size+2)
	for r := 0; r < size; r++ {
		line := make(Line, size)
		for c := 0; c < size; c++ {
			line[c] = Coord{Row: r, Col: c}
		}
		lines = append(lines, line)
	}
	for c := 0; c < size; c++ {
		line := make(Line, size)
		for r := 0; r < size; r++ {
			line[r] = Coord{Row: r, Col: c}
		}
		lines = append(lines, line)
	}
	diagonal := make(Line, size)
	anti := make(Line, size)
	for i := 0; i < size; i++ {
		diagonal[i] = Coord{Row: i, Col: i}
		anti[i] = Coord{Row: i, Col: size - 1 - i}
	}
	return append(lines, diagonal, anti)
}
