package domain

import "fmt"

// Supported board sizes for a playable game. The rules themselves accept any size >= 1.
const (
	MinBoardSize = 3
	MaxBoardSize = 10
)

// ValidateSize returns ErrInvalidSize unless size is within [MinBoardSize, MaxBoardSize].
func ValidateSize(size int) error {
	if size < MinBoardSize || size > MaxBoardSize {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidSize, size, MinBoardSize, MaxBoardSize)
	}
	return nil
}

// Center returns the center cell. For even sizes this is the lower-right of the four middle cells.
func Center(size int) Move {
	return Move{Row: size / 2, Col: size / 2}
}

// Corners returns the distinct corner cells: top-left, top-right, bottom-left, bottom-right.
func Corners(size int) []Move {
	if size < 1 {
		return nil
	}
	last := size - 1
	candidates := []Move{{0, 0}, {0, last}, {last, 0}, {last, last}}
	out := make([]Move, 0, len(candidates))
	for _, m := range candidates {
		duplicate := false
		for _, seen := range out {
			if seen == m {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, m)
		}
	}
	return out
}
