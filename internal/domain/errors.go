package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for rule violations. Check them with errors.Is.
var (
	// ErrIllegalMove indicates a move onto an occupied or off-board cell.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidSize indicates a board size outside the accepted range.
	ErrInvalidSize = errors.New("invalid board size")

	// ErrInvalidMark indicates a mark that is not X, O or empty.
	ErrInvalidMark = errors.New("invalid mark")
)

// MoveError describes a rejected move. It unwraps to ErrIllegalMove.
type MoveError struct {
	Row    int
	Col    int
	Mark   Mark
	Reason string
	Err    error
}

// Error returns the coordinates, the mark and the reason the move was rejected.
func (e *MoveError) Error() string {
	return fmt.Sprintf("move (%d,%d) by %s: %v: %s", e.Row, e.Col, e.Mark, e.Err, e.Reason)
}

// Unwrap returns the underlying sentinel error.
func (e *MoveError) Unwrap() error {
	return e.Err
}

func illegalMove(row, col int, mark Mark, reason string) error {
	return &MoveError{Row: row, Col: col, Mark: mark, Reason: reason, Err: ErrIllegalMove}
}
