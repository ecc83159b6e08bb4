package bot

import (
	"errors"
	"fmt"
	"strings"
)

// Difficulty selects the bot's strength.
type Difficulty string

const (
	DifficultyEasy Difficulty = "easy"
	DifficultyHard Difficulty = "hard"
)

var (
	// ErrUnknownDifficulty is returned for difficulty names other than easy and hard.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	// ErrNoSearcher is returned when the mark to move is Empty.
	ErrNoSearcher = errors.New("searcher must be X or O")
)

// ParseDifficulty accepts "easy" or "hard" in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyHard:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
}
