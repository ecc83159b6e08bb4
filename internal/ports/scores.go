package ports

import (
	"context"

	"tictactoe/internal/domain"
)

// ScorePort stores each player's running scoreboard against the bot.
type ScorePort interface {
	// CreateOnce writes an empty scoreboard for userID.
	// Returns created=false when a record already exists.
	CreateOnce(ctx context.Context, userID string) (bool, error)

	// Load returns the stored scoreboard, or a zero scoreboard if none exists.
	Load(ctx context.Context, userID string) (domain.Scoreboard, error)

	// Save replaces the stored scoreboard.
	Save(ctx context.Context, userID string, scores domain.Scoreboard) error
}
