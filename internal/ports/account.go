package ports

import "context"

// AccountPort updates the public profile of a player account.
type AccountPort interface {
	// SetDisplayName changes the name shown next to the player's board.
	// The username is left untouched.
	SetDisplayName(ctx context.Context, userID, displayName string) error
}
