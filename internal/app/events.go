package app

import (
	"tictactoe/internal/domain"
)

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventGameStarted EventKind = "game_started"
	EventMovePlayed  EventKind = "move_played"
	EventGameEnded   EventKind = "game_ended"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type GameStartedPayload struct {
	Settings domain.GameSettings
	BotMark  domain.Mark
	ToMove   domain.Mark
}

type MovePlayedPayload struct {
	Mark       domain.Mark
	Move       domain.Move
	ByBot      bool
	NextToMove domain.Mark
	// Search is set for bot moves only.
	Search *domain.SearchSummary
}

type GameEndedPayload struct {
	Winner      domain.Mark
	WinningLine domain.Line
	Scores      domain.Scoreboard
}
