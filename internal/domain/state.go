package domain

import "time"

// Phase represents the lifecycle stage of a game.
type Phase string

const (
	// PhaseLobby is the state before the first game starts.
	PhaseLobby Phase = "lobby"
	// PhasePlaying is the state while moves are being made.
	PhasePlaying Phase = "playing"
	// PhaseEnded is the state after a win or a draw.
	PhaseEnded Phase = "ended"
)

// GameSettings are chosen by the human before a game starts.
type GameSettings struct {
	BoardSize   int    `json:"board_size"`
	Difficulty  string `json:"difficulty"`
	HumanMark   Mark   `json:"human_mark"`
	HumanStarts bool   `json:"human_starts"`
}

// Scoreboard tallies finished games from the human's point of view.
type Scoreboard struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

// SearchSummary keeps the diagnostics of the bot's most recent move.
type SearchSummary struct {
	Nodes    int
	Score    int
	Elapsed  time.Duration
	Strategy string
	Aborted  bool
}

// GameState is the mutable record of one human-versus-bot game.
// Board itself is immutable; every move replaces it.
type GameState struct {
	Settings    GameSettings
	Phase       Phase
	Board       Board
	ToMove      Mark
	Winner      Mark
	WinningLine Line
	MoveCount   int
	Scores      Scoreboard
	LastSearch  SearchSummary
}
