package nakama

const (
	// RpcQuickMatch creates a fresh single-player match and returns its id.
	RpcQuickMatch = "ttt_quick_match"
	// RpcChooseMove asks the bot for a move on a client-supplied board without a match.
	RpcChooseMove = "ttt_choose_move"
	// RpcScoreHistory returns the caller's stored scoreboard.
	RpcScoreHistory = "ttt_score_history"

	// MatchNameTicTacToe is the authoritative match handler name registered with Nakama.
	MatchNameTicTacToe = "tictactoe_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame int64 = 1
	OpPlayMove  int64 = 2

	// Server -> Client events
	OpMatchState  int64 = 100
	OpGameStarted int64 = 101
	OpMovePlayed  int64 = 102
	OpGameEnded   int64 = 103
	OpBotThinking int64 = 104
	OpGameError   int64 = 105
)

// Environment keys read from the Nakama runtime config.
const (
	envBotMinDelayTicks = "ttt_bot_min_delay_ticks"
	envBotMaxDelayTicks = "ttt_bot_max_delay_ticks"
)

const (
	gameConfigPath     = "data/game_config.json"
	botIdentitiesPath  = "data/bot_identities.json"
	labelGameTicTacToe = "tictactoe"
)
