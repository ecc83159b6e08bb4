package domain

// BotMark returns the mark played by the bot.
func (s *GameState) BotMark() Mark {
	return s.Settings.HumanMark.Opponent()
}

// IsHumanTurn reports whether the game is running and the human is to move.
func (s *GameState) IsHumanTurn() bool {
	return s.Phase == PhasePlaying && s.ToMove == s.Settings.HumanMark
}

// IsBotTurn reports whether the game is running and the bot is to move.
func (s *GameState) IsBotTurn() bool {
	return s.Phase == PhasePlaying && s.ToMove == s.BotMark()
}

// Place applies mark at (row, col), advances the turn and closes the game
// when the board becomes terminal. It reports whether the game ended.
func (s *GameState) Place(row, col int, mark Mark) (bool, error) {
	next, err := ApplyMove(s.Board, row, col, mark)
	if err != nil {
		return false, err
	}
	s.Board = next
	s.MoveCount++
	s.ToMove = mark.Opponent()

	win := CheckWinner(next)
	if !win.HasWinner() && !IsBoardFull(next) {
		return false, nil
	}
	s.Phase = PhaseEnded
	s.Winner = win.Mark
	s.WinningLine = win.Line
	s.Scores.Record(win.Mark, s.Settings.HumanMark)
	return true, nil
}

// Record adds one finished game. winner is Empty for a draw.
func (sb *Scoreboard) Record(winner, human Mark) {
	switch winner {
	case Empty:
		sb.Draws++
	case human:
		sb.Wins++
	default:
		sb.Losses++
	}
}

// Played returns the number of finished games.
func (sb Scoreboard) Played() int {
	return sb.Wins + sb.Losses + sb.Draws
}
