package app

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"tictactoe/internal/bot"
	"tictactoe/internal/domain"
)

// Service contains the human-versus-bot use-cases operating on domain state.
type Service struct {
	rng     *rand.Rand
	botOpts []bot.Option
	mu      sync.Mutex
	brains  map[bot.Difficulty]bot.Brain
}

// NewService constructs a Service with provided rng or a time-seeded default.
// botOpts are applied to every brain the service creates.
func NewService(rng *rand.Rand, botOpts ...bot.Option) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		rng:     rng,
		botOpts: botOpts,
		brains:  make(map[bot.Difficulty]bot.Brain),
	}
}

var (
	ErrNotPlaying      = errors.New("game not in playing phase")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrInvalidSettings = errors.New("invalid game settings")
	ErrBotHasNoMove    = errors.New("bot found no move on a live board")
)

// StartGame creates a fresh game. previous carries the scoreboard over from
// earlier games and may be nil.
func (s *Service) StartGame(settings domain.GameSettings, previous *domain.Scoreboard) (*domain.GameState, []Event, error) {
	if err := domain.ValidateSize(settings.BoardSize); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	difficulty, err := bot.ParseDifficulty(settings.Difficulty)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	settings.Difficulty = string(difficulty)
	if settings.HumanMark == domain.Empty {
		settings.HumanMark = domain.X
	}
	if !settings.HumanMark.IsPlayer() {
		return nil, nil, fmt.Errorf("%w: human mark %v", ErrInvalidSettings, settings.HumanMark)
	}

	board, err := domain.NewBoard(settings.BoardSize)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	state := &domain.GameState{
		Settings: settings,
		Phase:    domain.PhasePlaying,
		Board:    board,
	}
	if previous != nil {
		state.Scores = *previous
	}
	state.ToMove = state.BotMark()
	if settings.HumanStarts {
		state.ToMove = settings.HumanMark
	}

	return state, []Event{{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			Settings: settings,
			BotMark:  state.BotMark(),
			ToMove:   state.ToMove,
		},
	}}, nil
}

// PlayHumanMove applies the human's move and emits resulting events.
func (s *Service) PlayHumanMove(state *domain.GameState, row, col int) ([]Event, error) {
	if state.Phase != domain.PhasePlaying {
		return nil, ErrNotPlaying
	}
	if !state.IsHumanTurn() {
		return nil, ErrNotYourTurn
	}

	mark := state.Settings.HumanMark
	ended, err := state.Place(row, col, mark)
	if err != nil {
		return nil, err
	}
	return s.moveEvents(state, mark, domain.Move{Row: row, Col: col}, nil, ended), nil
}

// PlayBotMove asks the bot for its move, applies it and emits resulting events.
func (s *Service) PlayBotMove(state *domain.GameState) ([]Event, error) {
	if state.Phase != domain.PhasePlaying {
		return nil, ErrNotPlaying
	}
	if !state.IsBotTurn() {
		return nil, ErrNotYourTurn
	}

	brain, err := s.brainFor(bot.Difficulty(state.Settings.Difficulty))
	if err != nil {
		return nil, err
	}
	mark := state.BotMark()
	res := brain.ChooseMove(state.Board, mark)
	summary := res.Summary()
	state.LastSearch = summary
	if !res.HasMove {
		return nil, ErrBotHasNoMove
	}

	ended, err := state.Place(res.Move.Row, res.Move.Col, mark)
	if err != nil {
		return nil, fmt.Errorf("bot move rejected: %w", err)
	}
	return s.moveEvents(state, mark, res.Move, &summary, ended), nil
}

// NextToMoveIsBot reports whether the game is waiting on the bot.
func (s *Service) NextToMoveIsBot(state *domain.GameState) bool {
	return state != nil && state.IsBotTurn()
}

func (s *Service) moveEvents(state *domain.GameState, mark domain.Mark, move domain.Move, search *domain.SearchSummary, ended bool) []Event {
	events := []Event{{
		Kind: EventMovePlayed,
		Payload: MovePlayedPayload{
			Mark:       mark,
			Move:       move,
			ByBot:      search != nil,
			NextToMove: state.ToMove,
			Search:     search,
		},
	}}
	if ended {
		events = append(events, Event{
			Kind: EventGameEnded,
			Payload: GameEndedPayload{
				Winner:      state.Winner,
				WinningLine: state.WinningLine,
				Scores:      state.Scores,
			},
		})
	}
	return events
}

// brainFor returns the cached brain for d, seeding new ones from the service rng.
func (s *Service) brainFor(d bot.Difficulty) (bot.Brain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if brain, ok := s.brains[d]; ok {
		return brain, nil
	}
	opts := append([]bot.Option{bot.WithRand(rand.New(rand.NewSource(s.rng.Int63())))}, s.botOpts...)
	brain, err := bot.NewBrain(d, opts...)
	if err != nil {
		return nil, err
	}
	s.brains[d] = brain
	return brain, nil
}
