package bot

import (
	"fmt"

	"tictactoe/internal/domain"
)

// Agent represents an autonomous bot player seated with a fixed mark.
type Agent struct {
	ID       string
	Name     string
	Mark     domain.Mark
	Strategy Brain
}

// NewAgent seats the identity configured for difficulty as mark.
func NewAgent(d Difficulty, mark domain.Mark, opts ...Option) (*Agent, error) {
	if !mark.IsPlayer() {
		return nil, fmt.Errorf("new agent: %w", ErrNoSearcher)
	}
	brain, err := NewBrain(d, opts...)
	if err != nil {
		return nil, err
	}
	identity := IdentityFor(d)
	return &Agent{ID: identity.UserID, Name: identity.DisplayName, Mark: mark, Strategy: brain}, nil
}

// Play asks the agent to choose its move on board.
func (a *Agent) Play(board domain.Board) Result {
	return a.Strategy.ChooseMove(board, a.Mark)
}
