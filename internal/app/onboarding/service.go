package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"tictactoe/internal/ports"
)

// Result captures non-fatal onboarding outcomes.
type Result struct {
	// ProfileUpdateErr is set when the profile update failed but onboarding continued.
	ProfileUpdateErr error
	// ScoresCreated is false when the user already had a score record.
	ScoresCreated bool
	DisplayName   string
}

// Service handles post-auth onboarding for new users.
type Service struct {
	accounts ports.AccountPort
	scores   ports.ScorePort
	rng      *rand.Rand
}

// NewService constructs an onboarding service with required ports.
// accounts/scores must be non-nil; rng may be nil to use a time-seeded default.
func NewService(accounts ports.AccountPort, scores ports.ScorePort, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		accounts: accounts,
		scores:   scores,
		rng:      rng,
	}
}

// OnboardNewUser gives a new account a friendly display name and an empty scoreboard.
// The name is best effort; failing to create the scoreboard is returned as an error.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil || s.scores == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	result := Result{DisplayName: s.generateFriendlyName()}
	if err := s.accounts.SetDisplayName(ctx, userID, result.DisplayName); err != nil {
		result.ProfileUpdateErr = err
	}

	created, err := s.scores.CreateOnce(ctx, userID)
	if err != nil {
		return result, fmt.Errorf("failed to create scoreboard: %w", err)
	}
	result.ScoresCreated = created
	return result, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Happy", "Shiny", "Brave", "Clever", "Swift", "Calm", "Mighty", "Witty", "Sly", "Wild"}
	nouns := []string{"Cross", "Nought", "Corner", "Diagonal", "Fork", "Block", "Grid", "Square", "Line", "Center"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
