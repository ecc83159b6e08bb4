package bot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tictactoe/internal/domain"
)

func TestAgent_PlaysItsMark(t *testing.T) {
	agent, err := NewAgent(DifficultyHard, domain.O)
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}
	if agent.ID != IdentityFor(DifficultyHard).UserID || agent.Name == "" {
		t.Fatalf("unexpected identity %+v", agent)
	}

	b := parseBoard(t, "XX.", "O..", "...")
	res := agent.Play(b)
	if res.Move != (domain.Move{Row: 0, Col: 2}) {
		t.Fatalf("agent as O should block (0,2), got %s", res)
	}
}

func TestNewAgent_Rejections(t *testing.T) {
	if _, err := NewAgent(DifficultyEasy, domain.Empty); err == nil {
		t.Fatal("expected error for Empty mark")
	}
	if _, err := NewAgent(Difficulty("nightmare"), domain.X); err == nil {
		t.Fatal("expected error for unknown difficulty")
	}
}

func TestIdentities(t *testing.T) {
	if !IsBot("bot-hard") || IsBot("human-1") {
		t.Fatal("IsBot mismatch for built-in identities")
	}

	path := filepath.Join(t.TempDir(), "bots.json")
	data := `[
		{"user_id": "bot-easy-2", "username": "sprout", "display_name": "Sprout", "difficulty": "Easy"},
		{"user_id": "", "display_name": "ignored", "difficulty": "hard"},
		{"user_id": "bot-x", "display_name": "ignored", "difficulty": "medium"}
	]`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := LoadIdentities(path); err != nil {
		t.Fatalf("LoadIdentities: %v", err)
	}

	if got := IdentityFor(DifficultyEasy); got.DisplayName != "Sprout" || got.Difficulty != DifficultyEasy {
		t.Fatalf("easy identity = %+v", got)
	}
	if got := IdentityFor(DifficultyHard); got.UserID != "bot-hard" {
		t.Fatalf("hard identity should keep the built-in profile, got %+v", got)
	}
	if IsBot("bot-x") {
		t.Fatal("identity with an unknown difficulty was loaded")
	}
}

func TestResult_String(t *testing.T) {
	res := Result{
		Move:     domain.Move{Row: 1, Col: 2},
		HasMove:  true,
		Score:    9,
		Nodes:    120,
		Strategy: StrategyMinimax,
		DepthCap: 2,
		Aborted:  true,
	}
	s := res.String()
	for _, want := range []string{"move=(1,2)", "score=9", "nodes=120", "strategy=minimax", "depth_cap=2", "aborted"} {
		if !strings.Contains(s, want) {
			t.Fatalf("String() = %q, missing %q", s, want)
		}
	}
	if none := (Result{Strategy: StrategyNone}).String(); !strings.HasPrefix(none, "no move") {
		t.Fatalf("String() = %q", none)
	}
}
