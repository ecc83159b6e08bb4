package bot

import (
	"testing"

	"tictactoe/internal/domain"
)

// fullMinimax is plain minimax without pruning, scored the same way as the search.
func fullMinimax(b domain.Board, searcher domain.Mark, depth int, maximizing bool, nodes *int) int {
	*nodes++
	if win := domain.CheckWinner(b); win.HasWinner() {
		if win.Mark == searcher {
			return domain.WinScore - depth
		}
		return -domain.WinScore + depth
	}
	if domain.IsBoardFull(b) {
		return 0
	}

	mark := searcher
	if !maximizing {
		mark = searcher.Opponent()
	}
	var best int
	first := true
	for m := range domain.AvailableMoves(b) {
		child, _ := domain.ApplyMove(b, m.Row, m.Col, mark)
		score := fullMinimax(child, searcher, depth+1, !maximizing, nodes)
		if first || (maximizing && score > best) || (!maximizing && score < best) {
			best, first = score, false
		}
	}
	return best
}

func fullSearch(b domain.Board, searcher domain.Mark) (domain.Move, int, int) {
	var (
		best      domain.Move
		bestScore int
		nodes     int
		found     bool
	)
	for m := range domain.AvailableMoves(b) {
		child, _ := domain.ApplyMove(b, m.Row, m.Col, searcher)
		score := fullMinimax(child, searcher, 0, false, &nodes)
		if !found || score > bestScore {
			best, bestScore, found = m, score, true
		}
	}
	return best, bestScore, nodes
}

func TestHardBot_PrunesAgainstFullMinimax(t *testing.T) {
	tests := []struct {
		name      string
		rows      []string
		searcher  domain.Mark
		wantNodes int // 0 skips the exact count
	}{
		{name: "reply to a corner", rows: []string{"X..", "...", "..."}, searcher: domain.O, wantNodes: 2787},
		{name: "reply to an edge", rows: []string{".X.", "...", "..."}, searcher: domain.O},
		{name: "two marks each", rows: []string{"X.O", ".X.", "..O"}, searcher: domain.X},
		{name: "mid game", rows: []string{"X..", ".O.", "..."}, searcher: domain.X},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := parseBoard(t, tt.rows...)
			res := newHard(t).ChooseMove(b, tt.searcher)
			wantMove, wantScore, fullNodes := fullSearch(b, tt.searcher)

			if !res.HasMove || res.Move != wantMove || res.Score != wantScore {
				t.Fatalf("got %s, want move %+v score %d", res, wantMove, wantScore)
			}
			if res.Nodes > fullNodes {
				t.Fatalf("nodes = %d, more than the unpruned %d", res.Nodes, fullNodes)
			}
			if tt.wantNodes != 0 {
				if res.Nodes != tt.wantNodes {
					t.Fatalf("nodes = %d, want %d", res.Nodes, tt.wantNodes)
				}
				if res.Nodes*10 > fullNodes {
					t.Fatalf("nodes = %d, want under a tenth of the unpruned %d", res.Nodes, fullNodes)
				}
			}
		})
	}
}
