package internal

import "fmt"

// SearchKind names how the hard strategy picks a move for a given position.
type SearchKind int

const (
	// SearchFull runs minimax to terminal positions.
	SearchFull SearchKind = iota
	// SearchDepthLimited runs minimax with a ply cap.
	SearchDepthLimited
	// SearchHeuristic skips minimax and uses the rule chain.
	SearchHeuristic
)

func (k SearchKind) String() string {
	switch k {
	case SearchFull:
		return "full"
	case SearchDepthLimited:
		return "depth-limited"
	case SearchHeuristic:
		return "heuristic"
	default:
		return fmt.Sprintf("SearchKind(%d)", int(k))
	}
}

// Plan is the outcome of the policy table. DepthCap is 0 when the search is unbounded.
type Plan struct {
	Kind     SearchKind
	DepthCap int
}

// Board sizes at which the policy changes.
const (
	fullSearchMaxSize   = 3
	mediumBoardSize     = 4
	largeSearchMaxSize  = 5
	mediumOpenThreshold = 8
)

// PlanFor picks the search plan from the board size and the number of empty cells.
func PlanFor(size, remaining int) Plan {
	switch {
	case size <= fullSearchMaxSize:
		return Plan{Kind: SearchFull}
	case size == mediumBoardSize:
		if remaining > mediumOpenThreshold {
			return Plan{Kind: SearchDepthLimited, DepthCap: 2}
		}
		return Plan{Kind: SearchDepthLimited, DepthCap: 3}
	case size <= largeSearchMaxSize:
		return Plan{Kind: SearchDepthLimited, DepthCap: 2}
	default:
		return Plan{Kind: SearchHeuristic}
	}
}
