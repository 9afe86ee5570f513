package minimax

import (
	"math"

	"github.com/Zarux/tictactoe/pkg/tictactoe"
)

// NoMove marks a result for a position that is already decided.
const NoMove = -1

type Result struct {
	Move  int
	Score int
	// Nodes is the number of positions visited; set on the top-level result.
	Nodes int
}

// Search runs an exhaustive minimax from toMove's perspective and returns the
// best move for toMove. Scores are from maximizing's point of view and scaled
// by the empty cell count plus one, so faster wins and slower losses score
// further from zero. Ties keep the lowest cell index.
//
// The board is mutated during the search and restored before Search returns.
func Search(b *tictactoe.Board, toMove, maximizing tictactoe.Mark) Result {
	var nodes int
	r := search(b, toMove, maximizing, &nodes)
	r.Nodes = nodes

	return r
}

func search(b *tictactoe.Board, toMove, maximizing tictactoe.Mark, nodes *int) Result {
	*nodes++

	other := toMove.Opponent()
	if b.Winner() == other {
		score := b.EmptyCellCount() + 1
		if other != maximizing {
			score = -score
		}

		return Result{Move: NoMove, Score: score}
	}

	if !b.HasEmptyCells() {
		return Result{Move: NoMove, Score: 0}
	}

	best := Result{Move: NoMove, Score: math.MaxInt}
	if toMove == maximizing {
		best.Score = math.MinInt
	}

	for _, cell := range b.AvailableMoves() {
		r := tryMove(b, cell, toMove, maximizing, nodes)
		r.Move = cell

		if toMove == maximizing {
			if r.Score > best.Score {
				best = r
			}
		} else if r.Score < best.Score {
			best = r
		}
	}

	return best
}

func tryMove(b *tictactoe.Board, cell int, toMove, maximizing tictactoe.Mark, nodes *int) Result {
	release, err := b.Try(cell, toMove)
	if err != nil {
		// AvailableMoves only yields empty cells.
		panic(err)
	}
	defer release()

	return search(b, toMove.Opponent(), maximizing, nodes)
}

// ScoreMoves searches every available move for toMove and returns the score
// of each, keyed by cell.
func ScoreMoves(b *tictactoe.Board, toMove tictactoe.Mark) map[int]int {
	scores := make(map[int]int)
	var nodes int
	for _, cell := range b.AvailableMoves() {
		scores[cell] = tryMove(b, cell, toMove, toMove, &nodes).Score
	}

	return scores
}
