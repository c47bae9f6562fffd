package policy

import (
	"context"

	"github.com/lox/reversi/internal/board"
	"github.com/lox/reversi/internal/rules"
)

// Greedy takes the move that flips the most discs. Ties go to the move
// furthest down the board, then furthest right.
type Greedy struct{}

func (Greedy) Decide(ctx context.Context, dim int, cells []int) (board.Coord, error) {
	b, moves, err := position(dim, cells)
	if err != nil {
		return board.PassCoord, err
	}

	best, bestFlips := board.PassCoord, 0
	for _, m := range moves {
		// moves are row-major, so >= keeps the largest coordinate on a tie
		if n := len(rules.ComputeFlips(b, board.White, m.Row, m.Col)); n >= bestFlips {
			best, bestFlips = m, n
		}
	}
	return best, nil
}
