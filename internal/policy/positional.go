package policy

import (
	"context"

	"github.com/lox/reversi/internal/board"
	"github.com/lox/reversi/internal/rules"
)

// squareWeights rewards corners and edges and punishes the squares that
// hand a corner to the opponent
var squareWeights = [board.Size][board.Size]int{
	{100, -20, 10, 5, 5, 10, -20, 100},
	{-20, -50, -2, -2, -2, -2, -50, -20},
	{10, -2, 1, 1, 1, 1, -2, 10},
	{5, -2, 1, 0, 0, 1, -2, 5},
	{5, -2, 1, 0, 0, 1, -2, 5},
	{10, -2, 1, 1, 1, 1, -2, 10},
	{-20, -50, -2, -2, -2, -2, -50, -20},
	{100, -20, 10, 5, 5, 10, -20, 100},
}

// Positional scores each move by the weights of the squares it gains and
// plays the best one, falling back to row-major order on ties.
type Positional struct{}

func (Positional) Decide(ctx context.Context, dim int, cells []int) (board.Coord, error) {
	b, moves, err := position(dim, cells)
	if err != nil {
		return board.PassCoord, err
	}

	best := board.PassCoord
	bestScore := 0
	for i, m := range moves {
		score := squareWeights[m.Row][m.Col]
		for _, f := range rules.ComputeFlips(b, board.White, m.Row, m.Col) {
			// a flipped disc moves from the opponent's column to ours
			score += 2 * squareWeights[f.Row][f.Col]
		}
		if i == 0 || score > bestScore {
			best, bestScore = m, score
		}
	}
	return best, nil
}
