package policy

import (
	"context"

	"github.com/lox/reversi/internal/board"
	"github.com/lox/reversi/internal/rules"
)

// DefaultDepth is the search depth used by the registry's minimax policy
const DefaultDepth = 4

// Minimax searches Depth plies ahead and maximises the final disc
// difference, assuming the opponent minimises it. A side with no move
// passes; a position where neither side can move is scored as it stands.
// Ties go to the largest coordinate, as with Greedy.
type Minimax struct {
	Depth int
}

func (m Minimax) Decide(ctx context.Context, dim int, cells []int) (board.Coord, error) {
	b, moves, err := position(dim, cells)
	if err != nil {
		return board.PassCoord, err
	}
	depth := m.Depth
	if depth <= 0 {
		depth = DefaultDepth
	}

	best, bestScore := board.PassCoord, 0
	for i, mv := range moves {
		next := rules.ApplyMove(b, board.White, mv.Row, mv.Col)
		score, err := minimax(ctx, next, board.Black, depth-1)
		if err != nil {
			return board.PassCoord, err
		}
		if i == 0 || score >= bestScore {
			best, bestScore = mv, score
		}
	}
	return best, nil
}

// minimax scores b for White with toMove about to play
func minimax(ctx context.Context, b board.Board, toMove board.Player, depth int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if depth <= 0 {
		return utility(b), nil
	}

	moves := rules.LegalMoves(b, toMove)
	if len(moves) == 0 {
		if !rules.HasAnyLegalMove(b, toMove.Opponent()) {
			return utility(b), nil
		}
		return minimax(ctx, b, toMove.Opponent(), depth-1)
	}

	var best int
	for i, mv := range moves {
		score, err := minimax(ctx, rules.ApplyMove(b, toMove, mv.Row, mv.Col), toMove.Opponent(), depth-1)
		if err != nil {
			return 0, err
		}
		switch {
		case i == 0:
			best = score
		case toMove == board.White && score > best:
			best = score
		case toMove == board.Black && score < best:
			best = score
		}
	}
	return best, nil
}

func utility(b board.Board) int {
	black, white := b.Count()
	return white - black
}
