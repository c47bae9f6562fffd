package agent

import (
	"context"

	"github.com/lox/reversi/internal/board"
)

// Policy chooses a move for the side encoded as +1 in cells. cells holds dim*dim
// values in row-major order: +1 own disc, -1 opponent disc, 0 empty. A policy
// with no move returns board.PassCoord.
//
// Implementations should return promptly once ctx is cancelled; the bridge
// discards whatever they return after that point.
type Policy interface {
	Decide(ctx context.Context, dim int, cells []int) (board.Coord, error)
}

// PolicyFunc adapts a function to the Policy interface
type PolicyFunc func(ctx context.Context, dim int, cells []int) (board.Coord, error)

// Decide calls f
func (f PolicyFunc) Decide(ctx context.Context, dim int, cells []int) (board.Coord, error) {
	return f(ctx, dim, cells)
}
