package policy

import (
	"context"
	rand "math/rand/v2"
	"sync"

	"github.com/lox/reversi/internal/board"
	"github.com/lox/reversi/internal/randutil"
)

// Random plays a uniformly chosen legal move. It is safe for concurrent use.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates a Random policy with a reproducible sequence
func NewRandom(seed int64) *Random {
	return &Random{rng: randutil.New(seed)}
}

func (r *Random) Decide(ctx context.Context, dim int, cells []int) (board.Coord, error) {
	_, moves, err := position(dim, cells)
	if err != nil {
		return board.PassCoord, err
	}
	if len(moves) == 0 {
		return board.PassCoord, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return moves[r.rng.IntN(len(moves))], nil
}
