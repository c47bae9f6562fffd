// Package rules implements move legality and disc flipping.
//
// All functions are pure: they read a board.Board value and never modify it.
// ApplyMove is the only constructor of successor positions and requires the
// caller to have checked IsLegalMove first.
package rules

import (
	"fmt"

	"github.com/lox/reversi/internal/board"
)

// directions are the eight compass steps as (dRow, dCol)
var directions = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// ComputeFlips returns the opponent discs that p would flip by placing at
// (r, c). The result is empty when the square is occupied or off the board,
// or when no direction ends in one of p's discs after a run of at least one
// opponent disc.
func ComputeFlips(b board.Board, p board.Player, r, c int) []board.Coord {
	if !board.InBounds(r, c) || b[r][c] != board.Empty {
		return nil
	}

	own, opp := p.Disc(), p.Opponent().Disc()
	var flips []board.Coord
	for _, d := range directions {
		run := 0
		nr, nc := r+d[0], c+d[1]
		for board.InBounds(nr, nc) && b[nr][nc] == opp {
			run++
			nr, nc = nr+d[0], nc+d[1]
		}
		if run == 0 || !board.InBounds(nr, nc) || b[nr][nc] != own {
			continue
		}
		for i := 1; i <= run; i++ {
			flips = append(flips, board.Coord{Row: r + i*d[0], Col: c + i*d[1]})
		}
	}
	return flips
}

// IsLegalMove reports whether placing at (r, c) flips at least one disc
func IsLegalMove(b board.Board, p board.Player, r, c int) bool {
	return len(ComputeFlips(b, p, r, c)) > 0
}

// HasAnyLegalMove reports whether p has at least one legal placement
func HasAnyLegalMove(b board.Board, p board.Player) bool {
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			if IsLegalMove(b, p, r, c) {
				return true
			}
		}
	}
	return false
}

// LegalMoves returns every legal placement for p in row-major order
func LegalMoves(b board.Board, p board.Player) []board.Coord {
	var moves []board.Coord
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			if IsLegalMove(b, p, r, c) {
				moves = append(moves, board.Coord{Row: r, Col: c})
			}
		}
	}
	return moves
}

// ApplyMove places p at (r, c) and flips the captured discs. Calling it with
// an illegal move is a programmer error and panics.
func ApplyMove(b board.Board, p board.Player, r, c int) board.Board {
	flips := ComputeFlips(b, p, r, c)
	if len(flips) == 0 {
		panic(fmt.Sprintf("rules: illegal move %s for %s", board.Coord{Row: r, Col: c}, p))
	}
	return b.WithPlacement(r, c, p, flips)
}
