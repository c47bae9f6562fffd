package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/reversi/internal/board"
	"github.com/lox/reversi/internal/randutil"
)

func TestComputeFlipsFromInitialLayout(t *testing.T) {
	b := board.New()

	tests := []struct {
		name   string
		player board.Player
		r, c   int
		flips  []board.Coord
	}{
		{"black west of centre", board.Black, 3, 2, []board.Coord{{Row: 3, Col: 3}}},
		{"black north of centre", board.Black, 2, 3, []board.Coord{{Row: 3, Col: 3}}},
		{"black east of centre", board.Black, 4, 5, []board.Coord{{Row: 4, Col: 4}}},
		{"black south of centre", board.Black, 5, 4, []board.Coord{{Row: 4, Col: 4}}},
		{"white north", board.White, 2, 4, []board.Coord{{Row: 3, Col: 4}}},
		{"corner is empty handed", board.Black, 0, 0, nil},
		{"adjacent to own disc only", board.Black, 2, 5, nil},
		{"occupied square", board.Black, 3, 3, nil},
		{"off the board", board.Black, -1, 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flips := ComputeFlips(b, tt.player, tt.r, tt.c)
			assert.ElementsMatch(t, tt.flips, flips)
			assert.Equal(t, len(tt.flips) > 0, IsLegalMove(b, tt.player, tt.r, tt.c))
		})
	}
}

func TestComputeFlipsMultipleDirections(t *testing.T) {
	b := board.MustParse(
		"B . B . B . . .",
		". W W W . . . .",
		"B W . W B . . .",
		". W W W . . . .",
		"B . B . W . . .",
		". . . . . . . .",
		". . . . . . . .",
		". . . . . . . .",
	)

	flips := ComputeFlips(b, board.Black, 2, 2)
	// (4,4) is white so the south-east diagonal run ends on an opponent disc
	// and contributes nothing.
	assert.ElementsMatch(t, []board.Coord{
		{Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 1, Col: 3},
		{Row: 2, Col: 1}, {Row: 2, Col: 3},
		{Row: 3, Col: 1}, {Row: 3, Col: 2},
	}, flips)
}

func TestComputeFlipsLongRun(t *testing.T) {
	b := board.MustParse(
		". W W W W W W B",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	)
	flips := ComputeFlips(b, board.Black, 0, 0)
	assert.Len(t, flips, 6)

	// A run that reaches the edge without an anchor flips nothing
	b[0][7] = board.WhiteDisc
	assert.Empty(t, ComputeFlips(b, board.Black, 0, 0))
}

func TestApplyMove(t *testing.T) {
	b := board.New()
	next := ApplyMove(b, board.Black, 3, 2)

	for _, c := range []board.Coord{{Row: 3, Col: 2}, {Row: 3, Col: 3}, {Row: 3, Col: 4}, {Row: 4, Col: 3}} {
		assert.Equal(t, board.BlackDisc, next.At(c.Row, c.Col), "square %s", c)
	}
	assert.Equal(t, board.WhiteDisc, next.At(4, 4))

	black, white := next.Count()
	assert.Equal(t, 4, black)
	assert.Equal(t, 1, white)

	// Input board is unchanged
	assert.Equal(t, board.New(), b)
}

func TestApplyMovePanicsOnIllegalMove(t *testing.T) {
	assert.Panics(t, func() { ApplyMove(board.New(), board.Black, 0, 0) })
	assert.Panics(t, func() { ApplyMove(board.New(), board.Black, 3, 3) })
}

func TestHasAnyLegalMove(t *testing.T) {
	t.Run("initial position", func(t *testing.T) {
		b := board.New()
		assert.True(t, HasAnyLegalMove(b, board.Black))
		assert.True(t, HasAnyLegalMove(b, board.White))
		assert.Equal(t, []board.Coord{
			{Row: 2, Col: 3}, {Row: 3, Col: 2}, {Row: 4, Col: 5}, {Row: 5, Col: 4},
		}, LegalMoves(b, board.Black))
	})

	t.Run("neither side can move", func(t *testing.T) {
		b := board.MustParse(
			". W W W W W W W",
			"W W B W W W W W",
			"W B W W W W W W",
			"W W W W W W W W",
			"W W W W W W W W",
			"W W W W W W W B",
			"W W W W W W W W",
			"W W W W W W W W",
		)
		assert.False(t, HasAnyLegalMove(b, board.Black))
		assert.False(t, HasAnyLegalMove(b, board.White))
		assert.Empty(t, LegalMoves(b, board.Black))
	})

	t.Run("only one side stuck", func(t *testing.T) {
		b := board.MustParse(
			"W B . . . . . .",
			"........",
			"........",
			"........",
			"........",
			"........",
			"........",
			"........",
		)
		assert.False(t, HasAnyLegalMove(b, board.Black))
		assert.True(t, HasAnyLegalMove(b, board.White))
		assert.Equal(t, []board.Coord{{Row: 0, Col: 2}}, LegalMoves(b, board.White))
	})
}

func TestRandomGamesKeepInvariants(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		rng := randutil.New(seed)
		b := board.New()
		p := board.Black

		for {
			moves := LegalMoves(b, p)
			if len(moves) == 0 {
				if !HasAnyLegalMove(b, p.Opponent()) {
					break
				}
				p = p.Opponent()
				continue
			}

			m := moves[rng.IntN(len(moves))]
			flips := ComputeFlips(b, p, m.Row, m.Col)
			require.NotEmpty(t, flips)

			next := ApplyMove(b, p, m.Row, m.Col)
			require.Equal(t, b.Discs()+1, next.Discs(), "seed %d: disc count must grow by one", seed)

			changed := 0
			for r := 0; r < board.Size; r++ {
				for c := 0; c < board.Size; c++ {
					if b[r][c] != board.Empty {
						require.NotEqual(t, board.Empty, next[r][c], "seed %d: a disc was removed", seed)
					}
					if b[r][c] != next[r][c] {
						changed++
					}
				}
			}
			require.Equal(t, len(flips)+1, changed, "seed %d: only the placement and flips may change", seed)

			b = next
			p = p.Opponent()
		}
	}
}
