package board

import (
	"errors"
	"fmt"
	"strings"
)

// Size is the fixed board dimension.
const Size = 8

// Square represents the contents of one cell
type Square uint8

const (
	Empty Square = iota
	BlackDisc
	WhiteDisc
)

// String returns the single-character representation of a square
func (s Square) String() string {
	switch s {
	case BlackDisc:
		return "B"
	case WhiteDisc:
		return "W"
	default:
		return "."
	}
}

// Owner returns the player whose disc occupies the square
func (s Square) Owner() (Player, bool) {
	switch s {
	case BlackDisc:
		return Black, true
	case WhiteDisc:
		return White, true
	default:
		return 0, false
	}
}

// Player is one of the two disc colours
type Player uint8

const (
	Black = Player(BlackDisc)
	White = Player(WhiteDisc)
)

// String returns the colour name
func (p Player) String() string {
	switch p {
	case Black:
		return "Black"
	case White:
		return "White"
	default:
		return "Unknown"
	}
}

// Disc returns the square value for a disc of this colour
func (p Player) Disc() Square {
	return Square(p)
}

// Opponent returns the other colour
func (p Player) Opponent() Player {
	if p == Black {
		return White
	}
	return Black
}

// Coord addresses a square by row and column, 0-indexed
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// PassCoord is the coordinate a policy returns when it has no move.
var PassCoord = Coord{Row: -1, Col: -1}

// IsPass reports whether c is the no-move coordinate
func (c Coord) IsPass() bool {
	return c == PassCoord
}

func (c Coord) String() string {
	if c.IsPass() {
		return "pass"
	}
	return fmt.Sprintf("%c%d", 'a'+c.Col, c.Row+1)
}

// InBounds reports whether (r, c) lies on the board
func InBounds(r, c int) bool {
	return r >= 0 && r < Size && c >= 0 && c < Size
}

// Board is an immutable-by-convention grid. Being an array, it is copied on
// assignment, so every transition yields an independent value.
type Board [Size][Size]Square

// New returns the starting position: the falling diagonal of the centre is
// White and the rising diagonal Black.
func New() Board {
	var b Board
	h := Size / 2
	b[h-1][h-1] = WhiteDisc
	b[h-1][h] = BlackDisc
	b[h][h-1] = BlackDisc
	b[h][h] = WhiteDisc
	return b
}

// At returns the square at (r, c). Out-of-range coordinates panic.
func (b Board) At(r, c int) Square {
	if !InBounds(r, c) {
		panic(fmt.Sprintf("board: coordinate (%d,%d) out of range", r, c))
	}
	return b[r][c]
}

// WithPlacement returns a new board with p placed at (r, c) and every
// coordinate in flips turned to p. Callers must have validated the move:
// an occupied target, an out-of-range coordinate or a flip of a square that
// is not an opponent disc panics.
func (b Board) WithPlacement(r, c int, p Player, flips []Coord) Board {
	if b.At(r, c) != Empty {
		panic(fmt.Sprintf("board: placement on occupied square (%d,%d)", r, c))
	}
	next := b
	next[r][c] = p.Disc()
	for _, f := range flips {
		if next.At(f.Row, f.Col) != p.Opponent().Disc() {
			panic(fmt.Sprintf("board: flip of %s square %s by %s", next[f.Row][f.Col], f, p))
		}
		next[f.Row][f.Col] = p.Disc()
	}
	return next
}

// Count returns the number of black and white discs
func (b Board) Count() (black, white int) {
	for r := range b {
		for c := range b[r] {
			switch b[r][c] {
			case BlackDisc:
				black++
			case WhiteDisc:
				white++
			}
		}
	}
	return black, white
}

// Discs returns the total number of discs on the board
func (b Board) Discs() int {
	black, white := b.Count()
	return black + white
}

// String renders the board one row per line using ".", "B" and "W"
func (b Board) String() string {
	var sb strings.Builder
	for r := range b {
		for c := range b[r] {
			sb.WriteString(b[r][c].String())
		}
		if r < Size-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// ErrMalformed is returned when a textual or encoded board cannot be read
var ErrMalformed = errors.New("malformed board")

// Parse builds a board from Size rows of ".", "B" and "W". Spaces are ignored
// so fixtures can be laid out as a grid.
func Parse(rows ...string) (Board, error) {
	var b Board
	if len(rows) != Size {
		return b, fmt.Errorf("%w: expected %d rows, got %d", ErrMalformed, Size, len(rows))
	}
	for r, row := range rows {
		row = strings.ReplaceAll(row, " ", "")
		if len(row) != Size {
			return b, fmt.Errorf("%w: row %d has %d squares", ErrMalformed, r, len(row))
		}
		for c, ch := range row {
			switch ch {
			case '.':
				b[r][c] = Empty
			case 'B':
				b[r][c] = BlackDisc
			case 'W':
				b[r][c] = WhiteDisc
			default:
				return b, fmt.Errorf("%w: unexpected %q at row %d col %d", ErrMalformed, ch, r, c)
			}
		}
	}
	return b, nil
}

// MustParse is Parse for fixtures that are known to be valid
func MustParse(rows ...string) Board {
	b, err := Parse(rows...)
	if err != nil {
		panic(err)
	}
	return b
}
