package board

import "fmt"

// Encode flattens the board in row-major order from the point of view of
// self: its own discs are +1, the opponent's -1 and empty squares 0. This is
// the input format of the decision policy.
func (b Board) Encode(self Player) []int {
	cells := make([]int, 0, Size*Size)
	for r := range b {
		for c := range b[r] {
			switch b[r][c] {
			case self.Disc():
				cells = append(cells, 1)
			case self.Opponent().Disc():
				cells = append(cells, -1)
			default:
				cells = append(cells, 0)
			}
		}
	}
	return cells
}

// Decode is the inverse of Encode
func Decode(dim int, cells []int, self Player) (Board, error) {
	var b Board
	if dim != Size {
		return b, fmt.Errorf("%w: unsupported dimension %d", ErrMalformed, dim)
	}
	if len(cells) != dim*dim {
		return b, fmt.Errorf("%w: expected %d cells, got %d", ErrMalformed, dim*dim, len(cells))
	}
	for i, v := range cells {
		r, c := i/dim, i%dim
		switch v {
		case 1:
			b[r][c] = self.Disc()
		case -1:
			b[r][c] = self.Opponent().Disc()
		case 0:
			b[r][c] = Empty
		default:
			return b, fmt.Errorf("%w: cell %d has value %d", ErrMalformed, i, v)
		}
	}
	return b, nil
}
