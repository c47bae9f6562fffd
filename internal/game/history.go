package game

import "github.com/lox/reversi/internal/board"

// History is a last-in-first-out stack of boards taken just before each
// human move. Boards are values, so stored entries never change.
type History struct {
	entries []board.Board
}

// Push records the board as it was before a human move
func (h *History) Push(b board.Board) {
	h.entries = append(h.entries, b)
}

// Pop removes and returns the most recent entry. ok is false when the stack
// is empty.
func (h *History) Pop() (b board.Board, ok bool) {
	if len(h.entries) == 0 {
		return b, false
	}
	last := len(h.entries) - 1
	b = h.entries[last]
	h.entries = h.entries[:last]
	return b, true
}

// Clear drops every entry
func (h *History) Clear() {
	h.entries = nil
}

// Len returns the number of stored entries
func (h *History) Len() int {
	return len(h.entries)
}
