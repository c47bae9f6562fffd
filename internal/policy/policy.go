// Package policy holds the built-in decision policies for the computer
// player. Each one reads the board from the point of view of the side
// encoded as +1 and answers with a coordinate or board.PassCoord.
package policy

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lox/reversi/internal/agent"
	"github.com/lox/reversi/internal/board"
	"github.com/lox/reversi/internal/rules"
)

// ErrUnknown is returned by ByName for names with no built-in policy
var ErrUnknown = errors.New("unknown policy")

var registry = map[string]func(seed int64) agent.Policy{
	"greedy":     func(int64) agent.Policy { return Greedy{} },
	"minimax":    func(int64) agent.Policy { return Minimax{Depth: DefaultDepth} },
	"positional": func(int64) agent.Policy { return Positional{} },
	"random":     func(seed int64) agent.Policy { return NewRandom(seed) },
}

// ByName returns the built-in policy called name. seed only affects
// policies that make random choices.
func ByName(name string, seed int64) (agent.Policy, error) {
	mk, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknown, name, strings.Join(Names(), ", "))
	}
	return mk(seed), nil
}

// Names lists the built-in policies
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// position decodes cells with the deciding side as White and returns its
// legal moves
func position(dim int, cells []int) (board.Board, []board.Coord, error) {
	b, err := board.Decode(dim, cells, board.White)
	if err != nil {
		return b, nil, err
	}
	return b, rules.LegalMoves(b, board.White), nil
}
