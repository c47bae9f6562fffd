package game

import (
	"github.com/lox/reversi/internal/board"
	"github.com/lox/reversi/internal/rules"
)

// Phase is the coarse state of the game
type Phase int

const (
	Playing Phase = iota
	Finished
)

func (p Phase) String() string {
	switch p {
	case Playing:
		return "playing"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Outcome is the result of a finished game
type Outcome int

const (
	NoOutcome Outcome = iota
	BlackWins
	WhiteWins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case BlackWins:
		return "black wins"
	case WhiteWins:
		return "white wins"
	case Draw:
		return "draw"
	default:
		return "none"
	}
}

// OutcomeOf compares the disc counts of a final position
func OutcomeOf(b board.Board) Outcome {
	black, white := b.Count()
	switch {
	case black > white:
		return BlackWins
	case white > black:
		return WhiteWins
	default:
		return Draw
	}
}

// Turn is the result of advancing play after a move
type Turn struct {
	Phase   Phase
	Active  board.Player
	Outcome Outcome
	// Passed is set when the opponent of the mover had no legal move and
	// the mover keeps the turn.
	Passed bool
}

// Advance decides who plays next once mover has finished its turn on b.
// The opponent moves if it can; otherwise the mover goes again if it can;
// otherwise the game is over. The rule is the same for both colours.
func Advance(b board.Board, mover board.Player) Turn {
	next := mover.Opponent()
	if rules.HasAnyLegalMove(b, next) {
		return Turn{Phase: Playing, Active: next}
	}
	if rules.HasAnyLegalMove(b, mover) {
		return Turn{Phase: Playing, Active: mover, Passed: true}
	}
	return Turn{Phase: Finished, Active: next, Outcome: OutcomeOf(b)}
}
