package game

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/reversi/internal/agent"
	"github.com/lox/reversi/internal/board"
	"github.com/lox/reversi/internal/rules"
)

// Black is always the person at the keyboard and White the policy
const (
	Human    = board.Black
	Computer = board.White
)

// State is a read-only snapshot for renderers
type State struct {
	Board        board.Board
	Active       board.Player
	Phase        Phase
	Outcome      Outcome
	Black        int
	White        int
	HistoryDepth int
	// Thinking is set while a policy request is outstanding
	Thinking bool
	// Generation identifies that request; zero when idle
	Generation uint64
}

// Game is the single object a host drives. It is not safe for concurrent
// use: commands and policy responses must be fed to it from one goroutine.
type Game struct {
	board   board.Board
	active  board.Player
	phase   Phase
	outcome Outcome
	history History

	bridge  *agent.Bridge
	pending *agent.Pending

	logger   *log.Logger
	eventBus EventBus
}

// Option configures a Game
type Option func(*Game)

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(g *Game) { g.logger = logger }
}

// WithEventBus publishes game events to bus
func WithEventBus(bus EventBus) Option {
	return func(g *Game) { g.eventBus = bus }
}

// New creates a game in its initial position with Black to move
func New(bridge *agent.Bridge, opts ...Option) *Game {
	g := &Game{
		board:    board.New(),
		active:   Human,
		phase:    Playing,
		bridge:   bridge,
		logger:   log.New(io.Discard),
		eventBus: NewEventBus(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.WithPrefix("game")
	return g
}

// EventBus returns the bus events are published on
func (g *Game) EventBus() EventBus {
	return g.eventBus
}

// PlaceUserDisc plays the human move at (r, c). It does nothing and returns
// false unless the game is in progress, it is the human's turn and the move
// is legal.
func (g *Game) PlaceUserDisc(r, c int) bool {
	if g.phase != Playing || g.active != Human {
		g.logger.Debug("Ignoring placement out of turn", "row", r, "col", c, "phase", g.phase, "active", g.active)
		return false
	}
	flips := rules.ComputeFlips(g.board, Human, r, c)
	if len(flips) == 0 {
		g.logger.Debug("Ignoring illegal placement", "row", r, "col", c)
		return false
	}

	g.history.Push(g.board)
	g.place(Human, board.Coord{Row: r, Col: c}, flips)
	return true
}

// RollbackBoard restores the board from before the last human move and
// hands the turn back to the human. It returns false, changing nothing, when
// there is no history.
func (g *Game) RollbackBoard() bool {
	if g.history.Len() == 0 {
		return false
	}
	g.cancelDecision()

	prev, _ := g.history.Pop()
	g.board = prev
	g.active = Human
	g.phase = Playing
	g.outcome = NoOutcome

	g.logger.Info("Rolled back board", "remaining", g.history.Len())
	g.eventBus.Publish(NewRollbackEvent(g.history.Len()))
	return true
}

// ResetBoard starts a new game
func (g *Game) ResetBoard() {
	g.cancelDecision()

	g.board = board.New()
	g.active = Human
	g.phase = Playing
	g.outcome = NoOutcome
	g.history.Clear()

	g.logger.Info("Reset board")
	g.eventBus.Publish(NewResetEvent())
}

// Pending returns the outstanding policy request, or nil when the computer
// is not thinking. Hosts wait on its Done channel and hand the response to
// DeliverAgentResponse.
func (g *Game) Pending() *agent.Pending {
	return g.pending
}

// DeliverAgentResponse applies the computer's decision. Responses for a
// request that has since been cancelled or superseded are discarded and
// false is returned. A response that cannot be played is logged and
// replaced by a forced pass for the computer.
func (g *Game) DeliverAgentResponse(resp agent.Response) bool {
	if g.pending == nil || !g.bridge.Current(resp) {
		g.logger.Debug("Discarding stale decision", "generation", resp.Generation, "kind", resp.Kind)
		return false
	}
	g.pending = nil

	switch resp.Kind {
	case agent.Moved:
		flips := rules.ComputeFlips(g.board, Computer, resp.Move.Row, resp.Move.Col)
		if len(flips) == 0 {
			g.anomaly("illegal move "+resp.Move.String(), resp)
			g.forcePass(Computer)
			return true
		}
		g.place(Computer, resp.Move, flips)
	case agent.Passed:
		if rules.HasAnyLegalMove(g.board, Computer) {
			g.anomaly("passed with legal moves available", resp)
		}
		g.forcePass(Computer)
	case agent.TimedOut:
		g.anomaly("decision timed out", resp)
		g.forcePass(Computer)
	default:
		g.anomaly("decision failed", resp)
		g.forcePass(Computer)
	}
	return true
}

// State returns a snapshot of the observable state
func (g *Game) State() State {
	black, white := g.board.Count()
	var generation uint64
	if g.pending != nil {
		generation = g.pending.Generation()
	}
	return State{
		Board:        g.board,
		Active:       g.active,
		Phase:        g.phase,
		Outcome:      g.outcome,
		Black:        black,
		White:        white,
		HistoryDepth: g.history.Len(),
		Thinking:     g.pending != nil,
		Generation:   generation,
	}
}

// Board returns the current board
func (g *Game) Board() board.Board { return g.board }

// Active returns the player to move
func (g *Game) Active() board.Player { return g.active }

// Phase returns whether the game is still being played
func (g *Game) Phase() Phase { return g.phase }

// Outcome returns the result once the game has finished
func (g *Game) Outcome() Outcome { return g.outcome }

// CanRollback reports whether there is a human move to undo
func (g *Game) CanRollback() bool { return g.history.Len() > 0 }

func (g *Game) place(p board.Player, at board.Coord, flips []board.Coord) {
	g.board = g.board.WithPlacement(at.Row, at.Col, p, flips)
	g.logger.Debug("Placed disc", "player", p, "at", at, "flips", len(flips))
	g.eventBus.Publish(NewMoveEvent(p, at, flips, g.board))
	g.advance(p)
}

// forcePass gives up p's turn without a placement and applies the same
// turn rule as after a move.
func (g *Game) forcePass(p board.Player) {
	g.eventBus.Publish(NewPassEvent(p, true))
	g.advance(p)
}

func (g *Game) advance(mover board.Player) {
	turn := Advance(g.board, mover)
	g.phase = turn.Phase
	g.active = turn.Active
	g.outcome = turn.Outcome

	if turn.Passed {
		g.logger.Info("Player has no legal move", "player", mover.Opponent())
		g.eventBus.Publish(NewPassEvent(mover.Opponent(), false))
	}
	if turn.Phase == Finished {
		black, white := g.board.Count()
		g.logger.Info("Game finished", "outcome", turn.Outcome, "black", black, "white", white)
		g.eventBus.Publish(NewGameOverEvent(turn.Outcome, g.board))
		return
	}
	if g.active == Computer {
		g.pending = g.bridge.Request(g.board)
	}
}

func (g *Game) cancelDecision() {
	g.bridge.Cancel()
	g.pending = nil
}

func (g *Game) anomaly(reason string, resp agent.Response) {
	g.logger.Warn("Policy response rejected, forcing pass",
		"reason", reason,
		"kind", resp.Kind,
		"move", resp.Move,
		"error", resp.Err)
	g.eventBus.Publish(NewAnomalyEvent(reason, resp))
}
