// Package game implements turn orchestration for a game of reversi between a
// human playing Black and a decision policy playing White.
//
// The main type is Game, which owns the board, the turn state and the undo
// history, and talks to the policy through an agent.Bridge.
//
// # Basic Usage
//
// Create a game and feed it commands and policy responses from one goroutine:
//
//	bridge := agent.NewBridge(policy.Greedy{})
//	g := game.New(bridge, game.WithLogger(logger))
//	g.PlaceUserDisc(3, 2)
//	if p := g.Pending(); p != nil {
//	    g.DeliverAgentResponse(<-p.Done())
//	}
//
// # Turns
//
// After every move the opponent plays if it has a legal move. Otherwise the
// mover plays again, and if neither side can move the game is over. The same
// rule runs when the computer is forced to pass because its policy failed.
//
// # Cancellation
//
// RollbackBoard and ResetBoard cancel any outstanding request before touching
// the board. A response that arrives afterwards carries an old generation and
// DeliverAgentResponse ignores it.
package game
