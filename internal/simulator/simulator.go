// Package simulator plays complete games without a terminal. The Black side
// is driven by a policy through the same commands a person would use, and
// the White side goes through the real agent bridge.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/reversi/internal/agent"
	"github.com/lox/reversi/internal/board"
	"github.com/lox/reversi/internal/game"
	"github.com/lox/reversi/internal/policy"
	"github.com/lox/reversi/internal/randutil"
	"github.com/lox/reversi/internal/rules"
	"github.com/lox/reversi/internal/statistics"
)

// ErrInvariant is wrapped by errors reporting a broken game invariant
var ErrInvariant = errors.New("game invariant violated")

// PolicyFactory builds a policy for one game. seed is derived from the run
// seed and the game's index.
type PolicyFactory func(seed int64) (agent.Policy, error)

// Named returns a factory for a built-in policy
func Named(name string) PolicyFactory {
	return func(seed int64) (agent.Policy, error) {
		return policy.ByName(name, seed)
	}
}

// Config holds configuration for running simulations
type Config struct {
	Games       int
	Concurrency int
	Seed        int64
	// Timeout bounds each game; zero means no limit
	Timeout time.Duration
	// DecisionTimeout is passed to each game's bridge
	DecisionTimeout time.Duration

	Human    PolicyFactory
	Computer PolicyFactory

	Logger *log.Logger
}

// Simulator runs batches of games
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Concurrency <= 0 {
		config.Concurrency = runtime.GOMAXPROCS(0)
	}
	if config.Human == nil {
		config.Human = Named("random")
	}
	if config.Computer == nil {
		config.Computer = Named("greedy")
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Simulator{config: config, logger: logger.WithPrefix("simulator")}
}

// Run plays every game and aggregates the results. The first failing game
// cancels the rest.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", s.config.Games)
	}

	results := make([]statistics.GameResult, s.config.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)

	for i := 0; i < s.config.Games; i++ {
		g.Go(func() error {
			result, err := s.playGameWithTimeout(ctx, i)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i+1, result.Seed, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, r := range results {
		stats.Add(r)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.logger.Info("Simulation finished",
		"games", stats.Games,
		"black", stats.BlackWins,
		"white", stats.WhiteWins,
		"draws", stats.Draws,
		"anomalies", stats.Anomalies)
	return stats, nil
}

func (s *Simulator) playGameWithTimeout(ctx context.Context, index int) (statistics.GameResult, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}
	return s.playGame(ctx, index)
}

// tally counts game events
type tally struct {
	moves     int
	passes    int
	anomalies int
}

func (t *tally) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.MoveEvent:
		t.moves++
	case game.PassEvent:
		if !e.Forced {
			t.passes++
		}
	case game.AnomalyEvent:
		t.anomalies++
	}
}

func (s *Simulator) playGame(ctx context.Context, index int) (statistics.GameResult, error) {
	seed := randutil.Derive(s.config.Seed, index)
	result := statistics.GameResult{Seed: seed}

	human, err := s.config.Human(seed)
	if err != nil {
		return result, fmt.Errorf("human policy: %w", err)
	}
	computer, err := s.config.Computer(seed + 1)
	if err != nil {
		return result, fmt.Errorf("computer policy: %w", err)
	}

	logger := s.logger.With("game", index+1)
	bridge := agent.NewBridge(computer,
		agent.WithMinDelay(0),
		agent.WithDecisionTimeout(s.config.DecisionTimeout),
		agent.WithLogger(logger))

	counts := &tally{}
	bus := game.NewEventBus()
	bus.Subscribe(counts)
	g := game.New(bridge, game.WithLogger(logger), game.WithEventBus(bus))

	for g.Phase() == game.Playing {
		before := g.Board().Discs()

		if p := g.Pending(); p != nil {
			select {
			case resp := <-p.Done():
				if !g.DeliverAgentResponse(resp) {
					return result, fmt.Errorf("%w: current response was rejected", ErrInvariant)
				}
			case <-ctx.Done():
				g.ResetBoard()
				return result, ctx.Err()
			}
		} else {
			if g.Active() != game.Human {
				return result, fmt.Errorf("%w: computer to move with no request outstanding", ErrInvariant)
			}
			move, err := human.Decide(ctx, board.Size, g.Board().Encode(game.Human))
			if err != nil {
				return result, fmt.Errorf("human policy: %w", err)
			}
			if !g.PlaceUserDisc(move.Row, move.Col) {
				return result, fmt.Errorf("human policy chose %s, which was rejected", move)
			}
		}

		if err := checkStep(before, g); err != nil {
			return result, err
		}
	}

	final := g.Board()
	if rules.HasAnyLegalMove(final, board.Black) || rules.HasAnyLegalMove(final, board.White) {
		return result, fmt.Errorf("%w: game finished with a legal move left", ErrInvariant)
	}
	if final.Discs() != 4+counts.moves {
		return result, fmt.Errorf("%w: %d discs after %d moves", ErrInvariant, final.Discs(), counts.moves)
	}

	result.Outcome = g.Outcome()
	result.Black, result.White = final.Count()
	result.Moves = counts.moves
	result.Passes = counts.passes
	result.Anomalies = counts.anomalies
	logger.Debug("Game finished", "outcome", result.Outcome, "black", result.Black, "white", result.White)
	return result, nil
}

// checkStep verifies a single command: it placed at most one disc, and it
// left the game either waiting for a human who can move, waiting for the
// computer, or finished.
func checkStep(before int, g *game.Game) error {
	after := g.Board().Discs()
	if after != before && after != before+1 {
		return fmt.Errorf("%w: disc count went from %d to %d", ErrInvariant, before, after)
	}
	if g.Phase() == game.Playing && g.Active() == game.Human && !rules.HasAnyLegalMove(g.Board(), game.Human) {
		return fmt.Errorf("%w: human to move without a legal move", ErrInvariant)
	}
	return nil
}

// PrintSummary writes a report of stats to w
func PrintSummary(w io.Writer, stats *statistics.Statistics, label string) {
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== RESULTS: %s ===\n", label)
	fmt.Fprintf(w, "Games played: %d\n", stats.Games)
	fmt.Fprintf(w, "Black wins: %d, White wins: %d, Draws: %d (Black score %.1f%%)\n",
		stats.BlackWins, stats.WhiteWins, stats.Draws, stats.WinRate()*100)

	fmt.Fprintf(w, "\n=== DISC MARGIN (Black - White) ===\n")
	fmt.Fprintf(w, "Mean: %.2f, Median: %.2f, Std Dev: %.2f\n", stats.Mean(), stats.Median(), stats.StdDev())
	fmt.Fprintf(w, "95%% CI: [%.2f, %.2f]\n", low, high)
	fmt.Fprintf(w, "Range: [%d, %d], P25=%.1f, P75=%.1f\n",
		stats.MinMargin, stats.MaxMargin, stats.Percentile(0.25), stats.Percentile(0.75))

	fmt.Fprintf(w, "\n=== PLAY ===\n")
	fmt.Fprintf(w, "Average final discs: %.1f\n", stats.AverageDiscs())
	fmt.Fprintf(w, "Moves: %d, Passes: %d, Policy anomalies: %d\n", stats.Moves, stats.Passes, stats.Anomalies)
}
