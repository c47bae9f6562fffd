package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lox/reversi/cmd/reversi/shared"
	"github.com/lox/reversi/internal/agent"
	"github.com/lox/reversi/internal/config"
	"github.com/lox/reversi/internal/policy/remote"
	"github.com/lox/reversi/internal/simulator"
)

// SimulateCmd plays policies against each other through the game facade
type SimulateCmd struct {
	Games           int           `kong:"default='100',help='Number of games to play'"`
	Concurrency     int           `kong:"default='0',help='Games played at once (0 uses GOMAXPROCS)'"`
	HumanPolicy     string        `kong:"name='human-policy',default='random',help='Policy playing Black'"`
	Policy          string        `kong:"default='greedy',help='Policy playing White (greedy, minimax, positional, random or remote)'"`
	RemoteURL       string        `kong:"name='remote-url',default='ws://localhost:8090/policy',help='Policy server URL for the remote policy'"`
	Seed            *int64        `kong:"help='Deterministic seed (optional)'"`
	Timeout         time.Duration `kong:"default='30s',help='Per-game timeout'"`
	DecisionTimeout time.Duration `kong:"name='decision-timeout',default='0s',help='Per-decision timeout for White (0 waits forever)'"`
	Output          string        `kong:"short='o',help='Also write a JSON report to this file'"`
	Debug           bool          `kong:"help='Enable debug logging'"`
}

func (c *SimulateCmd) Run() error {
	logger := shared.SetupLogger(shared.LevelFor(c.Debug))
	ctx := shared.SetupSignalHandler(logger)

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	logger.Info("Starting simulation", "games", c.Games, "black", c.HumanPolicy, "white", c.Policy, "seed", seed)

	computer := simulator.Named(c.Policy)
	if strings.EqualFold(c.Policy, config.RemotePolicy) {
		computer = func(int64) (agent.Policy, error) {
			return remote.NewClient(c.RemoteURL, remote.WithClientLogger(logger)), nil
		}
	}

	sim := simulator.New(simulator.Config{
		Games:           c.Games,
		Concurrency:     c.Concurrency,
		Seed:            seed,
		Timeout:         c.Timeout,
		DecisionTimeout: c.DecisionTimeout,
		Human:           simulator.Named(c.HumanPolicy),
		Computer:        computer,
		Logger:          logger,
	})

	start := time.Now()
	stats, err := sim.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	label := fmt.Sprintf("%s (Black) vs %s (White)", c.HumanPolicy, c.Policy)
	simulator.PrintSummary(os.Stdout, stats, label)
	fmt.Printf("\nSeed: %d, elapsed: %s\n", seed, time.Since(start).Round(time.Millisecond))

	if c.Output != "" {
		if err := simulator.WriteReport(c.Output, simulator.NewReport(stats, label, seed)); err != nil {
			return err
		}
		logger.Info("Wrote report", "path", c.Output)
	}
	return nil
}
