package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/reversi/cmd/reversi/shared"
	"github.com/lox/reversi/internal/agent"
	"github.com/lox/reversi/internal/config"
	"github.com/lox/reversi/internal/game"
	"github.com/lox/reversi/internal/tui"
)

// PlayCmd runs the interactive game. Flags override the config file.
type PlayCmd struct {
	Config    string         `kong:"default='reversi.hcl',help='HCL config file (missing file uses defaults)'"`
	Policy    string         `kong:"help='Computer policy: greedy, minimax, positional, random or remote'"`
	RemoteURL string         `kong:"name='remote-url',help='Policy server URL for the remote policy'"`
	Seed      *int64         `kong:"help='Seed for policies that make random choices'"`
	MinDelay  *time.Duration `kong:"name='min-delay',help='Minimum time before the computer moves'"`
	Timeout   *time.Duration `kong:"help='Give up on a computer decision after this long (0 waits forever)'"`
	LogLevel  string         `kong:"name='log-level',help='Log level (debug, info, warn, error)'"`
	LogFile   string         `kong:"name='log-file',help='Log file (the terminal belongs to the game)'"`
	NoColor   bool           `kong:"name='no-color',help='Disable colours'"`
}

func (c *PlayCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	c.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if c.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	logger, closer, err := shared.SetupFileLogger(cfg.Log.File, cfg.Log.LogLevel())
	if err != nil {
		return err
	}
	defer closer.Close()

	p, err := shared.ResolvePolicy(cfg.Agent.Policy, cfg.Agent.RemoteURL, cfg.Agent.Seed, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting game",
		"policy", cfg.Agent.Policy,
		"min_delay", cfg.Agent.MinDelayDuration(),
		"decision_timeout", cfg.Agent.DecisionTimeoutDuration())

	bridge := agent.NewBridge(p,
		agent.WithMinDelay(cfg.Agent.MinDelayDuration()),
		agent.WithDecisionTimeout(cfg.Agent.DecisionTimeoutDuration()),
		agent.WithLogger(logger))
	g := game.New(bridge, game.WithLogger(logger))
	model := tui.NewTUIModel(g, logger)

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	return nil
}

func (c *PlayCmd) apply(cfg *config.Config) {
	if c.Policy != "" {
		cfg.Agent.Policy = c.Policy
	}
	if c.RemoteURL != "" {
		cfg.Agent.RemoteURL = c.RemoteURL
	}
	if c.Seed != nil {
		cfg.Agent.Seed = *c.Seed
	}
	if c.MinDelay != nil {
		cfg.Agent.MinDelay = c.MinDelay.String()
	}
	if c.Timeout != nil {
		cfg.Agent.DecisionTimeout = c.Timeout.String()
	}
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}
	if c.LogFile != "" {
		cfg.Log.File = c.LogFile
	}
}
