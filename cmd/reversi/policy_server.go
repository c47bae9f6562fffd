package main

import (
	"context"
	"time"

	"github.com/lox/reversi/cmd/reversi/shared"
	"github.com/lox/reversi/internal/config"
	"github.com/lox/reversi/internal/policy"
	"github.com/lox/reversi/internal/policy/remote"
)

// PolicyServerCmd serves a built-in policy for remote clients
type PolicyServerCmd struct {
	Config string `kong:"default='reversi.hcl',help='HCL config file (server block)'"`
	Addr   string `kong:"help='Listen address (overrides the config file)'"`
	Policy string `kong:"default='greedy',help='Policy to serve'"`
	Seed   int64  `kong:"default='0',help='Seed for policies that make random choices'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *PolicyServerCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	addr := cfg.Server.Addr()
	if c.Addr != "" {
		addr = c.Addr
	}

	logger := shared.SetupLogger(shared.LevelFor(c.Debug))
	p, err := policy.ByName(c.Policy, c.Seed)
	if err != nil {
		return err
	}

	srv := remote.NewServer(addr, p, logger)
	ctx := shared.SetupSignalHandler(logger)

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Start()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
