package shared

import (
	"github.com/charmbracelet/log"

	"github.com/lox/reversi/internal/agent"
	"github.com/lox/reversi/internal/config"
	"github.com/lox/reversi/internal/policy"
	"github.com/lox/reversi/internal/policy/remote"
)

// ResolvePolicy returns the built-in policy called name, or a websocket
// client for remoteURL when name is "remote"
func ResolvePolicy(name, remoteURL string, seed int64, logger *log.Logger) (agent.Policy, error) {
	if name == config.RemotePolicy {
		logger.Info("Using remote policy", "url", remoteURL)
		return remote.NewClient(remoteURL, remote.WithClientLogger(logger)), nil
	}
	return policy.ByName(name, seed)
}
