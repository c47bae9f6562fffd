package main

import (
	"reflect"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/reversi/internal/policy"
)

func newParser(t *testing.T, cli *CLI) *kong.Kong {
	t.Helper()
	parser, err := kong.New(cli, kong.Name("reversi"), kong.Vars{"version": "test"})
	require.NoError(t, err)
	return parser
}

func TestPolicyHelpListsEveryPolicy(t *testing.T) {
	for _, cmd := range []any{PlayCmd{}, SimulateCmd{}} {
		field, ok := reflect.TypeOf(cmd).FieldByName("Policy")
		require.True(t, ok)
		tag := field.Tag.Get("kong")
		for _, name := range policy.Names() {
			assert.Contains(t, tag, name, "%T --policy help", cmd)
		}
	}
}

func TestParseCommands(t *testing.T) {
	t.Run("play is the default", func(t *testing.T) {
		var cli CLI
		ctx, err := newParser(t, &cli).Parse([]string{"--policy", "Minimax"})
		require.NoError(t, err)
		assert.Equal(t, "play", ctx.Command())
		assert.Equal(t, "Minimax", cli.Play.Policy)
		assert.Equal(t, "reversi.hcl", cli.Play.Config)
	})

	t.Run("simulate", func(t *testing.T) {
		var cli CLI
		ctx, err := newParser(t, &cli).Parse([]string{"simulate", "--games", "3", "--policy", "minimax"})
		require.NoError(t, err)
		assert.Equal(t, "simulate", ctx.Command())
		assert.Equal(t, 3, cli.Simulate.Games)
		assert.Equal(t, "minimax", cli.Simulate.Policy)
		assert.Equal(t, "random", cli.Simulate.HumanPolicy)
	})

	t.Run("policy-server", func(t *testing.T) {
		var cli CLI
		ctx, err := newParser(t, &cli).Parse([]string{"policy-server", "--addr", "localhost:9999"})
		require.NoError(t, err)
		assert.Equal(t, "policy-server", ctx.Command())
		assert.Equal(t, "localhost:9999", cli.PolicyServer.Addr)
	})
}
