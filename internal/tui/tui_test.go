package tui

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/reversi/internal/agent"
	"github.com/lox/reversi/internal/board"
	"github.com/lox/reversi/internal/game"
	"github.com/lox/reversi/internal/policy"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newModel(t *testing.T, p agent.Policy) (*TUIModel, *game.Game) {
	t.Helper()
	bridge := agent.NewBridge(p, agent.WithMinDelay(0), agent.WithLogger(quietLogger()))
	g := game.New(bridge, game.WithLogger(quietLogger()))
	m := NewTUIModel(g, quietLogger())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, g
}

func press(m *TUIModel, k tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(k)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runCmd runs a wait command with a deadline
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()
	select {
	case msg := <-out:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("command did not return")
		return nil
	}
}

func TestViewBeforeAndAfterSizing(t *testing.T) {
	g := game.New(agent.NewBridge(policy.Greedy{}), game.WithLogger(quietLogger()))
	m := NewTUIModel(g, quietLogger())
	assert.Equal(t, "Loading...", m.View())
	assert.Nil(t, m.Init())

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := m.View()
	assert.Contains(t, view, "Reversi")
	assert.Contains(t, view, "Place your disc!")
	assert.Contains(t, view, "new game")
}

func TestCursorWraps(t *testing.T) {
	m, _ := newModel(t, policy.Greedy{})
	require.Equal(t, board.Coord{Row: 2, Col: 3}, m.cursor)

	press(m, tea.KeyMsg{Type: tea.KeyUp})
	press(m, runes("k"))
	press(m, runes("k"))
	assert.Equal(t, board.Coord{Row: 7, Col: 3}, m.cursor)

	for i := 0; i < 5; i++ {
		press(m, runes("l"))
	}
	assert.Equal(t, board.Coord{Row: 7, Col: 0}, m.cursor)

	press(m, tea.KeyMsg{Type: tea.KeyDown})
	press(m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, board.Coord{Row: 0, Col: 7}, m.cursor)
}

func TestPlaceAndComputerReply(t *testing.T) {
	m, g := newModel(t, policy.Greedy{})

	// The cursor starts on d3, a legal opening move
	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "CPU thinking...", m.Status())
	assert.Equal(t, 5, g.Board().Discs())

	msg := runCmd(t, cmd)
	_, cmd = m.Update(msg)
	assert.Nil(t, cmd)
	assert.Equal(t, "Place your disc!", m.Status())
	assert.Equal(t, 6, g.Board().Discs())

	entries := m.Log()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[0], "You: d3")
	assert.Contains(t, entries[1], "CPU:")
}

func TestIllegalPlacementIsIgnored(t *testing.T) {
	m, g := newModel(t, policy.Greedy{})

	press(m, runes("k")) // d2 flips nothing
	cmd := press(m, runes(" "))
	assert.Nil(t, cmd)
	assert.Equal(t, board.New(), g.Board())
	assert.Empty(t, m.Log())
}

func TestUndoWhileThinkingDropsLateReply(t *testing.T) {
	release := make(chan struct{})
	slow := agent.PolicyFunc(func(ctx context.Context, dim int, cells []int) (board.Coord, error) {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return policy.Greedy{}.Decide(context.Background(), dim, cells)
	})
	m, g := newModel(t, slow)

	wait := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, wait)
	assert.Nil(t, press(m, runes("u")))
	close(release)

	_, cmd := m.Update(runCmd(t, wait))
	assert.Nil(t, cmd)
	assert.Equal(t, board.New(), g.Board())
	assert.Equal(t, "Place your disc!", m.Status())
}

func TestResetRestoresCursor(t *testing.T) {
	m, g := newModel(t, policy.Greedy{})

	wait := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(runCmd(t, wait))
	press(m, runes("j"))

	press(m, runes("r"))
	assert.Equal(t, board.New(), g.Board())
	assert.Equal(t, board.Coord{Row: 2, Col: 3}, m.cursor)
	assert.Contains(t, m.Log()[len(m.Log())-1], "New game")
}

func TestToggles(t *testing.T) {
	m, _ := newModel(t, policy.Greedy{})

	press(m, runes("?"))
	assert.True(t, m.help.ShowAll)
	press(m, runes("t"))
	assert.False(t, m.showHints)
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t, policy.Greedy{})

	cmd := press(m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name  string
		state game.State
		want  string
	}{
		{"human turn", game.State{Phase: game.Playing, Active: game.Human}, "Place your disc!"},
		{"computer turn", game.State{Phase: game.Playing, Active: game.Computer, Thinking: true}, "CPU thinking..."},
		{"win", game.State{Phase: game.Finished, Outcome: game.BlackWins, Black: 40, White: 24}, "Win! Black:40 White:24"},
		{"loss", game.State{Phase: game.Finished, Outcome: game.WhiteWins, Black: 20, White: 44}, "Lose. Black:20 White:44"},
		{"draw", game.State{Phase: game.Finished, Outcome: game.Draw, Black: 32, White: 32}, "Draw. Black:32 White:32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusLine(tt.state))
		})
	}
}
