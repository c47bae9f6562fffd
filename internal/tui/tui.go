package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/reversi/internal/agent"
	"github.com/lox/reversi/internal/board"
	"github.com/lox/reversi/internal/game"
	"github.com/lox/reversi/internal/rules"
)

const (
	sidebarWidth = 30
	boardWidth   = 2*board.Size + 3
)

// agentMsg carries a policy response back onto the update loop
type agentMsg struct {
	resp agent.Response
}

// TUIModel is the Bubble Tea model for a game against the computer. It is
// the only goroutine that touches the game.
type TUIModel struct {
	game   *game.Game
	logger *log.Logger

	// UI components
	keys        keyMap
	help        help.Model
	logViewport viewport.Model

	// State
	gameLog   []string
	cursor    board.Coord
	showHints bool
	waiting   *agent.Pending // request a wait command has been issued for
	quitting  bool

	// Dimensions
	width  int
	height int
}

// NewTUIModel creates a model driving g. The model subscribes to g's events
// to fill its log pane.
func NewTUIModel(g *game.Game, logger *log.Logger) *TUIModel {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	m := &TUIModel{
		game:        g,
		logger:      logger.WithPrefix("tui"),
		keys:        defaultKeyMap(),
		help:        help.New(),
		logViewport: vp,
		gameLog:     []string{},
		cursor:      board.Coord{Row: 2, Col: 3},
		showHints:   true,
	}
	g.EventBus().Subscribe(m)
	return m
}

// OnEvent appends game events to the log pane
func (m *TUIModel) OnEvent(event game.GameEvent) {
	m.AddLogEntry(game.FormatEvent(event))
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return m.awaitComputer()
}

// awaitComputer returns a command that blocks until the outstanding request
// answers, or nil if there is nothing new to wait for. Every request
// delivers exactly one response, so the command always returns.
func (m *TUIModel) awaitComputer() tea.Cmd {
	p := m.game.Pending()
	if p == nil || p == m.waiting {
		return nil
	}
	m.waiting = p
	return func() tea.Msg {
		return agentMsg{resp: <-p.Done()}
	}
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case agentMsg:
		if !m.game.DeliverAgentResponse(msg.resp) {
			m.logger.Debug("Dropped stale response", "generation", msg.resp.Generation)
		}
		return m, m.awaitComputer()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

func (m *TUIModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1, 0)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.keys.Place):
		if !m.game.PlaceUserDisc(m.cursor.Row, m.cursor.Col) {
			m.logger.Debug("Placement rejected", "at", m.cursor)
		}
	case key.Matches(msg, m.keys.Undo):
		m.game.RollbackBoard()
	case key.Matches(msg, m.keys.Reset):
		m.game.ResetBoard()
		m.cursor = board.Coord{Row: 2, Col: 3}
	case key.Matches(msg, m.keys.Hints):
		m.showHints = !m.showHints
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
	case key.Matches(msg, m.keys.ScrollUp):
		m.logViewport.HalfPageUp()
	case key.Matches(msg, m.keys.ScrollDn):
		m.logViewport.HalfPageDown()
	}
	return m, m.awaitComputer()
}

func (m *TUIModel) moveCursor(dr, dc int) {
	r := (m.cursor.Row + dr + board.Size) % board.Size
	c := (m.cursor.Col + dc + board.Size) % board.Size
	m.cursor = board.Coord{Row: r, Col: c}
}

// resize fits the log viewport into the space left by the board and help
func (m *TUIModel) resize() {
	helpHeight := lipgloss.Height(m.help.View(m.keys))
	w := m.width - boardWidth - 6
	h := m.height - helpHeight - 4
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	m.logViewport.Width = w
	m.logViewport.Height = h
	m.logViewport.GotoBottom()
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.Render("Reversi"),
		"",
		m.renderBoard(),
		"",
		m.renderSidebar(),
	)
	leftPane := PaneStyle.Width(sidebarWidth).Render(left)
	logPane := PaneStyle.Render(m.logViewport.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, leftPane, logPane),
		m.help.View(m.keys),
	)
}

// Status is the one-line summary shown under the board
func (m *TUIModel) Status() string {
	return statusLine(m.game.State())
}

func statusLine(s game.State) string {
	if s.Phase == game.Finished {
		var verdict string
		switch s.Outcome {
		case game.BlackWins:
			verdict = "Win!"
		case game.WhiteWins:
			verdict = "Lose."
		default:
			verdict = "Draw."
		}
		return fmt.Sprintf("%s Black:%d White:%d", verdict, s.Black, s.White)
	}
	if s.Active == game.Computer {
		return "CPU thinking..."
	}
	return "Place your disc!"
}

func (m *TUIModel) renderBoard() string {
	s := m.game.State()
	hints := map[board.Coord]bool{}
	if m.showHints && s.Phase == game.Playing && s.Active == game.Human {
		for _, c := range rules.LegalMoves(s.Board, game.Human) {
			hints[c] = true
		}
	}

	var b strings.Builder
	b.WriteString("  ")
	for c := 0; c < board.Size; c++ {
		b.WriteString(LabelStyle.Render(fmt.Sprintf(" %c", 'a'+c)))
	}
	b.WriteString("\n")

	for r := 0; r < board.Size; r++ {
		b.WriteString(LabelStyle.Render(fmt.Sprintf("%2d", r+1)))
		for c := 0; c < board.Size; c++ {
			at := board.Coord{Row: r, Col: c}
			cell := m.renderSquare(s.Board.At(r, c), hints[at])
			if at == m.cursor {
				cell = CursorStyle.Render(" " + glyph(s.Board.At(r, c), hints[at]))
			}
			b.WriteString(cell)
		}
		b.WriteString(BoardStyle.Render(" "))
		if r < board.Size-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *TUIModel) renderSquare(sq board.Square, hint bool) string {
	g := " " + glyph(sq, hint)
	switch {
	case sq == board.BlackDisc:
		return BlackDiscStyle.Render(g)
	case sq == board.WhiteDisc:
		return WhiteDiscStyle.Render(g)
	case hint:
		return HintStyle.Render(g)
	default:
		return EmptyStyle.Render(g)
	}
}

func glyph(sq board.Square, hint bool) string {
	switch {
	case sq == board.BlackDisc:
		return "●"
	case sq == board.WhiteDisc:
		return "○"
	case hint:
		return "+"
	default:
		return "·"
	}
}

func (m *TUIModel) renderSidebar() string {
	s := m.game.State()
	var content strings.Builder

	content.WriteString(fmt.Sprintf("You (●) %2d   CPU (○) %2d\n", s.Black, s.White))

	status := m.Status()
	switch {
	case s.Phase == game.Finished && s.Outcome == game.BlackWins:
		content.WriteString(SuccessStyle.Render(status))
	case s.Phase == game.Finished && s.Outcome == game.WhiteWins:
		content.WriteString(ErrorStyle.Render(status))
	case s.Phase == game.Finished:
		content.WriteString(WarningStyle.Render(status))
	case s.Thinking:
		content.WriteString(InfoStyle.Render(status))
	default:
		content.WriteString(WarningStyle.Render(status))
	}
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render(fmt.Sprintf("Cursor %s  Undo %d", m.cursor, s.HistoryDepth)))
	return content.String()
}

// AddLogEntry adds an entry to the game log and scrolls to it
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(GameLogStyle.Render(strings.Join(m.gameLog, "\n")))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns the entries in the log pane
func (m *TUIModel) Log() []string {
	return m.gameLog
}
