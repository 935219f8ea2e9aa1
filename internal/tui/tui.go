// Package tui is the terminal table for a blackjack session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/session"
)

const (
	minLogHeight = 3
	defaultWidth = 60
)

// stateChangedMsg is sent when the session reports a change.
type stateChangedMsg struct{}

// sessionClosedMsg is sent once the session's change channel is closed.
type sessionClosedMsg struct{}

// Model is the Bubble Tea model for the blackjack table
type Model struct {
	session *session.Session
	changes <-chan struct{}
	logger  *log.Logger

	keys        keyMap
	help        help.Model
	logViewport viewport.Model

	state    session.State
	width    int
	height   int
	quitting bool
}

// New creates a table model driving sess
func New(sess *session.Session, logger *log.Logger) *Model {
	state := sess.State()
	m := &Model{
		session:     sess,
		changes:     sess.Subscribe(),
		logger:      logger.WithPrefix("tui"),
		keys:        newKeyMap(state.ChipValues),
		help:        help.New(),
		logViewport: viewport.New(defaultWidth, minLogHeight),
	}
	m.refresh(state)
	return m
}

// Run shows the table until the user quits or ctx is cancelled
func Run(ctx context.Context, sess *session.Session, logger *log.Logger) error {
	p := tea.NewProgram(New(sess, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return m.listenForChanges()
}

// listenForChanges returns a command that waits for the next session change
func (m *Model) listenForChanges() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-m.changes; !ok {
			return sessionClosedMsg{}
		}
		return stateChangedMsg{}
	}
}

// State returns the state the model last rendered from
func (m *Model) State() session.State {
	return m.state
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateChangedMsg:
		m.refresh(m.session.State())
		return m, m.listenForChanges()

	case sessionClosedMsg:
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.command("clear", m.session.ClearBet)
	case key.Matches(msg, m.keys.Deal):
		m.command("deal", m.session.Deal)
	case key.Matches(msg, m.keys.Hit):
		m.command("hit", m.session.Hit)
	case key.Matches(msg, m.keys.Stand):
		m.command("stand", m.session.Stand)
	default:
		for i, b := range m.keys.Chips {
			if key.Matches(msg, b) {
				value := m.state.ChipValues[i]
				m.command("chip", func() error { return m.session.PlaceChip(value) })
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// command runs a session command. Rejections are shown through the
// session's status message, so they are only logged here.
func (m *Model) command(name string, fn func() error) {
	if err := fn(); err != nil {
		m.logger.Debug("Command rejected", "command", name, "error", err)
	}
	m.refresh(m.session.State())
}

func (m *Model) refresh(state session.State) {
	m.state = state
	m.keys.enableFor(state.Phase == game.Betting && !state.Broke, state.Phase == game.PlayerTurn)
	m.logViewport.SetContent(strings.Join(state.Log, "\n"))
	m.logViewport.GotoBottom()
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	if width == 0 {
		width = defaultWidth
	}

	table := lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.Render(fmt.Sprintf("Blackjack  Round %d", m.state.Round)),
		"",
		m.renderDealer(),
		"",
		m.renderPlayer(),
		"",
		MessageStyle.Render(m.state.Message),
		m.renderBankroll(),
	)
	helpView := m.help.View(m.keys)

	logHeight := minLogHeight
	if m.height > 0 {
		logHeight = max(minLogHeight, m.height-lipgloss.Height(table)-lipgloss.Height(helpView)-2)
	}
	m.logViewport.Width = max(1, width-2)
	m.logViewport.Height = logHeight
	logPane := LogPaneStyle.Width(max(1, width-2)).Render(m.logViewport.View())

	return lipgloss.JoinVertical(lipgloss.Left, table, logPane, helpView)
}

func (m *Model) renderDealer() string {
	title := "Dealer"
	cards := renderCards(m.state.DealerCards)
	sum := fmt.Sprint(m.state.DealerSum)
	if m.state.DealerConcealed {
		cards = lipgloss.JoinHorizontal(lipgloss.Top, cards, HiddenCardStyle.Render("?"))
		sum = "?"
	}
	if len(m.state.DealerCards) == 0 {
		sum = "-"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		AreaTitleStyle.Render(fmt.Sprintf("%s: %s", title, sum)), cards)
}

func (m *Model) renderPlayer() string {
	sum := "-"
	if len(m.state.PlayerCards) > 0 {
		sum = fmt.Sprint(m.state.PlayerSum)
		if m.state.PlayerSoft {
			sum = "soft " + sum
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		AreaTitleStyle.Render("Player: "+sum), renderCards(m.state.PlayerCards))
}

func (m *Model) renderBankroll() string {
	line := fmt.Sprintf("Bet: $%d  Balance: $%d", m.state.Bet, m.state.Balance)
	if len(m.state.Chips) > 0 {
		chips := make([]string, len(m.state.Chips))
		for i, c := range m.state.Chips {
			chips[i] = fmt.Sprintf("(%d)", c)
		}
		line += "  " + ChipStyle.Render(strings.Join(chips, " "))
	}
	if m.state.ResetPending {
		line += "  " + InfoStyle.Render("next round shortly")
	}
	if m.state.Broke {
		line = ErrorStyle.Render(line)
	}
	return line
}

func renderCards(cards []game.CardValue) string {
	if len(cards) == 0 {
		return InfoStyle.Render("(no cards)")
	}
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = CardStyle.Render(c.String())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
