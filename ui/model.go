// Package ui steps through a replay session in the terminal.
package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nihei9/vartrace/replay"
)

const (
	defaultWidth = 100
	windowBefore = 4
	windowAfter  = 8
)

// Model is a bubbletea model over a session. Every key press moves the session cursor and
// refreshes the snapshot shown.
type Model struct {
	title   string
	session *replay.Session
	snap    *replay.Snapshot
	keys    keyMap
	help    help.Model
	prog    progress.Model
	width   int
	height  int
	quit    bool
}

func NewModel(title string, s *replay.Session) *Model {
	prog := progress.New(progress.WithDefaultGradient())
	prog.ShowPercentage = false
	prog.Width = defaultWidth - 20
	return &Model{
		title:   title,
		session: s,
		snap:    s.Snapshot(),
		keys:    newKeyMap(),
		help:    help.New(),
		prog:    prog,
		width:   defaultWidth,
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.prog.Width = max(msg.Width-20, 10)
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quit = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.session.Next()
		case key.Matches(msg, m.keys.Prev):
			m.session.Prev()
		case key.Matches(msg, m.keys.Home):
			m.session.Jump(-1)
		case key.Matches(msg, m.keys.End):
			m.session.Jump(m.session.Len() - 1)
		case key.Matches(msg, m.keys.Semantic):
			m.session.SetSemantic(!m.session.Semantic())
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		default:
			return m, nil
		}
		m.snap = m.session.Snapshot()
	}
	return m, nil
}

func (m *Model) View() string {
	if m.quit {
		return ""
	}
	colWidth := max(m.width/2-4, 20)

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.prog.ViewAs(m.percent()))
	b.WriteString("\n")

	left := lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Width(colWidth).Render(renderTimeline(m.session.Window(windowBefore, windowAfter), m.snap.Cursor, colWidth-2)),
		panelStyle.Width(colWidth).Render(renderRule(m.snap, colWidth-2)),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Width(colWidth).Render(renderStack(m.snap.Automaton, m.snap.Highlight, colWidth-2)),
		panelStyle.Width(colWidth).Render(renderScopes(m.snap.Scopes, colWidth-2)),
		panelStyle.Width(colWidth).Render(renderAST(m.snap.AST, colWidth-2)),
	)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) header() string {
	semantic := "off"
	if m.snap.Semantic {
		semantic = "on"
	}
	pos := fmt.Sprintf("step %v/%v", m.snap.Cursor+1, m.snap.Len)
	if m.snap.Cursor < 0 {
		pos = fmt.Sprintf("start/%v", m.snap.Len)
	}
	info := fmt.Sprintf("%v  semantic steps %v", pos, semantic)
	title := Truncate(m.title, max(m.width-len(info)-2, 8))
	return titleStyle.Render(title) + "  " + dimStyle.Render(info)
}

func (m *Model) percent() float64 {
	if m.snap.Len == 0 {
		return 0
	}
	return float64(m.snap.Cursor+1) / float64(m.snap.Len)
}

// Snapshot returns the snapshot currently shown.
func (m *Model) Snapshot() *replay.Snapshot {
	return m.snap
}

// Run steps through the session interactively until the user quits or ctx is done.
func Run(ctx context.Context, title string, s *replay.Session, in io.Reader, out io.Writer) error {
	program := tea.NewProgram(NewModel(title, s),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}
