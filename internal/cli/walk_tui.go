package cli

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/slidegraph/pkg/board"
	"github.com/matzehuels/slidegraph/pkg/cursor"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	boardFrameStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// =============================================================================
// WalkModel - Interactive state-graph walk
// =============================================================================

// walkMove is a legal move from the current state. Target is -1 when the
// resulting state was cut off by the exploration budget.
type walkMove struct {
	move   board.Move
	target int
}

// copiedMsg reports the result of a clipboard copy.
type copiedMsg struct{ err error }

// copyFunc writes text to the system clipboard. Tests replace it.
var copyFunc = clipboard.WriteAll

// WalkModel is the bubbletea model that steps a cursor through the graph one
// move at a time.
type WalkModel struct {
	Board  *board.Board
	Cursor *cursor.Cursor

	// Highlight is the index into moves of the move under the pointer.
	Highlight int

	// Quit reports that the user left with q or ctrl+c.
	Quit bool

	moves  []walkMove
	status string
}

// NewWalkModel creates a walk model on c.
func NewWalkModel(b *board.Board, c *cursor.Cursor) WalkModel {
	m := WalkModel{Board: b, Cursor: c}
	m.refresh()
	return m
}

// refresh recomputes the legal moves from the current state.
func (m *WalkModel) refresh() {
	m.moves = nil
	s := m.Cursor.State()
	if s == nil {
		m.Highlight = 0
		return
	}
	g := m.Cursor.Graph()
	for _, mv := range board.Moves(m.Board, s) {
		target := -1
		if i, ok := g.Index(mv.State); ok {
			target = i
		}
		m.moves = append(m.moves, walkMove{move: mv, target: target})
	}
	m.Highlight = min(m.Highlight, max(len(m.moves)-1, 0))
}

func (m WalkModel) Init() tea.Cmd {
	return nil
}

func (m WalkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.status = ""
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Quit = true
			return m, tea.Quit
		case "up", "k":
			if m.Highlight > 0 {
				m.Highlight--
			}
		case "down", "j":
			if m.Highlight < len(m.moves)-1 {
				m.Highlight++
			}
		case "enter", "right", "l":
			if m.Highlight >= len(m.moves) {
				return m, nil
			}
			target := m.moves[m.Highlight].target
			if target < 0 {
				m.status = "that state lies beyond the exploration budget"
				return m, nil
			}
			if err := m.Cursor.Select(target); err != nil {
				m.status = err.Error()
				return m, nil
			}
			m.Highlight = 0
			m.refresh()
		case "backspace", "left", "h", "u":
			m.Cursor.Undo()
			m.Highlight = 0
			m.refresh()
		case "r":
			m.Cursor.Reset()
			m.Highlight = 0
			m.refresh()
		case "c":
			text := m.Board.Format(m.Cursor.State())
			return m, func() tea.Msg { return copiedMsg{err: copyFunc(text)} }
		}
	case copiedMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
		} else {
			m.status = "board copied to clipboard"
		}
	}
	return m, nil
}

func (m WalkModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Walk"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ choose  ⏎ move  ← undo  r restart  c copy  q quit"))
	b.WriteString("\n\n")

	sel, ok := m.Cursor.Selected()
	if !ok {
		b.WriteString(listDimStyle.Render("empty graph"))
		return b.String()
	}

	b.WriteString(boardFrameStyle.Render(styledBoard(m.Board, m.Cursor.State())))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  state %d · %d steps · %d states", sel, len(m.Cursor.Path())-1, m.Cursor.Graph().Len())))
	b.WriteString("\n\n")

	if len(m.moves) == 0 {
		b.WriteString(listDimStyle.Render("  no legal moves"))
		b.WriteString("\n")
	}
	for i, wm := range m.moves {
		pointer := "  "
		if i == m.Highlight {
			pointer = "▸ "
		}
		dest := fmt.Sprintf("state %d", wm.target)
		if wm.target < 0 {
			dest = "unexplored"
		}
		line := fmt.Sprintf("%s%-4s %s", pointer, wm.move.String(), dest)
		switch {
		case i == m.Highlight:
			b.WriteString(listSelectedStyle.Render(line))
		case wm.target < 0:
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render(m.status))
		b.WriteString("\n")
	}
	return b.String()
}
