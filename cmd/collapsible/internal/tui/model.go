// Package tui is an interactive terminal view of a scene: it lists the
// collapsible containers, animates their heights and lets the user toggle,
// grow and shrink them.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/go-drift/collapsible/cmd/collapsible/internal/sim"
	"github.com/go-drift/collapsible/pkg/collapsible"
	"github.com/go-drift/collapsible/pkg/dom"
	"github.com/go-drift/collapsible/pkg/layout"
)

const (
	frameInterval = time.Second / 60
	// pxPerColumn maps terminal columns to document pixels (one glyph).
	pxPerColumn = 7
	// pxPerCell is the height one bar cell stands for.
	pxPerCell  = 10
	resizeStep = 10 * pxPerColumn
	filler     = "The quick brown fox jumps over the lazy dog."
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("24"))
	rowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	barStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).MarginTop(1)
)

type frameMsg time.Time

// Model is the bubbletea model.
type Model struct {
	s        *sim.Session
	cursor   int
	status   string
	quitting bool
}

// New creates a model over s.
func New(s *sim.Session) Model {
	return Model{s: s}
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return frame()
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update handles frames, window resizes and keys.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.s.Doc.Tick()
		return m, frame()

	case tea.WindowSizeMsg:
		m.s.Doc.Resize(float64(msg.Width * pxPerColumn))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	controllers := m.s.Reg.Controllers()
	m.status = ""

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(controllers)-1 {
			m.cursor++
		}
	case "enter", " ":
		if c := m.selected(controllers); c != nil {
			m.s.Click(c.Element().(*dom.Node))
		}
	case "a":
		if c := m.selected(controllers); c != nil {
			if err := m.s.Append(c.Element().(*dom.Node), filler); err != nil {
				m.status = err.Error()
			}
		}
	case "d":
		if c := m.selected(controllers); c != nil {
			m.removeLast(c)
		}
	case "+", "=":
		m.s.Doc.Resize(m.s.Doc.Width() + resizeStep)
	case "-":
		if w := m.s.Doc.Width() - resizeStep; w > resizeStep {
			m.s.Doc.Resize(w)
		}
	}
	return m, nil
}

func (m *Model) removeLast(c *collapsible.Controller) {
	kids := c.Element().(*dom.Node).Children()
	if len(kids) == 0 {
		m.status = "nothing to remove"
		return
	}
	last := kids[len(kids)-1]
	if last == c.Trigger() || layout.IsAncestor(m.s.Doc, last, c.Trigger()) {
		m.status = "only the trigger is left"
		return
	}
	if err := m.s.Remove(last); err != nil {
		m.status = err.Error()
	}
}

func (m Model) selected(controllers []*collapsible.Controller) *collapsible.Controller {
	if m.cursor < 0 || m.cursor >= len(controllers) {
		return nil
	}
	return controllers[m.cursor]
}

// View renders one row per container with a bar of its rendered height.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("collapsible · window %.0fpx", m.s.Doc.Width())))
	b.WriteString("\n\n")

	for i, row := range m.s.Snapshot() {
		marker := "▾"
		if row.State == collapsible.Collapsed {
			marker = "▸"
		}
		label := fmt.Sprintf("%s%s %-24s", strings.Repeat("  ", max(row.Depth-1, 0)), marker, row.Element)
		if i == m.cursor {
			label = selectedStyle.Render(label)
		} else {
			label = rowStyle.Render(label)
		}
		cells := int(row.Rendered/pxPerCell + 0.5)
		bar := barStyle.Render(strings.Repeat("█", cells))
		nums := dimStyle.Render(fmt.Sprintf(" %.0f (%.0f/%.0f)", row.Rendered, row.Collapsed, row.Expanded))
		b.WriteString(label + " " + bar + nums + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}
	b.WriteString(footerStyle.Render("↑/↓ select · enter toggle · a append · d remove · +/- resize · q quit"))
	return b.String()
}
