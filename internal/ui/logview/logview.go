// Package logview is an in-app log viewer. Entries arrive as log events and
// are kept in a bounded buffer; the viewer filters them by level.
package logview

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/wardwatch/wardwatch/internal/log"
	"github.com/wardwatch/wardwatch/internal/ui/overlay"
	"github.com/wardwatch/wardwatch/internal/ui/styles"
)

const (
	DefaultCapacity = 500

	viewportMaxHeight = 25
	viewportMinHeight = 5
	boxMaxWidth       = 160
	boxMinWidth       = 40
)

// CloseMsg is sent when the viewer closes itself.
type CloseMsg struct{}

// Model is the log viewer state.
type Model struct {
	visible  bool
	minLevel log.Level
	capacity int
	entries  []string
	width    int
	height   int
	viewport viewport.Model
}

// New creates a hidden viewer holding at most capacity entries.
func New(capacity int) Model {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return Model{minLevel: log.LevelDebug, capacity: capacity}
}

// Append adds an entry, evicting the oldest once full.
func (m *Model) Append(entry string) {
	entry = strings.TrimSuffix(entry, "\n")
	if len(m.entries) == m.capacity {
		copy(m.entries, m.entries[1:])
		m.entries = m.entries[:len(m.entries)-1]
	}
	m.entries = append(m.entries, entry)
	if m.visible {
		m.refresh()
	}
}

// Entries returns the entries passing the level filter, oldest first.
func (m Model) Entries() []string {
	var out []string
	for _, e := range m.entries {
		if levelOf(e) >= m.minLevel {
			out = append(out, e)
		}
	}
	return out
}

// MinLevel returns the level filter.
func (m Model) MinLevel() log.Level {
	return m.minLevel
}

// Update handles keys while visible and size changes always.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if !m.visible {
			return m, nil
		}
		switch msg.String() {
		case "c":
			m.entries = nil
		case "d":
			m.minLevel = log.LevelDebug
		case "i":
			m.minLevel = log.LevelInfo
		case "w":
			m.minLevel = log.LevelWarn
		case "e":
			m.minLevel = log.LevelError
		case "j", "down":
			m.viewport.ScrollDown(1)
			return m, nil
		case "k", "up":
			m.viewport.ScrollUp(1)
			return m, nil
		case "g":
			m.viewport.GotoTop()
			return m, nil
		case "G":
			m.viewport.GotoBottom()
			return m, nil
		case "ctrl+x", "esc":
			m.visible = false
			return m, func() tea.Msg { return CloseMsg{} }
		default:
			return m, nil
		}
		m.refresh()
	}
	return m, nil
}

// View renders the viewer box, or nothing when hidden.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	w := m.boxWidth()
	divider := lipgloss.NewStyle().Foreground(styles.BorderDefaultColor).Render(strings.Repeat("─", w))

	var b strings.Builder
	b.WriteString(styles.TitleStyle.PaddingLeft(1).Render("Logs"))
	b.WriteString("\n" + divider + "\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n" + divider + "\n")
	b.WriteString(m.hints())

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderDefaultColor).
		Width(w).
		Render(b.String())
}

// Overlay draws the viewer centered over bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(bg, m.View(), m.width, m.height, overlay.Center, 0)
}

// Visible reports whether the viewer is shown.
func (m Model) Visible() bool {
	return m.visible
}

// Toggle shows or hides the viewer.
func (m *Model) Toggle() {
	m.visible = !m.visible
	if m.visible {
		m.refresh()
	}
}

// SetSize records the screen size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.refresh()
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, boxMaxWidth), boxMinWidth)
}

func (m *Model) refresh() {
	if m.width == 0 || m.height == 0 {
		return
	}
	// header, footer and borders take six rows
	h := max(min(viewportMaxHeight, m.height-6), viewportMinHeight)
	cw := m.boxWidth() - 2
	m.viewport = viewport.New(cw, h)

	entries := m.Entries()
	if len(entries) == 0 {
		m.viewport.SetContent(styles.MutedStyle.Italic(true).Render("No logs to display"))
		return
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = colorize(e, cw)
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

func (m Model) hints() string {
	var hints []string
	hints = append(hints, styles.MutedStyle.Render("[c] Clear"))
	for _, lv := range []struct {
		key   string
		name  string
		level log.Level
	}{
		{"d", "Debug", log.LevelDebug},
		{"i", "Info", log.LevelInfo},
		{"w", "Warn", log.LevelWarn},
		{"e", "Error", log.LevelError},
	} {
		label := "[" + lv.key + "] " + lv.name
		if m.minLevel == lv.level {
			hints = append(hints, styles.TitleStyle.Render(label))
		} else {
			hints = append(hints, styles.MutedStyle.Render(label))
		}
	}
	return strings.Join(hints, "  ")
}

// levelOf reads the bracketed level written by the log package. Entries
// without one are treated as errors so they are never filtered out.
func levelOf(entry string) log.Level {
	switch {
	case strings.Contains(entry, "[DEBUG]"):
		return log.LevelDebug
	case strings.Contains(entry, "[INFO]"):
		return log.LevelInfo
	case strings.Contains(entry, "[WARN]"):
		return log.LevelWarn
	default:
		return log.LevelError
	}
}

func colorize(entry string, width int) string {
	if ansi.StringWidth(entry) > width {
		entry = ansi.Truncate(entry, width-3, "...")
	}
	var c lipgloss.TerminalColor
	switch levelOf(entry) {
	case log.LevelError:
		c = styles.StatusErrorColor
	case log.LevelWarn:
		c = styles.StatusWarningColor
	case log.LevelInfo:
		c = styles.ToastBorderInfoColor
	default:
		c = styles.TextMutedColor
	}
	return lipgloss.NewStyle().Foreground(c).Render(entry)
}
