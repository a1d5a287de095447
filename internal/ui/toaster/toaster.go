// Package toaster shows short-lived notifications at the bottom of the screen.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wardwatch/wardwatch/internal/ui/overlay"
	"github.com/wardwatch/wardwatch/internal/ui/styles"
)

// DefaultDuration is how long a toast stays up.
const DefaultDuration = 3 * time.Second

// Style determines the visual appearance of the toast.
type Style int

const (
	StyleSuccess Style = iota
	StyleError
	StyleInfo
	StyleWarn
)

// Model holds the toaster state.
type Model struct {
	message string
	style   Style
	seq     int
}

// New creates a hidden toaster.
func New() Model {
	return Model{}
}

// DismissMsg hides the toast it was scheduled for. A newer toast ignores it.
type DismissMsg struct {
	seq int
}

// Show displays message and schedules its dismissal after d.
func (m Model) Show(message string, style Style, d time.Duration) (Model, tea.Cmd) {
	m.seq++
	m.message = message
	m.style = style
	seq := m.seq
	return m, tea.Tick(d, func(time.Time) tea.Msg { return DismissMsg{seq: seq} })
}

// Update handles dismissal.
func (m Model) Update(msg tea.Msg) Model {
	if d, ok := msg.(DismissMsg); ok && d.seq == m.seq {
		m.message = ""
	}
	return m
}

// Visible reports whether a toast is showing.
func (m Model) Visible() bool {
	return m.message != ""
}

// Message returns the current toast text.
func (m Model) Message() string {
	return m.message
}

// View renders the toast box.
func (m Model) View() string {
	if !m.Visible() {
		return ""
	}

	var border lipgloss.AdaptiveColor
	var icon string
	switch m.style {
	case StyleError:
		border, icon = styles.ToastBorderErrorColor, "✗"
	case StyleInfo:
		border, icon = styles.ToastBorderInfoColor, "i"
	case StyleWarn:
		border, icon = styles.ToastBorderWarnColor, "!"
	default:
		border, icon = styles.ToastBorderSuccessColor, "✓"
	}
	return lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(icon + " " + m.message)
}

// Overlay draws the toast over bg, one row above the bottom edge.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.Visible() {
		return bg
	}
	return overlay.Place(bg, m.View(), width, height, overlay.Bottom, 1)
}
