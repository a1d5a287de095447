package dashboard

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"github.com/wardwatch/wardwatch/internal/keys"
	"github.com/wardwatch/wardwatch/internal/mode/shared"
	"github.com/wardwatch/wardwatch/internal/ui/overlay"
	"github.com/wardwatch/wardwatch/internal/ui/styles"
)

// View renders the dashboard from the current frame.
func (m *Model) View() string {
	f := m.frame
	w, h := m.bodySize()

	body := lipgloss.NewStyle().Height(h).MaxHeight(h).Render(f.body)
	out := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(f),
		m.renderFilterBar(f),
		styles.MutedStyle.Render(strings.Repeat("─", w)),
		body,
		m.renderStatus(f),
	)

	if m.showHelp {
		box := styles.PanelStyle.Render(m.help.FullHelpView(keys.Dashboard.FullHelp()))
		out = overlay.Place(out, box, w, h+chromeHeight, overlay.Center, 0)
	}
	return zone.Scan(out)
}

func (m *Model) renderTabs(f frame) string {
	shortcuts := m.ctrl.ShortcutsEnabled()
	alert := lipgloss.NewStyle().Foreground(styles.StatusErrorColor).Bold(true)

	tabs := make([]string, 0, len(f.views))
	for i, v := range f.views {
		label := v.Label
		if shortcuts {
			label = fmt.Sprintf("%d %s", i+1, label)
		}
		if n, ok := v.Badge(); ok && n > 0 {
			label += " " + styles.BadgeStyle.Render(fmt.Sprintf("(%d)", n))
		}
		if slices.Contains(f.tripped, v.ID) {
			label += " " + alert.Render("!")
		}
		style := styles.TabStyle
		if v.ID == f.active {
			style = styles.ActiveTabStyle
		}
		tabs = append(tabs, zone.Mark(makeTabZoneID(i), style.Render(label)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderFilterBar(f frame) string {
	parts := make([]string, 0, len(m.filterKeys)+1)
	for i, k := range m.filterKeys {
		value := styles.MutedStyle.Render(f.filters.Value(k))
		if f.filters.Restricted(k) {
			value = styles.FilterOnStyle.Render(f.filters.Value(k))
		}
		item := styles.FilterKeyStyle.Render(k+":") + " " + value
		if i == m.focus && !m.searching {
			item = styles.FilterKeyStyle.Render("[") + item + styles.FilterKeyStyle.Render("]")
		}
		parts = append(parts, item)
	}

	switch {
	case m.searching:
		parts = append(parts, m.search.View())
	case f.filters.SearchTerm != "":
		parts = append(parts, styles.FilterOnStyle.Render("/"+f.filters.SearchTerm))
	default:
		parts = append(parts, styles.MutedStyle.Render("/ search"))
	}

	w, _ := m.bodySize()
	return ansi.Truncate(" "+strings.Join(parts, "  "), w, "…")
}

func (m *Model) renderStatus(f frame) string {
	parts := []string{
		fmt.Sprintf("%d of %d posts", len(f.snap.Filtered), len(f.snap.All)),
		shared.LoadedAgo(f.snap.LoadedAt, m.clock),
		f.filters.String(),
	}
	if f.location != "" && (m.svc.Config == nil || m.svc.Config.UI.ShowLocation) {
		parts = append(parts, f.location)
	}
	if len(f.tripped) > 0 {
		parts = append(parts, "failed: "+strings.Join(f.tripped, ", "))
	}
	parts = append(parts, "? help")

	w, _ := m.bodySize()
	return styles.StatusBarStyle.Render(ansi.Truncate(strings.Join(parts, " · "), max(w-2, 1), "…"))
}

// fit clips s to width columns and height lines.
func fit(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, width, "…")
	}
	return strings.Join(lines, "\n")
}

func errorStyle(msg string) string {
	return styles.ErrorStyle.Render(msg)
}
