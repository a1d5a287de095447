package panels

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"github.com/wardwatch/wardwatch/internal/data"
	"github.com/wardwatch/wardwatch/internal/filter"
	"github.com/wardwatch/wardwatch/internal/ui/styles"
)

// OverviewInput is everything the overview panel reads.
type OverviewInput struct {
	All      []data.Record
	Filtered []data.Record
	Filters  filter.State
}

// Overview renders a count summary and the newest matching posts.
func Overview(in OverviewInput, width, height int) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d of %d %s", styles.TitleStyle.Render("Showing"),
		len(in.Filtered), len(in.All), plural(len(in.All), "post", "posts"))
	b.WriteString(styles.MutedStyle.Render("  " + in.Filters.String()))
	b.WriteString("\n\n")

	if len(in.Filtered) == 0 {
		b.WriteString(styles.MutedStyle.Render("No posts match the current filters."))
		return fit(b.String(), width, height), nil
	}

	rows := slices.Clone(in.Filtered)
	slices.SortStableFunc(rows, func(a, b data.Record) int {
		return b.PostedAt.Compare(a.PostedAt)
	})

	textWidth := max(10, width-10-12-10-18-9-12)
	cols := []table.Column{
		{Title: "Date", Width: 10},
		{Title: "City", Width: 12},
		{Title: "Ward", Width: 10},
		{Title: "Party", Width: 18},
		{Title: "Emotion", Width: 9},
		{Title: "Post", Width: textWidth},
	}
	tableRows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, table.Row{
			r.PostedAt.Format("2006-01-02"),
			r.City,
			r.Ward,
			r.Party,
			r.Emotion,
			styles.TruncateString(r.Text, textWidth),
		})
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(tableRows),
		table.WithHeight(max(1, height-3)),
		table.WithWidth(width),
	)
	b.WriteString(t.View())
	return fit(b.String(), width, height), nil
}
