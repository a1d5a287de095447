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

// GeographicInput is everything the geographic panel reads. City and Ward
// are the current selections, filter.All when unrestricted.
type GeographicInput struct {
	All      []data.Record
	Filtered []data.Record
	City     string
	Ward     string
}

// WardStat aggregates one ward.
type WardStat struct {
	City          string
	Ward          string
	Total         int
	Matching      int
	MeanSentiment float64
}

// Wards lists every ward in all with its matching count from filtered,
// ordered by city then ward.
func Wards(all, filtered []data.Record) []WardStat {
	type key struct{ city, ward string }
	stats := make(map[key]*WardStat)
	sums := make(map[key]float64)
	for _, r := range all {
		k := key{r.City, r.Ward}
		s := stats[k]
		if s == nil {
			s = &WardStat{City: r.City, Ward: r.Ward}
			stats[k] = s
		}
		s.Total++
	}
	for _, r := range filtered {
		k := key{r.City, r.Ward}
		s := stats[k]
		if s == nil {
			continue
		}
		s.Matching++
		sums[k] += r.Sentiment
	}

	out := make([]WardStat, 0, len(stats))
	for k, s := range stats {
		if s.Matching > 0 {
			s.MeanSentiment = sums[k] / float64(s.Matching)
		}
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b WardStat) int {
		if c := strings.Compare(a.City, b.City); c != 0 {
			return c
		}
		return strings.Compare(a.Ward, b.Ward)
	})
	return out
}

func selected(selection, value string) bool {
	return !filter.IsAll(selection) && strings.EqualFold(selection, value)
}

// Geographic renders the ward table, marking the selected city and ward.
func Geographic(in GeographicInput, width, height int) (string, error) {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Wards"))
	scope := "all cities"
	if !filter.IsAll(in.City) {
		scope = in.City
	}
	b.WriteString(styles.MutedStyle.Render("  " + scope))
	b.WriteString("\n\n")

	wards := Wards(in.All, in.Filtered)
	if len(wards) == 0 {
		b.WriteString(styles.MutedStyle.Render("No locations in the dataset."))
		return fit(b.String(), width, height), nil
	}

	cols := []table.Column{
		{Title: " ", Width: 1},
		{Title: "City", Width: 14},
		{Title: "Ward", Width: 10},
		{Title: "Posts", Width: 7},
		{Title: "Matching", Width: 9},
		{Title: "Mood", Width: 6},
	}
	rows := make([]table.Row, 0, len(wards))
	for _, w := range wards {
		mark := ""
		if selected(in.Ward, w.Ward) && (filter.IsAll(in.City) || selected(in.City, w.City)) {
			mark = "▸"
		}
		mood := "-"
		if w.Matching > 0 {
			mood = fmt.Sprintf("%+.2f", w.MeanSentiment)
		}
		rows = append(rows, table.Row{
			mark, w.City, w.Ward,
			fmt.Sprint(w.Total), fmt.Sprint(w.Matching), mood,
		})
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(max(1, height-3)),
		table.WithWidth(width),
	)
	b.WriteString(t.View())
	return fit(b.String(), width, height), nil
}
