package panels

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/wardwatch/wardwatch/internal/data"
	"github.com/wardwatch/wardwatch/internal/filter"
	"github.com/wardwatch/wardwatch/internal/ui/markdown"
	"github.com/wardwatch/wardwatch/internal/ui/styles"
)

// StrategistInput is everything the strategist panel reads.
type StrategistInput struct {
	Filtered []data.Record
	Filters  filter.State
}

// Brief builds the markdown campaign brief for the records in scope.
func Brief(in StrategistInput) string {
	var b strings.Builder
	b.WriteString("# Campaign brief\n\n")
	fmt.Fprintf(&b, "_Scope: %s, %d %s._\n\n", in.Filters.String(), len(in.Filtered), plural(len(in.Filtered), "post", "posts"))

	if len(in.Filtered) == 0 {
		b.WriteString("No posts in scope. Widen the filters to get a brief.\n")
		return b.String()
	}

	s := Summarize(in.Filtered)
	b.WriteString("## Mood\n\n")
	fmt.Fprintf(&b, "Mean sentiment is **%+.2f**. ", s.Mean)
	fmt.Fprintf(&b, "The dominant emotion is **%s** (%d of %d).\n\n", s.Emotions[0].Label, s.Emotions[0].Count, s.Count)

	b.WriteString("## Hotspots\n\n")
	hot := hotspots(in.Filtered, 3)
	for _, w := range hot {
		fmt.Fprintf(&b, "- %s, %s: %+.2f over %d %s\n", w.Ward, w.City, w.MeanSentiment, w.Matching, plural(w.Matching, "post", "posts"))
	}
	b.WriteString("\n")

	shares := Shares(in.Filtered)
	b.WriteString("## Share of voice\n\n")
	fmt.Fprintf(&b, "**%s** leads with %s of posts", shares[0].Party, styles.Percent(shares[0].Share))
	if len(shares) > 1 {
		fmt.Fprintf(&b, ", ahead of %s at %s", shares[1].Party, styles.Percent(shares[1].Share))
	}
	b.WriteString(".\n\n")

	b.WriteString("## Recommended focus\n\n")
	if frac(s.Negative, s.Count) > 0.4 {
		fmt.Fprintf(&b, "1. Prioritise grievance response in %s, %s.\n", hot[0].Ward, hot[0].City)
	} else {
		best := hotspots(in.Filtered, len(in.Filtered))
		top := best[len(best)-1]
		fmt.Fprintf(&b, "1. Amplify positive coverage from %s, %s.\n", top.Ward, top.City)
	}
	fmt.Fprintf(&b, "2. Address **%s** sentiment directly in messaging.\n", s.Emotions[0].Label)
	return b.String()
}

// hotspots returns up to n wards in scope, most negative first.
func hotspots(records []data.Record, n int) []WardStat {
	wards := Wards(records, records)
	slices.SortStableFunc(wards, func(a, b WardStat) int {
		return cmp.Compare(a.MeanSentiment, b.MeanSentiment)
	})
	return wards[:min(n, len(wards))]
}

// Strategist renders briefs through a shared markdown renderer.
type Strategist struct {
	md *markdown.Renderer
}

// NewStrategist creates a strategist panel.
func NewStrategist(md *markdown.Renderer) *Strategist {
	return &Strategist{md: md}
}

// Render renders the brief for in.
func (s *Strategist) Render(in StrategistInput, width, height int) (string, error) {
	out, err := s.md.Render(Brief(in), width)
	if err != nil {
		return "", fmt.Errorf("rendering brief: %w", err)
	}
	return fit(out, width, height), nil
}
