package panels

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"gonum.org/v1/gonum/stat"

	"github.com/wardwatch/wardwatch/internal/data"
	"github.com/wardwatch/wardwatch/internal/ui/styles"
)

// SentimentInput is everything the sentiment panel reads.
type SentimentInput struct {
	Filtered   []data.Record
	SearchTerm string
}

// Bucket is a labelled count.
type Bucket struct {
	Label string
	Count int
}

// SentimentSummary aggregates sentiment scores.
type SentimentSummary struct {
	Count    int
	Mean     float64
	StdDev   float64
	Positive int
	Neutral  int
	Negative int
	Emotions []Bucket
}

// Summarize computes score statistics and the emotion distribution, most
// frequent emotion first.
func Summarize(records []data.Record) SentimentSummary {
	s := SentimentSummary{Count: len(records)}
	if len(records) == 0 {
		return s
	}

	scores := make([]float64, len(records))
	counts := make(map[string]int)
	for i, r := range records {
		scores[i] = r.Sentiment
		switch {
		case r.Sentiment >= styles.PolarityThreshold:
			s.Positive++
		case r.Sentiment <= -styles.PolarityThreshold:
			s.Negative++
		default:
			s.Neutral++
		}
		emotion := r.Emotion
		if emotion == "" {
			emotion = "unlabelled"
		}
		counts[emotion]++
	}

	s.Mean, s.StdDev = stat.MeanStdDev(scores, nil)
	if math.IsNaN(s.StdDev) {
		s.StdDev = 0
	}
	for label, n := range counts {
		s.Emotions = append(s.Emotions, Bucket{Label: label, Count: n})
	}
	slices.SortFunc(s.Emotions, func(a, b Bucket) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Label, b.Label)
	})
	return s
}

// Sentiment renders the polarity split, the emotion chart and a few of the
// strongest posts.
func Sentiment(in SentimentInput, width, height int) (string, error) {
	s := Summarize(in.Filtered)
	var b strings.Builder

	title := "Sentiment"
	if in.SearchTerm != "" {
		title += fmt.Sprintf(" matching %q", in.SearchTerm)
	}
	b.WriteString(styles.TitleStyle.Render(title))
	b.WriteString("\n\n")
	if s.Count == 0 {
		b.WriteString(styles.MutedStyle.Render("No posts to score."))
		return fit(b.String(), width, height), nil
	}

	fmt.Fprintf(&b, "Mean %s  σ %.2f  over %d %s\n",
		styles.SentimentStyle(s.Mean).Render(fmt.Sprintf("%+.2f", s.Mean)),
		s.StdDev, s.Count, plural(s.Count, "post", "posts"))
	fmt.Fprintf(&b, "%s %s  %s %s  %s %s\n\n",
		styles.PositiveStyle.Render("positive"), styles.Percent(frac(s.Positive, s.Count)),
		styles.NeutralStyle.Render("neutral"), styles.Percent(frac(s.Neutral, s.Count)),
		styles.NegativeStyle.Render("negative"), styles.Percent(frac(s.Negative, s.Count)))

	barWidth := max(5, min(40, width-24))
	for _, e := range s.Emotions {
		fmt.Fprintf(&b, "%-11s %s %3d\n", e.Label, styles.Bar(frac(e.Count, s.Count), barWidth), e.Count)
	}

	strongest := slices.Clone(in.Filtered)
	slices.SortStableFunc(strongest, func(a, b data.Record) int {
		return cmp.Compare(math.Abs(b.Sentiment), math.Abs(a.Sentiment))
	})
	b.WriteString("\n")
	b.WriteString(styles.TitleStyle.Render("Strongest voices"))
	b.WriteString("\n")
	wrap := max(20, width-4)
	for _, r := range strongest[:min(3, len(strongest))] {
		quote := wordwrap.String(fmt.Sprintf("%q (%s, %s)", r.Text, r.Ward, r.City), wrap)
		b.WriteString(styles.SentimentStyle(r.Sentiment).Render(indent.String(quote, 2)))
		b.WriteString("\n")
	}
	return fit(b.String(), width, height), nil
}

func frac(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
