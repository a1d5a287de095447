package panels

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/wardwatch/wardwatch/internal/data"
	"github.com/wardwatch/wardwatch/internal/filter"
	"github.com/wardwatch/wardwatch/internal/registry"
	"github.com/wardwatch/wardwatch/internal/testutil"
	"github.com/wardwatch/wardwatch/internal/ui/markdown"
)

func requireFits(t *testing.T, out string, width, height int) {
	t.Helper()
	lines := strings.Split(out, "\n")
	require.LessOrEqual(t, len(lines), height)
	for _, l := range lines {
		require.LessOrEqual(t, ansi.StringWidth(l), width, "line %q", l)
	}
}

func TestFit(t *testing.T) {
	require.Equal(t, "ab…\nde…", fit("abcd\ndefg\nxyz\n", 3, 2))
	require.Empty(t, fit("abc", 0, 5))
}

func TestSummarize(t *testing.T) {
	s := Summarize(testutil.MixedCities(t))
	require.Equal(t, 6, s.Count)
	require.InDelta(t, (0.8-0.6-0.4+0.5-0.7+0.6)/6, s.Mean, 1e-9)
	require.Greater(t, s.StdDev, 0.0)
	require.Equal(t, 3, s.Positive)
	require.Equal(t, 3, s.Negative)
	require.Equal(t, 0, s.Neutral)
	require.Equal(t, []Bucket{{"anger", 2}, {"joy", 2}, {"fear", 1}, {"trust", 1}}, s.Emotions)
}

func TestSummarize_SingleAndEmpty(t *testing.T) {
	require.Equal(t, SentimentSummary{}, Summarize(nil))

	one := Summarize(testutil.NewBuilder(t).WithRecord("a", testutil.WithEmotion("", 0.05)).Build())
	require.Zero(t, one.StdDev)
	require.Equal(t, 1, one.Neutral)
	require.Equal(t, []Bucket{{"unlabelled", 1}}, one.Emotions)
}

func TestShares(t *testing.T) {
	shares := Shares(testutil.MixedCities(t))
	require.Len(t, shares, 3)
	require.Equal(t, "Civic Front", shares[0].Party)
	require.Equal(t, 3, shares[0].Posts)
	require.InDelta(t, 0.5, shares[0].Share, 1e-9)
	require.InDelta(t, (0.8+0.5-0.7)/3, shares[0].NetSentiment, 1e-9)
	require.Equal(t, "Progress Party", shares[1].Party)
	require.Equal(t, "People's Alliance", shares[2].Party)

	unnamed := Shares(testutil.NewBuilder(t).WithRecord("a", testutil.ForParty("")).Build())
	require.Equal(t, unattributed, unnamed[0].Party)
}

func TestWards(t *testing.T) {
	all := testutil.MixedCities(t)
	filtered := data.Filter(all, filter.NewState(map[string]string{"emotion": "anger"}, ""))

	wards := Wards(all, filtered)
	require.Equal(t, []WardStat{
		{City: "Hyderabad", Ward: "Ward 4", Total: 1},
		{City: "Hyderabad", Ward: "Ward 9", Total: 2, Matching: 1, MeanSentiment: -0.6},
		{City: "Pune", Ward: "Ward 3", Total: 1},
		{City: "Pune", Ward: "Ward 7", Total: 2, Matching: 1, MeanSentiment: -0.7},
	}, wards)
}

func TestPanels_RenderWithinBounds(t *testing.T) {
	all := testutil.MixedCities(t)
	st := filter.NewState(map[string]string{"city": "Pune"}, "")
	filtered := data.Filter(all, st)
	strategist := NewStrategist(markdown.New("notty"))

	const w, h = 80, 20
	renders := map[string]func() (string, error){
		"overview":    func() (string, error) { return Overview(OverviewInput{All: all, Filtered: filtered, Filters: st}, w, h) },
		"sentiment":   func() (string, error) { return Sentiment(SentimentInput{Filtered: filtered}, w, h) },
		"competitive": func() (string, error) { return Competitive(CompetitiveInput{Filtered: filtered}, w, h) },
		"geographic": func() (string, error) {
			return Geographic(GeographicInput{All: all, Filtered: filtered, City: "Pune", Ward: filter.All}, w, h)
		},
		"strategist": func() (string, error) { return strategist.Render(StrategistInput{Filtered: filtered, Filters: st}, w, h) },
		"placeholder": func() (string, error) {
			return Placeholder(PlaceholderInput{View: registry.View{ID: "x", Label: "Custom"}, Matching: 3}, w, h)
		},
	}
	for name, render := range renders {
		t.Run(name, func(t *testing.T) {
			out, err := render()
			require.NoError(t, err)
			require.NotEmpty(t, out)
			requireFits(t, out, w, h)
		})
	}
}

func TestOverview(t *testing.T) {
	all := testutil.MixedCities(t)
	st := filter.NewState(map[string]string{"city": "Pune"}, "")
	out, err := Overview(OverviewInput{All: all, Filtered: data.Filter(all, st), Filters: st}, 120, 20)
	require.NoError(t, err)
	plain := ansi.Strip(out)
	require.Contains(t, plain, "3 of 6 posts")
	require.Contains(t, plain, "city=Pune")
	require.Contains(t, plain, "Water supply cut")
	require.NotContains(t, plain, "Potholes again")

	out, err = Overview(OverviewInput{All: all}, 80, 10)
	require.NoError(t, err)
	require.Contains(t, ansi.Strip(out), "No posts match")
}

func TestSentiment_ShowsSearchTerm(t *testing.T) {
	recs := testutil.MixedCities(t)
	out, err := Sentiment(SentimentInput{Filtered: recs[:2], SearchTerm: "metro"}, 80, 30)
	require.NoError(t, err)
	plain := ansi.Strip(out)
	require.Contains(t, plain, `Sentiment matching "metro"`)
	require.Contains(t, plain, "Strongest voices")
	require.Contains(t, plain, "Metro opening near Ward 4")
}

func TestCompetitive(t *testing.T) {
	out, err := Competitive(CompetitiveInput{Filtered: testutil.MixedCities(t)}, 100, 20)
	require.NoError(t, err)
	plain := ansi.Strip(out)
	require.Contains(t, plain, "Civic Front")
	require.Contains(t, plain, "50%")
	require.Contains(t, plain, "Civic Front leads Progress Party by 1 post.")

	out, err = Competitive(CompetitiveInput{}, 100, 20)
	require.NoError(t, err)
	require.Contains(t, ansi.Strip(out), "No party mentions")
}

func TestGeographic_MarksSelectedWard(t *testing.T) {
	all := testutil.MixedCities(t)
	out, err := Geographic(GeographicInput{All: all, Filtered: all, City: "Pune", Ward: "Ward 7"}, 80, 20)
	require.NoError(t, err)
	var marked []string
	for _, l := range strings.Split(ansi.Strip(out), "\n") {
		if strings.Contains(l, "▸") {
			marked = append(marked, l)
		}
	}
	require.Len(t, marked, 1)
	require.Contains(t, marked[0], "Ward 7")
}

func TestBrief(t *testing.T) {
	all := testutil.MixedCities(t)
	st := filter.NewState(map[string]string{"city": "Hyderabad"}, "")
	md := Brief(StrategistInput{Filtered: data.Filter(all, st), Filters: st})

	require.Contains(t, md, "_Scope: city=Hyderabad, 3 posts._")
	require.Contains(t, md, "- Ward 9, Hyderabad: -0.50 over 2 posts")
	require.Contains(t, md, "Prioritise grievance response in Ward 9, Hyderabad.")

	empty := Brief(StrategistInput{})
	require.Contains(t, empty, "No posts in scope.")
}
