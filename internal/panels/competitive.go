package panels

import (
	"fmt"
	"slices"
	"strings"

	"github.com/wardwatch/wardwatch/internal/data"
	"github.com/wardwatch/wardwatch/internal/ui/styles"
)

const unattributed = "Unattributed"

// CompetitiveInput is everything the competitive panel reads.
type CompetitiveInput struct {
	Filtered []data.Record
}

// PartyShare is one party's share of voice.
type PartyShare struct {
	Party        string
	Posts        int
	Share        float64
	NetSentiment float64
}

// Shares computes each party's share of posts and mean sentiment, largest
// share first and ties by name.
func Shares(records []data.Record) []PartyShare {
	type acc struct {
		posts int
		sum   float64
	}
	byParty := make(map[string]*acc)
	for _, r := range records {
		party := r.Party
		if party == "" {
			party = unattributed
		}
		a := byParty[party]
		if a == nil {
			a = &acc{}
			byParty[party] = a
		}
		a.posts++
		a.sum += r.Sentiment
	}

	out := make([]PartyShare, 0, len(byParty))
	for party, a := range byParty {
		out = append(out, PartyShare{
			Party:        party,
			Posts:        a.posts,
			Share:        frac(a.posts, len(records)),
			NetSentiment: a.sum / float64(a.posts),
		})
	}
	slices.SortFunc(out, func(a, b PartyShare) int {
		if a.Posts != b.Posts {
			return b.Posts - a.Posts
		}
		return strings.Compare(a.Party, b.Party)
	})
	return out
}

// Competitive renders share of voice and net sentiment per party.
func Competitive(in CompetitiveInput, width, height int) (string, error) {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Share of voice"))
	b.WriteString("\n\n")

	shares := Shares(in.Filtered)
	if len(shares) == 0 {
		b.WriteString(styles.MutedStyle.Render("No party mentions in scope."))
		return fit(b.String(), width, height), nil
	}

	nameWidth := 0
	for _, s := range shares {
		nameWidth = max(nameWidth, len(s.Party))
	}
	nameWidth = min(nameWidth, 24)
	barWidth := max(5, min(40, width-nameWidth-22))
	for _, s := range shares {
		fmt.Fprintf(&b, "%-*s %s %4s  %s\n",
			nameWidth, styles.TruncateString(s.Party, nameWidth),
			styles.Bar(s.Share, barWidth),
			styles.Percent(s.Share),
			styles.SentimentStyle(s.NetSentiment).Render(fmt.Sprintf("%+.2f", s.NetSentiment)))
	}
	if len(shares) > 1 {
		lead := shares[0].Posts - shares[1].Posts
		fmt.Fprintf(&b, "\n%s leads %s by %d %s.",
			shares[0].Party, shares[1].Party, lead, plural(lead, "post", "posts"))
	}
	return fit(b.String(), width, height), nil
}
