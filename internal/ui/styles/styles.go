// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1F2328", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#57606A", Dark: "#BBBBBB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#8C959F", Dark: "#696969"} // Hints, help text, footers

	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D0D7DE", Dark: "#696969"}
	AccentColor        = lipgloss.AdaptiveColor{Light: "#0969DA", Dark: "#54A0FF"} // Active tab, focused input

	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#BF8700", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Sentiment polarity
	PositiveColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	NeutralColor  = lipgloss.AdaptiveColor{Light: "#8C959F", Dark: "#999999"}
	NegativeColor = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Toast notification colors
	ToastBorderSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	ToastBorderErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	ToastBorderInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}
	ToastBorderWarnColor    = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
)

var (
	TabStyle       lipgloss.Style
	ActiveTabStyle lipgloss.Style
	BadgeStyle     lipgloss.Style
	MutedStyle     lipgloss.Style
	TitleStyle     lipgloss.Style
	StatusBarStyle lipgloss.Style
	FilterKeyStyle lipgloss.Style
	FilterOnStyle  lipgloss.Style
	PanelStyle     lipgloss.Style
	ErrorStyle     lipgloss.Style
	PositiveStyle  lipgloss.Style
	NeutralStyle   lipgloss.Style
	NegativeStyle  lipgloss.Style
)

func init() {
	rebuildStyles()
}

// rebuildStyles derives every Style from the current colors.
func rebuildStyles() {
	TabStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(TextSecondaryColor)
	ActiveTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).
		Foreground(AccentColor).
		Underline(true)
	BadgeStyle = lipgloss.NewStyle().Foreground(StatusWarningColor)
	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	StatusBarStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor).Padding(0, 1)
	FilterKeyStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	FilterOnStyle = lipgloss.NewStyle().Bold(true).Foreground(AccentColor)
	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderDefaultColor).
		Padding(0, 1)
	ErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor).Bold(true).Padding(1, 2)
	PositiveStyle = lipgloss.NewStyle().Foreground(PositiveColor)
	NeutralStyle = lipgloss.NewStyle().Foreground(NeutralColor)
	NegativeStyle = lipgloss.NewStyle().Foreground(NegativeColor)
}

// PolarityThreshold is the absolute score at which a post stops being neutral.
const PolarityThreshold = 0.15

// SentimentStyle picks the polarity style for a score in [-1, 1].
func SentimentStyle(score float64) lipgloss.Style {
	switch {
	case score >= PolarityThreshold:
		return PositiveStyle
	case score <= -PolarityThreshold:
		return NegativeStyle
	default:
		return NeutralStyle
	}
}
