package styles

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// TruncateString truncates s to maxWidth terminal cells, adding an ellipsis
// if needed. Grapheme clusters are never split.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}

	var b strings.Builder
	width := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		w := runewidth.StringWidth(cluster)
		if width+w > maxWidth-3 {
			break
		}
		b.WriteString(cluster)
		width += w
	}
	return b.String() + "..."
}

// Bar renders a horizontal bar of width cells filled to fraction.
func Bar(fraction float64, width int) string {
	if width < 1 {
		return ""
	}
	fraction = max(0, min(1, fraction))
	filled := int(fraction*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Percent formats a fraction as a whole percentage.
func Percent(fraction float64) string {
	return fmt.Sprintf("%.0f%%", fraction*100)
}
