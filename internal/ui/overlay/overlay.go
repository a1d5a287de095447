// Package overlay draws one block of rendered text over another without
// clearing the screen beneath it.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position is the anchor of the foreground block.
type Position int

const (
	Center Position = iota
	Top
	Bottom
)

// Place draws fg over bg, a width x height viewport, anchored at pos and
// kept padY rows from the top or bottom edge. Styling in both blocks is
// preserved.
func Place(bg, fg string, width, height int, pos Position, padY int) string {
	rows := strings.Split(bg, "\n")
	for len(rows) < height {
		rows = append(rows, strings.Repeat(" ", width))
	}

	block := strings.Split(fg, "\n")
	x := max(0, (width-lipgloss.Width(fg))/2)
	var y int
	switch pos {
	case Top:
		y = padY
	case Bottom:
		y = height - len(block) - padY
	default:
		y = (height - len(block)) / 2
	}
	y = max(0, y)

	for i, line := range block {
		row := y + i
		if row >= len(rows) {
			break
		}
		rows[row] = splice(rows[row], line, x)
	}
	return strings.Join(rows, "\n")
}

// splice replaces the cells of row starting at column x with line.
func splice(row, line string, x int) string {
	left := ansi.Truncate(row, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}
	end := x + ansi.StringWidth(line)
	right := ""
	if end < ansi.StringWidth(row) {
		right = ansi.TruncateLeft(row, end, "")
	}
	return left + line + right
}
