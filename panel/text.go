package panel

import (
	"strings"

	"github.com/rivo/uniseg"
)

// clip cuts s to at most width terminal cells, never splitting a grapheme
// cluster.
func clip(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}
	used, end := 0, 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > width {
			break
		}
		used += w
		_, end = g.Positions()
	}
	return s[:end]
}

// padRight fills s with spaces up to width cells.
func padRight(s string, width int) string {
	if w := uniseg.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// fit clips or pads s to exactly width cells.
func fit(s string, width int) string {
	return padRight(clip(s, width), width)
}
