package core

import (
	"fmt"
	"strconv"
)

// Color is an RGB triple.
type Color struct {
	R, G, B uint8
}

// ParseColor reads a hex colour such as "c678dd" or "#c678dd".
func ParseColor(s string) (Color, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex returns the colour as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Style colours a span. Nil colours keep the terminal default.
type Style struct {
	Foreground *Color
	Background *Color
	Invert     bool
}

// Span styles the panel cells from From up to (not including) To, in panel
// coordinates. Where spans overlap the higher Importance wins.
type Span struct {
	From       Position
	To         Position
	Style      Style
	Importance int
}

// UiPanel is a rendered panel: a grid of text lines at a screen position.
type UiPanel struct {
	Position Position
	Size     Size
	Content  []string
	Spans    []Span
}

// Panel projects the state onto a UiPanel. Render must not mutate state.
type Panel interface {
	Render(s *State) UiPanel
}
