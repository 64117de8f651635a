package panel

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"

	"github.com/ionut-t/moded/config"
	"github.com/ionut-t/moded/core"
	"github.com/ionut-t/moded/highlighter"
)

// ParseStyle reads the values of a syntax-style entry: "fg:<hex>",
// "bg:<hex>" and "invert", in any order.
func ParseStyle(values []string) (core.Style, error) {
	var style core.Style
	for _, v := range values {
		switch {
		case v == "invert":
			style.Invert = true
		case strings.HasPrefix(v, "fg:"):
			c, err := core.ParseColor(v[3:])
			if err != nil {
				return core.Style{}, err
			}
			style.Foreground = &c
		case strings.HasPrefix(v, "bg:"):
			c, err := core.ParseColor(v[3:])
			if err != nil {
				return core.Style{}, err
			}
			style.Background = &c
		default:
			return core.Style{}, fmt.Errorf("unknown style attribute %q", v)
		}
	}
	return style, nil
}

// fromChroma converts a chroma colour, reporting whether it is set.
func fromChroma(c chroma.Colour) (*core.Color, bool) {
	if !c.IsSet() {
		return nil, false
	}
	return &core.Color{R: c.Red(), G: c.Green(), B: c.Blue()}, true
}

// themeName reads `options { theme <name> }`.
func themeName(r *config.Resolved) string {
	if name, ok := r.Lookup(core.MappingOptions, "theme"); ok {
		return name
	}
	return highlighter.DefaultTheme
}

// kindStyles maps highlight kinds to styles: the chroma theme's colours,
// overridden by syntax-style entries. Malformed entries are skipped.
func kindStyles(r *config.Resolved) map[string]core.Style {
	theme := highlighter.Theme(themeName(r))
	styles := make(map[string]core.Style)
	for _, kind := range highlighter.Kinds() {
		entry, ok := highlighter.KindEntry(theme, kind)
		if !ok {
			continue
		}
		if fg, ok := fromChroma(entry.Colour); ok {
			styles[kind] = core.Style{Foreground: fg}
		}
	}

	for _, e := range r.Mapping(core.MappingSyntaxStyle).Entries {
		if style, err := ParseStyle(e.Strings()); err == nil {
			styles[e.Name] = style
		}
	}
	return styles
}

// baseStyle is the theme's default text colouring.
func baseStyle(r *config.Resolved) core.Style {
	entry := highlighter.BaseEntry(highlighter.Theme(themeName(r)))
	var style core.Style
	style.Foreground, _ = fromChroma(entry.Colour)
	style.Background, _ = fromChroma(entry.Background)
	return style
}
