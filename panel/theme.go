// Package panel renders the editor state into UiPanels: the editor text
// with its gutter, syntax colours, selections and warpdrive labels, plus the
// modeline, suggestion list, file picker and combo hint.
package panel

import (
	"strings"

	"github.com/ionut-t/moded/core"
)

// Span importances, lowest drawn first.
const (
	importanceBase = iota
	importanceSyntax
	importanceSelection
	importanceCursor
	importancePrimaryCursor
	importanceLabel
)

// Theme styles the editor chrome. Syntax colours come from the config and
// the chroma theme instead.
type Theme struct {
	NormalModeStyle        core.Style
	InsertModeStyle        core.Style
	CommandModeStyle       core.Style
	StatusLineStyle        core.Style
	CommandLineStyle       core.Style
	MessageStyle           core.Style
	ErrorStyle             core.Style
	LineNumberStyle        core.Style
	CurrentLineNumberStyle core.Style
	SelectionStyle         core.Style
	CursorStyle            core.Style
	SuggestionStyle        core.Style
	SelectedItemStyle      core.Style
	WarpLabelStyle         core.Style
}

func rgb(r, g, b uint8) *core.Color {
	return &core.Color{R: r, G: g, B: b}
}

var DefaultTheme = Theme{
	NormalModeStyle:        core.Style{Background: rgb(0x5f, 0x5f, 0xd7), Foreground: rgb(0xee, 0xee, 0xee)},
	InsertModeStyle:        core.Style{Background: rgb(0x00, 0x5f, 0xd7), Foreground: rgb(0xee, 0xee, 0xee)},
	CommandModeStyle:       core.Style{Background: rgb(0xff, 0x87, 0x00), Foreground: rgb(0xee, 0xee, 0xee)},
	CommandLineStyle:       core.Style{Background: rgb(0x26, 0x26, 0x26), Foreground: rgb(0xee, 0xee, 0xee)},
	StatusLineStyle:        core.Style{Background: rgb(0x30, 0x30, 0x30), Foreground: rgb(0xee, 0xee, 0xee)},
	MessageStyle:           core.Style{Foreground: rgb(0x00, 0xaf, 0x00)},
	ErrorStyle:             core.Style{Foreground: rgb(0xff, 0x87, 0x00)},
	LineNumberStyle:        core.Style{Foreground: rgb(0x58, 0x58, 0x58)},
	CurrentLineNumberStyle: core.Style{Foreground: rgb(0xd0, 0xd0, 0xd0)},
	SelectionStyle:         core.Style{Background: rgb(0x3a, 0x3a, 0x3a)},
	CursorStyle:            core.Style{Invert: true},
	SuggestionStyle:        core.Style{Background: rgb(0x30, 0x30, 0x30), Foreground: rgb(0xd0, 0xd0, 0xd0)},
	SelectedItemStyle:      core.Style{Background: rgb(0x5f, 0x5f, 0xd7), Foreground: rgb(0xee, 0xee, 0xee)},
	WarpLabelStyle:         core.Style{Background: rgb(0xff, 0xd7, 0x00), Foreground: rgb(0x00, 0x00, 0x00)},
}

// ModeStyle returns the style of the mode label and the primary cursor.
func (t Theme) ModeStyle(mode string) core.Style {
	switch mode {
	case "normal":
		return t.NormalModeStyle
	case "insert":
		return t.InsertModeStyle
	default:
		return t.CommandModeStyle
	}
}

// modeLabel returns the status line label of a mode, e.g. " NORMAL ".
func modeLabel(mode string) string {
	return " " + strings.ToUpper(mode) + " "
}

// lineSpan styles the whole of row in a panel of the given width.
func lineSpan(row, width int, style core.Style, importance int) core.Span {
	return core.Span{
		From:       core.Position{Row: row},
		To:         core.Position{Row: row, Col: width},
		Style:      style,
		Importance: importance,
	}
}

// cellSpan styles one cell.
func cellSpan(row, col int, style core.Style, importance int) core.Span {
	return core.Span{
		From:       core.Position{Row: row, Col: col},
		To:         core.Position{Row: row, Col: col + 1},
		Style:      style,
		Importance: importance,
	}
}
