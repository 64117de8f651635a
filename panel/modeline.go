package panel

import (
	"fmt"

	"github.com/rivo/uniseg"

	"github.com/ionut-t/moded/core"
)

// maxSuggestions bounds the rows of the suggestion list.
const maxSuggestions = 8

// Modeline is the bottom row: the command prompt while it has focus, else
// the last error or message, else the status line.
type Modeline struct {
	Theme Theme
}

func (p Modeline) Render(s *core.State) core.UiPanel {
	width := s.Size.Width
	out := core.UiPanel{
		Position: core.Position{Row: max(s.Size.Height-1, 0)},
		Size:     core.Size{Width: width, Height: 1},
	}
	if s.Size.Height == 0 || width == 0 {
		return core.UiPanel{}
	}

	if s.Prompt != nil && s.Focus.Kind == core.FocusModeline {
		return p.renderPrompt(s, out)
	}

	switch {
	case s.ModelineErr != "":
		out.Content = []string{clip(s.ModelineErr, width)}
		out.Spans = []core.Span{lineSpan(0, width, p.Theme.ErrorStyle, importanceBase)}
	case s.Message != "":
		out.Content = []string{clip(s.Message, width)}
		out.Spans = []core.Span{lineSpan(0, width, p.Theme.MessageStyle, importanceBase)}
	default:
		out.Content, out.Spans = p.statusLine(s, width)
	}
	return out
}

func (p Modeline) renderPrompt(s *core.State, out core.UiPanel) core.UiPanel {
	width := out.Size.Width
	_, b, sels, err := s.Resources.Resolve(s.Prompt.View)
	if err != nil {
		return out
	}
	text := ":" + b.Text()
	cursor := 1 + sels.Primary().Cursor.Col

	// Keep the cursor on screen for long command lines.
	runes := []rune(text)
	offset := max(cursor-width+1, 0)
	visible := runes[min(offset, len(runes)):]

	out.Content = []string{fit(string(visible), width)}
	out.Spans = []core.Span{
		lineSpan(0, width, p.Theme.CommandLineStyle, importanceBase),
		cellSpan(0, cursor-offset, p.Theme.CursorStyle, importanceCursor),
	}
	return out
}

// statusLine shows the mode, the active file and the primary cursor, the
// latter right aligned.
func (p Modeline) statusLine(s *core.State, width int) ([]string, []core.Span) {
	label := modeLabel(s.Mode)
	name := "[no buffer]"
	cursorInfo := ""
	if _, b, ok := s.ActiveBuffer(); ok {
		name = b.Path()
		if name == "" {
			name = "[scratch]"
		}
		if b.IsModified() {
			name += " [+]"
		}
		if _, _, sels, err := s.Resources.Resolve(s.ActiveView); err == nil {
			cursor := sels.Primary().Cursor
			cursorInfo = fmt.Sprintf("%d/%d ", cursor.Row+1, cursor.Col+1)
			if n := sels.Len(); n > 1 {
				cursorInfo = fmt.Sprintf("%d sel  %s", n, cursorInfo)
			}
		}
	}

	left := label + " " + name
	gap := width - uniseg.StringWidth(left) - uniseg.StringWidth(cursorInfo)
	line := left
	if gap > 0 {
		line += fmt.Sprintf("%*s", gap+uniseg.StringWidth(cursorInfo), cursorInfo)
	}

	spans := []core.Span{
		lineSpan(0, width, p.Theme.StatusLineStyle, importanceBase),
		{
			From:       core.Position{},
			To:         core.Position{Col: len([]rune(label))},
			Style:      p.Theme.ModeStyle(s.Mode),
			Importance: importanceSyntax,
		},
	}
	return []string{fit(line, width)}, spans
}

// Suggestions lists the command names completing the prompt text, just
// above the modeline.
type Suggestions struct {
	Theme Theme
}

func (p Suggestions) Render(s *core.State) core.UiPanel {
	if len(s.Suggestions) == 0 || s.Focus.Kind != core.FocusModeline {
		return core.UiPanel{}
	}
	rows := min(len(s.Suggestions), maxSuggestions, max(s.Size.Height-1, 0))
	if rows == 0 {
		return core.UiPanel{}
	}

	width := 0
	for _, name := range s.Suggestions[:rows] {
		width = max(width, uniseg.StringWidth(name)+2)
	}
	width = min(width, s.Size.Width)

	out := core.UiPanel{
		Position: core.Position{Row: s.Size.Height - 1 - rows},
		Size:     core.Size{Width: width, Height: rows},
	}
	for i, name := range s.Suggestions[:rows] {
		out.Content = append(out.Content, fit(" "+name, width))
		style := p.Theme.SuggestionStyle
		if i == 0 {
			style = p.Theme.SelectedItemStyle
		}
		out.Spans = append(out.Spans, lineSpan(i, width, style, importanceBase))
	}
	return out
}
