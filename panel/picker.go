package panel

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/ionut-t/moded/config"
	"github.com/ionut-t/moded/core"
)

const (
	maxPickerWidth  = 80
	maxPickerHeight = 20
)

// FilePicker is a box centred over the editor: the query on top, matching
// files below it.
type FilePicker struct {
	Theme Theme
}

func (p FilePicker) Render(s *core.State) core.UiPanel {
	picker := s.Picker
	if picker == nil {
		return core.UiPanel{}
	}
	width := min(s.Size.Width-4, maxPickerWidth)
	height := min(s.Size.Height-3, maxPickerHeight)
	if width < 10 || height < 2 {
		width, height = s.Size.Width, min(s.Size.Height, maxPickerHeight)
	}
	if width <= 0 || height <= 0 {
		return core.UiPanel{}
	}

	out := core.UiPanel{
		Position: core.Position{Row: (s.Size.Height - height) / 3, Col: (s.Size.Width - width) / 2},
		Size:     core.Size{Width: width, Height: height},
	}

	query := ""
	cursor := 0
	if _, b, sels, err := s.Resources.Resolve(picker.View); err == nil {
		query = b.Text()
		cursor = sels.Primary().Cursor.Col
	}
	count := fmt.Sprintf(" %d/%d ", len(picker.Filtered), len(picker.Entries))
	header := fit("> "+query, max(width-uniseg.StringWidth(count), 0)) + count
	out.Content = append(out.Content, clip(header, width))
	out.Spans = append(out.Spans,
		lineSpan(0, width, p.Theme.CommandLineStyle, importanceBase),
		cellSpan(0, 2+cursor, p.Theme.CursorStyle, importanceCursor),
	)

	rows := height - 1
	first := max(picker.Index-rows+1, 0)
	for i := range rows {
		idx := first + i
		line := ""
		style := p.Theme.SuggestionStyle
		if idx < len(picker.Filtered) {
			line = " " + picker.Filtered[idx]
			if idx == picker.Index {
				style = p.Theme.SelectedItemStyle
			}
		}
		out.Content = append(out.Content, fit(line, width))
		out.Spans = append(out.Spans, lineSpan(i+1, width, style, importanceBase))
	}
	return out
}

// Combo lists the bindings of a pending combo in the bottom-right corner.
type Combo struct {
	Theme Theme
}

func (p Combo) Render(s *core.State) core.UiPanel {
	if s.Combo == "" {
		return core.UiPanel{}
	}
	lines := comboLines(s.Resolve().Mapping(s.Combo))
	rows := min(len(lines), max(s.Size.Height-1, 0))
	if rows == 0 {
		return core.UiPanel{}
	}

	width := 0
	for _, l := range lines[:rows] {
		width = max(width, uniseg.StringWidth(l)+2)
	}
	width = min(width, s.Size.Width)

	out := core.UiPanel{
		Position: core.Position{Row: s.Size.Height - 1 - rows, Col: s.Size.Width - width},
		Size:     core.Size{Width: width, Height: rows},
	}
	for i, l := range lines[:rows] {
		out.Content = append(out.Content, fit(" "+l, width))
		out.Spans = append(out.Spans, lineSpan(i, width, p.Theme.SuggestionStyle, importanceBase))
	}
	return out
}

// comboLines describes each bound input once, using its effective entry.
func comboLines(m *config.Mapping) []string {
	var (
		lines []string
		seen  = make(map[string]bool)
	)
	for _, e := range m.Entries {
		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		latest, _ := m.Lookup(e.Name)
		desc := strings.Join(core.EntryCommands(latest), "; ")
		lines = append(lines, fmt.Sprintf("%-3s %s", e.Name, desc))
	}
	return lines
}
