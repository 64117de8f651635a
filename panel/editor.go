package panel

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/ionut-t/moded/config"
	"github.com/ionut-t/moded/core"
)

// Editor draws the active view: line numbers, text, syntax colours,
// selections, cursors and, while warping, the jump labels.
type Editor struct {
	Theme Theme
}

// lineNumberWidth computes the gutter width needed for line numbers.
func lineNumberWidth(totalLines int) int {
	maxWidth := len(strconv.Itoa(max(1, totalLines)))
	lineNumWidth := max(4, maxWidth) + 1
	return min(lineNumWidth, 10)
}

// showLineNumbers reads `options { line-numbers <bool> }`, on by default.
func showLineNumbers(r *config.Resolved) bool {
	v, ok := r.Lookup(core.MappingOptions, "line-numbers")
	if !ok {
		return true
	}
	on, err := strconv.ParseBool(v)
	return err != nil || on
}

// window maps buffer columns of the visible rows to panel columns.
type window struct {
	top, left int
	height    int
	gutter    int
	width     int // text columns
}

func (w window) row(bufferRow int) (int, bool) {
	r := bufferRow - w.top
	return r, r >= 0 && r < w.height
}

// cols clips the buffer columns [from, to) to the window.
func (w window) cols(from, to int) (int, int, bool) {
	from = max(from, w.left)
	to = min(to, w.left+w.width)
	return w.gutter + from - w.left, w.gutter + to - w.left, from < to
}

func (p Editor) Render(s *core.State) core.UiPanel {
	size := s.EditorSize()
	out := core.UiPanel{Size: size, Content: make([]string, size.Height)}
	if size.Height == 0 || size.Width == 0 {
		return out
	}

	v, b, sels, err := s.Resources.Resolve(s.ActiveView)
	if err != nil {
		for i := range out.Content {
			out.Content[i] = "~"
			out.Spans = append(out.Spans, cellSpan(i, 0, p.Theme.LineNumberStyle, importanceSyntax))
		}
		return out
	}

	resolved := s.Config.Resolve(b.Path(), s.Mode)
	gutter := 0
	if showLineNumbers(resolved) {
		gutter = min(lineNumberWidth(b.LineCount()), size.Width-1)
	}
	w := window{
		top:    v.TopLeft.Row,
		left:   v.TopLeft.Col,
		height: size.Height,
		gutter: gutter,
		width:  max(size.Width-gutter, 1),
	}
	primary := sels.Primary().Cursor
	// The view scrolls for the full panel width; the gutter takes some of it.
	if primary.Col >= w.left+w.width {
		w.left = primary.Col - w.width + 1
	}

	lines := make([][]rune, size.Height)
	base := baseStyle(resolved)
	for i := range size.Height {
		out.Spans = append(out.Spans, lineSpan(i, size.Width, base, importanceBase))
		row := w.top + i
		if row >= b.LineCount() {
			lines[i] = []rune("~")
			out.Spans = append(out.Spans, cellSpan(i, 0, p.Theme.LineNumberStyle, importanceSyntax))
			continue
		}

		var number []rune
		if gutter > 0 {
			style := p.Theme.LineNumberStyle
			if row == primary.Row {
				style = p.Theme.CurrentLineNumberStyle
			}
			number = []rune(fmt.Sprintf("%*d ", gutter-1, row+1))
			out.Spans = append(out.Spans, core.Span{
				From:       core.Position{Row: i},
				To:         core.Position{Row: i, Col: gutter},
				Style:      style,
				Importance: importanceSyntax,
			})
		}
		text := b.LineRunes(row)
		from := min(w.left, len(text))
		to := min(w.left+w.width, len(text))
		lines[i] = slices.Concat(number, text[from:to])
	}

	out.Spans = append(out.Spans, p.syntaxSpans(s, v.Buffer, resolved, w)...)
	out.Spans = append(out.Spans, p.selectionSpans(b, sels, w)...)

	for i, sel := range sels.All() {
		r, ok := w.row(sel.Cursor.Row)
		if !ok {
			continue
		}
		c, _, ok := w.cols(sel.Cursor.Col, sel.Cursor.Col+1)
		if !ok {
			continue
		}
		lines[r] = padRunes(lines[r], c+1)
		style, importance := p.Theme.CursorStyle, importanceCursor
		if i == sels.PrimaryIndex() {
			style, importance = p.Theme.ModeStyle(s.Mode), importancePrimaryCursor
		}
		out.Spans = append(out.Spans, cellSpan(r, c, style, importance))
	}

	if wd := s.Warpdrive; wd != nil && wd.View == s.ActiveView {
		for _, t := range wd.Matching() {
			r, ok := w.row(t.Position.Row)
			if !ok {
				continue
			}
			for k, ch := range []rune(t.Label[len(wd.Typed):]) {
				c, _, ok := w.cols(t.Position.Col+k, t.Position.Col+k+1)
				if !ok {
					continue
				}
				lines[r] = padRunes(lines[r], c+1)
				lines[r][c] = ch
				out.Spans = append(out.Spans, cellSpan(r, c, p.Theme.WarpLabelStyle, importanceLabel))
			}
		}
	}

	for i, line := range lines {
		out.Content[i] = clip(string(line), size.Width)
	}
	return out
}

// syntaxSpans colours the cached highlight tokens of the visible rows.
func (p Editor) syntaxSpans(s *core.State, bh core.Handle[core.TextBuffer], r *config.Resolved, w window) []core.Span {
	h := s.Highlights[bh]
	if h == nil {
		return nil
	}
	styles := kindStyles(r)

	var spans []core.Span
	for _, tok := range h.Tokens {
		row, ok := w.row(tok.Row)
		if !ok {
			continue
		}
		style, ok := styles[tok.Kind]
		if !ok {
			continue
		}
		from, to, ok := w.cols(tok.Start, tok.End)
		if !ok {
			continue
		}
		spans = append(spans, core.Span{
			From:       core.Position{Row: row, Col: from},
			To:         core.Position{Row: row, Col: to},
			Style:      style,
			Importance: importanceSyntax,
		})
	}
	return spans
}

// selectionSpans shades non-empty selections, including the line break of
// every row they continue past.
func (p Editor) selectionSpans(b *core.TextBuffer, sels *core.Selections, w window) []core.Span {
	var spans []core.Span
	for _, sel := range sels.All() {
		rng := sel.Range()
		if rng.Empty() {
			continue
		}
		for bufferRow := max(rng.From.Row, w.top); bufferRow <= min(rng.To.Row, w.top+w.height-1); bufferRow++ {
			start, end := 0, b.LineLen(bufferRow)+1
			if bufferRow == rng.From.Row {
				start = rng.From.Col
			}
			if bufferRow == rng.To.Row {
				end = rng.To.Col
			}
			row, _ := w.row(bufferRow)
			from, to, ok := w.cols(start, end)
			if !ok {
				continue
			}
			spans = append(spans, core.Span{
				From:       core.Position{Row: row, Col: from},
				To:         core.Position{Row: row, Col: to},
				Style:      p.Theme.SelectionStyle,
				Importance: importanceSelection,
			})
		}
	}
	return spans
}

// padRunes extends line with spaces to at least n runes.
func padRunes(line []rune, n int) []rune {
	for len(line) < n {
		line = append(line, ' ')
	}
	return line
}
