package bubble_adapter

import (
	"cmp"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"

	"github.com/ionut-t/moded/core"
)

// screenCell is one terminal column. Wide graphemes occupy their first cell;
// the cells they cover have empty text.
type screenCell struct {
	text  string
	style core.Style
}

type screen [][]screenCell

func newScreen(size core.Size) screen {
	s := make(screen, size.Height)
	for i := range s {
		s[i] = make([]screenCell, size.Width)
		for j := range s[i] {
			s[i][j].text = " "
		}
	}
	return s
}

func (s screen) cell(row, col int) *screenCell {
	if row < 0 || row >= len(s) || col < 0 || col >= len(s[row]) {
		return nil
	}
	return &s[row][col]
}

// lineCols records where each codepoint of a content line was placed.
type lineCols struct {
	cols []int
	end  int
}

// column maps a codepoint index to a panel column. Codepoints past the end
// of the content are blank padding, one column each.
func (l lineCols) column(cp int) int {
	if cp < len(l.cols) {
		return l.cols[cp]
	}
	return l.end + cp - len(l.cols)
}

// draw paints p over whatever is already on screen. Span columns count
// codepoints of the content line.
func (s screen) draw(p core.UiPanel) {
	lines := make([]lineCols, p.Size.Height)
	for r := range p.Size.Height {
		row := p.Position.Row + r
		for c := range p.Size.Width {
			if cell := s.cell(row, p.Position.Col+c); cell != nil {
				*cell = screenCell{text: " "}
			}
		}
		if r < len(p.Content) {
			lines[r] = s.drawLine(row, p.Position.Col, p.Size.Width, p.Content[r])
		}
	}

	spans := slices.Clone(p.Spans)
	slices.SortStableFunc(spans, func(a, b core.Span) int {
		return cmp.Compare(a.Importance, b.Importance)
	})
	for _, span := range spans {
		for r := max(span.From.Row, 0); r <= span.To.Row && r < p.Size.Height; r++ {
			from, to := 0, p.Size.Width
			if r == span.From.Row {
				from = span.From.Col
			}
			if r == span.To.Row {
				to = span.To.Col
			}
			for cp := max(from, 0); cp < to; cp++ {
				c := lines[r].column(cp)
				if c >= p.Size.Width {
					break
				}
				if cell := s.cell(p.Position.Row+r, p.Position.Col+c); cell != nil {
					cell.style = layer(cell.style, span.Style)
				}
			}
		}
	}
}

// drawLine writes line from col, at most width columns wide.
func (s screen) drawLine(row, col, width int, line string) lineCols {
	var out lineCols
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		text := g.Str()
		w := g.Width()
		if w == 0 {
			// Tabs and other control characters take one blank cell.
			text, w = " ", 1
		}
		if out.end+w > width {
			break
		}
		if cell := s.cell(row, col+out.end); cell != nil {
			cell.text = text
		}
		for k := 1; k < w; k++ {
			if cell := s.cell(row, col+out.end+k); cell != nil {
				cell.text = ""
			}
		}
		for range g.Runes() {
			out.cols = append(out.cols, out.end)
		}
		out.end += w
	}
	return out
}

// layer puts top over base: colours top sets replace those of base.
func layer(base, top core.Style) core.Style {
	if top.Foreground != nil {
		base.Foreground = top.Foreground
	}
	if top.Background != nil {
		base.Background = top.Background
	}
	base.Invert = base.Invert || top.Invert
	return base
}

func toLipgloss(r *lipgloss.Renderer, s core.Style) lipgloss.Style {
	style := r.NewStyle()
	if s.Foreground != nil {
		style = style.Foreground(lipgloss.Color(s.Foreground.Hex()))
	}
	if s.Background != nil {
		style = style.Background(lipgloss.Color(s.Background.Hex()))
	}
	if s.Invert {
		style = style.Reverse(true)
	}
	return style
}

// compose draws panels in order onto a screen of the given size and renders
// it, one lipgloss run per stretch of equally styled cells.
func compose(r *lipgloss.Renderer, panels []core.UiPanel, size core.Size) string {
	scr := newScreen(size)
	for _, p := range panels {
		scr.draw(p)
	}

	lines := make([]string, len(scr))
	for i, row := range scr {
		var (
			b   strings.Builder
			run strings.Builder
			cur core.Style
		)
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if sameStyle(cur, core.Style{}) {
				b.WriteString(run.String())
			} else {
				b.WriteString(toLipgloss(r, cur).Render(run.String()))
			}
			run.Reset()
		}
		for _, cell := range row {
			if !sameStyle(cell.style, cur) {
				flush()
				cur = cell.style
			}
			run.WriteString(cell.text)
		}
		flush()
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

func sameStyle(a, b core.Style) bool {
	return sameColor(a.Foreground, b.Foreground) &&
		sameColor(a.Background, b.Background) &&
		a.Invert == b.Invert
}

func sameColor(a, b *core.Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
