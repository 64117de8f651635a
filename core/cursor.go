package core

import "unicode"

// motion moves a cursor count times. It reports the new position and the
// sticky column to remember for vertical movement.
type motion func(b *TextBuffer, sel Selection, count int) (Position, int)

// --- Character and line movement ---

func moveLeft(b *TextBuffer, sel Selection, count int) (Position, int) {
	p := sel.Cursor
	p.Col = max(p.Col-count, 0)
	return p, p.Col
}

func moveRight(b *TextBuffer, sel Selection, count int) (Position, int) {
	p := sel.Cursor
	p.Col = min(p.Col+count, b.LineLen(p.Row))
	return p, p.Col
}

// moveUp keeps the preferred column, clamped to the target line.
func moveUp(b *TextBuffer, sel Selection, count int) (Position, int) {
	row := max(sel.Cursor.Row-count, 0)
	return Position{Row: row, Col: min(sel.Preferred, b.LineLen(row))}, sel.Preferred
}

func moveDown(b *TextBuffer, sel Selection, count int) (Position, int) {
	row := min(sel.Cursor.Row+count, b.LineCount()-1)
	return Position{Row: row, Col: min(sel.Preferred, b.LineLen(row))}, sel.Preferred
}

func moveLineStart(b *TextBuffer, sel Selection, _ int) (Position, int) {
	return Position{Row: sel.Cursor.Row}, 0
}

// moveLineEnd goes past the last character so text can be appended.
func moveLineEnd(b *TextBuffer, sel Selection, _ int) (Position, int) {
	p := Position{Row: sel.Cursor.Row, Col: b.LineLen(sel.Cursor.Row)}
	return p, p.Col
}

func moveBufferStart(b *TextBuffer, _ Selection, _ int) (Position, int) {
	return Position{}, 0
}

// moveBufferEnd goes past the last character of the buffer.
func moveBufferEnd(b *TextBuffer, _ Selection, _ int) (Position, int) {
	p := b.End()
	return p, p.Col
}

// --- Word movement ---

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
}

func isWhiteSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

// moveWordForward goes to the start of the next word or punctuation run,
// continuing onto following lines.
func moveWordForward(b *TextBuffer, sel Selection, count int) (Position, int) {
	p := sel.Cursor
	for range count {
		moved := false
		for !moved {
			line := b.LineRunes(p.Row)
			n := len(line)

			// At the end of a line: go to the first non-blank of the next.
			if p.Col >= n {
				if p.Row >= b.LineCount()-1 {
					return p, p.Col
				}
				p = Position{Row: p.Row + 1}
				for col, r := range b.LineRunes(p.Row) {
					if !isWhiteSpace(r) {
						p.Col = col
						break
					}
				}
				moved = true
				continue
			}

			pos := p.Col
			switch c := line[pos]; {
			case isWordChar(c):
				for pos < n && isWordChar(line[pos]) {
					pos++
				}
			case !isWhiteSpace(c):
				for pos < n && !isWordChar(line[pos]) && !isWhiteSpace(line[pos]) {
					pos++
				}
			}
			for pos < n && isWhiteSpace(line[pos]) {
				pos++
			}

			p.Col = pos
			moved = pos < n
		}
	}
	return p, p.Col
}

// moveWordBackward goes to the start of the previous word or punctuation
// run, continuing onto previous lines.
func moveWordBackward(b *TextBuffer, sel Selection, count int) (Position, int) {
	p := sel.Cursor
	for range count {
		if p.Col <= 0 {
			if p.Row <= 0 {
				return p, p.Col
			}
			p.Row--
			p.Col = b.LineLen(p.Row)
			if p.Col == 0 {
				continue
			}
		}

		line := b.LineRunes(p.Row)
		pos := p.Col - 1
		for pos >= 0 && isWhiteSpace(line[pos]) {
			pos--
		}
		if pos < 0 {
			p.Col = 0
			continue
		}
		if isWordChar(line[pos]) {
			for pos >= 0 && isWordChar(line[pos]) {
				pos--
			}
		} else {
			for pos >= 0 && !isWordChar(line[pos]) && !isWhiteSpace(line[pos]) {
				pos--
			}
		}
		p.Col = pos + 1
	}
	return p, p.Col
}

// wordStarts returns the positions in row where a word begins, from column
// from up to (not including) to.
func wordStarts(b *TextBuffer, row, from, to int) []Position {
	line := b.LineRunes(row)
	to = min(to, len(line))
	var out []Position
	for col := max(from, 0); col < to; col++ {
		if isWordChar(line[col]) && (col == 0 || !isWordChar(line[col-1])) {
			out = append(out, Position{Row: row, Col: col})
		}
	}
	return out
}
