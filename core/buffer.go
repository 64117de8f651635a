package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
)

// TextBuffer holds text as a non-empty list of rune lines. Line terminators
// are implicit between lines.
type TextBuffer struct {
	lines     [][]rune
	path      string
	saved     string
	version   int
	observers []Handle[Selections]
}

// NewTextBuffer creates an empty buffer: a single empty line.
func NewTextBuffer() *TextBuffer {
	return &TextBuffer{lines: [][]rune{{}}}
}

// NewTextBufferFromString creates a buffer holding s, split on '\n'. A
// trailing newline yields a final empty line.
func NewTextBufferFromString(s string) *TextBuffer {
	b := &TextBuffer{}
	b.setContent(s)
	b.saved = s
	return b
}

// ReadTextBuffer reads path into a new buffer. A missing file gives an empty
// buffer that will be created on write.
func ReadTextBuffer(path string) (*TextBuffer, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		b := NewTextBuffer()
		b.path = path
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	b := NewTextBufferFromString(string(data))
	b.path = path
	return b, nil
}

func (b *TextBuffer) setContent(s string) {
	parts := strings.Split(s, "\n")
	b.lines = make([][]rune, len(parts))
	for i, p := range parts {
		b.lines[i] = []rune(p)
	}
	b.version++
}

// Path returns the file path, empty for scratch buffers.
func (b *TextBuffer) Path() string {
	return b.path
}

// SetPath sets the file path used by Write.
func (b *TextBuffer) SetPath(path string) {
	b.path = path
}

// Version increases with every mutation.
func (b *TextBuffer) Version() int {
	return b.version
}

func (b *TextBuffer) LineCount() int {
	return len(b.lines)
}

// Line returns row as a string.
func (b *TextBuffer) Line(row int) (string, bool) {
	if row < 0 || row >= len(b.lines) {
		return "", false
	}
	return string(b.lines[row]), true
}

// LineRunes returns row without copying. Callers must not modify it.
func (b *TextBuffer) LineRunes(row int) []rune {
	if row < 0 || row >= len(b.lines) {
		return nil
	}
	return b.lines[row]
}

// LineLen returns the codepoint count of row.
func (b *TextBuffer) LineLen(row int) int {
	if row < 0 || row >= len(b.lines) {
		return 0
	}
	return len(b.lines[row])
}

// Lines returns every line as a string.
func (b *TextBuffer) Lines() []string {
	out := make([]string, len(b.lines))
	for i, l := range b.lines {
		out[i] = string(l)
	}
	return out
}

// IsValid reports whether p addresses a codepoint or a line end.
func (b *TextBuffer) IsValid(p Position) bool {
	return p.Row >= 0 && p.Row < len(b.lines) && p.Col >= 0 && p.Col <= len(b.lines[p.Row])
}

// Clamp moves p to the nearest valid position.
func (b *TextBuffer) Clamp(p Position) Position {
	p.Row = min(max(p.Row, 0), len(b.lines)-1)
	p.Col = min(max(p.Col, 0), len(b.lines[p.Row]))
	return p
}

// End returns the position after the last codepoint.
func (b *TextBuffer) End() Position {
	last := len(b.lines) - 1
	return Position{Row: last, Col: len(b.lines[last])}
}

// Text returns the whole content joined with '\n'.
func (b *TextBuffer) Text() string {
	return strings.Join(b.Lines(), "\n")
}

// TextRange returns the text covered by r.
func (b *TextBuffer) TextRange(r Range) (string, error) {
	if !b.IsValid(r.From) || !b.IsValid(r.To) || r.To.Less(r.From) {
		return "", fmt.Errorf("%w: %v..%v", ErrInvalidPosition, r.From, r.To)
	}
	if r.From.Row == r.To.Row {
		return string(b.lines[r.From.Row][r.From.Col:r.To.Col]), nil
	}

	var sb strings.Builder
	sb.WriteString(string(b.lines[r.From.Row][r.From.Col:]))
	for row := r.From.Row + 1; row < r.To.Row; row++ {
		sb.WriteByte('\n')
		sb.WriteString(string(b.lines[row]))
	}
	sb.WriteByte('\n')
	sb.WriteString(string(b.lines[r.To.Row][:r.To.Col]))
	return sb.String(), nil
}

// Replace substitutes text for the range and returns the resulting edit.
func (b *TextBuffer) Replace(r Range, text string) (Edit, error) {
	if !b.IsValid(r.From) || !b.IsValid(r.To) || r.To.Less(r.From) {
		return Edit{}, fmt.Errorf("%w: %v..%v", ErrInvalidPosition, r.From, r.To)
	}

	head := b.lines[r.From.Row][:r.From.Col]
	tail := b.lines[r.To.Row][r.To.Col:]

	parts := strings.Split(text, "\n")
	inserted := make([][]rune, len(parts))
	for i, p := range parts {
		inserted[i] = []rune(p)
	}

	last := len(inserted) - 1
	end := Position{Row: r.From.Row + last, Col: len(inserted[last])}
	if last == 0 {
		end.Col += r.From.Col
	}

	first := make([]rune, 0, len(head)+len(inserted[0]))
	first = append(first, head...)
	inserted[0] = append(first, inserted[0]...)
	inserted[last] = append(inserted[last], tail...)

	b.lines = slices.Replace(b.lines, r.From.Row, r.To.Row+1, inserted...)
	b.version++

	return Edit{Before: r, After: Range{From: r.From, To: end}}, nil
}

// Insert inserts text at p. A '\n' splits the line.
func (b *TextBuffer) Insert(p Position, text string) (Edit, error) {
	return b.Replace(Range{From: p, To: p}, text)
}

// Delete removes the text covered by r, joining lines across newlines.
func (b *TextBuffer) Delete(r Range) (Edit, error) {
	return b.Replace(r, "")
}

// Next returns the position one codepoint after p, crossing line ends.
func (b *TextBuffer) Next(p Position) (Position, bool) {
	if p.Col < b.LineLen(p.Row) {
		return Position{Row: p.Row, Col: p.Col + 1}, true
	}
	if p.Row+1 < len(b.lines) {
		return Position{Row: p.Row + 1}, true
	}
	return p, false
}

// Prev returns the position one codepoint before p, crossing line starts.
func (b *TextBuffer) Prev(p Position) (Position, bool) {
	if p.Col > 0 {
		return Position{Row: p.Row, Col: p.Col - 1}, true
	}
	if p.Row > 0 {
		return Position{Row: p.Row - 1, Col: b.LineLen(p.Row - 1)}, true
	}
	return p, false
}

// IsModified reports whether the content differs from the last read or write.
func (b *TextBuffer) IsModified() bool {
	return b.saved != b.Text()
}

// Write saves the buffer to path, or to its own path when path is empty.
// Writing to a new path adopts it.
func (b *TextBuffer) Write(path string) error {
	if path == "" {
		path = b.path
	}
	if path == "" {
		return ErrNoPath
	}

	content := b.Text()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	b.path = path
	b.saved = content
	return nil
}

// Observe registers selections to be translated by edits to this buffer.
func (b *TextBuffer) Observe(h Handle[Selections]) {
	if !slices.Contains(b.observers, h) {
		b.observers = append(b.observers, h)
	}
}

// Observers returns the registered selection handles, including dead ones
// not yet swept.
func (b *TextBuffer) Observers() []Handle[Selections] {
	return b.observers
}

// sweep drops observer handles for which alive returns false.
func (b *TextBuffer) sweep(alive func(Handle[Selections]) bool) {
	b.observers = slices.DeleteFunc(b.observers, func(h Handle[Selections]) bool {
		return !alive(h)
	})
}
