package core

// Position is a buffer-absolute location. Col counts codepoints.
type Position struct {
	Row int
	Col int
}

// Compare orders positions by row, then column.
func (p Position) Compare(q Position) int {
	switch {
	case p.Row < q.Row:
		return -1
	case p.Row > q.Row:
		return 1
	case p.Col < q.Col:
		return -1
	case p.Col > q.Col:
		return 1
	}
	return 0
}

// Less reports whether p is before q.
func (p Position) Less(q Position) bool {
	return p.Compare(q) < 0
}

// ViewPosition is a location relative to a view's top-left corner.
type ViewPosition struct {
	Row int
	Col int
}

// Range is the half-open interval [From, To) with From <= To.
type Range struct {
	From Position
	To   Position
}

// NewRange orders a and b into a range.
func NewRange(a, b Position) Range {
	if b.Less(a) {
		a, b = b, a
	}
	return Range{From: a, To: b}
}

// Empty reports whether the range covers nothing.
func (r Range) Empty() bool {
	return r.From == r.To
}

// Contains reports whether p lies within [From, To).
func (r Range) Contains(p Position) bool {
	return !p.Less(r.From) && p.Less(r.To)
}

// Edit describes a replacement: the text covered by Before now covers After.
// Both ranges start at the same position.
type Edit struct {
	Before Range
	After  Range
}

// Translate maps a position from before the edit to after it. Positions
// before the edit are unchanged, positions inside the replaced range collapse
// to the end of the inserted text, and later positions shift with it.
func (e Edit) Translate(p Position) Position {
	from, to := e.Before.From, e.Before.To
	end := e.After.To

	if p.Less(from) {
		return p
	}
	if p.Less(to) {
		return end
	}

	removed := to.Row - from.Row
	added := end.Row - e.After.From.Row
	if p.Row == to.Row {
		return Position{Row: end.Row, Col: end.Col + (p.Col - to.Col)}
	}
	return Position{Row: p.Row + added - removed, Col: p.Col}
}
