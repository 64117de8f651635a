package core

import (
	"cmp"
	"slices"
)

// Selection is a cursor and an anchor. The cursor is the active end.
type Selection struct {
	Cursor    Position
	Anchor    Position
	Preferred int // sticky column for vertical movement
}

// Point returns a zero-length selection at p.
func Point(p Position) Selection {
	return Selection{Cursor: p, Anchor: p, Preferred: p.Col}
}

// Range returns the covered text range.
func (s Selection) Range() Range {
	return NewRange(s.Cursor, s.Anchor)
}

// Selections is a non-empty ordered list of selections with a primary entry.
type Selections struct {
	items   []Selection
	primary int
}

// NewSelections creates a set holding only s.
func NewSelections(s Selection) *Selections {
	return &Selections{items: []Selection{s}}
}

func (s *Selections) Len() int {
	return len(s.items)
}

// At returns the i-th selection.
func (s *Selections) At(i int) Selection {
	return s.items[i]
}

// Set replaces the i-th selection.
func (s *Selections) Set(i int, sel Selection) {
	s.items[i] = sel
}

// All returns a copy of every selection in order.
func (s *Selections) All() []Selection {
	return slices.Clone(s.items)
}

// Primary returns the primary selection.
func (s *Selections) Primary() Selection {
	return s.items[s.primary]
}

// PrimaryIndex returns the index of the primary selection.
func (s *Selections) PrimaryIndex() int {
	return s.primary
}

// SetPrimary replaces the primary selection.
func (s *Selections) SetPrimary(sel Selection) {
	s.items[s.primary] = sel
}

// Add appends sel and makes it primary.
func (s *Selections) Add(sel Selection) {
	s.items = append(s.items, sel)
	s.primary = len(s.items) - 1
}

// KeepPrimary drops every selection but the primary.
func (s *Selections) KeepPrimary() {
	s.items = []Selection{s.items[s.primary]}
	s.primary = 0
}

// CyclePrimary makes the next selection primary, wrapping around.
func (s *Selections) CyclePrimary() {
	s.primary = (s.primary + 1) % len(s.items)
}

// ShrinkToCursor collapses every selection onto its cursor. Selections that
// end up identical are merged; the result is ordered by start, then cursor.
// The primary follows its selection.
func (s *Selections) ShrinkToCursor() {
	for i := range s.items {
		s.items[i].Anchor = s.items[i].Cursor
	}
	s.normalize()
}

// normalize sorts selections by start position, ties broken by cursor, and
// merges duplicates.
func (s *Selections) normalize() {
	primary := s.items[s.primary]
	slices.SortStableFunc(s.items, func(a, b Selection) int {
		return cmp.Or(
			a.Range().From.Compare(b.Range().From),
			a.Cursor.Compare(b.Cursor),
			a.Anchor.Compare(b.Anchor),
		)
	})
	s.items = slices.CompactFunc(s.items, func(a, b Selection) bool {
		return a.Cursor == b.Cursor && a.Anchor == b.Anchor
	})
	s.primary = slices.IndexFunc(s.items, func(sel Selection) bool {
		return sel.Cursor == primary.Cursor && sel.Anchor == primary.Anchor
	})
}

// Translate maps every selection through an edit.
func (s *Selections) Translate(e Edit) {
	for i := range s.items {
		s.items[i].Cursor = e.Translate(s.items[i].Cursor)
		s.items[i].Anchor = e.Translate(s.items[i].Anchor)
	}
}

// Clamp moves every selection inside b.
func (s *Selections) Clamp(b *TextBuffer) {
	for i := range s.items {
		s.items[i].Cursor = b.Clamp(s.items[i].Cursor)
		s.items[i].Anchor = b.Clamp(s.items[i].Anchor)
	}
}
