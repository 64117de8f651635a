package core

// ViewKind tells editor views apart from the views backing prompts.
type ViewKind int

const (
	ViewEditor ViewKind = iota
	ViewPrompt
)

// View shows a buffer from a scroll origin. It owns its selections: removing
// the view through Resources removes them too.
type View struct {
	Kind       ViewKind
	Buffer     Handle[TextBuffer]
	Selections Handle[Selections]
	TopLeft    Position
}

// ToBuffer converts a view-relative position to a buffer position.
func (v *View) ToBuffer(p ViewPosition) Position {
	return Position{Row: p.Row + v.TopLeft.Row, Col: p.Col + v.TopLeft.Col}
}

// ToView converts a buffer position to a view-relative one. The result may
// lie outside the visible area.
func (v *View) ToView(p Position) ViewPosition {
	return ViewPosition{Row: p.Row - v.TopLeft.Row, Col: p.Col - v.TopLeft.Col}
}

// Visible reports whether p falls inside a viewport of the given size.
func (v *View) Visible(p Position, size Size) bool {
	vp := v.ToView(p)
	return vp.Row >= 0 && vp.Row < size.Height && vp.Col >= 0 && vp.Col < size.Width
}

// ScrollTo moves the origin the least amount that brings p into a viewport
// of the given size.
func (v *View) ScrollTo(p Position, size Size) {
	if size.Height > 0 {
		if p.Row < v.TopLeft.Row {
			v.TopLeft.Row = p.Row
		} else if p.Row >= v.TopLeft.Row+size.Height {
			v.TopLeft.Row = p.Row - size.Height + 1
		}
	}
	if size.Width > 0 {
		if p.Col < v.TopLeft.Col {
			v.TopLeft.Col = p.Col
		} else if p.Col >= v.TopLeft.Col+size.Width {
			v.TopLeft.Col = p.Col - size.Width + 1
		}
	}
}

// Size is a width and height in cells.
type Size struct {
	Width  int
	Height int
}

// Resources owns every buffer, view and selection set.
type Resources struct {
	Buffers    SlotMap[TextBuffer]
	Views      SlotMap[View]
	Selections SlotMap[Selections]
}

// NewResources creates empty arenas.
func NewResources() *Resources {
	return &Resources{}
}

// AddBuffer stores b and returns its handle.
func (r *Resources) AddBuffer(b *TextBuffer) Handle[TextBuffer] {
	return r.Buffers.Insert(*b)
}

// NewView creates a view of buffer with one selection at the buffer start.
func (r *Resources) NewView(kind ViewKind, buffer Handle[TextBuffer]) (Handle[View], error) {
	b, ok := r.Buffers.Get(buffer)
	if !ok {
		return Handle[View]{}, ErrInvalidHandle
	}

	sel := r.Selections.Insert(*NewSelections(Point(Position{})))
	b.Observe(sel)
	return r.Views.Insert(View{Kind: kind, Buffer: buffer, Selections: sel}), nil
}

// RemoveView removes a view and its selections. The buffer stays.
func (r *Resources) RemoveView(h Handle[View]) {
	v, ok := r.Views.Remove(h)
	if !ok {
		return
	}
	r.Selections.Remove(v.Selections)
}

// RemoveBuffer removes a buffer and every view showing it.
func (r *Resources) RemoveBuffer(h Handle[TextBuffer]) {
	var views []Handle[View]
	for vh, v := range r.Views.All() {
		if v.Buffer == h {
			views = append(views, vh)
		}
	}
	for _, vh := range views {
		r.RemoveView(vh)
	}
	r.Buffers.Remove(h)
}

// Resolve returns the view, its buffer and its selections.
func (r *Resources) Resolve(h Handle[View]) (*View, *TextBuffer, *Selections, error) {
	v, ok := r.Views.Get(h)
	if !ok {
		return nil, nil, nil, ErrInvalidHandle
	}
	b, ok := r.Buffers.Get(v.Buffer)
	if !ok {
		return nil, nil, nil, ErrInvalidHandle
	}
	s, ok := r.Selections.Get(v.Selections)
	if !ok {
		return nil, nil, nil, ErrInvalidHandle
	}
	return v, b, s, nil
}

// Apply runs a buffer mutation and translates every live selection observing
// that buffer through the resulting edit.
func (r *Resources) Apply(h Handle[TextBuffer], mutate func(*TextBuffer) (Edit, error)) (Edit, error) {
	b, ok := r.Buffers.Get(h)
	if !ok {
		return Edit{}, ErrInvalidHandle
	}
	edit, err := mutate(b)
	if err != nil {
		return Edit{}, err
	}
	for _, sh := range b.Observers() {
		if s, ok := r.Selections.Get(sh); ok {
			s.Translate(edit)
		}
	}
	return edit, nil
}

// Sweep drops dead selection handles from every buffer.
func (r *Resources) Sweep() {
	for _, b := range r.Buffers.All() {
		b.sweep(r.Selections.Contains)
	}
}

// FindBuffer returns the buffer with the given path.
func (r *Resources) FindBuffer(path string) (Handle[TextBuffer], bool) {
	for h, b := range r.Buffers.All() {
		if b.Path() == path {
			return h, true
		}
	}
	return Handle[TextBuffer]{}, false
}

// EditorViews returns the handles of editor views in slot order.
func (r *Resources) EditorViews() []Handle[View] {
	var out []Handle[View]
	for h, v := range r.Views.All() {
		if v.Kind == ViewEditor {
			out = append(out, h)
		}
	}
	return out
}
