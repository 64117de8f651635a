package core

import (
	"github.com/ionut-t/moded/highlighter"
)

// refresh recomputes state derived from the resources after a tick.
func (e *Editor) refresh() {
	s := e.state
	s.Resources.Sweep()
	e.clampSelections()
	e.scrollActiveView()
	e.highlight()

	s.Suggestions = nil
	if s.Prompt != nil && s.Focus.Kind == FocusModeline {
		s.Suggestions = Completions(e.registry, promptText(s, *s.Prompt))
	}

	if p := s.Picker; p != nil {
		p.Filtered = FuzzyFilter(p.Entries, promptText(s, p.Prompt))
		p.Index = min(max(p.Index, 0), max(len(p.Filtered)-1, 0))
	}
}

// clampSelections keeps selections inside their buffers.
func (e *Editor) clampSelections() {
	r := e.state.Resources
	for _, v := range r.Views.All() {
		b, ok := r.Buffers.Get(v.Buffer)
		if !ok {
			continue
		}
		if sels, ok := r.Selections.Get(v.Selections); ok {
			sels.Clamp(b)
		}
	}
}

func (e *Editor) scrollActiveView() {
	s := e.state
	v, _, sels, err := s.Resources.Resolve(s.ActiveView)
	if err != nil {
		return
	}
	v.ScrollTo(sels.Primary().Cursor, s.EditorSize())
}

// highlight refreshes the token cache of every buffer shown in an editor
// view whose content, config or mode changed.
func (e *Editor) highlight() {
	s := e.state
	shown := make(map[Handle[TextBuffer]]bool)
	for _, vh := range s.Resources.EditorViews() {
		v, _ := s.Resources.Views.Get(vh)
		shown[v.Buffer] = true
	}

	for bh := range s.Highlights {
		if !shown[bh] {
			delete(s.Highlights, bh)
		}
	}

	for bh := range shown {
		b, ok := s.Resources.Buffers.Get(bh)
		if !ok {
			continue
		}
		cached := s.Highlights[bh]
		if cached != nil && cached.Version == b.Version() && cached.ConfigGen == s.ConfigGeneration() && cached.Mode == s.Mode {
			continue
		}

		rules := s.Config.Resolve(b.Path(), s.Mode).Mapping(MappingSyntax).Entries
		h, err := highlighter.New(b.Path(), rules)
		if err != nil {
			e.logger.Printf("syntax rules for %q: %v", b.Path(), err)
		}
		s.Highlights[bh] = &Highlight{
			Version:   b.Version(),
			ConfigGen: s.ConfigGeneration(),
			Mode:      s.Mode,
			Tokens:    h.Highlight(b.Lines()),
		}
	}
}
