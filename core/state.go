package core

import (
	"github.com/ionut-t/moded/config"
	"github.com/ionut-t/moded/highlighter"
)

// FocusKind names the panel receiving input.
type FocusKind int

const (
	FocusEditor FocusKind = iota
	FocusModeline
	FocusFilePicker
	FocusWarpdrive
)

func (k FocusKind) String() string {
	switch k {
	case FocusModeline:
		return "modeline"
	case FocusFilePicker:
		return "file-picker"
	case FocusWarpdrive:
		return "warpdrive"
	default:
		return "editor"
	}
}

// Focus is the focused panel. The modeline and file picker carry the view
// of their input line.
type Focus struct {
	Kind FocusKind
	View Handle[View]
}

// Prompt is the modeline command line.
type Prompt struct {
	View   Handle[View]
	Buffer Handle[TextBuffer]
}

// Picker is the file picker: a query line over files found under Dir.
type Picker struct {
	Prompt
	Dir      string
	Entries  []string
	Filtered []string
	Index    int
}

// Selected returns the highlighted entry.
func (p *Picker) Selected() (string, bool) {
	if p.Index < 0 || p.Index >= len(p.Filtered) {
		return "", false
	}
	return p.Filtered[p.Index], true
}

// WarpTarget is a jump destination labelled for warpdrive.
type WarpTarget struct {
	Position Position
	Label    string
}

// Warpdrive holds the labels shown while warping and what was typed so far.
type Warpdrive struct {
	View    Handle[View]
	Targets []WarpTarget
	Typed   string
}

// Matching returns the targets whose label starts with the typed prefix.
func (w *Warpdrive) Matching() []WarpTarget {
	var out []WarpTarget
	for _, t := range w.Targets {
		if len(t.Label) >= len(w.Typed) && t.Label[:len(w.Typed)] == w.Typed {
			out = append(out, t)
		}
	}
	return out
}

// Highlight caches the syntax tokens of a buffer version.
type Highlight struct {
	Version   int
	ConfigGen int
	Mode      string
	Tokens    []highlighter.Token
}

// State is everything commands read and mutate.
type State struct {
	Resources *Resources
	Config    *config.Config
	Registers *Registers

	Focus      Focus
	ActiveView Handle[View]
	Size       Size
	Mode       string

	ModelineErr   string
	Message       string
	QuitRequested bool
	RenderReady   bool

	// Combo, when set, names the mapping used for the next input.
	Combo     string
	Prompt    *Prompt
	Picker    *Picker
	Warpdrive *Warpdrive

	Highlights  map[Handle[TextBuffer]]*Highlight
	Suggestions []string

	configGen int
}

// NewState creates a state with no buffers and an empty config.
func NewState(clipboard Clipboard) *State {
	return &State{
		Resources:  NewResources(),
		Config:     config.Empty(),
		Registers:  NewRegisters(clipboard),
		Mode:       "normal",
		Highlights: make(map[Handle[TextBuffer]]*Highlight),
	}
}

// SetConfig replaces the live config.
func (s *State) SetConfig(cfg *config.Config) {
	s.Config = cfg
	s.configGen++
}

// ConfigGeneration increases with every SetConfig.
func (s *State) ConfigGeneration() int {
	return s.configGen
}

// ActiveBuffer returns the buffer of the active editor view.
func (s *State) ActiveBuffer() (Handle[TextBuffer], *TextBuffer, bool) {
	v, ok := s.Resources.Views.Get(s.ActiveView)
	if !ok {
		return Handle[TextBuffer]{}, nil, false
	}
	b, ok := s.Resources.Buffers.Get(v.Buffer)
	return v.Buffer, b, ok
}

// ActivePath returns the path of the active buffer, empty without one.
func (s *State) ActivePath() string {
	if _, b, ok := s.ActiveBuffer(); ok {
		return b.Path()
	}
	return ""
}

// Resolve composes the config for the active buffer and mode.
func (s *State) Resolve() *config.Resolved {
	return s.Config.Resolve(s.ActivePath(), s.Mode)
}

// FocusedView returns the handle of the view that editing commands act on:
// the input line of a focused prompt, or else the active editor view.
func (s *State) FocusedView() Handle[View] {
	if !s.Focus.View.IsZero() {
		return s.Focus.View
	}
	return s.ActiveView
}

// Focused resolves the focused view.
func (s *State) Focused() (*View, *TextBuffer, *Selections, error) {
	h := s.FocusedView()
	if h.IsZero() {
		return nil, nil, nil, ErrNoActiveView
	}
	return s.Resources.Resolve(h)
}

// EditorSize is the area left for the editor panel: everything above the
// modeline row.
func (s *State) EditorSize() Size {
	return Size{Width: s.Size.Width, Height: max(s.Size.Height-1, 0)}
}

// SetFocus moves input focus.
func (s *State) SetFocus(kind FocusKind, view Handle[View]) {
	s.Focus = Focus{Kind: kind, View: view}
}
