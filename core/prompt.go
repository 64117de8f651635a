package core

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// maxPickerEntries bounds the files collected by the file picker.
const maxPickerEntries = 10000

// warpAlphabet labels warpdrive targets, home row first.
const warpAlphabet = "asdfghjklqwertyuiopzxcvbnm"

func registerPromptCommands(r *Registry) {
	r.Register("prompt-command", cmdPromptCommand)
	r.Register("prompt-accept", cmdPromptAccept)
	r.Register("prompt-cancel", cmdPromptCancel)
	r.Register("prompt-complete", cmdPromptComplete)

	r.Register("file-picker", cmdFilePicker)
	r.Register("picker-next", cmdPickerMove(1))
	r.Register("picker-prev", cmdPickerMove(-1))
	r.Register("picker-accept", cmdPickerAccept)
	r.Register("picker-cancel", cmdPickerCancel)

	r.Register("warpdrive", cmdWarpdrive)
	r.Register("warp-char", cmdWarpChar)
	r.Register("warpdrive-cancel", cmdWarpdriveCancel)
}

// openPrompt creates a one-line input buffer holding text, cursor at the end.
func openPrompt(s *State, text string) (Prompt, error) {
	bh := s.Resources.AddBuffer(NewTextBufferFromString(text))
	vh, err := s.Resources.NewView(ViewPrompt, bh)
	if err != nil {
		return Prompt{}, err
	}
	_, b, sels, err := s.Resources.Resolve(vh)
	if err != nil {
		return Prompt{}, err
	}
	sels.SetPrimary(Point(b.End()))
	return Prompt{View: vh, Buffer: bh}, nil
}

func closePrompt(s *State, p Prompt) {
	s.Resources.RemoveBuffer(p.Buffer)
	s.SetFocus(FocusEditor, Handle[View]{})
}

func promptText(s *State, p Prompt) string {
	b, ok := s.Resources.Buffers.Get(p.Buffer)
	if !ok {
		return ""
	}
	return b.Text()
}

// --- Modeline prompt ---

// cmdPromptCommand focuses the modeline command line, prefilled with the
// options.
func cmdPromptCommand(options string, ctx *ExecuteContext) error {
	s := ctx.State
	if s.Prompt != nil {
		s.SetFocus(FocusModeline, s.Prompt.View)
		return nil
	}
	p, err := openPrompt(s, options)
	if err != nil {
		return err
	}
	s.Prompt = &p
	s.SetFocus(FocusModeline, p.View)
	return nil
}

// cmdPromptAccept closes the prompt and runs its text as a command.
func cmdPromptAccept(_ string, ctx *ExecuteContext) error {
	s := ctx.State
	if s.Prompt == nil {
		return errors.New("no prompt")
	}
	text := strings.TrimSpace(promptText(s, *s.Prompt))
	closePrompt(s, *s.Prompt)
	s.Prompt = nil
	s.Suggestions = nil
	if text != "" {
		ctx.EnqueueFront(text)
	}
	return nil
}

func cmdPromptCancel(_ string, ctx *ExecuteContext) error {
	s := ctx.State
	if s.Prompt == nil {
		return nil
	}
	closePrompt(s, *s.Prompt)
	s.Prompt = nil
	s.Suggestions = nil
	return nil
}

// cmdPromptComplete replaces the prompt text with the first suggestion.
func cmdPromptComplete(_ string, ctx *ExecuteContext) error {
	s := ctx.State
	if s.Prompt == nil {
		return errors.New("no prompt")
	}
	suggestions := Completions(ctx.Registry, promptText(s, *s.Prompt))
	if len(suggestions) == 0 {
		return nil
	}

	_, b, sels, err := s.Resources.Resolve(s.Prompt.View)
	if err != nil {
		return err
	}
	if _, err := s.Resources.Apply(s.Prompt.Buffer, func(b *TextBuffer) (Edit, error) {
		return b.Replace(Range{To: b.End()}, suggestions[0]+" ")
	}); err != nil {
		return err
	}
	sels.KeepPrimary()
	sels.SetPrimary(Point(b.End()))
	return nil
}

// Completions returns the registered command names starting with text. Text
// that already holds options has no completions.
func Completions(r *Registry, text string) []string {
	if strings.ContainsAny(text, " \n") {
		return nil
	}
	var out []string
	for _, name := range r.Names() {
		if strings.HasPrefix(name, text) {
			out = append(out, name)
		}
	}
	return out
}

// --- File picker ---

func cmdFilePicker(options string, ctx *ExecuteContext) error {
	s := ctx.State
	dir := strings.TrimSpace(options)
	if dir == "" {
		dir = "."
		if path := s.ActivePath(); path != "" {
			dir = filepath.Dir(path)
		}
	}

	entries, err := listFiles(dir)
	if err != nil {
		return err
	}
	if s.Picker != nil {
		closePrompt(s, s.Picker.Prompt)
	}
	p, err := openPrompt(s, "")
	if err != nil {
		return err
	}
	s.Picker = &Picker{Prompt: p, Dir: dir, Entries: entries, Filtered: entries}
	s.SetFocus(FocusFilePicker, p.View)
	return nil
}

// listFiles walks dir for regular files, skipping hidden directories.
func listFiles(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		out = append(out, rel)
		if len(out) >= maxPickerEntries {
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("file-picker: %w", err)
	}
	return out, nil
}

// FuzzyFilter keeps the entries containing query as a case-insensitive
// subsequence. Entries containing it as a substring come first; order is
// otherwise preserved.
func FuzzyFilter(entries []string, query string) []string {
	if query == "" {
		return entries
	}
	q := strings.ToLower(query)
	var exact, loose []string
	for _, e := range entries {
		l := strings.ToLower(e)
		switch {
		case strings.Contains(l, q):
			exact = append(exact, e)
		case isSubsequence(l, q):
			loose = append(loose, e)
		}
	}
	return append(exact, loose...)
}

func isSubsequence(s, sub string) bool {
	for _, r := range s {
		if sub == "" {
			return true
		}
		first, size := utf8.DecodeRuneInString(sub)
		if r == first {
			sub = sub[size:]
		}
	}
	return sub == ""
}

func cmdPickerMove(delta int) CommandFunc {
	return func(_ string, ctx *ExecuteContext) error {
		p := ctx.State.Picker
		if p == nil || len(p.Filtered) == 0 {
			return nil
		}
		n := len(p.Filtered)
		p.Index = ((p.Index+delta)%n + n) % n
		return nil
	}
}

func cmdPickerAccept(_ string, ctx *ExecuteContext) error {
	s := ctx.State
	p := s.Picker
	if p == nil {
		return errors.New("no file picker")
	}
	// The filter may be stale if the query changed during this tick.
	p.Filtered = FuzzyFilter(p.Entries, promptText(s, p.Prompt))
	selected, ok := p.Selected()
	closePrompt(s, p.Prompt)
	s.Picker = nil
	if !ok {
		return errors.New("no file selected")
	}
	ctx.EnqueueFront("open " + filepath.Join(p.Dir, selected))
	return nil
}

func cmdPickerCancel(_ string, ctx *ExecuteContext) error {
	s := ctx.State
	if s.Picker == nil {
		return nil
	}
	closePrompt(s, s.Picker.Prompt)
	s.Picker = nil
	return nil
}

// --- Warpdrive ---

// cmdWarpdrive labels the word starts visible in the active view.
func cmdWarpdrive(_ string, ctx *ExecuteContext) error {
	s := ctx.State
	v, b, _, err := s.Resources.Resolve(s.ActiveView)
	if err != nil {
		return ErrNoActiveView
	}

	size := s.EditorSize()
	var positions []Position
	for row := v.TopLeft.Row; row < min(v.TopLeft.Row+size.Height, b.LineCount()); row++ {
		positions = append(positions, wordStarts(b, row, v.TopLeft.Col, v.TopLeft.Col+size.Width)...)
	}
	if len(positions) == 0 {
		return errors.New("warpdrive: no targets")
	}

	labels := warpLabels(len(positions))
	targets := make([]WarpTarget, len(labels))
	for i, l := range labels {
		targets[i] = WarpTarget{Position: positions[i], Label: l}
	}
	s.Warpdrive = &Warpdrive{View: s.ActiveView, Targets: targets}
	s.SetFocus(FocusWarpdrive, Handle[View]{})
	return nil
}

// warpLabels returns n labels, one letter each when they fit, two otherwise.
// At most len(warpAlphabet)^2 labels are produced.
func warpLabels(n int) []string {
	k := len(warpAlphabet)
	if n <= k {
		out := make([]string, n)
		for i := range n {
			out[i] = warpAlphabet[i : i+1]
		}
		return out
	}
	n = min(n, k*k)
	out := make([]string, n)
	for i := range n {
		out[i] = string([]byte{warpAlphabet[i/k], warpAlphabet[i%k]})
	}
	return out
}

// cmdWarpChar narrows the labels by one typed character and jumps once a
// label is complete.
func cmdWarpChar(options string, ctx *ExecuteContext) error {
	s := ctx.State
	w := s.Warpdrive
	if w == nil {
		return errors.New("warpdrive not active")
	}
	w.Typed += options

	matching := w.Matching()
	switch {
	case len(matching) == 0:
		typed := w.Typed
		s.Warpdrive = nil
		s.SetFocus(FocusEditor, Handle[View]{})
		return fmt.Errorf("warpdrive: no label %q", typed)
	case len(matching) == 1 && matching[0].Label == w.Typed:
		_, _, sels, err := s.Resources.Resolve(w.View)
		s.Warpdrive = nil
		s.SetFocus(FocusEditor, Handle[View]{})
		if err != nil {
			return err
		}
		sels.KeepPrimary()
		sels.SetPrimary(Point(matching[0].Position))
	}
	return nil
}

func cmdWarpdriveCancel(_ string, ctx *ExecuteContext) error {
	ctx.State.Warpdrive = nil
	ctx.State.SetFocus(FocusEditor, Handle[View]{})
	return nil
}
