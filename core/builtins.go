package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

func (e *Editor) registerBuiltins() {
	r := e.registry

	r.Register("map-input", cmdMapInput)
	r.Register("echo", cmdEcho)
	r.Register("quit", cmdQuit)
	r.Register("open", cmdOpen)
	r.Register("scratch", cmdScratch)
	r.Register("write", cmdWrite)
	r.Register("reload-config", e.cmdReloadConfig)
	r.Register("set-mode", cmdSetMode)
	r.Register("on", cmdOn)
	r.Register("emit", cmdEmit)
	r.Register("combo", cmdCombo)
	r.Register("buffer-next", cmdBufferNext)

	r.Register("insert-char", cmdInsertChar)
	r.Register("insert-newline", cmdInsertNewline)
	r.Register("delete-backward", cmdDeleteBackward)
	r.Register("delete-forward", cmdDeleteForward)
	r.Register("delete-selection", cmdDeleteSelection)
	r.Register("yank", cmdYank)
	r.Register("paste", cmdPaste)
	r.Register("search", cmdSearch)

	r.Register("move-left", motionCommand(moveLeft))
	r.Register("move-right", motionCommand(moveRight))
	r.Register("move-up", motionCommand(moveUp))
	r.Register("move-down", motionCommand(moveDown))
	r.Register("move-word-forward", motionCommand(moveWordForward))
	r.Register("move-word-backward", motionCommand(moveWordBackward))
	r.Register("move-line-start", motionCommand(moveLineStart))
	r.Register("move-line-end", motionCommand(moveLineEnd))
	r.Register("move-buffer-start", motionCommand(moveBufferStart))
	r.Register("move-buffer-end", motionCommand(moveBufferEnd))

	r.Register("shrink-to-cursor", cmdShrinkToCursor)
	r.Register("add-cursor-below", cmdAddCursorBelow)
	r.Register("keep-primary", cmdKeepPrimary)
	r.Register("cycle-primary", cmdCyclePrimary)

	registerPromptCommands(r)
}

// --- Editor-level commands ---

func cmdEcho(options string, ctx *ExecuteContext) error {
	ctx.State.Message = options
	return nil
}

func cmdQuit(_ string, ctx *ExecuteContext) error {
	ctx.State.QuitRequested = true
	return nil
}

func cmdOpen(options string, ctx *ExecuteContext) error {
	return openPath(ctx, strings.TrimSpace(options))
}

func cmdScratch(_ string, ctx *ExecuteContext) error {
	return openBuffer(ctx, NewTextBuffer())
}

// openPath activates the buffer for path, reading it when it is not open yet.
func openPath(ctx *ExecuteContext, path string) error {
	if path == "" {
		return errors.New("open: missing path")
	}
	path = filepath.Clean(path)

	s := ctx.State
	if bh, ok := s.Resources.FindBuffer(path); ok {
		for _, vh := range s.Resources.EditorViews() {
			if v, _ := s.Resources.Views.Get(vh); v.Buffer == bh {
				s.ActiveView = vh
				s.SetFocus(FocusEditor, Handle[View]{})
				return nil
			}
		}
		vh, err := s.Resources.NewView(ViewEditor, bh)
		if err != nil {
			return err
		}
		s.ActiveView = vh
		s.SetFocus(FocusEditor, Handle[View]{})
		return nil
	}

	b, err := ReadTextBuffer(path)
	if err != nil {
		return err
	}
	return openBuffer(ctx, b)
}

// openBuffer stores b, shows it in a new editor view and focuses it.
func openBuffer(ctx *ExecuteContext, b *TextBuffer) error {
	s := ctx.State
	bh := s.Resources.AddBuffer(b)
	vh, err := s.Resources.NewView(ViewEditor, bh)
	if err != nil {
		return err
	}
	s.ActiveView = vh
	s.SetFocus(FocusEditor, Handle[View]{})
	ctx.Events.Emit(EventBufferOpen, b.Path())
	return nil
}

func cmdWrite(options string, ctx *ExecuteContext) error {
	_, b, ok := ctx.State.ActiveBuffer()
	if !ok {
		return ErrNoActiveView
	}
	if err := b.Write(strings.TrimSpace(options)); err != nil {
		return err
	}
	ctx.State.Message = writtenMessage(b.Path(), b.LineCount())
	ctx.Events.Emit(EventBufferWrite, b.Path())
	return nil
}

func (e *Editor) cmdReloadConfig(_ string, ctx *ExecuteContext) error {
	if e.configPath == "" {
		return errors.New("no config file")
	}
	if err := e.LoadConfigFile(e.configPath); err != nil {
		return err
	}
	ctx.State.Message = ConfigReloadedMessage
	return nil
}

func cmdSetMode(options string, ctx *ExecuteContext) error {
	mode := strings.TrimSpace(options)
	if mode == "" {
		return errors.New("set-mode: missing mode")
	}
	if ctx.State.Mode == mode {
		return nil
	}
	ctx.State.Mode = mode
	ctx.Events.Emit(EventModeChange, mode)
	return nil
}

func cmdOn(options string, ctx *ExecuteContext) error {
	event, command, _ := strings.Cut(strings.TrimSpace(options), " ")
	if event == "" || command == "" {
		return errors.New("usage: on <event> <command>")
	}
	ctx.Events.On(event, command)
	return nil
}

func cmdEmit(options string, ctx *ExecuteContext) error {
	event, opts, _ := strings.Cut(options, " ")
	if event == "" {
		return errors.New("usage: emit <event> [options]")
	}
	ctx.Events.Emit(event, opts)
	return nil
}

func cmdCombo(options string, ctx *ExecuteContext) error {
	name := strings.TrimSpace(options)
	if name == "" {
		return errors.New("combo: missing mapping")
	}
	ctx.State.Combo = name
	return nil
}

func cmdBufferNext(_ string, ctx *ExecuteContext) error {
	s := ctx.State
	views := s.Resources.EditorViews()
	if len(views) == 0 {
		return ErrNoActiveView
	}
	next := 0
	for i, vh := range views {
		if vh == s.ActiveView {
			next = (i + 1) % len(views)
			break
		}
	}
	s.ActiveView = views[next]
	return nil
}

// --- Editing ---

// editEach replaces, for every selection of the focused view in order, the
// range returned by fn. Selections are re-read before each call since
// earlier edits move later selections.
func editEach(ctx *ExecuteContext, fn func(b *TextBuffer, sel Selection) (Range, string, bool)) error {
	s := ctx.State
	v, b, sels, err := s.Focused()
	if err != nil {
		return err
	}

	changed := false
	for i := 0; i < sels.Len(); i++ {
		r, text, ok := fn(b, sels.At(i))
		if !ok {
			continue
		}
		_, err := s.Resources.Apply(v.Buffer, func(b *TextBuffer) (Edit, error) {
			return b.Replace(r, text)
		})
		if err != nil {
			return err
		}
		changed = true
	}

	if changed {
		for i := range sels.Len() {
			sel := sels.At(i)
			sel.Preferred = sel.Cursor.Col
			sels.Set(i, sel)
		}
		sels.normalize()
		if v.Kind == ViewEditor {
			ctx.Events.Emit(EventBufferChanged, b.Path())
		}
	}
	return nil
}

func insertAtCursors(ctx *ExecuteContext, text func(i int, sel Selection) string) error {
	i := -1
	return editEach(ctx, func(b *TextBuffer, sel Selection) (Range, string, bool) {
		i++
		t := text(i, sel)
		return Range{From: sel.Cursor, To: sel.Cursor}, t, t != ""
	})
}

func cmdInsertChar(options string, ctx *ExecuteContext) error {
	return insertAtCursors(ctx, func(int, Selection) string { return options })
}

// cmdInsertNewline breaks the line and repeats its indentation.
func cmdInsertNewline(_ string, ctx *ExecuteContext) error {
	_, b, _, err := ctx.State.Focused()
	if err != nil {
		return err
	}
	return insertAtCursors(ctx, func(_ int, sel Selection) string {
		line := b.LineRunes(sel.Cursor.Row)
		indent := 0
		for indent < len(line) && indent < sel.Cursor.Col && isWhiteSpace(line[indent]) {
			indent++
		}
		return "\n" + string(line[:indent])
	})
}

func cmdDeleteBackward(_ string, ctx *ExecuteContext) error {
	return editEach(ctx, func(b *TextBuffer, sel Selection) (Range, string, bool) {
		prev, ok := b.Prev(sel.Cursor)
		return Range{From: prev, To: sel.Cursor}, "", ok
	})
}

func cmdDeleteForward(_ string, ctx *ExecuteContext) error {
	return editEach(ctx, func(b *TextBuffer, sel Selection) (Range, string, bool) {
		next, ok := b.Next(sel.Cursor)
		return Range{From: sel.Cursor, To: next}, "", ok
	})
}

func cmdDeleteSelection(_ string, ctx *ExecuteContext) error {
	return editEach(ctx, func(b *TextBuffer, sel Selection) (Range, string, bool) {
		r := sel.Range()
		return r, "", !r.Empty()
	})
}

// registerName reads a register name from options, defaulting to '"'.
func registerName(options string) rune {
	options = strings.TrimSpace(options)
	if options == "" {
		return DefaultRegister
	}
	r, _ := utf8.DecodeRuneInString(options)
	return r
}

func cmdYank(options string, ctx *ExecuteContext) error {
	_, b, sels, err := ctx.State.Focused()
	if err != nil {
		return err
	}
	values := make([]string, sels.Len())
	for i := range sels.Len() {
		if values[i], err = b.TextRange(sels.At(i).Range()); err != nil {
			return err
		}
	}
	if err := ctx.State.Registers.Set(registerName(options), NewRegister(values)); err != nil {
		return err
	}
	ctx.State.Message = yankedMessage(len(values))
	return nil
}

// cmdPaste inserts one register string per selection when the counts match,
// and the primary string at every cursor otherwise.
func cmdPaste(options string, ctx *ExecuteContext) error {
	reg, ok, err := ctx.State.Registers.Get(registerName(options))
	if err != nil {
		return err
	}
	if !ok {
		return ErrEmptyRegister
	}
	_, _, sels, err := ctx.State.Focused()
	if err != nil {
		return err
	}

	values := []string{reg.Primary}
	if reg.Len() == sels.Len() {
		values = append(values, reg.Extra...)
	}
	return insertAtCursors(ctx, func(i int, _ Selection) string {
		if len(values) == 1 {
			return values[0]
		}
		return values[i]
	})
}

// cmdSearch moves the primary cursor to the next match of a regex after it,
// wrapping around the end of the buffer.
func cmdSearch(options string, ctx *ExecuteContext) error {
	pattern := strings.TrimSpace(options)
	if pattern == "" {
		return errors.New("search: missing pattern")
	}
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	_, b, sels, err := ctx.State.Focused()
	if err != nil {
		return err
	}

	start := sels.Primary().Cursor
	n := b.LineCount()
	for i := 0; i <= n; i++ {
		row := (start.Row + i) % n
		from := 0
		if i == 0 {
			from = start.Col + 1
		}
		line := string(b.LineRunes(row))
		m, err := re.FindStringMatch(line)
		for ; m != nil && err == nil; m, err = re.FindNextMatch(m) {
			if i == n && m.Index >= start.Col+1 {
				break
			}
			if m.Index >= from {
				sels.SetPrimary(Point(Position{Row: row, Col: m.Index}))
				return nil
			}
		}
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
	}
	return fmt.Errorf("search: no match for %s", pattern)
}

// --- Selections and motions ---

// parseMotionOptions reads "[count] [extend]".
func parseMotionOptions(options string) (count int, extend bool, err error) {
	count = 1
	for _, f := range strings.Fields(options) {
		if f == "extend" {
			extend = true
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 {
			return 0, false, fmt.Errorf("invalid count %q", f)
		}
		count = n
	}
	return count, extend, nil
}

// motionCommand moves every cursor of the focused view. Without extend the
// selections collapse onto their cursors and coinciding ones merge.
func motionCommand(m motion) CommandFunc {
	return func(options string, ctx *ExecuteContext) error {
		count, extend, err := parseMotionOptions(options)
		if err != nil {
			return err
		}
		_, b, sels, err := ctx.State.Focused()
		if err != nil {
			return err
		}
		for i := range sels.Len() {
			sel := sels.At(i)
			sel.Cursor, sel.Preferred = m(b, sel, count)
			if !extend {
				sel.Anchor = sel.Cursor
			}
			sels.Set(i, sel)
		}
		if !extend {
			sels.normalize()
		}
		return nil
	}
}

func cmdShrinkToCursor(_ string, ctx *ExecuteContext) error {
	_, _, sels, err := ctx.State.Focused()
	if err != nil {
		return err
	}
	sels.ShrinkToCursor()
	return nil
}

func cmdAddCursorBelow(_ string, ctx *ExecuteContext) error {
	_, b, sels, err := ctx.State.Focused()
	if err != nil {
		return err
	}
	p := sels.Primary()
	if p.Cursor.Row+1 >= b.LineCount() {
		return ErrEndOfBuffer
	}
	row := p.Cursor.Row + 1
	sel := Point(Position{Row: row, Col: min(p.Preferred, b.LineLen(row))})
	sel.Preferred = p.Preferred
	sels.Add(sel)
	return nil
}

func cmdKeepPrimary(_ string, ctx *ExecuteContext) error {
	_, _, sels, err := ctx.State.Focused()
	if err != nil {
		return err
	}
	sels.KeepPrimary()
	return nil
}

func cmdCyclePrimary(_ string, ctx *ExecuteContext) error {
	_, _, sels, err := ctx.State.Focused()
	if err != nil {
		return err
	}
	sels.CyclePrimary()
	return nil
}
