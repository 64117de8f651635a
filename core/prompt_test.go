package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptRunsCommand(t *testing.T) {
	e := newEditor(t)
	e.Feed(Char(':'))
	feedString(e, "echo hi")
	e.Feed(NamedKey(KeyEnter))
	e.Tick()

	s := e.State()
	assert.Equal(t, "hi", s.Message)
	assert.Nil(t, s.Prompt)
	assert.Equal(t, FocusEditor, s.Focus.Kind)
	assert.Zero(t, s.Resources.Buffers.Len(), "prompt buffer is released")
}

func TestPromptSuggestionsAndCompletion(t *testing.T) {
	e := newEditor(t)
	e.Feed(Char(':'))
	feedString(e, "move-l")
	e.Tick()

	s := e.State()
	require.NotNil(t, s.Prompt)
	assert.Equal(t, FocusModeline, s.Focus.Kind)
	assert.Equal(t, []string{"move-left", "move-line-end", "move-line-start"}, s.Suggestions)

	e.Feed(NamedKey(KeyTab))
	e.Tick()
	assert.Equal(t, "move-left ", promptText(s, *s.Prompt))
	assert.Empty(t, s.Suggestions)

	e.Feed(NamedKey(KeyEscape))
	e.Tick()
	assert.Nil(t, s.Prompt)
	assert.Equal(t, FocusEditor, s.Focus.Kind)
}

func TestPromptPrefilledSearch(t *testing.T) {
	e := newEditor(t)
	require.NoError(t, e.Scratch())
	e.Enqueue("insert-char foo bar foo")
	e.Enqueue("move-line-start")
	e.Tick()

	e.Feed(Char('/'))
	feedString(e, "foo")
	e.Feed(NamedKey(KeyEnter))
	e.Tick()

	require.Empty(t, e.State().ModelineErr)
	assert.Equal(t, Position{0, 8}, primaryCursor(t, e))
	assert.Equal(t, "foo bar foo", activeText(t, e))
}

func TestPromptEditingDoesNotTouchActiveBuffer(t *testing.T) {
	e := newEditor(t)
	require.NoError(t, e.Scratch())
	e.Enqueue("insert-char text")
	e.Tick()

	e.Feed(Char(':'))
	feedString(e, "ab")
	e.Feed(NamedKey(KeyBackspace))
	e.Tick()

	s := e.State()
	assert.Equal(t, "a", promptText(s, *s.Prompt))
	assert.Equal(t, "text", activeText(t, e))
}

func TestFilePicker(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.go", filepath.Join("sub", "b.txt"), filepath.Join(".git", "config")} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
	}

	e := newEditor(t)
	e.Enqueue("file-picker " + dir)
	e.Tick()

	s := e.State()
	require.NotNil(t, s.Picker)
	assert.Equal(t, FocusFilePicker, s.Focus.Kind)
	assert.Equal(t, []string{"a.go", filepath.Join("sub", "b.txt")}, s.Picker.Entries)

	e.Feed(Char('b'))
	e.Tick()
	assert.Equal(t, []string{filepath.Join("sub", "b.txt")}, s.Picker.Filtered)

	e.Feed(NamedKey(KeyEnter))
	e.Tick()
	assert.Nil(t, s.Picker)
	assert.Equal(t, FocusEditor, s.Focus.Kind)
	assert.Equal(t, filepath.Join(dir, "sub", "b.txt"), s.ActivePath())
	assert.Equal(t, filepath.Join("sub", "b.txt"), activeText(t, e))
}

func TestFilePickerNavigation(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"one", "two", "three"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	e := newEditor(t)
	e.Enqueue("file-picker " + dir)
	e.Feed(NamedKey(KeyUp))
	e.Tick()

	p := e.State().Picker
	require.NotNil(t, p)
	selected, ok := p.Selected()
	require.True(t, ok)
	assert.Equal(t, "two", selected)

	e.Feed(NamedKey(KeyEscape))
	e.Tick()
	assert.Nil(t, e.State().Picker)
	assert.Zero(t, e.State().Resources.Buffers.Len())
}

func TestFuzzyFilter(t *testing.T) {
	entries := []string{"cmd/main.go", "core/editor.go", "README.md", "core/mode.go"}
	assert.Equal(t, entries, FuzzyFilter(entries, ""))
	assert.Equal(t, []string{"core/editor.go", "README.md", "core/mode.go"}, FuzzyFilter(entries, "ed"))
	assert.Equal(t, []string{"cmd/main.go", "core/mode.go"}, FuzzyFilter(entries, "mgo"))
	assert.Equal(t, []string{"core/editor.go"}, FuzzyFilter(entries, "EDIT"))
	assert.Empty(t, FuzzyFilter(entries, "zzz"))
}

func TestWarpLabels(t *testing.T) {
	assert.Equal(t, []string{"a", "s", "d"}, warpLabels(3))

	labels := warpLabels(30)
	assert.Len(t, labels, 30)
	assert.Equal(t, "aa", labels[0])
	assert.Equal(t, "as", labels[1])

	seen := make(map[string]bool)
	for _, l := range warpLabels(1000) {
		assert.False(t, seen[l], l)
		seen[l] = true
	}
	assert.Len(t, seen, len(warpAlphabet)*len(warpAlphabet))
}

func TestWarpdriveJump(t *testing.T) {
	e := newEditor(t, WithSize(80, 10))
	require.NoError(t, e.Scratch())
	e.Enqueue("insert-char foo bar\nbaz")
	e.Enqueue("warpdrive")
	e.Tick()

	s := e.State()
	require.NotNil(t, s.Warpdrive)
	assert.Equal(t, FocusWarpdrive, s.Focus.Kind)
	assert.Equal(t, []WarpTarget{
		{Position: Position{0, 0}, Label: "a"},
		{Position: Position{0, 4}, Label: "s"},
		{Position: Position{1, 0}, Label: "d"},
	}, s.Warpdrive.Targets)

	e.Feed(Char('s'))
	e.Tick()
	assert.Nil(t, s.Warpdrive)
	assert.Equal(t, FocusEditor, s.Focus.Kind)
	assert.Equal(t, Position{0, 4}, primaryCursor(t, e))
}

func TestWarpdriveUnknownLabel(t *testing.T) {
	e := newEditor(t, WithSize(80, 10))
	require.NoError(t, e.Scratch())
	e.Enqueue("insert-char foo")
	e.Enqueue("warpdrive")
	e.Feed(Char('z'))
	e.Tick()

	assert.Nil(t, e.State().Warpdrive)
	assert.Contains(t, e.State().ModelineErr, "no label")
}
