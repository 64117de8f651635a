package bubble_adapter

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ionut-t/moded/core"
)

func TestConvertBubbleKey(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want []string
	}{
		{"rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, []string{"x"}},
		{"paste", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")}, []string{"a", "b"}},
		{"alt rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x"), Alt: true}, []string{"a-x"}},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}, []string{"<space>"}},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, []string{"<ret>"}},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, []string{"<tab>"}},
		{"shift tab", tea.KeyMsg{Type: tea.KeyShiftTab}, []string{"s-<tab>"}},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, []string{"<esc>"}},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, []string{"<bs>"}},
		{"ctrl letter", tea.KeyMsg{Type: tea.KeyCtrlS}, []string{"c-s"}},
		{"ctrl alt letter", tea.KeyMsg{Type: tea.KeyCtrlA, Alt: true}, []string{"c-a-a"}},
		{"arrow", tea.KeyMsg{Type: tea.KeyUp}, []string{"<up>"}},
		{"ctrl arrow", tea.KeyMsg{Type: tea.KeyCtrlRight}, []string{"c-<right>"}},
		{"function key", tea.KeyMsg{Type: tea.KeyF5}, []string{"<f5>"}},
		{"first function key", tea.KeyMsg{Type: tea.KeyF1}, []string{"<f1>"}},
		{"last function key", tea.KeyMsg{Type: tea.KeyF12}, []string{"<f12>"}},
		{"alt function key", tea.KeyMsg{Type: tea.KeyF2, Alt: true}, []string{"a-<f2>"}},
		{"page down", tea.KeyMsg{Type: tea.KeyPgDown}, []string{"<pgdn>"}},
		{"unmapped", tea.KeyMsg{Type: tea.KeyF20}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, in := range convertBubbleKey(tt.msg) {
				got = append(got, in.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComposeOverlaysPanels(t *testing.T) {
	panels := []core.UiPanel{
		{Size: core.Size{Width: 6, Height: 2}, Content: []string{"abcdef", "ghi"}},
		{Position: core.Position{Row: 1, Col: 3}, Size: core.Size{Width: 2, Height: 1}, Content: []string{"XYZ"}},
	}
	out := compose(lipgloss.NewRenderer(io.Discard), panels, core.Size{Width: 6, Height: 3})
	assert.Equal(t, "abcdef\nghiXY \n      ", out)
}

func TestDrawMapsCodepointsToColumns(t *testing.T) {
	red := core.Color{R: 0xff}
	scr := newScreen(core.Size{Width: 5, Height: 1})
	scr.draw(core.UiPanel{
		Size:    core.Size{Width: 5, Height: 1},
		Content: []string{"世a"},
		Spans: []core.Span{
			{From: core.Position{Col: 1}, To: core.Position{Col: 3}, Style: core.Style{Foreground: &red}},
		},
	})

	assert.Equal(t, "世", scr[0][0].text)
	assert.Equal(t, "", scr[0][1].text, "covered by the wide grapheme")
	assert.Nil(t, scr[0][0].style.Foreground)
	assert.Equal(t, &red, scr[0][2].style.Foreground, "a")
	assert.Equal(t, &red, scr[0][3].style.Foreground, "padding after the content")
	assert.Nil(t, scr[0][4].style.Foreground)
}

func TestDrawLayersByImportance(t *testing.T) {
	red, blue, grey := core.Color{R: 0xff}, core.Color{B: 0xff}, core.Color{R: 0x30, G: 0x30, B: 0x30}
	scr := newScreen(core.Size{Width: 3, Height: 1})
	scr.draw(core.UiPanel{
		Size:    core.Size{Width: 3, Height: 1},
		Content: []string{"abc"},
		Spans: []core.Span{
			{To: core.Position{Col: 3}, Style: core.Style{Foreground: &red}, Importance: 2},
			{To: core.Position{Col: 3}, Style: core.Style{Foreground: &blue}, Importance: 1},
			{To: core.Position{Col: 2}, Style: core.Style{Background: &grey}, Importance: 0},
		},
	})

	assert.Equal(t, core.Style{Foreground: &red, Background: &grey}, scr[0][0].style)
	assert.Equal(t, core.Style{Foreground: &red}, scr[0][2].style)
}

func newModel(t *testing.T) Model {
	t.Helper()
	e, err := core.New()
	require.NoError(t, err)
	require.NoError(t, e.Scratch())
	return New(e, WithRenderer(lipgloss.NewRenderer(io.Discard)))
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelTypesAndRenders(t *testing.T) {
	m := newModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 5})
	assert.Equal(t, core.Size{Width: 30, Height: 5}, m.Editor().State().Size)
	assert.Empty(t, m.View(), "nothing to draw before the first tick")

	m, _ = update(t, m, runes("i"))
	m, _ = update(t, m, runes("hi"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	_, b, ok := m.Editor().State().ActiveBuffer()
	require.True(t, ok)
	assert.Equal(t, "hi", b.Text())
	assert.Equal(t, "normal", m.Editor().State().Mode)

	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, 5)
	for _, l := range lines {
		assert.Len(t, l, 30)
	}
	assert.True(t, strings.HasPrefix(lines[0], "   1 hi"), lines[0])
	assert.True(t, strings.HasPrefix(lines[4], " NORMAL "), lines[4])
}

func TestModelQuits(t *testing.T) {
	m := newModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 5})

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlQ})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModelForceQuit(t *testing.T) {
	m := newModel(t)
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.False(t, m.Editor().State().QuitRequested)
}

func TestModelReloadsConfigOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.moded")
	require.NoError(t, os.WriteFile(path, []byte("options {\n\ttheme monokai\n}\n"), 0o644))

	e, err := core.New()
	require.NoError(t, err)
	require.NoError(t, e.LoadConfigFile(path))
	require.NoError(t, e.Scratch())
	m := New(e, WithRenderer(lipgloss.NewRenderer(io.Discard)))

	require.NoError(t, os.WriteFile(path, []byte("hooks {\n\tbuffer-open echo reopened\n}\n"), 0o644))
	update(t, m, ConfigChangedMsg{Path: path})
	assert.Empty(t, e.State().ModelineErr)

	hooks := e.State().Resolve().Mapping(core.MappingHooks)
	_, ok := hooks.Lookup("buffer-open")
	assert.True(t, ok, "reloaded config is live")
}

func TestConfigWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.moded")
	w, err := WatchConfig(path)
	require.NoError(t, err)
	defer w.Close()

	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- w.Wait()() }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("options {\n}\n"), 0o644))

	select {
	case msg := <-msgs:
		assert.Equal(t, ConfigChangedMsg{Path: filepath.Clean(path)}, msg)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}
