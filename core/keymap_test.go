package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ionut-t/moded/config"
)

func mapping(t *testing.T, src, name string) *config.Mapping {
	t.Helper()
	cfg, err := config.Load("test", src)
	require.NoError(t, err)
	return cfg.Resolve("", "normal").Mapping(name)
}

func TestMapInput(t *testing.T) {
	m := mapping(t, `
keybinds {
	<up> move-up
	x $[ move-right ; delete-backward ]
	c-s write now
	keybind-else insert-char
}
`, MappingKeybinds)

	assert.Equal(t, []string{"move-up"}, MapInput(m, NamedKey(KeyUp)))
	assert.Equal(t, []string{"move-right", "delete-backward"}, MapInput(m, Char('x')))
	assert.Equal(t, []string{"write now"}, MapInput(m, Char('s').With(ModCtrl)))
	assert.Equal(t, []string{"insert-char a"}, MapInput(m, Char('a')))
	assert.Equal(t, []string{"insert-char \t"}, MapInput(m, NamedKey(KeyTab)))
	assert.Empty(t, MapInput(m, NamedKey(KeyF3)), "no text, no fallback")
}

func TestMapInputMultiTokenFallback(t *testing.T) {
	m := mapping(t, "keybinds {\n\tkeybind-else echo unbound\n}\n", MappingKeybinds)
	assert.Equal(t, []string{"echo unbound"}, MapInput(m, NamedKey(KeyF3)))
}

func TestMapInputWithoutFallback(t *testing.T) {
	m := mapping(t, "keybinds {\n\t<up> move-up\n}\n", MappingKeybinds)
	assert.Empty(t, MapInput(m, Char('a')))
}

func TestEntryCommands(t *testing.T) {
	m := mapping(t, "hooks {\n\tbuffer-write echo saved $[ a ; b c ] tail\n}\n", MappingHooks)
	e, ok := m.Lookup("buffer-write")
	require.True(t, ok)
	assert.Equal(t, []string{"echo saved", "a", "b c", "tail"}, EntryCommands(e))
}

func TestKeymapForFocus(t *testing.T) {
	s := NewState(nil)
	assert.Equal(t, MappingKeybinds, keymapFor(s))

	s.SetFocus(FocusModeline, Handle[View]{})
	assert.Equal(t, MappingModelineKeybinds, keymapFor(s))
	s.SetFocus(FocusFilePicker, Handle[View]{})
	assert.Equal(t, MappingPickerKeybinds, keymapFor(s))
	s.SetFocus(FocusWarpdrive, Handle[View]{})
	assert.Equal(t, MappingWarpdriveKeybinds, keymapFor(s))

	s.Combo = "goto"
	assert.Equal(t, "goto", keymapFor(s))
}
