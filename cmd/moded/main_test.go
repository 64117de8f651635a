package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ionut-t/moded/config"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want invocation
	}{
		{"nothing", nil, invocation{}},
		{"paths", []string{"a.go", "b.go"}, invocation{paths: []string{"a.go", "b.go"}}},
		{"scratch", []string{"--scratch", "a.go"}, invocation{paths: []string{"a.go"}, scratch: true}},
		{
			"commands",
			[]string{"--set-mode=insert", "a.go", "--echo=hello world", "--keep-primary"},
			invocation{paths: []string{"a.go"}, commands: []string{"set-mode insert", "echo hello world", "keep-primary"}},
		},
		{"end of flags", []string{"--", "--scratch", "-"}, invocation{paths: []string{"--scratch", "-"}}},
		{"help", []string{"-h"}, invocation{help: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseArgs(tt.args))
		})
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("MODED_CONFIG", "/tmp/custom.moded")
	p, err := configPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.moded", p)

	t.Setenv("MODED_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	p, err = configPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "moded", "config.moded"), p)

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/someone")
	p, err = configPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/someone", ".config", "moded", "config.moded"), p)
}

func writeConfig(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.moded")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestNewEditorOpensPathsAndRunsCommands(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(file, []byte("hello\n"), 0o644))

	e, err := newEditor(parseArgs([]string{"--set-mode=insert", file}), filepath.Join(dir, "missing.moded"))
	require.NoError(t, err)

	s := e.State()
	assert.Equal(t, "insert", s.Mode)
	assert.Equal(t, file, s.ActivePath())
	_, b, ok := s.ActiveBuffer()
	require.True(t, ok)
	assert.Equal(t, "hello\n", b.Text())
	assert.True(t, s.RenderReady)
}

func TestNewEditorWithoutPathsOpensScratch(t *testing.T) {
	e, err := newEditor(invocation{}, filepath.Join(t.TempDir(), "missing.moded"))
	require.NoError(t, err)
	_, b, ok := e.State().ActiveBuffer()
	require.True(t, ok)
	assert.Equal(t, "", b.Path())
}

func TestNewEditorFailsOnUnreadablePath(t *testing.T) {
	_, err := newEditor(invocation{paths: []string{t.TempDir()}}, filepath.Join(t.TempDir(), "missing.moded"))
	assert.Error(t, err)
}

func TestNewEditorConfigErrors(t *testing.T) {
	_, err := newEditor(invocation{}, writeConfig(t, "keybinds {\n\tx $[ a ;\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrEOF)

	e, err := newEditor(invocation{}, writeConfig(t, "keybinds {\n\tx\n\ty move-left\n}\n"))
	require.NoError(t, err, "recoverable errors are only logged")
	entry, ok := e.State().Resolve().Lookup("keybinds", "y")
	require.True(t, ok)
	assert.Equal(t, "move-left", entry)
}
