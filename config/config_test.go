package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, src string) *Config {
	t.Helper()
	cfg, err := Load("test", src)
	require.NoError(t, err)
	return cfg
}

func lookup(cfg *Config, path, state, mapping, name string) string {
	v, _ := cfg.Resolve(path, state).Lookup(mapping, name)
	return v
}

func TestResolveOverrideReplaces(t *testing.T) {
	cfg := mustLoad(t, `
file .* {
	keybinds {
		<up> X
		<down> D
	}
}
override file .* {
	keybinds {
		<up> Y
	}
}
`)
	for _, path := range []string{"", "main.go", "/tmp/a b.txt"} {
		assert.Equal(t, "Y", lookup(cfg, path, "normal", "keybinds", "<up>"))
		_, ok := cfg.Resolve(path, "normal").Mapping("keybinds").Lookup("<down>")
		assert.False(t, ok, "override drops earlier entries")
	}
}

func TestResolveAppendsWithoutOverride(t *testing.T) {
	cfg := mustLoad(t, `
file .* { keybinds { <up> X } }
file \.go$ { keybinds { <down> D } }
file \.go$ { keybinds { <up> Z } }
`)
	assert.Equal(t, "Z", lookup(cfg, "main.go", "", "keybinds", "<up>"))
	assert.Equal(t, "D", lookup(cfg, "main.go", "", "keybinds", "<down>"))
	assert.Equal(t, "X", lookup(cfg, "notes.md", "", "keybinds", "<up>"))

	m := cfg.Resolve("main.go", "").Mapping("keybinds")
	assert.Len(t, m.All("<up>"), 2)
}

func TestResolveMixin(t *testing.T) {
	cfg := mustLoad(t, "mixin base { keybinds { <esc> normal } } file .* { use base }")
	assert.Equal(t, "normal", lookup(cfg, "any/path", "", "keybinds", "<esc>"))
}

func TestResolveNestedMixinScope(t *testing.T) {
	cfg := mustLoad(t, `
mixin m { keybinds { k top } }
file \.go$ {
	mixin m { keybinds { k inner } }
	use m
}
file \.md$ { use m }
`)
	assert.Equal(t, "inner", lookup(cfg, "a.go", "", "keybinds", "k"))
	assert.Equal(t, "top", lookup(cfg, "a.md", "", "keybinds", "k"))
}

func TestCyclicMixin(t *testing.T) {
	cfg, err := Load("cyclic", `
mixin a { use b }
mixin b { use a
	keybinds { k v }
}
file .* { use a }
`)
	require.Error(t, err)
	require.NotNil(t, cfg)
	assert.False(t, errors.Is(err, ErrEOF))

	var perr *ParseErrors
	require.ErrorAs(t, err, &perr)
	require.Len(t, perr.Errors, 1)
	assert.Equal(t, ErrCyclicMixin, perr.Errors[0].Kind)
	assert.Equal(t, "v", lookup(cfg, "x", "", "keybinds", "k"))
}

func TestUnknownMixinAndBadPattern(t *testing.T) {
	cfg, err := Load("bad", "file ( { keybinds { k v } }\nfile .* { use nope }\nkeybinds { ok yes }\n")
	var perr *ParseErrors
	require.ErrorAs(t, err, &perr)
	require.Len(t, perr.Errors, 2)
	assert.Equal(t, ErrInvalidPattern, perr.Errors[0].Kind)
	assert.Equal(t, ErrUnknownMixin, perr.Errors[1].Kind)

	assert.Equal(t, "yes", lookup(cfg, "x", "", "keybinds", "ok"))
	assert.Equal(t, "", lookup(cfg, "x", "", "keybinds", "k"))
}

func TestLoadEOFIsFatal(t *testing.T) {
	cfg, err := Load("eof", "file .* {\n\tkeybinds {\n")
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrEOF)
}

func TestStateSelectors(t *testing.T) {
	cfg := mustLoad(t, `
keybinds { i set-mode insert }
state insert {
	keybinds {
		<esc> set-mode normal
		keybind-else insert-char
	}
}
file \.txt$ {
	state insert { keybinds { <tab> insert-tab } }
}
`)
	assert.Equal(t, "set-mode", lookup(cfg, "a.go", "normal", "keybinds", "i"))
	assert.Equal(t, "", lookup(cfg, "a.go", "normal", "keybinds", "<esc>"))
	assert.Equal(t, "set-mode", lookup(cfg, "a.go", "insert", "keybinds", "<esc>"))
	assert.Equal(t, "", lookup(cfg, "a.go", "insert", "keybinds", "<tab>"))
	assert.Equal(t, "insert-tab", lookup(cfg, "a.txt", "insert", "keybinds", "<tab>"))
}

func TestInnermostOverrideWins(t *testing.T) {
	cfg := mustLoad(t, `
keybinds { a 1
	b 2
}
file .* {
	override file \.go$ {
		keybinds { a 3 }
	}
}
override file .* {
	file \.md$ {
		keybinds { b 4 }
	}
}
`)
	go_ := cfg.Resolve("x.go", "").Mapping("keybinds")
	require.Len(t, go_.Entries, 1)
	assert.Equal(t, "3", lookup(cfg, "x.go", "", "keybinds", "a"))

	md := cfg.Resolve("x.md", "").Mapping("keybinds")
	require.Len(t, md.Entries, 1)
	assert.Equal(t, "4", lookup(cfg, "x.md", "", "keybinds", "b"))
}

func TestOverrideScopeKeepsItsOwnEntries(t *testing.T) {
	cfg := mustLoad(t, `
file .* { keybinds { <left> L } }
mixin base { keybinds { <esc> normal } }
override file .* {
	use base
	keybinds { <up> Y }
	keybinds { <down> D }
}
`)
	r := cfg.Resolve("a.go", "")
	assert.Equal(t, "normal", lookup(cfg, "a.go", "", "keybinds", "<esc>"))
	assert.Equal(t, "Y", lookup(cfg, "a.go", "", "keybinds", "<up>"))
	assert.Equal(t, "D", lookup(cfg, "a.go", "", "keybinds", "<down>"))
	_, ok := r.Mapping("keybinds").Lookup("<left>")
	assert.False(t, ok, "entries before the override are dropped")
}

func TestOverrideScopeResetsOncePerMapping(t *testing.T) {
	cfg := mustLoad(t, `
keybinds { a 1 }
hooks { app-start echo }
override file .* {
	keybinds { b 2 }
	hooks { buffer-open echo }
	keybinds { c 3 }
}
`)
	r := cfg.Resolve("x", "")
	assert.Len(t, r.Mapping("keybinds").Entries, 2)
	assert.Len(t, r.Mapping("hooks").Entries, 1)
	assert.Equal(t, "2", lookup(cfg, "x", "", "keybinds", "b"))
}

func TestMergeKeepsOverrideScopesApart(t *testing.T) {
	base := mustLoad(t, "override file .* { keybinds { a 1 } }")
	user := mustLoad(t, "keybinds { b 2 }
override file .* { keybinds { c 3 } }")

	r := base.Merge(user).Resolve("x", "")
	m := r.Mapping("keybinds")
	require.Len(t, m.Entries, 1, "the user override replaces the base entries")
	assert.Equal(t, "c", m.Entries[0].Name)
}

func TestMergeLayersRules(t *testing.T) {
	base := mustLoad(t, "keybinds { a 1 }")
	user := mustLoad(t, "keybinds { a 2 }")

	merged := base.Merge(user)
	assert.Equal(t, "2", lookup(merged, "", "", "keybinds", "a"))
	assert.Len(t, merged.Rules, 2)
	assert.Same(t, base, base.Merge(nil))
}

func TestEntryStringsFlattensLists(t *testing.T) {
	cfg := mustLoad(t, "hooks {\n\tapp-start echo $[ a ; b c ] d\n}")
	e, ok := cfg.Resolve("", "").Mapping("hooks").Lookup("app-start")
	require.True(t, ok)
	assert.Equal(t, []string{"echo", "a", "b c", "d"}, e.Strings())
}
