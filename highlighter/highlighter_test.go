package highlighter

import (
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ionut-t/moded/config"
)

func syntaxEntries(t *testing.T, src string) []config.Entry {
	t.Helper()
	cfg, err := config.Load("test", src)
	require.NoError(t, err)
	return cfg.Resolve("x.txt", "normal").Mapping("syntax").Entries
}

func TestRuleHighlighting(t *testing.T) {
	entries := syntaxEntries(t, `
syntax {
	keyword \b(func|return)\b
	number \d+
	comment //.*
}
`)
	h, err := New("x.txt", entries)
	require.NoError(t, err)

	tokens := h.Highlight([]string{"func f() { return 42 }", "// return 1"})
	assert.Equal(t, []Token{
		{Row: 0, Start: 0, End: 4, Kind: "keyword"},
		{Row: 0, Start: 11, End: 17, Kind: "keyword"},
		{Row: 0, Start: 18, End: 20, Kind: "number"},
		{Row: 1, Start: 0, End: 3, Kind: "comment"},
		{Row: 1, Start: 3, End: 9, Kind: "keyword"},
		{Row: 1, Start: 9, End: 10, Kind: "comment"},
		{Row: 1, Start: 10, End: 11, Kind: "number"},
	}, tokens)
}

func TestEarlierRuleWinsOnOverlap(t *testing.T) {
	entries := syntaxEntries(t, "syntax {\n\tstring \".*\"\n\tnumber \\d+\n}\n")
	h, err := New("", entries)
	require.NoError(t, err)

	tokens := h.Highlight([]string{`x = "a1" + 22`})
	assert.Equal(t, []Token{
		{Row: 0, Start: 4, End: 8, Kind: "string"},
		{Row: 0, Start: 11, End: 13, Kind: "number"},
	}, tokens)
}

func TestColumnsCountCodepoints(t *testing.T) {
	entries := syntaxEntries(t, "syntax {\n\tnumber \\d+\n}\n")
	h, err := New("", entries)
	require.NoError(t, err)

	tokens := h.Highlight([]string{"héé 12"})
	assert.Equal(t, []Token{{Row: 0, Start: 4, End: 6, Kind: "number"}}, tokens)
}

func TestInvalidPatternReported(t *testing.T) {
	entries := syntaxEntries(t, "syntax {\n\tnumber \\d+\n\tbroken (unclosed\n}\n")
	h, err := New("", entries)
	assert.Error(t, err)
	require.NotNil(t, h)

	tokens := h.Highlight([]string{"7"})
	assert.Equal(t, []Token{{Row: 0, Start: 0, End: 1, Kind: "number"}}, tokens)
}

func TestLexerFallback(t *testing.T) {
	h, err := New("main.go", nil)
	require.NoError(t, err)

	tokens := h.Highlight([]string{"package main", "", "/* a", "b */", "func main() {}"})
	require.NotEmpty(t, tokens)

	byRow := make(map[int][]Token)
	for _, tok := range tokens {
		byRow[tok.Row] = append(byRow[tok.Row], tok)
	}
	assert.Equal(t, Token{Row: 0, Start: 0, End: 7, Kind: "keyword"}, byRow[0][0])
	assert.Equal(t, "comment", byRow[2][0].Kind)
	assert.Equal(t, "comment", byRow[3][0].Kind, "block comment spans lines")
	assert.Equal(t, Token{Row: 4, Start: 0, End: 4, Kind: "keyword"}, byRow[4][0])
}

func TestNoHighlightingWithoutRulesOrLexer(t *testing.T) {
	h, err := New("notes.unknown-extension", nil)
	require.NoError(t, err)
	assert.Empty(t, h.Highlight([]string{"anything"}))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "keyword", KindOf(chroma.KeywordDeclaration))
	assert.Equal(t, "type", KindOf(chroma.KeywordType))
	assert.Equal(t, "comment", KindOf(chroma.CommentSingle))
	assert.Equal(t, "string", KindOf(chroma.LiteralStringDouble))
	assert.Equal(t, "number", KindOf(chroma.LiteralNumberInteger))
	assert.Equal(t, "function", KindOf(chroma.NameFunction))
	assert.Equal(t, "builtin", KindOf(chroma.NameBuiltin))
	assert.Equal(t, "", KindOf(chroma.Name))
	assert.Equal(t, "", KindOf(chroma.Text))
}

func TestThemeEntries(t *testing.T) {
	theme := Theme("")
	require.NotNil(t, theme)
	assert.Equal(t, DefaultTheme, theme.Name)

	entry, ok := KindEntry(theme, "keyword")
	require.True(t, ok)
	assert.True(t, entry.Colour.IsSet())

	_, ok = KindEntry(theme, "nonsense")
	assert.False(t, ok)
	assert.Contains(t, Kinds(), "comment")
}
