package highlighter

import (
	"maps"
	"slices"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultTheme is used when the config names no theme.
const DefaultTheme = "monokai"

// kindTypes maps highlight kinds to the chroma token type whose theme entry
// colours them.
var kindTypes = map[string]chroma.TokenType{
	"keyword":     chroma.Keyword,
	"type":        chroma.KeywordType,
	"comment":     chroma.Comment,
	"string":      chroma.LiteralString,
	"number":      chroma.LiteralNumber,
	"literal":     chroma.Literal,
	"function":    chroma.NameFunction,
	"builtin":     chroma.NameBuiltin,
	"constant":    chroma.NameConstant,
	"tag":         chroma.NameTag,
	"attribute":   chroma.NameAttribute,
	"operator":    chroma.Operator,
	"punctuation": chroma.Punctuation,
}

// Kinds returns every kind with a theme colour, sorted.
func Kinds() []string {
	return slices.Sorted(maps.Keys(kindTypes))
}

// KindOf classifies a chroma token type. Plain text and names without a
// dedicated kind return "".
func KindOf(t chroma.TokenType) string {
	switch {
	case t == chroma.KeywordType:
		return "type"
	case t.InCategory(chroma.Keyword):
		return "keyword"
	case t.InCategory(chroma.Comment):
		return "comment"
	case t.InSubCategory(chroma.LiteralString):
		return "string"
	case t.InSubCategory(chroma.LiteralNumber):
		return "number"
	case t.InCategory(chroma.Literal):
		return "literal"
	case t == chroma.NameFunction || t == chroma.NameFunctionMagic:
		return "function"
	case t == chroma.NameBuiltin || t == chroma.NameBuiltinPseudo:
		return "builtin"
	case t == chroma.NameConstant:
		return "constant"
	case t == chroma.NameTag:
		return "tag"
	case t == chroma.NameAttribute:
		return "attribute"
	case t.InCategory(chroma.Operator):
		return "operator"
	case t == chroma.Punctuation:
		return "punctuation"
	}
	return ""
}

// Theme returns the chroma style called name, or chroma's fallback style.
func Theme(name string) *chroma.Style {
	if name == "" {
		name = DefaultTheme
	}
	return styles.Get(name)
}

// KindEntry returns the theme entry colouring kind.
func KindEntry(theme *chroma.Style, kind string) (chroma.StyleEntry, bool) {
	t, ok := kindTypes[kind]
	if !ok {
		return chroma.StyleEntry{}, false
	}
	return theme.Get(t), true
}

// BaseEntry returns the theme's default text colours.
func BaseEntry(theme *chroma.Style) chroma.StyleEntry {
	return theme.Get(chroma.Background)
}
