// Package highlighter computes syntax tokens for buffer lines, either from
// regex rules given in the config or, when a buffer has none, from a chroma
// lexer picked by file name.
package highlighter

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/dlclark/regexp2"

	"github.com/ionut-t/moded/config"
)

// Token marks the codepoint columns [Start, End) of a line as Kind.
type Token struct {
	Row   int
	Start int
	End   int
	Kind  string
}

// Rule highlights every match of Pattern as Kind.
type Rule struct {
	Kind    string
	Pattern *regexp2.Regexp
}

// CompileRules compiles `syntax` mapping entries: the entry name is the kind
// and each value a pattern. Invalid patterns are skipped and reported.
func CompileRules(entries []config.Entry) ([]Rule, error) {
	var (
		rules []Rule
		errs  []error
	)
	for _, e := range entries {
		for _, pattern := range e.Strings() {
			re, err := regexp2.Compile(pattern, regexp2.None)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s %q: %w", e.Name, pattern, err))
				continue
			}
			rules = append(rules, Rule{Kind: e.Name, Pattern: re})
		}
	}
	return rules, errors.Join(errs...)
}

// Highlighter tokenizes the lines of one buffer.
type Highlighter struct {
	rules []Rule
	lexer chroma.Lexer
}

// New creates a highlighter for the file at path. Config rules take
// precedence; without any, a chroma lexer matching the file name is used.
// The returned highlighter is usable even when some rules failed to compile.
func New(path string, syntax []config.Entry) (*Highlighter, error) {
	rules, err := CompileRules(syntax)
	h := &Highlighter{rules: rules}
	if len(syntax) == 0 && path != "" {
		if lexer := lexers.Match(filepath.Base(path)); lexer != nil {
			h.lexer = chroma.Coalesce(lexer)
		}
	}
	return h, err
}

// Highlight returns the tokens of lines ordered by row and column.
func (h *Highlighter) Highlight(lines []string) []Token {
	switch {
	case len(h.rules) > 0:
		return h.highlightRules(lines)
	case h.lexer != nil:
		return h.highlightLexer(lines)
	}
	return nil
}

// highlightRules matches every rule line by line. Where matches overlap the
// earlier rule wins.
func (h *Highlighter) highlightRules(lines []string) []Token {
	var tokens []Token
	for row, line := range lines {
		kinds := make([]string, len([]rune(line)))
		for _, rule := range h.rules {
			m, err := rule.Pattern.FindStringMatch(line)
			for ; m != nil && err == nil; m, err = rule.Pattern.FindNextMatch(m) {
				for col := m.Index; col < m.Index+m.Length && col < len(kinds); col++ {
					if kinds[col] == "" {
						kinds[col] = rule.Kind
					}
				}
			}
		}
		tokens = appendRuns(tokens, row, kinds)
	}
	return tokens
}

// appendRuns turns per-column kinds into tokens.
func appendRuns(tokens []Token, row int, kinds []string) []Token {
	for start := 0; start < len(kinds); {
		end := start + 1
		for end < len(kinds) && kinds[end] == kinds[start] {
			end++
		}
		if kinds[start] != "" {
			tokens = append(tokens, Token{Row: row, Start: start, End: end, Kind: kinds[start]})
		}
		start = end
	}
	return tokens
}

// highlightLexer tokenizes the whole content at once so multi-line
// constructs such as block comments are recognised.
func (h *Highlighter) highlightLexer(lines []string) []Token {
	content := strings.Join(lines, "\n")
	if content == "" {
		return nil
	}
	iterator, err := h.lexer.Tokenise(nil, content)
	if err != nil {
		return nil
	}

	var tokens []Token
	row, col := 0, 0
	emit := func(kind, text string) {
		n := len([]rune(text))
		if kind != "" && n > 0 {
			if last := len(tokens) - 1; last >= 0 && tokens[last].Row == row && tokens[last].End == col && tokens[last].Kind == kind {
				tokens[last].End += n
			} else {
				tokens = append(tokens, Token{Row: row, Start: col, End: col + n, Kind: kind})
			}
		}
		col += n
	}

	for _, tok := range iterator.Tokens() {
		kind := KindOf(tok.Type)
		value := tok.Value
		for {
			before, after, found := strings.Cut(value, "\n")
			emit(kind, before)
			if !found {
				break
			}
			row++
			col = 0
			value = after
		}
	}
	return tokens
}
