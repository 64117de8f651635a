package config

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// lexer turns config source into tokens on demand. It is mildly
// context-sensitive: the token after the `file` keyword is read as a regex
// (any run of non-whitespace), and `]` / `;` are only special inside a list.
type lexer struct {
	src         string
	pos         int
	prevEnd     int
	listDepth   int
	expectRegex bool
}

func newLexer(src string) *lexer {
	return &lexer{src: src, prevEnd: -1}
}

// next returns the next token. A non-nil error is always EOF-fatal and is
// accompanied by an EOF token.
func (l *lexer) next() (Token, *Error) {
	l.skipBlank()
	start := l.pos
	adjacent := start == l.prevEnd

	tok, err := l.scan()
	tok.Adjacent = adjacent
	if tok.Span == (Span{}) {
		tok.Span = Span{start, l.pos}
	}
	l.prevEnd = l.pos
	return tok, err
}

// skipBlank skips horizontal whitespace and comments, stopping at newlines.
func (l *lexer) skipBlank() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\n':
			return
		case c == '#':
			if i := strings.IndexByte(l.src[l.pos:], '\n'); i >= 0 {
				l.pos += i
			} else {
				l.pos = len(l.src)
			}
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
		default:
			r, size := utf8.DecodeRuneInString(l.src[l.pos:])
			if !unicode.IsSpace(r) {
				return
			}
			l.pos += size
		}
	}
}

func (l *lexer) scan() (Token, *Error) {
	start := l.pos
	if l.pos >= len(l.src) {
		return Token{Kind: TokenEOF, Span: Span{start, start}}, nil
	}

	if l.expectRegex && l.src[l.pos] != '\n' {
		l.expectRegex = false
		text := l.readUntilSpace()
		return Token{Kind: TokenRegex, Text: text}, nil
	}

	c := l.src[l.pos]
	switch {
	case c == '\n':
		l.pos++
		l.expectRegex = false
		return Token{Kind: TokenNewline, Text: "\n"}, nil
	case c == '{':
		l.pos++
		return Token{Kind: TokenOpenBrace, Text: "{"}, nil
	case c == '}':
		l.pos++
		return Token{Kind: TokenCloseBrace, Text: "}"}, nil
	case strings.HasPrefix(l.src[l.pos:], "$["):
		l.pos += 2
		l.listDepth++
		return Token{Kind: TokenListOpen, Text: "$["}, nil
	case strings.HasPrefix(l.src[l.pos:], `$"`):
		return l.scanString()
	case l.listDepth > 0 && c == ']':
		l.pos++
		l.listDepth--
		return Token{Kind: TokenListClose, Text: "]"}, nil
	case l.listDepth > 0 && c == ';':
		l.pos++
		return Token{Kind: TokenSemicolon, Text: ";"}, nil
	}

	text := l.readWord()
	kind := TokenWord
	if isIdentifier(text) {
		kind = TokenIdentifier
	}
	if text == "file" {
		l.expectRegex = true
	}
	return Token{Kind: kind, Text: text}, nil
}

func (l *lexer) scanString() (Token, *Error) {
	start := l.pos
	l.pos += 2

	var sb strings.Builder
	for l.pos < len(l.src) {
		switch {
		case l.src[l.pos] == '"':
			l.pos++
			return Token{Kind: TokenString, Text: sb.String(), Span: Span{start, l.pos}}, nil
		case strings.HasPrefix(l.src[l.pos:], "$$"):
			sb.WriteByte('$')
			l.pos += 2
		default:
			sb.WriteByte(l.src[l.pos])
			l.pos++
		}
	}

	err := newError(l.src, ErrUnterminatedString, Span{start, len(l.src)}, "")
	return Token{Kind: TokenEOF, Span: Span{len(l.src), len(l.src)}}, &err
}

func (l *lexer) readUntilSpace() string {
	start := l.pos
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if unicode.IsSpace(r) {
			break
		}
		l.pos += size
	}
	return l.src[start:l.pos]
}

// readWord reads a bare token: a run of non-whitespace characters that stops
// at braces, at the start of a list or string literal and, inside a list, at
// `]` and `;`.
func (l *lexer) readWord() string {
	start := l.pos
	for l.pos < len(l.src) {
		rest := l.src[l.pos:]
		c := rest[0]
		if c == '{' || c == '}' || strings.HasPrefix(rest, "$[") || strings.HasPrefix(rest, `$"`) {
			break
		}
		if l.listDepth > 0 && (c == ']' || c == ';') {
			break
		}
		r, size := utf8.DecodeRuneInString(rest)
		if unicode.IsSpace(r) {
			break
		}
		l.pos += size
	}
	return l.src[start:l.pos]
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case unicode.IsLetter(r) || r == '_':
		case i > 0 && (unicode.IsDigit(r) || r == '-'):
		default:
			return false
		}
	}
	return true
}
