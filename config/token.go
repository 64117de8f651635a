package config

import "fmt"

// TokenKind identifies the lexical class of a Token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenNewline
	TokenOpenBrace
	TokenCloseBrace
	TokenWord
	TokenIdentifier
	TokenRegex
	TokenListOpen  // $[
	TokenListClose // ]
	TokenSemicolon
	TokenString // $"..."
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenNewline:
		return "newline"
	case TokenOpenBrace:
		return "'{'"
	case TokenCloseBrace:
		return "'}'"
	case TokenWord:
		return "word"
	case TokenIdentifier:
		return "identifier"
	case TokenRegex:
		return "regex"
	case TokenListOpen:
		return "'$['"
	case TokenListClose:
		return "']'"
	case TokenSemicolon:
		return "';'"
	case TokenString:
		return "string"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Span is a half-open byte range into the source a token or node came from.
type Span struct {
	Start int
	End   int
}

// Token is a single lexeme. Text holds the decoded value: for string
// literals it is the content between the quotes with `$$` collapsed to `$`.
type Token struct {
	Kind     TokenKind
	Text     string
	Span     Span
	Adjacent bool // no whitespace separates this token from the previous one
}

// isBare reports whether a token can stand as (part of) a bare value.
func (t Token) isBare() bool {
	return t.Kind == TokenWord || t.Kind == TokenIdentifier || t.Kind == TokenRegex
}

func (t Token) isValuePiece() bool {
	return t.isBare() || t.Kind == TokenString
}
