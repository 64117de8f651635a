package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEOF marks a config load that hit the end of input in the middle of a
// construct. Such a load is rejected as a whole.
var ErrEOF = errors.New("config: unexpected end of input")

// ErrorKind classifies parse and lowering errors.
type ErrorKind int

const (
	ErrUnexpectedToken ErrorKind = iota
	ErrMissingValue
	ErrInvalidPattern
	ErrUnknownMixin
	ErrCyclicMixin

	// Kinds from here on are EOF-fatal.
	ErrUnexpectedEOF
	ErrUnterminatedString
	ErrUnterminatedList
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnexpectedToken:
		return "unexpected token"
	case ErrMissingValue:
		return "entry without value"
	case ErrInvalidPattern:
		return "invalid pattern"
	case ErrUnknownMixin:
		return "unknown mixin"
	case ErrCyclicMixin:
		return "cyclic mixin"
	case ErrUnexpectedEOF:
		return "unexpected end of input"
	case ErrUnterminatedString:
		return "unterminated string"
	case ErrUnterminatedList:
		return "unterminated list"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a single parse or lowering error. Slice is the offending source
// text; Line and Col are 1-based.
type Error struct {
	Kind   ErrorKind
	Slice  string
	Offset int
	Line   int
	Col    int
	Detail string
}

func (e Error) Error() string {
	msg := fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Kind)
	if e.Slice != "" {
		msg += fmt.Sprintf(" %q", e.Slice)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Recoverable reports whether parsing could continue past the error.
func (e Error) Recoverable() bool {
	return e.Kind < ErrUnexpectedEOF
}

// ParseErrors is the list of errors produced by a config load.
type ParseErrors struct {
	Name   string
	Errors []Error
}

func (e *ParseErrors) Error() string {
	lines := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		lines = append(lines, e.Name+":"+err.Error())
	}
	return strings.Join(lines, "\n")
}

// Fatal reports whether any contained error is EOF-fatal.
func (e *ParseErrors) Fatal() bool {
	for _, err := range e.Errors {
		if !err.Recoverable() {
			return true
		}
	}
	return false
}

func (e *ParseErrors) Unwrap() error {
	if e.Fatal() {
		return ErrEOF
	}
	return nil
}

// newError builds an Error with line and column derived from offset.
func newError(src string, kind ErrorKind, span Span, detail string) Error {
	start := min(max(span.Start, 0), len(src))
	end := min(max(span.End, start), len(src))
	line, col := lineCol(src, start)
	return Error{
		Kind:   kind,
		Slice:  src[start:end],
		Offset: start,
		Line:   line,
		Col:    col,
		Detail: detail,
	}
}

func lineCol(src string, offset int) (line, col int) {
	prefix := src[:offset]
	line = strings.Count(prefix, "\n") + 1
	col = offset - strings.LastIndexByte(prefix, '\n')
	return line, col
}
