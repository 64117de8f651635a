package core

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// KeyCode represents non-character keys. KeyNone means the input is a
// character.
type KeyCode int

const (
	KeyNone KeyCode = iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEscape

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Navigation keys
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// Editing keys
	KeyDelete
	KeyInsert

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

var keyNames = map[KeyCode]string{
	KeyEnter:     "ret",
	KeyTab:       "tab",
	KeyBackspace: "bs",
	KeyEscape:    "esc",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pgup",
	KeyPageDown:  "pgdn",
	KeyDelete:    "del",
	KeyInsert:    "ins",
}

var keyCodes = func() map[string]KeyCode {
	m := make(map[string]KeyCode, len(keyNames)+12)
	for code, name := range keyNames {
		m[name] = code
	}
	for i := range 12 {
		m[fmt.Sprintf("f%d", i+1)] = KeyF1 + KeyCode(i)
	}
	return m
}()

func (k KeyCode) name() string {
	if k >= KeyF1 && k <= KeyF12 {
		return fmt.Sprintf("f%d", k-KeyF1+1)
	}
	return keyNames[k]
}

// KeyModifiers represents modifier keys held during a keystroke
type KeyModifiers uint8

const (
	ModNone KeyModifiers = 0
	ModCtrl KeyModifiers = 1 << iota
	ModAlt
	ModShift
)

// modifierPrefixes lists modifiers in canonical order.
var modifierPrefixes = []struct {
	mod    KeyModifiers
	prefix string
}{
	{ModCtrl, "c-"},
	{ModShift, "s-"},
	{ModAlt, "a-"},
}

// Input is a single key press: either a character (Key == KeyNone) or a named
// key, with modifiers.
type Input struct {
	Rune      rune
	Key       KeyCode
	Modifiers KeyModifiers
}

// Char returns a character input.
func Char(r rune) Input {
	return Input{Rune: r}
}

// NamedKey returns an input for a non-character key.
func NamedKey(k KeyCode) Input {
	return Input{Key: k}
}

// With returns i with additional modifiers.
func (i Input) With(m KeyModifiers) Input {
	i.Modifiers |= m
	return i
}

// Text returns the text an unmodified input would insert, if any.
func (i Input) Text() (string, bool) {
	if i.Modifiers&(ModCtrl|ModAlt) != 0 {
		return "", false
	}
	switch {
	case i.Key == KeyNone && i.Rune != 0:
		return string(i.Rune), true
	case i.Key == KeyTab:
		return "\t", true
	}
	return "", false
}

// String returns the canonical form: modifier prefixes in c-, s-, a- order
// followed by the character or a bracketed key name, e.g. "c-s-x" or "<up>".
// Space is written as "<space>".
func (i Input) String() string {
	var sb strings.Builder
	for _, m := range modifierPrefixes {
		if i.Modifiers&m.mod != 0 {
			sb.WriteString(m.prefix)
		}
	}
	switch {
	case i.Key != KeyNone:
		sb.WriteString("<" + i.Key.name() + ">")
	case i.Rune == ' ':
		sb.WriteString("<space>")
	default:
		sb.WriteRune(i.Rune)
	}
	return sb.String()
}

// ErrInvalidInput is matched by every InvalidInputError.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports a string that is not a canonical input.
type InvalidInputError struct {
	Raw string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %q", e.Raw)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// ParseInput parses the canonical form produced by Input.String.
func ParseInput(s string) (Input, error) {
	var in Input
	rest := s

prefixes:
	for len(rest) > 2 {
		for _, m := range modifierPrefixes {
			if strings.HasPrefix(rest, m.prefix) && in.Modifiers&m.mod == 0 {
				in.Modifiers |= m.mod
				rest = rest[2:]
				continue prefixes
			}
		}
		break
	}

	if len(rest) > 2 && rest[0] == '<' && rest[len(rest)-1] == '>' {
		name := rest[1 : len(rest)-1]
		if name == "space" {
			in.Rune = ' '
			return in, nil
		}
		if code, ok := keyCodes[name]; ok {
			in.Key = code
			return in, nil
		}
		return Input{}, &InvalidInputError{Raw: s}
	}

	r, size := utf8.DecodeRuneInString(rest)
	if rest == "" || size != len(rest) || (r == utf8.RuneError && size == 1) {
		return Input{}, &InvalidInputError{Raw: s}
	}
	in.Rune = r
	return in, nil
}
