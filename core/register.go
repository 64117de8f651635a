package core

import (
	"iter"
	"strings"
)

// Clipboard is the system clipboard behind the '+' register.
type Clipboard interface {
	Write(text string) error
	Read() (string, error)
}

const (
	DefaultRegister   = '"'
	ClipboardRegister = '+'
)

// Register holds one string per yanked selection. Primary comes from the
// first selection.
type Register struct {
	Primary string
	Extra   []string
}

// NewRegister builds a register from values in selection order.
func NewRegister(values []string) Register {
	if len(values) == 0 {
		return Register{}
	}
	return Register{Primary: values[0], Extra: values[1:]}
}

// All iterates the primary string, then the extra ones.
func (r Register) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		if !yield(r.Primary) {
			return
		}
		for _, s := range r.Extra {
			if !yield(s) {
				return
			}
		}
	}
}

// Len returns the number of stored strings.
func (r Register) Len() int {
	return 1 + len(r.Extra)
}

// Registers maps register names to contents. The clipboard register reads
// and writes through the Clipboard when one is set.
type Registers struct {
	values    map[rune]Register
	clipboard Clipboard
}

func NewRegisters(clipboard Clipboard) *Registers {
	return &Registers{values: make(map[rune]Register), clipboard: clipboard}
}

// Set stores r under name.
func (rs *Registers) Set(name rune, r Register) error {
	rs.values[name] = r
	if name == ClipboardRegister && rs.clipboard != nil {
		return rs.clipboard.Write(r.joined())
	}
	return nil
}

// Get returns the register called name.
func (rs *Registers) Get(name rune) (Register, bool, error) {
	if name == ClipboardRegister && rs.clipboard != nil {
		text, err := rs.clipboard.Read()
		if err != nil {
			return Register{}, false, err
		}
		// Keep per-selection parity when the clipboard still holds our own yank.
		if r, ok := rs.values[name]; ok && r.joined() == text {
			return r, true, nil
		}
		return Register{Primary: text}, true, nil
	}
	r, ok := rs.values[name]
	return r, ok, nil
}

func (r Register) joined() string {
	return strings.Join(append([]string{r.Primary}, r.Extra...), "\n")
}
