package core

import (
	"strings"

	"github.com/ionut-t/moded/config"
)

// Mapping names consulted by map-input.
const (
	MappingKeybinds          = "keybinds"
	MappingModelineKeybinds  = "modeline-keybinds"
	MappingPickerKeybinds    = "picker-keybinds"
	MappingWarpdriveKeybinds = "warpdrive-keybinds"
	MappingHooks             = "hooks"
	MappingOptions           = "options"
	MappingSyntax            = "syntax"
	MappingSyntaxStyle       = "syntax-style"

	// KeybindElse is the fallback entry inside a keybind mapping.
	KeybindElse = "keybind-else"
)

// EntryCommands turns a mapping entry into command strings. Scalars are
// joined with spaces into one command; every list item is a command of its
// own.
func EntryCommands(e config.Entry) []string {
	var cmds, words []string
	flush := func() {
		if len(words) > 0 {
			cmds = append(cmds, strings.Join(words, " "))
			words = nil
		}
	}
	for _, v := range e.Values {
		if v.IsList {
			flush()
			cmds = append(cmds, v.Items...)
			continue
		}
		words = append(words, v.Text)
	}
	flush()
	return cmds
}

// keymapFor returns the keybind mapping for the current focus, or the
// pending combo mapping.
func keymapFor(s *State) string {
	if s.Combo != "" {
		return s.Combo
	}
	switch s.Focus.Kind {
	case FocusModeline:
		return MappingModelineKeybinds
	case FocusFilePicker:
		return MappingPickerKeybinds
	case FocusWarpdrive:
		return MappingWarpdriveKeybinds
	default:
		return MappingKeybinds
	}
}

// MapInput resolves in against mapping. A bound entry yields its commands.
// Otherwise keybind-else applies: a single-token fallback receives the
// input's text as options and is skipped when the input has none; a longer
// fallback runs as written.
func MapInput(m *config.Mapping, in Input) []string {
	if e, ok := m.Lookup(in.String()); ok {
		return EntryCommands(e)
	}

	e, ok := m.Lookup(KeybindElse)
	if !ok {
		return nil
	}
	cmds := EntryCommands(e)
	if len(cmds) != 1 || strings.Contains(cmds[0], " ") {
		return cmds
	}
	text, ok := in.Text()
	if !ok {
		return nil
	}
	return []string{cmds[0] + " " + text}
}

// cmdMapInput is map-input: options hold a canonical input string.
func cmdMapInput(options string, ctx *ExecuteContext) error {
	in, err := ParseInput(options)
	if err != nil {
		return err
	}

	s := ctx.State
	mapping := keymapFor(s)
	s.Combo = ""

	cmds := MapInput(s.Resolve().Mapping(mapping), in)
	ctx.EnqueueFront(cmds...)
	return nil
}

// resolvedHooks serves event hooks from a composed config.
type resolvedHooks struct {
	resolved *config.Resolved
}

func (h resolvedHooks) Hooks(event string) []string {
	var out []string
	for _, e := range h.resolved.Mapping(MappingHooks).All(event) {
		out = append(out, EntryCommands(e)...)
	}
	return out
}
