package config

import (
	"strings"
	"unicode"
)

// Ast is the parse result. Source is kept so spans stay meaningful.
type Ast struct {
	Source string
	Blocks []Block
}

// Block is a top-level or nested block. Kind is one of *SelectorBlock,
// *MappingBlock, *MixinBlock or *UseBlock.
type Block struct {
	Override bool
	Kind     BlockKind
	Span     Span
}

// BlockKind is implemented by the four block variants.
type BlockKind interface {
	blockKind()
}

// SelectorBlock scopes its children to buffers whose path matches Pattern
// (`file <regex>`) or to the editor state StateName (`state <name>`).
type SelectorBlock struct {
	StateName string
	Pattern   string
	Children  []Block
}

// MappingBlock is a named table of entries, e.g. `keybinds { ... }`.
type MappingBlock struct {
	Name    string
	Entries []MappingEntry
}

// MappingEntry is one `<name> <values...>` line of a mapping block.
type MappingEntry struct {
	Name   string
	Values []Value
	Span   Span
}

// MixinBlock defines a reusable fragment spliced by `use`.
type MixinBlock struct {
	Name     string
	Children []Block
}

// UseBlock splices the mixin called Name.
type UseBlock struct {
	Name string
}

func (*SelectorBlock) blockKind() {}
func (*MappingBlock) blockKind()  {}
func (*MixinBlock) blockKind()    {}
func (*UseBlock) blockKind()      {}

// Value is a single mapping value: either a scalar built from one or more
// adjacent pieces, or a `$[ ... ]` list of scalars.
type Value struct {
	Text   string
	Items  []string
	IsList bool
	Span   Span
}

// Strings flattens the value into the sequence of scalars it holds.
func (v Value) Strings() []string {
	if v.IsList {
		return v.Items
	}
	return []string{v.Text}
}

// String renders the AST back to source. Comments and original spacing are
// not preserved; parsing the output yields an equivalent AST.
func (a *Ast) String() string {
	var sb strings.Builder
	writeBlocks(&sb, a.Blocks, 0)
	return sb.String()
}

func writeBlocks(sb *strings.Builder, blocks []Block, depth int) {
	indent := strings.Repeat("\t", depth)
	for _, b := range blocks {
		sb.WriteString(indent)
		if b.Override {
			sb.WriteString("override ")
		}
		switch k := b.Kind.(type) {
		case *SelectorBlock:
			if k.StateName != "" {
				sb.WriteString("state " + k.StateName + " {\n")
			} else {
				sb.WriteString("file " + k.Pattern + " {\n")
			}
			writeBlocks(sb, k.Children, depth+1)
			sb.WriteString(indent + "}\n")
		case *MixinBlock:
			sb.WriteString("mixin " + k.Name + " {\n")
			writeBlocks(sb, k.Children, depth+1)
			sb.WriteString(indent + "}\n")
		case *UseBlock:
			sb.WriteString("use " + k.Name + "\n")
		case *MappingBlock:
			sb.WriteString(k.Name + " {\n")
			for _, e := range k.Entries {
				sb.WriteString(indent + "\t" + e.Name)
				for _, v := range e.Values {
					sb.WriteByte(' ')
					sb.WriteString(formatValue(v))
				}
				sb.WriteByte('\n')
			}
			sb.WriteString(indent + "}\n")
		}
	}
}

func formatValue(v Value) string {
	if !v.IsList {
		return formatScalar(v.Text, false)
	}
	if len(v.Items) == 0 {
		return "$[ ]"
	}
	items := make([]string, len(v.Items))
	for i, item := range v.Items {
		items[i] = formatScalar(item, true)
	}
	return "$[ " + strings.Join(items, " ; ") + " ]"
}

// formatScalar emits text as a bare token when it lexes back unchanged and
// otherwise as string literals. A literal cannot hold `"`, so quotes are
// emitted as adjacent bare pieces.
func formatScalar(text string, inList bool) string {
	if text == "" {
		return `$""`
	}
	if isSafeBare(text, inList) {
		return text
	}
	var sb strings.Builder
	parts := strings.Split(text, `"`)
	for i, part := range parts {
		if i > 0 {
			sb.WriteByte('"')
		}
		if part != "" {
			sb.WriteString(`$"` + strings.ReplaceAll(part, "$", "$$") + `"`)
		}
	}
	return sb.String()
}

func isSafeBare(text string, inList bool) bool {
	if text == "" || text[0] == '#' || text == "file" {
		return false
	}
	if strings.ContainsAny(text, "{}$") || strings.ContainsFunc(text, unicode.IsSpace) {
		return false
	}
	if inList && strings.ContainsAny(text, "];") {
		return false
	}
	return true
}
