package config

import (
	"slices"

	"github.com/dlclark/regexp2"
)

// Compile lowers an AST into a Config. Selectors that fail to compile,
// unknown mixins and cyclic uses are reported and skipped.
func Compile(ast *Ast) (*Config, []Error) {
	l := &lowerer{src: ast.Source}
	l.walk(ast.Blocks, nil, selectorContext{})
	return &Config{Rules: l.rules}, l.errs
}

type selectorContext struct {
	patterns []*regexp2.Regexp
	states   []string
	// override is the scope id of the innermost enclosing override block, or 0.
	override int
}

type scope struct {
	mixins map[string]*MixinBlock
	parent *scope
}

// lookup finds the mixin in the nearest scope defining it.
func (s *scope) lookup(name string) *MixinBlock {
	for ; s != nil; s = s.parent {
		if m, ok := s.mixins[name]; ok {
			return m
		}
	}
	return nil
}

type lowerer struct {
	src    string
	rules  []Rule
	errs   []Error
	using  []string
	scopes int
}

func (l *lowerer) walk(blocks []Block, parent *scope, ctx selectorContext) {
	sc := &scope{mixins: make(map[string]*MixinBlock), parent: parent}
	for _, b := range blocks {
		if m, ok := b.Kind.(*MixinBlock); ok {
			sc.mixins[m.Name] = m
		}
	}

	for _, b := range blocks {
		inner := ctx
		if b.Override {
			l.scopes++
			inner.override = l.scopes
		}

		switch k := b.Kind.(type) {
		case *SelectorBlock:
			if k.StateName != "" {
				inner.states = append(slices.Clip(ctx.states), k.StateName)
			} else {
				re, err := regexp2.Compile(k.Pattern, regexp2.None)
				if err != nil {
					l.errs = append(l.errs, newError(l.src, ErrInvalidPattern, b.Span, err.Error()))
					continue
				}
				inner.patterns = append(slices.Clip(ctx.patterns), re)
			}
			l.walk(k.Children, sc, inner)

		case *MappingBlock:
			entries := make([]Entry, len(k.Entries))
			for i, e := range k.Entries {
				entries[i] = Entry{Name: e.Name, Values: e.Values}
			}
			l.rules = append(l.rules, Rule{
				Patterns:      inner.patterns,
				States:        inner.states,
				OverrideScope: inner.override,
				Mapping:       k.Name,
				Entries:       entries,
			})

		case *UseBlock:
			mixin := sc.lookup(k.Name)
			if mixin == nil {
				l.errs = append(l.errs, newError(l.src, ErrUnknownMixin, b.Span, k.Name))
				continue
			}
			if slices.Contains(l.using, k.Name) {
				l.errs = append(l.errs, newError(l.src, ErrCyclicMixin, b.Span, k.Name))
				continue
			}
			l.using = append(l.using, k.Name)
			l.walk(mixin.Children, sc, inner)
			l.using = l.using[:len(l.using)-1]

		case *MixinBlock:
			// Defined above; expanded only through use.
		}
	}
}
