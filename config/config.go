// Package config implements the editor's block-structured configuration
// language: lexing, parsing with error recovery, and lowering to a set of
// rules that are composed per buffer path and editor state.
package config

import (
	"slices"

	"github.com/dlclark/regexp2"
)

// Entry is a lowered mapping entry.
type Entry struct {
	Name   string
	Values []Value
}

// Strings returns all scalars of the entry in order, flattening lists.
func (e Entry) Strings() []string {
	var out []string
	for _, v := range e.Values {
		out = append(out, v.Strings()...)
	}
	return out
}

// Rule is one mapping block together with the selectors enclosing it. It
// applies when every pattern matches the buffer path and every state name
// equals the editor state. Rules lowered under the same override block share
// a non-zero OverrideScope.
type Rule struct {
	Patterns      []*regexp2.Regexp
	States        []string
	OverrideScope int
	Mapping       string
	Entries       []Entry
}

// Matches reports whether the rule applies to path in state.
func (r *Rule) Matches(path, state string) bool {
	for _, s := range r.States {
		if s != state {
			return false
		}
	}
	for _, re := range r.Patterns {
		ok, err := re.MatchString(path)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

// Config is the live configuration: an ordered list of rules.
type Config struct {
	Rules []Rule
}

// Empty returns a config without rules.
func Empty() *Config {
	return &Config{}
}

// Load parses and lowers src. A config is returned alongside recoverable
// errors (as *ParseErrors); EOF-fatal errors return a nil config and an
// error matching ErrEOF.
func Load(name, src string) (*Config, error) {
	ast, errs := Parse(src)
	perr := &ParseErrors{Name: name, Errors: errs}
	if perr.Fatal() {
		return nil, perr
	}

	cfg, lowerErrs := Compile(ast)
	perr.Errors = append(perr.Errors, lowerErrs...)
	if len(perr.Errors) > 0 {
		return cfg, perr
	}
	return cfg, nil
}

// Merge returns a config whose rules are c's followed by other's. Override
// scopes of other are renumbered so they stay distinct from c's.
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}
	offset := 0
	for _, r := range c.Rules {
		offset = max(offset, r.OverrideScope)
	}
	rules := slices.Concat(c.Rules, other.Rules)
	for i := len(c.Rules); i < len(rules); i++ {
		if rules[i].OverrideScope != 0 {
			rules[i].OverrideScope += offset
		}
	}
	return &Config{Rules: rules}
}

// Resolve composes every rule matching path and state, in order. Entries
// accumulate per mapping name. The first matching rule of an override scope
// replaces what was accumulated for its mapping; later rules of the same
// scope add to it.
func (c *Config) Resolve(path, state string) *Resolved {
	r := &Resolved{mappings: make(map[string]*Mapping)}
	if c == nil {
		return r
	}
	type key struct {
		mapping string
		scope   int
	}
	replaced := make(map[key]bool)
	for i := range c.Rules {
		rule := &c.Rules[i]
		if !rule.Matches(path, state) {
			continue
		}
		m, ok := r.mappings[rule.Mapping]
		k := key{rule.Mapping, rule.OverrideScope}
		if !ok || (rule.OverrideScope != 0 && !replaced[k]) {
			m = &Mapping{Name: rule.Mapping}
			r.mappings[rule.Mapping] = m
		}
		if rule.OverrideScope != 0 {
			replaced[k] = true
		}
		m.Entries = append(m.Entries, rule.Entries...)
	}
	return r
}

// Resolved is the composition of a config for one buffer path and state.
type Resolved struct {
	mappings map[string]*Mapping
}

// Mapping returns the named mapping, or an empty one.
func (r *Resolved) Mapping(name string) *Mapping {
	if m, ok := r.mappings[name]; ok {
		return m
	}
	return &Mapping{Name: name}
}

// Mapping is a composed name -> values table. Later entries shadow earlier
// ones with the same name.
type Mapping struct {
	Name    string
	Entries []Entry
}

// Lookup returns the last entry called name.
func (m *Mapping) Lookup(name string) (Entry, bool) {
	for i := len(m.Entries) - 1; i >= 0; i-- {
		if m.Entries[i].Name == name {
			return m.Entries[i], true
		}
	}
	return Entry{}, false
}

// All returns every entry called name, in order.
func (m *Mapping) All(name string) []Entry {
	var out []Entry
	for _, e := range m.Entries {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// Lookup is a shorthand for Mapping(mapping).Lookup(name) returning the
// entry's first scalar.
func (r *Resolved) Lookup(mapping, name string) (string, bool) {
	e, ok := r.Mapping(mapping).Lookup(name)
	if !ok {
		return "", false
	}
	s := e.Strings()
	if len(s) == 0 {
		return "", false
	}
	return s[0], true
}
