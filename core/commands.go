package core

import (
	"log"
	"maps"
	"slices"
	"strings"
)

// Command is a parsed command string: a name and free-form options.
type Command struct {
	Name    string
	Options string
}

// ParseCommand splits s at the first space. Options are kept verbatim.
func ParseCommand(s string) Command {
	name, options, _ := strings.Cut(s, " ")
	return Command{Name: name, Options: options}
}

// String returns "name options". The separating space is always present.
func (c Command) String() string {
	return c.Name + " " + c.Options
}

// CommandFunc runs a command. Commands enqueue further work through ctx and
// never call each other directly.
type CommandFunc func(options string, ctx *ExecuteContext) error

// Registry maps command names to implementations.
type Registry struct {
	commands map[string]CommandFunc
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]CommandFunc)}
}

// Register binds name to fn, replacing any previous binding.
func (r *Registry) Register(name string, fn CommandFunc) {
	r.commands[name] = fn
}

// Lookup returns the command bound to name.
func (r *Registry) Lookup(name string) (CommandFunc, bool) {
	fn, ok := r.commands[name]
	return fn, ok
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.commands))
}

// Dispatch runs cmd. A missing command yields an UnknownCommandError and a
// failing one a CommandError.
func (r *Registry) Dispatch(cmd Command, ctx *ExecuteContext) error {
	fn, ok := r.Lookup(cmd.Name)
	if !ok {
		return &UnknownCommandError{Name: cmd.Name}
	}
	if err := fn(cmd.Options, ctx); err != nil {
		return &CommandError{Name: cmd.Name, Err: err}
	}
	return nil
}

// Queue is a FIFO of commands that also accepts insertions at its head.
type Queue struct {
	items []Command
}

// Push appends cmd.
func (q *Queue) Push(cmd Command) {
	q.items = append(q.items, cmd)
}

// PushFront inserts cmd at the head.
func (q *Queue) PushFront(cmd Command) {
	q.items = slices.Insert(q.items, 0, cmd)
}

// ExtendFront inserts cmds at the head, keeping their order.
func (q *Queue) ExtendFront(cmds ...Command) {
	q.items = slices.Insert(q.items, 0, cmds...)
}

// Pop removes and returns the head.
func (q *Queue) Pop() (Command, bool) {
	if len(q.items) == 0 {
		return Command{}, false
	}
	cmd := q.items[0]
	q.items = q.items[1:]
	return cmd, true
}

func (q *Queue) Len() int {
	return len(q.items)
}

// Items returns a copy of the queued commands.
func (q *Queue) Items() []Command {
	return slices.Clone(q.items)
}

// Clear drops every queued command.
func (q *Queue) Clear() {
	q.items = nil
}

// ExecuteContext is what a running command may touch. The registry is
// exposed read-only for lookups such as prompt completion.
type ExecuteContext struct {
	State    *State
	Queue    *Queue
	Events   *EventRegistry
	Registry *Registry
	Logger   *log.Logger
}

// Enqueue parses each command string and appends it to the queue.
func (ctx *ExecuteContext) Enqueue(cmds ...string) {
	for _, c := range cmds {
		ctx.Queue.Push(ParseCommand(c))
	}
}

// EnqueueFront parses the command strings and runs them next, in order.
func (ctx *ExecuteContext) EnqueueFront(cmds ...string) {
	parsed := make([]Command, len(cmds))
	for i, c := range cmds {
		parsed[i] = ParseCommand(c)
	}
	ctx.Queue.ExtendFront(parsed...)
}
