// Package core is the editor's orchestration layer: resource arenas, the
// command registry and queue, event hooks, input mapping and the tick loop
// that drives them.
package core

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/ionut-t/moded/config"
)

// DefaultConfig is parsed before any user config.
//
//go:embed default.moded
var DefaultConfig string

// DefaultFuel bounds the commands run by a single tick.
const DefaultFuel = 10000

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger for command failures and config reloads.
func WithLogger(l *log.Logger) Option {
	return func(e *Editor) {
		e.logger = l
	}
}

// WithFuel sets the per-tick command limit.
func WithFuel(n int) Option {
	return func(e *Editor) {
		e.fuel = n
	}
}

// WithClipboard backs the '+' register with c.
func WithClipboard(c Clipboard) Option {
	return func(e *Editor) {
		e.clipboard = c
	}
}

// WithBaseConfig replaces the embedded default config. An empty source
// starts without bindings.
func WithBaseConfig(src string) Option {
	return func(e *Editor) {
		e.baseSource = src
	}
}

// WithSize sets the initial viewport size.
func WithSize(width, height int) Option {
	return func(e *Editor) {
		e.size = Size{Width: width, Height: height}
	}
}

// Editor is the core driver. It owns the state and runs queued commands to
// quiescence on every Tick. It is not safe for concurrent use.
type Editor struct {
	state    *State
	registry *Registry
	queue    *Queue
	events   *EventRegistry
	logger   *log.Logger

	fuel       int
	clipboard  Clipboard
	size       Size
	baseSource string
	base       *config.Config
	user       *config.Config
	configPath string
}

// New creates an editor with the built-in commands registered and the base
// config loaded.
func New(opts ...Option) (*Editor, error) {
	e := &Editor{
		registry:   NewRegistry(),
		queue:      &Queue{},
		events:     NewEventRegistry(),
		logger:     log.New(io.Discard, "", 0),
		fuel:       DefaultFuel,
		baseSource: DefaultConfig,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.state = NewState(e.clipboard)
	e.state.Size = e.size
	e.registerBuiltins()

	base, err := config.Load("default", e.baseSource)
	if base == nil {
		return nil, fmt.Errorf("default config: %w", err)
	}
	if err != nil {
		e.logger.Printf("default config: %v", err)
	}
	e.base = base
	e.applyConfig()
	return e, nil
}

func (e *Editor) State() *State {
	return e.state
}

func (e *Editor) Registry() *Registry {
	return e.registry
}

func (e *Editor) Queue() *Queue {
	return e.queue
}

func (e *Editor) Events() *EventRegistry {
	return e.events
}

// Register binds a command, replacing any built-in of the same name.
func (e *Editor) Register(name string, fn CommandFunc) {
	e.registry.Register(name, fn)
}

// Context returns the context handed to commands.
func (e *Editor) Context() *ExecuteContext {
	return &ExecuteContext{
		State:    e.state,
		Queue:    e.queue,
		Events:   e.events,
		Registry: e.registry,
		Logger:   e.logger,
	}
}

// Feed queues the input for mapping on the next tick.
func (e *Editor) Feed(in Input) {
	e.queue.Push(Command{Name: "map-input", Options: in.String()})
}

// Enqueue queues a command string.
func (e *Editor) Enqueue(cmd string) {
	e.queue.Push(ParseCommand(cmd))
}

// Start emits app-start.
func (e *Editor) Start() {
	e.events.Emit(EventAppStart, "")
}

// Resize updates the viewport size and keeps the cursor visible.
func (e *Editor) Resize(width, height int) {
	e.state.Size = Size{Width: width, Height: height}
	e.refresh()
}

// Tick runs queued events and commands until both are empty or the fuel
// runs out, then recomputes derived state. Command errors end up in
// State.ModelineErr; Tick itself never fails.
func (e *Editor) Tick() {
	s := e.state
	if e.queue.Len() > 0 || e.events.Pending() > 0 {
		s.ModelineErr = ""
		s.Message = ""
		s.RenderReady = false
		e.run()
	}
	e.refresh()
	s.RenderReady = true
}

func (e *Editor) run() {
	s := e.state
	ctx := e.Context()
	fuel := e.fuel

	for {
		if cmds := e.events.Drain(resolvedHooks{s.Resolve()}); len(cmds) > 0 {
			ctx.EnqueueFront(cmds...)
		}

		cmd, ok := e.queue.Pop()
		if !ok {
			return
		}
		if fuel <= 0 {
			s.ModelineErr = ErrFuelExhausted.Error()
			e.logger.Printf("%v: dropped %d commands and %d events", ErrFuelExhausted, e.queue.Len()+1, e.events.Pending())
			e.queue.Clear()
			e.events.Clear()
			return
		}
		fuel--

		if err := e.registry.Dispatch(cmd, ctx); err != nil {
			s.ModelineErr = err.Error()
			e.logger.Printf("%q: %v", cmd.String(), err)
		}
	}
}

// LoadConfig parses src as the user config and layers it over the base
// config. On an EOF-fatal error the previous config stays in effect.
// Recoverable errors are returned alongside an applied config.
func (e *Editor) LoadConfig(name, src string) error {
	cfg, err := config.Load(name, src)
	if cfg == nil {
		e.logger.Printf("config %s rejected: %v", name, err)
		return err
	}
	e.user = cfg
	e.applyConfig()
	if err != nil {
		e.logger.Printf("config %s: %v", name, err)
	} else {
		e.logger.Printf("config %s loaded: %d rules", name, len(cfg.Rules))
	}
	return err
}

// LoadConfigFile loads the user config from path and remembers it for
// reload-config. A missing file is not an error.
func (e *Editor) LoadConfigFile(path string) error {
	e.configPath = path
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		e.user = nil
		e.applyConfig()
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return e.LoadConfig(path, string(data))
}

// ConfigPath returns the path given to LoadConfigFile.
func (e *Editor) ConfigPath() string {
	return e.configPath
}

func (e *Editor) applyConfig() {
	e.state.SetConfig(e.base.Merge(e.user))
}

// Open reads path into a new buffer and makes it active, as the open command
// does. It fails when the file exists but cannot be read.
func (e *Editor) Open(path string) error {
	return openPath(e.Context(), path)
}

// Scratch opens an empty buffer without a path.
func (e *Editor) Scratch() error {
	return openBuffer(e.Context(), NewTextBuffer())
}
