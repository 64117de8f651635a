// Package bubble_adapter runs a core.Editor as a bubbletea program: terminal
// keys become core inputs, each key press runs one tick and the panels of a
// panel.Layout are drawn with lipgloss.
package bubble_adapter

import (
	"log"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ionut-t/moded/core"
	"github.com/ionut-t/moded/panel"
)

// keyMap holds the bindings the front-end handles itself, before the
// editor sees the key.
type keyMap struct {
	ForceQuit key.Binding
}

var defaultKeyMap = keyMap{
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "force quit"),
	),
}

// SystemClipboard backs the '+' register with the system clipboard.
type SystemClipboard struct{}

func (c SystemClipboard) Write(text string) error {
	return clipboard.WriteAll(text)
}

func (c SystemClipboard) Read() (string, error) {
	return clipboard.ReadAll()
}

type Model struct {
	editor   *core.Editor
	layout   *panel.Layout
	renderer *lipgloss.Renderer
	watcher  *ConfigWatcher
	keys     keyMap
}

// Option configures a Model.
type Option func(*Model)

// WithLayout replaces the default panel layout.
func WithLayout(l *panel.Layout) Option {
	return func(m *Model) {
		m.layout = l
	}
}

// WithRenderer sets the lipgloss renderer used to style cells.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(m *Model) {
		m.renderer = r
	}
}

// WithConfigWatcher reloads the config whenever w reports a change.
func WithConfigWatcher(w *ConfigWatcher) Option {
	return func(m *Model) {
		m.watcher = w
	}
}

// New wraps e. The editor should already hold its initial buffers.
func New(e *core.Editor, opts ...Option) Model {
	m := Model{
		editor:   e,
		layout:   panel.NewLayout(panel.DefaultTheme),
		renderer: lipgloss.DefaultRenderer(),
		keys:     defaultKeyMap,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Editor returns the wrapped editor.
func (m Model) Editor() *core.Editor {
	return m.editor
}

func (m Model) Init() tea.Cmd {
	return m.waitForConfig()
}

func (m Model) waitForConfig() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Wait()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.editor.Resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		for _, in := range convertBubbleKey(msg) {
			m.editor.Feed(in)
		}
		m.editor.Tick()

	case ConfigChangedMsg:
		m.editor.Enqueue("reload-config")
		m.editor.Tick()
		cmds = append(cmds, m.waitForConfig())

	case ConfigWatchErrorMsg:
		log.Printf("config watcher: %v", msg.Err)
		cmds = append(cmds, m.waitForConfig())
	}

	if m.editor.State().QuitRequested {
		return m, tea.Quit
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	s := m.editor.State()
	if !s.RenderReady {
		return ""
	}
	return compose(m.renderer, m.layout.Render(s), s.Size)
}

// ctrlLetter reads ctrl+letter from its control character. Tab and enter
// share codes with ctrl+i and ctrl+m and are looked up first.
func ctrlLetter(t tea.KeyType) (rune, bool) {
	if t < tea.KeyCtrlA || t > tea.KeyCtrlZ {
		return 0, false
	}
	return 'a' + rune(t-tea.KeyCtrlA), true
}

var namedKeys = map[tea.KeyType]core.Input{
	tea.KeyEnter:     core.NamedKey(core.KeyEnter),
	tea.KeyTab:       core.NamedKey(core.KeyTab),
	tea.KeyShiftTab:  core.NamedKey(core.KeyTab).With(core.ModShift),
	tea.KeyBackspace: core.NamedKey(core.KeyBackspace),
	tea.KeyEsc:       core.NamedKey(core.KeyEscape),
	tea.KeySpace:     core.Char(' '),
	tea.KeyCtrlAt:    core.Char(' ').With(core.ModCtrl),

	tea.KeyUp:    core.NamedKey(core.KeyUp),
	tea.KeyDown:  core.NamedKey(core.KeyDown),
	tea.KeyLeft:  core.NamedKey(core.KeyLeft),
	tea.KeyRight: core.NamedKey(core.KeyRight),

	tea.KeyShiftUp:    core.NamedKey(core.KeyUp).With(core.ModShift),
	tea.KeyShiftDown:  core.NamedKey(core.KeyDown).With(core.ModShift),
	tea.KeyShiftLeft:  core.NamedKey(core.KeyLeft).With(core.ModShift),
	tea.KeyShiftRight: core.NamedKey(core.KeyRight).With(core.ModShift),
	tea.KeyCtrlUp:     core.NamedKey(core.KeyUp).With(core.ModCtrl),
	tea.KeyCtrlDown:   core.NamedKey(core.KeyDown).With(core.ModCtrl),
	tea.KeyCtrlLeft:   core.NamedKey(core.KeyLeft).With(core.ModCtrl),
	tea.KeyCtrlRight:  core.NamedKey(core.KeyRight).With(core.ModCtrl),

	tea.KeyHome:      core.NamedKey(core.KeyHome),
	tea.KeyEnd:       core.NamedKey(core.KeyEnd),
	tea.KeyShiftHome: core.NamedKey(core.KeyHome).With(core.ModShift),
	tea.KeyShiftEnd:  core.NamedKey(core.KeyEnd).With(core.ModShift),
	tea.KeyCtrlHome:  core.NamedKey(core.KeyHome).With(core.ModCtrl),
	tea.KeyCtrlEnd:   core.NamedKey(core.KeyEnd).With(core.ModCtrl),
	tea.KeyPgUp:      core.NamedKey(core.KeyPageUp),
	tea.KeyPgDown:    core.NamedKey(core.KeyPageDown),
	tea.KeyDelete:    core.NamedKey(core.KeyDelete),
	tea.KeyInsert:    core.NamedKey(core.KeyInsert),
}

// convertBubbleKey turns a bubbletea key into editor inputs. Pasted text
// arrives as one message and yields one input per rune.
func convertBubbleKey(msg tea.KeyMsg) []core.Input {
	var mods core.KeyModifiers
	if msg.Alt {
		mods |= core.ModAlt
	}

	if msg.Type == tea.KeyRunes {
		inputs := make([]core.Input, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			inputs = append(inputs, core.Char(r).With(mods))
		}
		return inputs
	}

	if in, ok := namedKeys[msg.Type]; ok {
		return []core.Input{in.With(mods)}
	}
	if r, ok := ctrlLetter(msg.Type); ok {
		return []core.Input{core.Char(r).With(core.ModCtrl | mods)}
	}
	// Function key types count down from KeyF1.
	if msg.Type <= tea.KeyF1 && msg.Type >= tea.KeyF12 {
		return []core.Input{core.NamedKey(core.KeyF1 + core.KeyCode(tea.KeyF1-msg.Type)).With(mods)}
	}
	return nil
}
