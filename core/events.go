package core

import "slices"

// Events emitted by the built-in commands.
const (
	EventAppStart      = "app-start"
	EventBufferOpen    = "buffer-open"
	EventBufferWrite   = "buffer-write"
	EventBufferChanged = "buffer-changed"
	EventModeChange    = "mode-change"
)

type pendingEvent struct {
	name    string
	options string
}

// HookSource supplies command strings configured for an event.
type HookSource interface {
	Hooks(event string) []string
}

// EventRegistry holds event subscriptions and the events emitted since the
// last drain.
type EventRegistry struct {
	subscriptions map[string][]string
	pending       []pendingEvent
}

func NewEventRegistry() *EventRegistry {
	return &EventRegistry{subscriptions: make(map[string][]string)}
}

// On subscribes command to event.
func (r *EventRegistry) On(event, command string) {
	r.subscriptions[event] = append(r.subscriptions[event], command)
}

// Subscriptions returns the commands subscribed to event.
func (r *EventRegistry) Subscriptions(event string) []string {
	return slices.Clone(r.subscriptions[event])
}

// Emit queues event for the next drain.
func (r *EventRegistry) Emit(event, options string) {
	r.pending = append(r.pending, pendingEvent{name: event, options: options})
}

// Pending returns the number of undrained events.
func (r *EventRegistry) Pending() int {
	return len(r.pending)
}

// Clear drops undrained events.
func (r *EventRegistry) Clear() {
	r.pending = nil
}

// Drain returns, per emitted event in emission order, the subscribed command
// strings followed by the hooks from src, each with the event options
// appended after a space when non-empty. The pending list is emptied.
// Draining emits nothing.
func (r *EventRegistry) Drain(src HookSource) []string {
	var out []string
	pending := r.pending
	r.pending = nil

	for _, ev := range pending {
		for _, cmd := range r.subscriptions[ev.name] {
			out = append(out, withOptions(cmd, ev.options))
		}
		if src == nil {
			continue
		}
		for _, cmd := range src.Hooks(ev.name) {
			out = append(out, withOptions(cmd, ev.options))
		}
	}
	return out
}

func withOptions(cmd, options string) string {
	if options == "" {
		return cmd
	}
	return cmd + " " + options
}
