package bubble_adapter

import (
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

const configDebounce = 100 * time.Millisecond

// ConfigChangedMsg reports that the watched config file was written.
type ConfigChangedMsg struct {
	Path string
}

// ConfigWatchErrorMsg carries an error from the file watcher.
type ConfigWatchErrorMsg struct {
	Err error
}

// ConfigWatcher reports changes to a single config file. It watches the
// parent directory so that editors which save by renaming a temporary file
// over the original are noticed too.
type ConfigWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	msgs    chan tea.Msg
	done    chan struct{}
}

// WatchConfig starts watching path. The file need not exist yet.
func WatchConfig(path string) (*ConfigWatcher, error) {
	path = filepath.Clean(path)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	w := &ConfigWatcher{
		path:    path,
		watcher: watcher,
		msgs:    make(chan tea.Msg, 1),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// run collapses bursts of events into one message once the file has been
// quiet for configDebounce.
func (w *ConfigWatcher) run() {
	debounce := time.NewTimer(configDebounce)
	debounce.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce.Reset(configDebounce)
			}

		case <-debounce.C:
			w.send(ConfigChangedMsg{Path: w.path})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(ConfigWatchErrorMsg{Err: err})

		case <-w.done:
			return
		}
	}
}

// send hands msg to the program, dropping it when a message of the same
// burst is still pending.
func (w *ConfigWatcher) send(msg tea.Msg) {
	select {
	case w.msgs <- msg:
	default:
	}
}

// Wait returns a command that blocks until the next change or error. The
// model issues it again after handling each message.
func (w *ConfigWatcher) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-w.msgs:
			return msg
		case <-w.done:
			return nil
		}
	}
}

// Close stops the watcher.
func (w *ConfigWatcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
