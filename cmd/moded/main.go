package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	bubble_adapter "github.com/ionut-t/moded/adapter-bubbletea"
	"github.com/ionut-t/moded/config"
	"github.com/ionut-t/moded/core"
)

const usage = `usage: moded [--scratch] [--<command>[=<options>]...] [path...]

Opens each path in its own buffer, or a scratch buffer when none is given.
Any other --flag runs as an editor command once the buffers are open, e.g.
--set-mode=insert runs "set-mode insert".

Environment:
  MODED_CONFIG  config file (default $XDG_CONFIG_HOME/moded/config.moded)
  MODED_LOG     append log output to this file
`

// invocation is the parsed command line.
type invocation struct {
	paths    []string
	scratch  bool
	commands []string
	help     bool
}

// parseArgs splits args into paths and command flags. "--" ends the flags.
func parseArgs(args []string) invocation {
	var inv invocation
	for i, arg := range args {
		switch {
		case arg == "--":
			inv.paths = append(inv.paths, args[i+1:]...)
			return inv
		case arg == "-h" || arg == "--help":
			inv.help = true
		case arg == "--scratch":
			inv.scratch = true
		case strings.HasPrefix(arg, "--") && len(arg) > 2:
			name, opts, _ := strings.Cut(arg[2:], "=")
			inv.commands = append(inv.commands, strings.TrimSpace(name+" "+opts))
		default:
			inv.paths = append(inv.paths, arg)
		}
	}
	return inv
}

// configPath picks the user config file: MODED_CONFIG, else the XDG config
// directory, else ~/.config.
func configPath() (string, error) {
	if p := os.Getenv("MODED_CONFIG"); p != "" {
		return p, nil
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "moded", "config.moded"), nil
}

// loadConfig applies the user config. Only a config that cannot be applied
// at all stops the editor from starting.
func loadConfig(e *core.Editor, path string) error {
	err := e.LoadConfigFile(path)
	if err == nil {
		return nil
	}
	var perr *config.ParseErrors
	if errors.As(err, &perr) && !perr.Fatal() {
		log.Printf("config: %v", err)
		return nil
	}
	return err
}

// newEditor builds the editor for inv: config loaded, buffers open and the
// startup commands run.
func newEditor(inv invocation, cfgPath string, opts ...core.Option) (*core.Editor, error) {
	e, err := core.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := loadConfig(e, cfgPath); err != nil {
		return nil, err
	}

	for _, path := range inv.paths {
		if err := e.Open(path); err != nil {
			return nil, err
		}
	}
	if inv.scratch || len(inv.paths) == 0 {
		if err := e.Scratch(); err != nil {
			return nil, err
		}
	}

	e.Start()
	for _, cmd := range inv.commands {
		e.Enqueue(cmd)
	}
	e.Tick()
	return e, nil
}

func run(args []string) error {
	inv := parseArgs(args)
	if inv.help {
		fmt.Print(usage)
		return nil
	}

	logger := log.New(io.Discard, "", 0)
	if p := os.Getenv("MODED_LOG"); p != "" {
		f, err := tea.LogToFile(p, "moded")
		if err != nil {
			return err
		}
		defer f.Close()
		logger = log.Default()
	} else {
		log.SetOutput(io.Discard)
	}

	cfgPath, err := configPath()
	if err != nil {
		return err
	}

	e, err := newEditor(inv, cfgPath,
		core.WithLogger(logger),
		core.WithClipboard(bubble_adapter.SystemClipboard{}),
	)
	if err != nil {
		return err
	}

	opts := []bubble_adapter.Option{}
	if w, err := bubble_adapter.WatchConfig(cfgPath); err != nil {
		log.Printf("not watching %s: %v", cfgPath, err)
	} else {
		defer w.Close()
		opts = append(opts, bubble_adapter.WithConfigWatcher(w))
	}

	p := tea.NewProgram(bubble_adapter.New(e, opts...), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "moded: %v\n", err)
		os.Exit(1)
	}
}
