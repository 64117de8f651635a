package core

import (
	"errors"
	"fmt"
)

var (
	ErrEndOfBuffer     = errors.New("end of buffer")
	ErrStartOfBuffer   = errors.New("start of buffer")
	ErrInvalidPosition = errors.New("invalid position")
	ErrInvalidHandle   = errors.New("invalid handle")
	ErrNoActiveView    = errors.New("no active view")
	ErrNoPath          = errors.New("buffer has no file path")
	ErrEmptyRegister   = errors.New("register is empty")
	ErrUnknownCommand  = errors.New("Unknown command")
	ErrFuelExhausted   = errors.New("fuel exhausted: command limit reached for this tick")
)

// UnknownCommandError names a command missing from the registry.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownCommand, e.Name)
}

func (e *UnknownCommandError) Unwrap() error {
	return ErrUnknownCommand
}

// CommandError wraps an error returned by a command.
type CommandError struct {
	Name string
	Err  error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
