package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	assert.Equal(t, Command{Name: "open", Options: "a b.txt"}, ParseCommand("open a b.txt"))
	assert.Equal(t, Command{Name: "quit"}, ParseCommand("quit"))
	assert.Equal(t, Command{Name: "insert-char", Options: " "}, ParseCommand("insert-char  "))
	assert.Equal(t, "move-up ", ParseCommand("move-up").String())
}

func TestQueueOrdering(t *testing.T) {
	var q Queue
	q.Push(Command{Name: "b"})
	q.Push(Command{Name: "c"})
	q.PushFront(Command{Name: "a"})
	q.ExtendFront(Command{Name: "x"}, Command{Name: "y"})

	var names []string
	for {
		cmd, ok := q.Pop()
		if !ok {
			break
		}
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"x", "y", "a", "b", "c"}, names)
	assert.Zero(t, q.Len())
}

func TestDispatchErrors(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	r.Register("fail", func(string, *ExecuteContext) error { return boom })

	err := r.Dispatch(Command{Name: "missing"}, nil)
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Equal(t, "Unknown command: missing", err.Error())

	err = r.Dispatch(Command{Name: "fail"}, nil)
	assert.ErrorIs(t, err, boom)
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "fail", cmdErr.Name)
}

func TestRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	var got string
	r.Register("cmd", func(string, *ExecuteContext) error { got = "first"; return nil })
	r.Register("cmd", func(opts string, _ *ExecuteContext) error { got = "second " + opts; return nil })

	require.NoError(t, r.Dispatch(ParseCommand("cmd x"), nil))
	assert.Equal(t, "second x", got)
	assert.Equal(t, []string{"cmd"}, r.Names())
}

func TestEnqueueFrontKeepsOrder(t *testing.T) {
	ctx := &ExecuteContext{Queue: &Queue{}}
	ctx.Enqueue("last")
	ctx.EnqueueFront("first one", "second")

	assert.Equal(t, []Command{
		{Name: "first", Options: "one"},
		{Name: "second"},
		{Name: "last"},
	}, ctx.Queue.Items())
}
