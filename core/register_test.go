package core

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClipboard struct {
	text string
}

func (c *fakeClipboard) Write(text string) error {
	c.text = text
	return nil
}

func (c *fakeClipboard) Read() (string, error) {
	return c.text, nil
}

func TestRegisterValues(t *testing.T) {
	r := NewRegister([]string{"a", "b", "c"})
	assert.Equal(t, "a", r.Primary)
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []string{"a", "b", "c"}, slices.Collect(r.All()))
}

func TestClipboardRegister(t *testing.T) {
	clip := &fakeClipboard{}
	rs := NewRegisters(clip)

	require.NoError(t, rs.Set(ClipboardRegister, NewRegister([]string{"one", "two"})))
	assert.Equal(t, "one\ntwo", clip.text)

	r, ok, err := rs.Get(ClipboardRegister)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, r.Len())

	clip.text = "from elsewhere"
	r, ok, err = rs.Get(ClipboardRegister)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Register{Primary: "from elsewhere"}, r)
}

func TestUnsetRegister(t *testing.T) {
	rs := NewRegisters(nil)
	_, ok, err := rs.Get('a')
	require.NoError(t, err)
	assert.False(t, ok)
}
