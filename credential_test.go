package vty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredential_WriteRespectsCapacity(t *testing.T) {
	c, err := NewCredential(4, 4, false)
	require.Nil(t, err)

	for _, b := range []byte("abcd") {
		c.Write(b)
	}
	assert.Equal(t, "abcd", c.String())

	// Write at capacity is a no-op.
	c.Write('e')
	assert.Equal(t, "abcd", c.String())
	assert.LessOrEqual(t, c.Len(), c.Cap())
	assert.LessOrEqual(t, c.Cursor(), c.Len())
}

func TestCredential_WriteRejectsNonPrintable(t *testing.T) {
	c, err := NewCredential(8, 8, false)
	require.Nil(t, err)

	c.Write('\n')
	c.Write(0x01)
	assert.Equal(t, "", c.String())
}

func TestCredential_BackspaceAtCursorZeroIsNoop(t *testing.T) {
	c, err := NewCredential(8, 8, false)
	require.Nil(t, err)

	c.Write('x')
	c.Move(Left)
	assert.Equal(t, 0, c.Cursor())

	c.Backspace()
	assert.Equal(t, "x", c.String())
}

func TestCredential_MoveClampsAtEdges(t *testing.T) {
	c, err := NewCredential(8, 8, false)
	require.Nil(t, err)
	c.Write('a')
	c.Write('b')

	c.Move(Right)
	c.Move(Right)
	c.Move(Right)
	assert.Equal(t, 2, c.Cursor())

	c.Move(Left)
	c.Move(Left)
	c.Move(Left)
	assert.Equal(t, 0, c.Cursor())
}

func TestCredential_ClearZeroesButKeepsBuffer(t *testing.T) {
	c, err := NewCredential(8, 8, false)
	require.Nil(t, err)
	c.Write('s')
	c.Write('e')
	c.Write('c')

	c.Clear()
	assert.Equal(t, "", c.String())
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.Cursor())
	for _, b := range c.storage {
		assert.Equal(t, byte(0), b)
	}
}

func TestCredential_ReleaseIsIdempotent(t *testing.T) {
	c, err := NewCredential(8, 8, false)
	require.Nil(t, err)
	c.Write('z')

	c.Release()
	assert.Nil(t, c.storage)

	assert.NotPanics(t, func() { c.Release() })
}

func TestCredential_FocusTransitionPreservesContent(t *testing.T) {
	login, err := NewCredential(16, 16, false)
	require.Nil(t, err)
	for _, b := range []byte("alice") {
		login.Write(b)
	}

	password, err := NewCredential(16, 16, true)
	require.Nil(t, err)

	f := NewForm(NewCatalog(".xinitrc"), login, password)
	f.Handle(Key{Special: KeyUp})
	f.Handle(Key{Special: KeyDown})

	assert.Equal(t, "alice", f.Login.String())
}
