package vty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestForm(t *testing.T) *Form {
	t.Helper()
	login, err := NewCredential(32, 32, false)
	require.Nil(t, err)
	password, err := NewCredential(32, 32, false)
	require.Nil(t, err)
	return NewForm(NewCatalog(".xinitrc"), login, password)
}

func TestForm_InitialFocusIsPassword(t *testing.T) {
	f := newTestForm(t)
	assert.Equal(t, FocusPassword, f.Focus())
}

func TestForm_CtrlCQuitsFromAnyFocus(t *testing.T) {
	f := newTestForm(t)
	assert.Equal(t, ActionQuit, f.Handle(Key{CtrlC: true}))
}

func TestForm_GlobalKeysWinOverFocusRouting(t *testing.T) {
	f := newTestForm(t)
	assert.Equal(t, ActionPowerOff, f.Handle(Key{Special: KeyF1}))
	assert.Equal(t, ActionReboot, f.Handle(Key{Special: KeyF2}))
}

func TestForm_EnterOnPasswordSubmits(t *testing.T) {
	f := newTestForm(t)
	assert.Equal(t, ActionSubmit, f.Handle(Key{Special: KeyEnter}))
}

func TestForm_EnterAdvancesFocusElsewhere(t *testing.T) {
	f := newTestForm(t)
	f.Handle(Key{Special: KeyUp}) // Password -> Login
	require.Equal(t, FocusLogin, f.Focus())

	f.Handle(Key{Special: KeyEnter})
	assert.Equal(t, FocusPassword, f.Focus())
}

func TestForm_FocusClampsAtBounds(t *testing.T) {
	f := newTestForm(t)
	f.Handle(Key{Special: KeyUp})
	f.Handle(Key{Special: KeyUp})
	f.Handle(Key{Special: KeyUp})
	assert.Equal(t, FocusSession, f.Focus())

	f.Handle(Key{Special: KeyDown})
	f.Handle(Key{Special: KeyDown})
	f.Handle(Key{Special: KeyDown})
	assert.Equal(t, FocusPassword, f.Focus())
}

func TestForm_SessionFocusMovesCatalogSelection(t *testing.T) {
	f := newTestForm(t)
	f.Handle(Key{Special: KeyUp})
	f.Handle(Key{Special: KeyUp})
	require.Equal(t, FocusSession, f.Focus())

	f.Handle(Key{Special: KeyRight})
	assert.Equal(t, 1, f.Session.Cur())
}

func TestForm_TypingRoutesToFocusedCredential(t *testing.T) {
	f := newTestForm(t)
	f.Handle(Key{Rune: 'h'})
	f.Handle(Key{Rune: 'i'})
	assert.Equal(t, "hi", f.Password.String())
	assert.Equal(t, "", f.Login.String())
}
