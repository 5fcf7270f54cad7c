package vty

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLastError_SetGetClear(t *testing.T) {
	defer ClearLastError()

	assert.Nil(t, LastError())

	e := NewError(KindPamAuth, errors.New("boom"))
	SetLastError(e)
	assert.Equal(t, e, LastError())

	ClearLastError()
	assert.Nil(t, LastError())
}

func TestError_UnwrapExposesCause(t *testing.T) {
	cause := errors.New("underlying")
	e := NewError(KindMlockErr, cause)

	assert.Equal(t, cause, errors.Unwrap(e))
	assert.Equal(t, "underlying", e.Error())
}

func TestError_NilCauseHasFallbackMessage(t *testing.T) {
	e := NewError(KindConsoleDev, nil)
	assert.Equal(t, "vty error", e.Error())
}
