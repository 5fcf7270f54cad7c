package vty

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvValue_FindsKey(t *testing.T) {
	env := []string{"HOME=/home/alice", "DISPLAY=:1", "LANG=C"}
	assert.Equal(t, ":1", envValue(env, "DISPLAY"))
}

func TestEnvValue_MissingKeyReturnsEmpty(t *testing.T) {
	env := []string{"HOME=/home/alice"}
	assert.Equal(t, "", envValue(env, "DISPLAY"))
}

func TestSessionType_MapsKindToXDGValue(t *testing.T) {
	assert.Equal(t, "wayland", sessionType(Wayland))
	assert.Equal(t, "x11", sessionType(Xorg))
	assert.Equal(t, "x11", sessionType(XInitrc))
	assert.Equal(t, "tty", sessionType(Shell))
}
