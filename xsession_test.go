package vty

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeDisplay_ReturnsIndexWithinBounds(t *testing.T) {
	// freeDisplay scans the real /tmp, so this only exercises the bound
	// and return-type contract rather than asserting a specific index.
	d := freeDisplay()
	assert.GreaterOrEqual(t, d, 0)
	assert.LessOrEqual(t, d, 200)
}

func TestXauthCookiePath_PrefersRuntimeDir(t *testing.T) {
	usr := &SysUser{HomeDir: t.TempDir()}
	path := xauthCookiePath(usr, "/run/user/1000", "/home/alice/.config")
	assert.Equal(t, filepath.Join("/run/user/1000", "lyxauth"), path)
}

func TestXauthCookiePath_FallsBackToConfigHome(t *testing.T) {
	usr := &SysUser{HomeDir: t.TempDir()}
	path := xauthCookiePath(usr, "", "/home/alice/.config")
	assert.Equal(t, filepath.Join("/home/alice/.config", "ly", "lyxauth"), path)
}

func TestXauthCookiePath_FallsBackToHomeConfigDir(t *testing.T) {
	home := t.TempDir()
	usr := &SysUser{HomeDir: home}
	path := xauthCookiePath(usr, "", "")
	assert.Equal(t, filepath.Join(home, ".config", "ly", "lyxauth"), path)

	info, err := os.Stat(filepath.Join(home, ".config", "ly"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWaitXReady_ReturnsErrorWhenServerDiesBeforeSocket(t *testing.T) {
	display := fmt.Sprintf(":%d", freeDisplay()+100)
	cmd := exec.Command("true")
	require.NoError(t, cmd.Start())
	pid := cmd.Process.Pid
	cmd.Wait()

	err := waitXReady(pid, display)
	assert.NotNil(t, err)
}
