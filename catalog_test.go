package vty

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_EmptyDirsYieldOnlyBuiltins(t *testing.T) {
	empty := t.TempDir()

	cat, err := Scan(".xinitrc", empty, empty, true)
	require.Nil(t, err)
	require.Equal(t, 2, cat.Len())
	assert.Equal(t, Shell, cat.At(0).Kind)
	assert.Equal(t, XInitrc, cat.At(1).Kind)
}

func TestScan_MissingDirsAreNonFatal(t *testing.T) {
	cat, err := Scan(".xinitrc", "/nonexistent/xsessions", "/nonexistent/wayland-sessions", true)
	require.NotNil(t, err)
	require.Equal(t, 2, cat.Len())
}

func TestScan_CrawlsXSessionsAfterWaylandAfterBuiltins(t *testing.T) {
	xDir := t.TempDir()
	waylandDir := t.TempDir()

	writeDesktop(t, xDir, "gnome.desktop", "GNOME", "/usr/bin/gnome-session")
	writeDesktop(t, waylandDir, "sway.desktop", "Sway", "/usr/bin/sway")

	cat, err := Scan(".xinitrc", xDir, waylandDir, true)
	require.Nil(t, err)
	require.Equal(t, 4, cat.Len())

	assert.Equal(t, Shell, cat.At(0).Kind)
	assert.Equal(t, XInitrc, cat.At(1).Kind)
	assert.Equal(t, Wayland, cat.At(2).Kind)
	assert.Contains(t, cat.At(2).DisplayName, "Sway")
	assert.Contains(t, cat.At(2).DisplayName, "(Wayland)")
	assert.Equal(t, Xorg, cat.At(3).Kind)
	assert.Equal(t, "GNOME", cat.At(3).DisplayName)
}

func TestScan_SkipsEntriesMissingNameOrExec(t *testing.T) {
	xDir := t.TempDir()
	writeDesktop(t, xDir, "broken.desktop", "", "/usr/bin/broken")

	cat, err := Scan(".xinitrc", xDir, t.TempDir(), true)
	require.Nil(t, err)
	assert.Equal(t, 2, cat.Len())
}

func TestCatalog_MoveClampsAtBounds(t *testing.T) {
	cat := NewCatalog(".xinitrc")

	cat.MoveLeft()
	assert.Equal(t, 0, cat.Cur())

	cat.MoveRight()
	cat.MoveRight()
	assert.Equal(t, cat.Len()-1, cat.Cur())
}

func TestCatalog_SetCurIgnoresOutOfRange(t *testing.T) {
	cat := NewCatalog(".xinitrc")
	cat.SetCur(99)
	assert.Equal(t, 0, cat.Cur())
	cat.SetCur(1)
	assert.Equal(t, 1, cat.Cur())
}

func writeDesktop(t *testing.T, dir, name, displayName, exec string) {
	t.Helper()
	content := "[Desktop Entry]\n"
	if displayName != "" {
		content += "Name=" + displayName + "\n"
	}
	content += "Exec=" + exec + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}
